package assistant

import "testing"

func TestContext_RecentCommandsNewestFirst(t *testing.T) {
	// Arrange
	ctx := NewContext()

	// Act
	ctx.AddRecentCommand("first")
	ctx.AddRecentCommand("second")
	ctx.AddRecentCommand("third")

	// Assert
	got := ctx.RecentCommands()
	if len(got) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(got))
	}
	if got[0] != "third" || got[2] != "first" {
		t.Errorf("expected newest first, got %v", got)
	}
}

func TestContext_HistoryCappedAtFive(t *testing.T) {
	ctx := NewContext()

	for _, cmd := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		ctx.AddRecentCommand(cmd)
	}

	got := ctx.RecentCommands()
	if len(got) != 5 {
		t.Fatalf("expected history capped at 5, got %d", len(got))
	}
	if got[0] != "seven" {
		t.Errorf("expected newest entry first, got %s", got[0])
	}
	if got[4] != "three" {
		t.Errorf("expected oldest surviving entry last, got %s", got[4])
	}
}

func TestContext_LatestThreat(t *testing.T) {
	ctx := NewContext()

	if _, ok := ctx.LatestThreat(); ok {
		t.Fatal("expected no threat on fresh context")
	}

	ctx.AddDetectedThreat("Glass breaking")
	ctx.AddDetectedThreat("Gunshot")

	latest, ok := ctx.LatestThreat()
	if !ok {
		t.Fatal("expected a threat")
	}
	if latest != "Gunshot" {
		t.Errorf("expected most recent threat, got %s", latest)
	}
}

func TestContext_ReturnedSlicesAreCopies(t *testing.T) {
	ctx := NewContext()
	ctx.AddRecentCommand("original")

	got := ctx.RecentCommands()
	got[0] = "mutated"

	if ctx.RecentCommands()[0] != "original" {
		t.Error("caller mutation leaked into context history")
	}
}

func TestContext_OfflineNote(t *testing.T) {
	ctx := NewContext()

	if note := ctx.OfflineNote(); note != "" {
		t.Errorf("expected empty note while online, got %q", note)
	}

	ctx.SetOffline(true)

	if note := ctx.OfflineNote(); note != " Using cached offline data." {
		t.Errorf("unexpected offline note %q", note)
	}
}
