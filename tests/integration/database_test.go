package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestDatabase_OfficerCRUD tests officer database operations
func TestDatabase_OfficerCRUD(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}

	SetupSchema(t, env.DB)
	CleanDatabase(t, env.DB)

	ctx := context.Background()
	officerID := uuid.New().String()

	t.Run("CreateOfficer", func(t *testing.T) {
		_, err := env.DB.ExecContext(ctx, `
			INSERT INTO officers (id, email, password, role, status, rank, first_name, last_name, badge_number, department, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, officerID, "reyes@lpd.example.com", "hashed_password", "officer", "Active",
			"Sergeant", "Elena", "Reyes", "4411", "Larkfield PD", time.Now(), time.Now())

		if err != nil {
			t.Fatalf("Failed to create officer: %v", err)
		}
	})

	t.Run("ReadOfficer", func(t *testing.T) {
		var id, email, badge string
		err := env.DB.QueryRowContext(ctx, `
			SELECT id, email, badge_number FROM officers WHERE id = $1
		`, officerID).Scan(&id, &email, &badge)

		if err != nil {
			t.Fatalf("Failed to read officer: %v", err)
		}

		if email != "reyes@lpd.example.com" {
			t.Errorf("Expected email 'reyes@lpd.example.com', got '%s'", email)
		}

		if badge != "4411" {
			t.Errorf("Expected badge '4411', got '%s'", badge)
		}
	})

	t.Run("BadgeUniqueness", func(t *testing.T) {
		_, err := env.DB.ExecContext(ctx, `
			INSERT INTO officers (id, email, password, badge_number, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New().String(), "other@lpd.example.com", "hashed", "4411", time.Now(), time.Now())

		if err == nil {
			t.Error("Expected duplicate badge number to be rejected")
		}
	})

	t.Run("UpdateOfficer", func(t *testing.T) {
		_, err := env.DB.ExecContext(ctx, `
			UPDATE officers SET rank = $1, updated_at = $2 WHERE id = $3
		`, "Lieutenant", time.Now(), officerID)

		if err != nil {
			t.Fatalf("Failed to update officer: %v", err)
		}

		var rank string
		env.DB.QueryRowContext(ctx, `SELECT rank FROM officers WHERE id = $1`, officerID).Scan(&rank)

		if rank != "Lieutenant" {
			t.Errorf("Expected rank 'Lieutenant', got '%s'", rank)
		}
	})

	t.Run("DeleteOfficer", func(t *testing.T) {
		_, err := env.DB.ExecContext(ctx, `DELETE FROM officers WHERE id = $1`, officerID)
		if err != nil {
			t.Fatalf("Failed to delete officer: %v", err)
		}

		var count int
		env.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM officers WHERE id = $1`, officerID).Scan(&count)

		if count != 0 {
			t.Error("Officer should have been deleted")
		}
	})
}

// TestDatabase_StatuteSearch tests the statute lookup queries
func TestDatabase_StatuteSearch(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}

	SetupSchema(t, env.DB)
	CleanDatabase(t, env.DB)

	ctx := context.Background()

	seed := []struct {
		id, title, description string
	}{
		{"14:67", "Theft", "The misappropriation or taking of anything of value which belongs to another."},
		{"14:98", "Operating While Intoxicated", "Operating a motor vehicle while under the influence."},
		{"14:108", "Resisting an Officer", "Intentional interference with an officer acting in official capacity."},
	}

	for _, s := range seed {
		_, err := env.DB.ExecContext(ctx, `
			INSERT INTO statutes (id, title, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, s.id, s.title, s.description, time.Now(), time.Now())
		if err != nil {
			t.Fatalf("Failed to seed statute %s: %v", s.id, err)
		}
	}

	t.Run("SearchByTitle", func(t *testing.T) {
		rows, err := env.DB.QueryContext(ctx, `
			SELECT id, title FROM statutes WHERE id ILIKE $1 OR title ILIKE $1 ORDER BY id
		`, "%theft%")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		defer rows.Close()

		var ids []string
		for rows.Next() {
			var id, title string
			if err := rows.Scan(&id, &title); err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			ids = append(ids, id)
		}

		if len(ids) != 1 || ids[0] != "14:67" {
			t.Errorf("Expected [14:67], got %v", ids)
		}
	})

	t.Run("SearchByID", func(t *testing.T) {
		rows, err := env.DB.QueryContext(ctx, `
			SELECT id FROM statutes WHERE id ILIKE $1 OR title ILIKE $1 ORDER BY id
		`, "%14:%")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		defer rows.Close()

		var count int
		for rows.Next() {
			count++
		}

		if count != 3 {
			t.Errorf("Expected 3 statutes, got %d", count)
		}
	})

	t.Run("SearchNoMatch", func(t *testing.T) {
		rows, err := env.DB.QueryContext(ctx, `
			SELECT id FROM statutes WHERE id ILIKE $1 OR title ILIKE $1
		`, "%arson%")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		defer rows.Close()

		if rows.Next() {
			t.Error("Expected no results for arson")
		}
	})
}

// TestDatabase_ReportLifecycle tests the incident report workflow
func TestDatabase_ReportLifecycle(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}

	SetupSchema(t, env.DB)
	CleanDatabase(t, env.DB)

	ctx := context.Background()
	officerID := uuid.New().String()

	_, err := env.DB.ExecContext(ctx, `
		INSERT INTO officers (id, email, password, badge_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, officerID, "patrol@lpd.example.com", "hashed", "7788", time.Now(), time.Now())
	if err != nil {
		t.Fatalf("Failed to create officer: %v", err)
	}

	reportID := uuid.New().String()

	t.Run("CreateDraft", func(t *testing.T) {
		_, err := env.DB.ExecContext(ctx, `
			INSERT INTO reports (id, officer_id, incident_type, location, narrative, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, reportID, officerID, "traffic stop", "Main St and 5th Ave",
			"Initiated a traffic stop on a black sedan.", "draft", time.Now(), time.Now())

		if err != nil {
			t.Fatalf("Failed to create report: %v", err)
		}
	})

	t.Run("MarkReviewed", func(t *testing.T) {
		_, err := env.DB.ExecContext(ctx, `
			UPDATE reports SET status = $1, updated_at = $2 WHERE id = $3
		`, "reviewed", time.Now(), reportID)

		if err != nil {
			t.Fatalf("Failed to update report: %v", err)
		}

		var status string
		env.DB.QueryRowContext(ctx, `SELECT status FROM reports WHERE id = $1`, reportID).Scan(&status)

		if status != "reviewed" {
			t.Errorf("Expected status 'reviewed', got '%s'", status)
		}
	})

	t.Run("ListByOfficerNewestFirst", func(t *testing.T) {
		// A second, later report should come back first.
		laterID := uuid.New().String()
		_, err := env.DB.ExecContext(ctx, `
			INSERT INTO reports (id, officer_id, incident_type, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, laterID, officerID, "domestic call", "draft", time.Now().Add(time.Minute), time.Now().Add(time.Minute))
		if err != nil {
			t.Fatalf("Failed to create second report: %v", err)
		}

		rows, err := env.DB.QueryContext(ctx, `
			SELECT id FROM reports WHERE officer_id = $1 ORDER BY created_at DESC
		`, officerID)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		defer rows.Close()

		var ids []string
		for rows.Next() {
			var id string
			rows.Scan(&id)
			ids = append(ids, id)
		}

		if len(ids) != 2 {
			t.Fatalf("Expected 2 reports, got %d", len(ids))
		}
		if ids[0] != laterID {
			t.Errorf("Expected newest report first, got %v", ids)
		}
	})
}
