package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for utterance to finish")
		return nil
	}
}

func TestQueue_PlaysInArrivalOrder(t *testing.T) {
	// Arrange
	synth := &mocks.MockSpeechSynthesizer{}
	queue := NewQueue(synth, newTestLogger())
	defer queue.Close()

	// Act
	first := queue.Enqueue("first", nil)
	second := queue.Enqueue("second", nil)
	third := queue.Enqueue("third", nil)

	waitDone(t, first)
	waitDone(t, second)
	waitDone(t, third)

	// Assert
	spoken := synth.SpokenTexts()
	if len(spoken) != 3 {
		t.Fatalf("expected 3 utterances, got %d", len(spoken))
	}
	if spoken[0] != "first" || spoken[1] != "second" || spoken[2] != "third" {
		t.Errorf("expected arrival order preserved, got %v", spoken)
	}
}

func TestQueue_OneUtteranceAtATime(t *testing.T) {
	// Arrange: a synthesizer that fails the test if entered concurrently
	var mu sync.Mutex
	active := 0
	synth := &mocks.MockSpeechSynthesizer{
		SpeakFunc: func(ctx context.Context, text string, opts domain.VoiceOptions) error {
			mu.Lock()
			active++
			if active > 1 {
				mu.Unlock()
				t.Error("two utterances in flight at once")
				return nil
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return nil
		},
	}
	queue := NewQueue(synth, newTestLogger())
	defer queue.Close()

	// Act
	var last <-chan error
	for i := 0; i < 5; i++ {
		last = queue.Enqueue("utterance", nil)
	}

	// Assert
	waitDone(t, last)
}

func TestQueue_FailureDoesNotBlockNext(t *testing.T) {
	// Arrange
	playbackErr := errors.New("device busy")
	synth := &mocks.MockSpeechSynthesizer{
		SpeakFunc: func(ctx context.Context, text string, opts domain.VoiceOptions) error {
			if text == "broken" {
				return playbackErr
			}
			return nil
		},
	}
	queue := NewQueue(synth, newTestLogger())
	defer queue.Close()

	// Act
	first := queue.Enqueue("broken", nil)
	second := queue.Enqueue("fine", nil)

	// Assert
	if err := waitDone(t, first); !errors.Is(err, playbackErr) {
		t.Errorf("expected playback error, got %v", err)
	}
	if err := waitDone(t, second); err != nil {
		t.Errorf("expected second utterance to play, got %v", err)
	}
}

func TestQueue_StopDiscardsPending(t *testing.T) {
	// Arrange: hold the first utterance open until released
	started := make(chan struct{})
	release := make(chan struct{})
	synth := &mocks.MockSpeechSynthesizer{
		SpeakFunc: func(ctx context.Context, text string, opts domain.VoiceOptions) error {
			close(started)
			select {
			case <-release:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
	queue := NewQueue(synth, newTestLogger())
	defer queue.Close()

	playing := queue.Enqueue("playing", nil)
	<-started
	queuedA := queue.Enqueue("queued a", nil)
	queuedB := queue.Enqueue("queued b", nil)

	// Act
	queue.Stop()
	close(release)

	// Assert: queued requests are discarded, the interrupted one errors out
	if err := waitDone(t, queuedA); !errors.Is(err, ErrDiscarded) {
		t.Errorf("expected ErrDiscarded, got %v", err)
	}
	if err := waitDone(t, queuedB); !errors.Is(err, ErrDiscarded) {
		t.Errorf("expected ErrDiscarded, got %v", err)
	}
	if err := waitDone(t, playing); err == nil {
		t.Error("expected interrupted utterance to report an error")
	}
}

func TestQueue_MergesDefaultOptions(t *testing.T) {
	// Arrange
	var got []domain.VoiceOptions
	var mu sync.Mutex
	synth := &mocks.MockSpeechSynthesizer{
		SpeakFunc: func(ctx context.Context, text string, opts domain.VoiceOptions) error {
			mu.Lock()
			got = append(got, opts)
			mu.Unlock()
			return nil
		},
	}
	queue := NewQueue(synth, newTestLogger())
	defer queue.Close()
	queue.SetDefaultOptions(domain.VoiceOptions{Voice: "ash", Speed: 1.0, Volume: 1.0})

	// Act: nil opts, then a partial override
	waitDone(t, queue.Enqueue("defaults", nil))
	waitDone(t, queue.Enqueue("louder", &domain.VoiceOptions{Volume: 0.9}))

	// Assert
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("expected 2 utterances, got %d", len(got))
	}
	if got[0].Voice != "ash" || got[0].Volume != 1.0 {
		t.Errorf("expected defaults applied, got %+v", got[0])
	}
	if got[1].Voice != "ash" || got[1].Speed != 1.0 || got[1].Volume != 0.9 {
		t.Errorf("expected override merged onto defaults, got %+v", got[1])
	}
}

func TestQueue_IsSpeaking(t *testing.T) {
	// Arrange
	started := make(chan struct{})
	release := make(chan struct{})
	synth := &mocks.MockSpeechSynthesizer{
		SpeakFunc: func(ctx context.Context, text string, opts domain.VoiceOptions) error {
			close(started)
			<-release
			return nil
		},
	}
	queue := NewQueue(synth, newTestLogger())
	defer queue.Close()

	if queue.IsSpeaking() {
		t.Error("fresh queue should be idle")
	}

	// Act
	done := queue.Enqueue("hold", nil)
	<-started

	// Assert
	if !queue.IsSpeaking() {
		t.Error("expected speaking while utterance in flight")
	}

	close(release)
	waitDone(t, done)

	// The drain loop marks idle after the queue empties
	deadline := time.After(time.Second)
	for queue.IsSpeaking() {
		select {
		case <-deadline:
			t.Fatal("queue never went idle")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestQueue_SpeakBlocksUntilPlayed(t *testing.T) {
	// Arrange
	synth := &mocks.MockSpeechSynthesizer{
		SpeakFunc: func(ctx context.Context, text string, opts domain.VoiceOptions) error {
			time.Sleep(20 * time.Millisecond)
			return nil
		},
	}
	queue := NewQueue(synth, newTestLogger())
	defer queue.Close()

	// Act
	start := time.Now()
	err := queue.Speak(context.Background(), "blocking", nil)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Speak returned before playback finished")
	}
}

func TestQueue_SpeakHonorsCallerCancellation(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	synth := &mocks.MockSpeechSynthesizer{
		SpeakFunc: func(ctx context.Context, text string, opts domain.VoiceOptions) error {
			<-release
			return nil
		},
	}
	queue := NewQueue(synth, newTestLogger())
	defer func() {
		close(release)
		queue.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// Act
	err := queue.Speak(ctx, "slow", nil)

	// Assert
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}

func TestQueue_EnqueueAfterClose(t *testing.T) {
	synth := &mocks.MockSpeechSynthesizer{}
	queue := NewQueue(synth, newTestLogger())
	queue.Close()

	err := waitDone(t, queue.Enqueue("late", nil))

	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
