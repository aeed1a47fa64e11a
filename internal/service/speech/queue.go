package speech

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/observability/telemetry"
	"github.com/larkfield/lark-server/internal/ports"
)

// ErrDiscarded is delivered on a request's done channel when Stop drops it
// from the queue before playback.
var ErrDiscarded = errors.New("speech: request discarded")

// ErrClosed is returned for requests enqueued after Close.
var ErrClosed = errors.New("speech: queue closed")

type request struct {
	text string
	opts domain.VoiceOptions
	done chan error
}

// Queue serializes utterances through a single synthesizer. Requests play
// strictly in arrival order; a failed utterance is reported on its own done
// channel and never blocks the ones behind it.
type Queue struct {
	synth ports.SpeechSynthesizer
	log   *zap.Logger

	mu       sync.Mutex
	defaults domain.VoiceOptions
	pending  []*request
	speaking bool
	closed   bool
	cancel   context.CancelFunc

	wake chan struct{}
	quit chan struct{}
	wg   sync.WaitGroup
}

func NewQueue(synth ports.SpeechSynthesizer, log *zap.Logger) *Queue {
	q := &Queue{
		synth:    synth,
		log:      log,
		defaults: domain.DefaultVoiceOptions(),
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
	}
	q.wg.Add(1)
	go q.drain()
	return q
}

var _ ports.SpeechQueue = (*Queue)(nil)

// Enqueue appends an utterance and returns immediately. The returned channel
// is buffered and receives exactly one value when the utterance finishes,
// fails, or is discarded.
func (q *Queue) Enqueue(text string, opts *domain.VoiceOptions) <-chan error {
	done := make(chan error, 1)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		done <- ErrClosed
		return done
	}
	q.pending = append(q.pending, &request{
		text: text,
		opts: q.merged(opts),
		done: done,
	})
	telemetry.SpeechQueueDepth.Set(float64(len(q.pending)))
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return done
}

// Speak enqueues the utterance and blocks until it has played. The queue
// keeps playing the utterance even if ctx is cancelled first; cancellation
// only releases the caller.
func (q *Queue) Speak(ctx context.Context, text string, opts *domain.VoiceOptions) error {
	done := q.Enqueue(text, opts)
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop interrupts the current utterance and discards everything queued behind
// it. Each discarded request receives ErrDiscarded.
func (q *Queue) Stop() {
	q.mu.Lock()
	dropped := q.pending
	q.pending = nil
	telemetry.SpeechQueueDepth.Set(0)
	cancel := q.cancel
	q.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, r := range dropped {
		r.done <- ErrDiscarded
	}
}

// SetDefaultOptions replaces the options applied when Enqueue is called with
// a nil or partial override.
func (q *Queue) SetDefaultOptions(opts domain.VoiceOptions) {
	q.mu.Lock()
	q.defaults = opts
	q.mu.Unlock()
}

// IsSpeaking reports whether an utterance is playing or waiting.
func (q *Queue) IsSpeaking() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.speaking || len(q.pending) > 0
}

// Close stops the drain worker. Pending requests are discarded as in Stop.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.Stop()
	close(q.quit)
	q.wg.Wait()
}

// merged overlays the per-request override on the queue defaults. Zero-valued
// fields in the override fall back to the default.
func (q *Queue) merged(opts *domain.VoiceOptions) domain.VoiceOptions {
	out := q.defaults
	if opts == nil {
		return out
	}
	if opts.Voice != "" {
		out.Voice = opts.Voice
	}
	if opts.Speed > 0 {
		out.Speed = opts.Speed
	}
	if opts.Volume > 0 {
		out.Volume = opts.Volume
	}
	return out
}

func (q *Queue) drain() {
	defer q.wg.Done()
	for {
		select {
		case <-q.quit:
			return
		case <-q.wake:
		}

		for {
			q.mu.Lock()
			if len(q.pending) == 0 {
				q.speaking = false
				q.mu.Unlock()
				break
			}
			req := q.pending[0]
			q.pending = q.pending[1:]
			q.speaking = true
			telemetry.SpeechQueueDepth.Set(float64(len(q.pending)))

			ctx, cancel := context.WithCancel(context.Background())
			q.cancel = cancel
			q.mu.Unlock()

			start := time.Now()
			err := q.synth.Speak(ctx, req.text, req.opts)
			cancel()
			telemetry.SpeechLatency.Observe(time.Since(start).Seconds())

			q.mu.Lock()
			q.cancel = nil
			q.mu.Unlock()

			if err != nil {
				q.log.Warn("utterance playback failed", zap.Error(err))
			}
			req.done <- err
		}
	}
}
