package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrOpen is returned when a call is rejected because the breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

// Settings tunes one named breaker.
type Settings struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultSettings suits the external AI providers: trip after five straight
// failures, probe again after thirty seconds.
func DefaultSettings(name string) Settings {
	return Settings{
		Name:             name,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Breaker wraps a gobreaker instance with the project's defaults and logging.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

func New(settings Settings, log *zap.Logger) *Breaker {
	if settings.MaxRequests == 0 {
		settings.MaxRequests = 1
	}
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Breaker{cb: cb}
}

// Execute runs fn under the breaker.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrOpen
	}
	return result, err
}

func (b *Breaker) Name() string  { return b.cb.Name() }
func (b *Breaker) State() string { return b.cb.State().String() }

func IsOpen(err error) bool { return errors.Is(err, ErrOpen) }

// Manager hands out one breaker per downstream service.
type Manager struct {
	breakers map[string]*Breaker
	mu       sync.Mutex
	log      *zap.Logger
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		breakers: make(map[string]*Breaker),
		log:      log,
	}
}

// Get returns the breaker for name, creating it with defaults if needed.
func (m *Manager) Get(name string) *Breaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.breakers[name]; ok {
		return b
	}
	b := New(DefaultSettings(name), m.log)
	m.breakers[name] = b
	return b
}

// Status reports every breaker's current state, for the health endpoint.
func (m *Manager) Status() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := make(map[string]string, len(m.breakers))
	for name, b := range m.breakers {
		status[name] = b.State()
	}
	return status
}
