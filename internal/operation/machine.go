package operation

import (
	"context"
	"sync"
	"time"

	"github.com/yourorg/trading-dashboard/internal/client"
	"github.com/yourorg/trading-dashboard/internal/model"

	"go.uber.org/zap"
)

const notifyTimeout = 5 * time.Second

// Runner performs the backend call for one submission
type Runner[P, T any] func(ctx context.Context, params P) (*T, error)

// Notifier receives the user-visible outcome of an operation
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// Config describes one kind of operation
type Config[T any] struct {
	Name           string
	Timeout        time.Duration
	SuccessMessage func(result *T) string
	FailureMessage string
}

// Machine tracks a single user action through Idle, Running, Succeeded and Failed.
// At most one request is in flight per machine. Each submission gets a generation,
// and a resolution from any generation but the latest is discarded.
// Observers receive transitions in the order they happen.
type Machine[P, T any] struct {
	cfg      Config[T]
	run      Runner[P, T]
	notifier Notifier
	logger   *zap.Logger

	// transition is held from a state change until its observers have run
	transition sync.Mutex

	mu         sync.Mutex
	state      State[T]
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
	observers  []func(State[T])
}

// NewMachine creates an idle operation machine
func NewMachine[P, T any](cfg Config[T], run Runner[P, T], notifier Notifier, logger *zap.Logger) *Machine[P, T] {
	done := make(chan struct{})
	close(done)
	return &Machine[P, T]{
		cfg:      cfg,
		run:      run,
		notifier: notifier,
		logger:   logger.With(zap.String("operation", cfg.Name)),
		state:    State[T]{Operation: cfg.Name, Status: StatusIdle},
		done:     done,
	}
}

// Name returns the operation name
func (m *Machine[P, T]) Name() string {
	return m.cfg.Name
}

// State returns a snapshot of the current state
func (m *Machine[P, T]) State() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Done returns a channel closed once the current submission resolves or is abandoned
func (m *Machine[P, T]) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// OnChange registers fn to receive every state transition
func (m *Machine[P, T]) OnChange(fn func(State[T])) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Submit starts the operation in the background. It returns false without
// issuing a request when one is already in flight.
func (m *Machine[P, T]) Submit(params P) bool {
	ctx, gen, _, ok := m.begin()
	if !ok {
		return false
	}
	go m.execute(ctx, gen, params)
	return true
}

// Execute starts the operation and waits until it resolves or ctx is done.
// The second result is false when a request was already in flight.
func (m *Machine[P, T]) Execute(ctx context.Context, params P) (State[T], bool) {
	runCtx, gen, done, ok := m.begin()
	if !ok {
		return m.State(), false
	}
	go m.execute(runCtx, gen, params)

	select {
	case <-done:
	case <-ctx.Done():
	}
	return m.State(), true
}

// Abandon cancels the in-flight request and returns the machine to Idle.
// A response that arrives later is discarded.
func (m *Machine[P, T]) Abandon() bool {
	m.transition.Lock()
	defer m.transition.Unlock()

	m.mu.Lock()
	if m.state.Status != StatusRunning {
		m.mu.Unlock()
		return false
	}
	m.generation++
	m.cancel()
	m.cancel = nil
	close(m.done)
	m.state = State[T]{Operation: m.cfg.Name, Status: StatusIdle, Generation: m.generation}
	snapshot := m.state
	m.mu.Unlock()

	m.logger.Info("Operation abandoned", zap.Uint64("generation", snapshot.Generation))
	m.publish(snapshot)
	return true
}

func (m *Machine[P, T]) begin() (context.Context, uint64, <-chan struct{}, bool) {
	m.transition.Lock()
	defer m.transition.Unlock()

	m.mu.Lock()
	if m.state.Status == StatusRunning {
		m.mu.Unlock()
		m.logger.Debug("Submission ignored, operation already running")
		return nil, 0, nil, false
	}

	var ctx context.Context
	if m.cfg.Timeout > 0 {
		ctx, m.cancel = context.WithTimeout(context.Background(), m.cfg.Timeout)
	} else {
		ctx, m.cancel = context.WithCancel(context.Background())
	}

	m.generation++
	m.done = make(chan struct{})
	now := time.Now()
	m.state = State[T]{
		Operation:  m.cfg.Name,
		Status:     StatusRunning,
		Generation: m.generation,
		StartedAt:  &now,
	}
	snapshot := m.state
	done := m.done
	m.mu.Unlock()

	m.logger.Info("Operation started", zap.Uint64("generation", snapshot.Generation))
	m.publish(snapshot)
	return ctx, snapshot.Generation, done, true
}

func (m *Machine[P, T]) execute(ctx context.Context, gen uint64, params P) {
	result, err := m.run(ctx, params)
	m.resolve(gen, result, err)
}

func (m *Machine[P, T]) resolve(gen uint64, result *T, err error) {
	m.transition.Lock()
	m.mu.Lock()
	if gen != m.generation || m.state.Status != StatusRunning {
		current := m.generation
		m.mu.Unlock()
		m.transition.Unlock()
		m.logger.Info("Discarding stale response",
			zap.Uint64("generation", gen),
			zap.Uint64("current_generation", current))
		return
	}

	m.cancel()
	m.cancel = nil
	now := time.Now()
	next := m.state
	next.FinishedAt = &now

	var notification model.Notification
	if err == nil && result != nil {
		next.Status = StatusSucceeded
		next.Result = result
		notification = model.Notification{
			Type:      model.NotificationSuccess,
			Operation: m.cfg.Name,
			Message:   m.successMessage(result),
		}
	} else {
		if err == nil {
			err = client.ErrNoResult
		}
		next.Status = StatusFailed
		next.Reason = m.cfg.FailureMessage
		next.Cause = err.Error()
		next.ErrorKind = string(client.KindOf(err))
		next.StatusCode = client.StatusCodeOf(err)
		notification = model.Notification{
			Type:      model.NotificationError,
			Operation: m.cfg.Name,
			Message:   m.cfg.FailureMessage,
		}
	}
	m.state = next
	done := m.done
	m.mu.Unlock()

	if next.Status == StatusSucceeded {
		m.logger.Info("Operation succeeded", zap.Uint64("generation", gen))
	} else {
		m.logger.Warn("Operation failed",
			zap.Uint64("generation", gen),
			zap.String("error_kind", next.ErrorKind),
			zap.Error(err))
	}

	m.publish(next)
	close(done)
	m.transition.Unlock()

	m.notify(notification)
}

func (m *Machine[P, T]) successMessage(result *T) string {
	if m.cfg.SuccessMessage == nil {
		return m.cfg.Name + " completed"
	}
	return m.cfg.SuccessMessage(result)
}

func (m *Machine[P, T]) publish(s State[T]) {
	m.mu.Lock()
	observers := make([]func(State[T]), len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}

func (m *Machine[P, T]) notify(n model.Notification) {
	if m.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := m.notifier.Notify(ctx, n); err != nil {
		m.logger.Error("Failed to deliver notification", zap.Error(err))
	}
}
