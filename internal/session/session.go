// Package session holds the per-browser-session operation state.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/notify"
	"github.com/yourorg/trading-dashboard/internal/operation"
	"github.com/yourorg/trading-dashboard/internal/websocket"

	"go.uber.org/zap"
)

// Operation names
const (
	OperationSignals  = "signals"
	OperationBacktest = "backtest"
)

// Backend is the part of the analytics client that sessions submit work to
type Backend interface {
	GenerateSignals(ctx context.Context, symbol, strategy, timeframe string) (*model.SignalSetResult, error)
	RunBacktest(ctx context.Context, request model.BacktestRequest) (*model.BacktestResponse, error)
}

type (
	// SignalsMachine tracks signal generation for one session
	SignalsMachine = operation.Machine[model.SignalForm, model.SignalSetResult]
	// BacktestMachine tracks backtest runs for one session
	BacktestMachine = operation.Machine[model.BacktestRequest, model.BacktestResponse]
)

// Session is the state owned by one dashboard visitor
type Session struct {
	ID       string
	Signals  *SignalsMachine
	Backtest *BacktestMachine
	Feed     *notify.Feed
	Notifier notify.Notifier

	mu           sync.Mutex
	lastSeen     time.Time
	lastBacktest *model.BacktestResult
	example      *model.BacktestResult
}

// Touch records activity on the session
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// LastSeen returns the time of the last activity
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// LastBacktest returns the result of the latest successful backtest. It stays
// set while later runs are in flight or fail.
func (s *Session) LastBacktest() *model.BacktestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBacktest
}

// Example returns the example backtest already shown to this session, if any
func (s *Session) Example() *model.BacktestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.example
}

// SetExample keeps the example backtest shown to this session
func (s *Session) SetExample(example *model.BacktestResult) {
	s.mu.Lock()
	s.example = example
	s.mu.Unlock()
}

func (s *Session) recordBacktest(state operation.State[model.BacktestResponse]) {
	response, ok := state.Succeeded()
	if !ok || response == nil || response.Results == nil {
		return
	}
	s.mu.Lock()
	s.lastBacktest = response.Results
	s.mu.Unlock()
}

// Abandon drops every in-flight operation of the session
func (s *Session) Abandon() {
	s.Signals.Abandon()
	s.Backtest.Abandon()
}

// Notify sends a notification through the session's sinks
func (s *Session) Notify(ctx context.Context, n model.Notification) error {
	return s.Notifier.Notify(ctx, n)
}

func newSession(id string, opts Options, backend Backend, logger *zap.Logger) *Session {
	feed := notify.NewFeed(opts.FeedSize)
	sinks := notify.Multi{feed}
	sinks = append(sinks, opts.Sinks...)
	notifier := notify.NewScoped(id, sinks)
	log := logger.With(zap.String("session_id", id))

	signals := operation.NewMachine(operation.Config[model.SignalSetResult]{
		Name:    OperationSignals,
		Timeout: opts.OperationTimeout,
		SuccessMessage: func(r *model.SignalSetResult) string {
			return fmt.Sprintf("Generated %d signals", r.SignalsCount)
		},
		FailureMessage: "Failed to generate signals",
	}, func(ctx context.Context, form model.SignalForm) (*model.SignalSetResult, error) {
		return backend.GenerateSignals(ctx, form.Symbol, form.Strategy, form.Timeframe)
	}, notifier, log)

	backtest := operation.NewMachine(operation.Config[model.BacktestResponse]{
		Name:    OperationBacktest,
		Timeout: opts.OperationTimeout,
		SuccessMessage: func(*model.BacktestResponse) string {
			return "Backtest completed successfully!"
		},
		FailureMessage: "Failed to run backtest",
	}, backend.RunBacktest, notifier, log)

	sess := &Session{
		ID:       id,
		Signals:  signals,
		Backtest: backtest,
		Feed:     feed,
		Notifier: notifier,
		lastSeen: time.Now(),
	}
	backtest.OnChange(sess.recordBacktest)

	if opts.Hub != nil {
		channel := websocket.OperationsChannel(id)
		signals.OnChange(func(s operation.State[model.SignalSetResult]) {
			opts.Hub.PublishToChannel(channel, websocket.MsgTypeOperationUpdate, s)
		})
		backtest.OnChange(func(s operation.State[model.BacktestResponse]) {
			opts.Hub.PublishToChannel(channel, websocket.MsgTypeOperationUpdate, s)
		})
	}

	return sess
}
