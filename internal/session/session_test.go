package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/client"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/operation"
	"github.com/yourorg/trading-dashboard/internal/websocket"
)

type fakeBackend struct {
	release chan struct{}
	err     error
}

func (f *fakeBackend) GenerateSignals(ctx context.Context, symbol, strategy, timeframe string) (*model.SignalSetResult, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &model.SignalSetResult{Symbol: symbol, Strategy: strategy, SignalsCount: 2, Signals: make([]model.Signal, 2)}, nil
}

func (f *fakeBackend) RunBacktest(ctx context.Context, request model.BacktestRequest) (*model.BacktestResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.BacktestResponse{Symbol: request.Symbol, Results: &model.BacktestResult{TotalTrades: 10}}, nil
}

type recordingHub struct {
	mu       sync.Mutex
	channels []string
}

func (r *recordingHub) PublishToChannel(channel string, msgType websocket.MessageType, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels = append(r.channels, channel)
}

func (r *recordingHub) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}

func TestSessionSignalsSucceedAndNotify(t *testing.T) {
	hub := &recordingHub{}
	store := NewStore(&fakeBackend{}, Options{Hub: hub}, zap.NewNop())
	sess := store.Create()

	state, started := sess.Signals.Execute(context.Background(), model.SignalForm{Symbol: "EURUSD", Strategy: "silver_bullet"})
	require.True(t, started)
	assert.Equal(t, operation.StatusSucceeded, state.Status)

	require.Eventually(t, func() bool { return sess.Feed.Len() == 1 }, time.Second, 5*time.Millisecond)
	notes := sess.Feed.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, "Generated 2 signals", notes[0].Message)
	assert.Equal(t, sess.ID, notes[0].SessionID)
	assert.NotEmpty(t, notes[0].ID)

	assert.Equal(t, 2, hub.count())
	hub.mu.Lock()
	assert.Equal(t, websocket.OperationsChannel(sess.ID), hub.channels[0])
	hub.mu.Unlock()
}

func TestSessionBacktestFailureNotifies(t *testing.T) {
	store := NewStore(&fakeBackend{err: &client.Error{Kind: client.KindStatus, StatusCode: 500}}, Options{}, zap.NewNop())
	sess := store.Create()

	state, _ := sess.Backtest.Execute(context.Background(), model.DefaultBacktestRequest())
	assert.Equal(t, operation.StatusFailed, state.Status)

	require.Eventually(t, func() bool { return sess.Feed.Len() == 1 }, time.Second, 5*time.Millisecond)
	notes := sess.Feed.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationError, notes[0].Type)
	assert.Equal(t, "Failed to run backtest", notes[0].Message)
}

func TestSessionKeepsLastSuccessfulBacktest(t *testing.T) {
	backend := &fakeBackend{}
	store := NewStore(backend, Options{}, zap.NewNop())
	sess := store.Create()
	assert.Nil(t, sess.LastBacktest())

	state, _ := sess.Backtest.Execute(context.Background(), model.DefaultBacktestRequest())
	require.Equal(t, operation.StatusSucceeded, state.Status)
	require.NotNil(t, sess.LastBacktest())

	backend.err = &client.Error{Kind: client.KindTransport}
	state, _ = sess.Backtest.Execute(context.Background(), model.DefaultBacktestRequest())
	assert.Equal(t, operation.StatusFailed, state.Status)
	require.NotNil(t, sess.LastBacktest())
	assert.Equal(t, 10, sess.LastBacktest().TotalTrades)
}

func TestSessionsAreIsolated(t *testing.T) {
	backend := &fakeBackend{release: make(chan struct{})}
	store := NewStore(backend, Options{}, zap.NewNop())
	a := store.Create()
	b := store.Create()

	require.True(t, a.Signals.Submit(model.SignalForm{Symbol: "EURUSD", Strategy: "silver_bullet"}))
	assert.True(t, a.Signals.State().Running())
	assert.Equal(t, operation.StatusIdle, b.Signals.State().Status)

	close(backend.release)
	<-a.Signals.Done()
}

func TestStoreGetOrCreateReusesSession(t *testing.T) {
	store := NewStore(&fakeBackend{}, Options{}, zap.NewNop())
	first := store.GetOrCreate("abc")
	second := store.GetOrCreate("abc")
	assert.Same(t, first, second)
	assert.Equal(t, 1, store.Len())

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestStoreEvictAbandonsRunningOperations(t *testing.T) {
	backend := &fakeBackend{release: make(chan struct{})}
	defer close(backend.release)
	store := NewStore(backend, Options{IdleTimeout: time.Minute}, zap.NewNop())
	sess := store.Create()
	require.True(t, sess.Signals.Submit(model.SignalForm{Symbol: "EURUSD", Strategy: "silver_bullet"}))

	assert.Equal(t, 0, store.Evict(time.Now().Add(-time.Minute)))
	assert.Equal(t, 1, store.Evict(time.Now().Add(time.Second)))

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, operation.StatusIdle, sess.Signals.State().Status)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, expiresAt, err := issuer.Issue("session-1")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	id, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)
}

func TestTokenRejections(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	other, _, err := NewTokenIssuer("other", time.Hour).Issue("session-1")
	require.NoError(t, err)
	_, err = issuer.Validate(other)
	assert.Error(t, err)

	expired, _, err := NewTokenIssuer("secret", -time.Minute).Issue("session-1")
	require.NoError(t, err)
	_, err = issuer.Validate(expired)
	assert.Error(t, err)

	wrongType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "session-1",
		"type": "access",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.Validate(wrongType)
	assert.Error(t, err)

	_, err = issuer.Validate("not-a-token")
	assert.Error(t, err)
}
