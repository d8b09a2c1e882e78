package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/catalog"
	"github.com/yourorg/trading-dashboard/internal/client"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/operation"
	"github.com/yourorg/trading-dashboard/internal/session"
	"github.com/yourorg/trading-dashboard/internal/utils"
	"github.com/yourorg/trading-dashboard/internal/validator"
	"github.com/yourorg/trading-dashboard/internal/view"
)

var errBackend = &client.Error{Op: "test", Kind: client.KindStatus, StatusCode: 500}

type fakeAPI struct {
	concepts      *model.ConceptsResponse
	strategies    *model.StrategiesResponse
	example       *model.BacktestResponse
	backtest      *model.BacktestResponse
	signals       *model.SignalSetResult
	healthy       bool
	signalCalls   int32
	backtestCalls int32
}

func (f *fakeAPI) BaseURL() string { return "http://backend" }

func (f *fakeAPI) FetchCatalog(context.Context) (*model.ConceptsResponse, error) {
	if f.concepts == nil {
		return nil, errBackend
	}
	return f.concepts, nil
}

func (f *fakeAPI) FetchConceptCount(context.Context) (int, error) {
	if f.concepts == nil {
		return 0, errBackend
	}
	return len(f.concepts.Concepts), nil
}

func (f *fakeAPI) FetchConceptCategories(context.Context) (map[string][]model.ConceptRecord, error) {
	return nil, errBackend
}

func (f *fakeAPI) FetchConcept(_ context.Context, name string) (*model.ConceptRecord, error) {
	if f.concepts != nil {
		for _, c := range f.concepts.Concepts {
			if c.Name == name {
				c := c
				return &c, nil
			}
		}
	}
	return nil, &client.Error{Op: "fetch concept", Kind: client.KindStatus, StatusCode: 404}
}

func (f *fakeAPI) FetchStrategyKeys(context.Context) (*model.StrategiesResponse, error) {
	if f.strategies == nil {
		return nil, errBackend
	}
	return f.strategies, nil
}

func (f *fakeAPI) FetchStrategyDetails(context.Context, string) (*model.StrategyDetails, error) {
	return nil, errBackend
}

func (f *fakeAPI) AnalyzeSymbol(_ context.Context, symbol, _ string) (model.AnalysisResult, error) {
	return json.RawMessage(`{"symbol":"` + symbol + `"}`), nil
}

func (f *fakeAPI) GenerateSignals(context.Context, string, string, string) (*model.SignalSetResult, error) {
	atomic.AddInt32(&f.signalCalls, 1)
	if f.signals == nil {
		return nil, errBackend
	}
	return f.signals, nil
}

func (f *fakeAPI) RunBacktest(context.Context, model.BacktestRequest) (*model.BacktestResponse, error) {
	atomic.AddInt32(&f.backtestCalls, 1)
	if f.backtest == nil {
		return nil, errBackend
	}
	return f.backtest, nil
}

func (f *fakeAPI) FetchExampleBacktest(context.Context) (*model.BacktestResponse, error) {
	if f.example == nil {
		return nil, errBackend
	}
	return f.example, nil
}

func (f *fakeAPI) HealthCheck(context.Context) (*model.HealthStatus, error) {
	if !f.healthy {
		return nil, errBackend
	}
	return &model.HealthStatus{Status: "healthy"}, nil
}

func sampleConcepts() *model.ConceptsResponse {
	return &model.ConceptsResponse{
		TotalConcepts: 3,
		Concepts: []model.ConceptRecord{
			{Name: "Fair Value Gap", Description: "Price imbalance", Category: "Core"},
			{Name: "Breaker Block", Description: "Failed order block", Category: "Advanced"},
			{Name: "Order Block", Description: "Institutional footprint", Category: "Core"},
		},
	}
}

func newTestService(api *fakeAPI) (*DashboardService, *session.Session) {
	svc := NewDashboardService(api, catalog.NewMemo(0), validator.NewFormValidator(), zap.NewNop())
	store := session.NewStore(api, session.Options{}, zap.NewNop())
	return svc, store.Create()
}

func TestIndexUsesBackendTotals(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{concepts: sampleConcepts(), healthy: true})

	page := svc.Index(context.Background())
	assert.Equal(t, 3, page.Stats.TotalConcepts)
	assert.Equal(t, model.DefaultDashboardStats.TotalStrategies, page.Stats.TotalStrategies)
	assert.Len(t, page.Concepts, 3)
	assert.Equal(t, "blue", page.Concepts[0].Color)
	assert.True(t, page.Backend.Healthy)
}

func TestIndexWithBackendDown(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{})

	page := svc.Index(context.Background())
	assert.Equal(t, model.DefaultDashboardStats, page.Stats)
	assert.Empty(t, page.Concepts)
	assert.False(t, page.Backend.Healthy)
	assert.Equal(t, "unreachable", page.Backend.Status)
}

func TestConceptsFiltersByCategory(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{concepts: sampleConcepts()})

	page := svc.Concepts(context.Background(), "Core", "", utils.PaginationParams{Page: 1})
	require.Len(t, page.Concepts, 2)
	assert.Equal(t, "Fair Value Gap", page.Concepts[0].Name)
	assert.Equal(t, "Order Block", page.Concepts[1].Name)
	assert.Equal(t, []string{"All", "Core", "Advanced"}, page.Categories)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Matched)
	assert.Empty(t, page.Groups)
}

func TestConceptsDefaultShowsEverythingGrouped(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{concepts: sampleConcepts()})

	page := svc.Concepts(context.Background(), "", "", utils.PaginationParams{Page: 1})
	assert.Equal(t, catalog.AllCategories, page.Category)
	assert.Len(t, page.Concepts, 3)
	require.Len(t, page.Groups, 2)
	assert.Equal(t, "Core", page.Groups[0].Category)
}

func TestConceptsPaginates(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{concepts: sampleConcepts()})

	page := svc.Concepts(context.Background(), "All", "block", utils.PaginationParams{Page: 2, Limit: 1})
	require.Len(t, page.Concepts, 1)
	assert.Equal(t, "Order Block", page.Concepts[0].Name)
	assert.Equal(t, 2, page.Matched)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestConceptsPageBeyondEndIsEmpty(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{concepts: sampleConcepts()})

	page := svc.Concepts(context.Background(), "All", "", utils.PaginationParams{Page: 1 << 62, Limit: 100})
	assert.Empty(t, page.Concepts)
	assert.Equal(t, 3, page.Matched)
}

func TestConceptsEmptyWhenBackendDown(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{})

	page := svc.Concepts(context.Background(), "All", "gap", utils.PaginationParams{Page: 1})
	assert.Empty(t, page.Concepts)
	assert.Equal(t, []string{"All"}, page.Categories)
}

func TestStrategiesFallBackToDefaults(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{})

	page := svc.Strategies(context.Background())
	assert.True(t, page.Fallback)
	require.Len(t, page.Strategies, len(model.DefaultStrategyKeys))
	assert.Equal(t, "silver_bullet", page.Strategies[0].Key)
	assert.Equal(t, model.Timeframes, page.Timeframes)
}

func TestStrategiesFromBackend(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{strategies: &model.StrategiesResponse{Strategies: []string{"ny_reversal", "custom_edge"}}})

	page := svc.Strategies(context.Background())
	assert.False(t, page.Fallback)
	require.Len(t, page.Strategies, 2)
	assert.True(t, page.Strategies[0].Known)
	assert.False(t, page.Strategies[1].Known)
	assert.Equal(t, "Custom Edge", page.Strategies[1].Name)
}

func TestSubmitSignalsRejectsMissingStrategy(t *testing.T) {
	api := &fakeAPI{}
	svc, sess := newTestService(api)

	_, started, err := svc.SubmitSignals(context.Background(), sess, model.SignalForm{Symbol: "EURUSD"}, true)
	require.Error(t, err)
	assert.False(t, started)
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.signalCalls))
	assert.Equal(t, operation.StatusIdle, sess.Signals.State().Status)

	notes := svc.Notifications(sess)
	require.Equal(t, 1, notes.Total)
	assert.Equal(t, validator.SignalFormMessage, notes.Notifications[0].Message)
	assert.Equal(t, model.NotificationError, notes.Notifications[0].Type)
}

func TestSubmitSignalsWaitsForResult(t *testing.T) {
	api := &fakeAPI{signals: &model.SignalSetResult{
		Symbol:       "EURUSD",
		Strategy:     "silver_bullet",
		SignalsCount: 2,
		Signals: []model.Signal{
			{SignalType: "BUY", Confidence: 0.85, EntryPrice: 1.0855},
			{SignalType: "SELL", Confidence: 0.7, EntryPrice: 1.0901},
		},
	}}
	svc, sess := newTestService(api)

	panel, started, err := svc.SubmitSignals(context.Background(), sess,
		model.SignalForm{Symbol: " EURUSD ", Strategy: "silver_bullet", Timeframe: "1h"}, true)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, operation.StatusSucceeded, panel.State.Status)
	require.NotNil(t, panel.View)
	assert.Equal(t, 2, panel.View.SignalsCount)
	assert.Equal(t, "85.0%", panel.View.Cards[0].Confidence)
}

func TestBacktestFailureStillShowsExample(t *testing.T) {
	example := &model.BacktestResponse{Symbol: "EURUSD", Results: &model.BacktestResult{TotalTrades: 42, FinalCapital: 12500}}
	api := &fakeAPI{example: example}
	svc, sess := newTestService(api)

	panel, started, err := svc.SubmitBacktest(context.Background(), sess, model.DefaultBacktestForm(), true)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, operation.StatusFailed, panel.State.Status)
	assert.Equal(t, view.SourceExample, panel.View.Source)
	assert.Equal(t, 42, panel.View.Results.TotalTrades)

	require.Eventually(t, func() bool { return sess.Feed.Len() == 1 }, time.Second, 5*time.Millisecond)
	notes := svc.Notifications(sess)
	require.Equal(t, 1, notes.Total)
	assert.Equal(t, "Failed to run backtest", notes.Notifications[0].Message)
}

func TestBacktestLiveResultWins(t *testing.T) {
	api := &fakeAPI{
		example:  &model.BacktestResponse{Results: &model.BacktestResult{TotalTrades: 1}},
		backtest: &model.BacktestResponse{Results: &model.BacktestResult{TotalTrades: 99}},
	}
	svc, sess := newTestService(api)

	panel, _, err := svc.SubmitBacktest(context.Background(), sess, model.DefaultBacktestForm(), true)
	require.NoError(t, err)
	assert.Equal(t, view.SourceLive, panel.View.Source)
	assert.Equal(t, 99, panel.View.Results.TotalTrades)
}

func TestBacktestExampleStaysAfterBackendGoesAway(t *testing.T) {
	api := &fakeAPI{example: &model.BacktestResponse{Results: &model.BacktestResult{TotalTrades: 1, FinalCapital: 12500}}}
	svc, sess := newTestService(api)

	page := svc.Backtesting(context.Background(), sess)
	require.Equal(t, view.SourceExample, page.Panel.View.Source)

	api.example = nil
	panel, _, err := svc.SubmitBacktest(context.Background(), sess, model.DefaultBacktestForm(), true)
	require.NoError(t, err)
	assert.Equal(t, operation.StatusFailed, panel.State.Status)
	assert.Equal(t, view.SourceExample, panel.View.Source)
	require.NotNil(t, panel.View.Results)
	assert.Equal(t, 1, panel.View.Results.TotalTrades)
	assert.Equal(t, "$12,500", panel.View.Summary.FinalCapital)
}

func TestBacktestLiveResultSurvivesFailedRerun(t *testing.T) {
	api := &fakeAPI{
		example:  &model.BacktestResponse{Results: &model.BacktestResult{TotalTrades: 1}},
		backtest: &model.BacktestResponse{Results: &model.BacktestResult{TotalTrades: 99}},
	}
	svc, sess := newTestService(api)

	panel, _, err := svc.SubmitBacktest(context.Background(), sess, model.DefaultBacktestForm(), true)
	require.NoError(t, err)
	require.Equal(t, view.SourceLive, panel.View.Source)

	api.backtest = nil
	panel, started, err := svc.SubmitBacktest(context.Background(), sess, model.DefaultBacktestForm(), true)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, operation.StatusFailed, panel.State.Status)
	assert.Nil(t, panel.State.Result)
	assert.Equal(t, view.SourceLive, panel.View.Source)
	assert.Equal(t, 99, panel.View.Results.TotalTrades)
}

func TestBacktestingPageDefaults(t *testing.T) {
	svc, sess := newTestService(&fakeAPI{})

	page := svc.Backtesting(context.Background(), sess)
	assert.Equal(t, model.DefaultBacktestForm(), page.Form)
	assert.Equal(t, view.SourceNone, page.Panel.View.Source)
	assert.Equal(t, operation.StatusIdle, page.Panel.State.Status)
	assert.Len(t, page.Strategies, len(model.DefaultStrategyKeys))
}

func TestSubmitBacktestRejectsInvalidForm(t *testing.T) {
	api := &fakeAPI{}
	svc, sess := newTestService(api)

	form := model.DefaultBacktestForm()
	form.InitialCapital = 0
	_, _, err := svc.SubmitBacktest(context.Background(), sess, form, false)

	var validationErr *validator.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.backtestCalls))
	assert.Equal(t, validator.BacktestFormMessage, svc.Notifications(sess).Notifications[0].Message)
}

func TestAbandonUnknownOperation(t *testing.T) {
	svc, sess := newTestService(&fakeAPI{})

	_, err := svc.Abandon(sess, "deploy")
	assert.ErrorIs(t, err, ErrUnknownOperation)

	abandoned, err := svc.Abandon(sess, session.OperationSignals)
	require.NoError(t, err)
	assert.False(t, abandoned)
}

func TestConceptNotFound(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{concepts: sampleConcepts()})

	card, err := svc.Concept(context.Background(), "Order Block")
	require.NoError(t, err)
	assert.Equal(t, "blue", card.Color)

	_, err = svc.Concept(context.Background(), "Missing")
	assert.Equal(t, 404, client.StatusCodeOf(err))
}

func TestAnalyzeRequiresSymbol(t *testing.T) {
	svc, _ := newTestService(&fakeAPI{})

	_, err := svc.Analyze(context.Background(), model.AnalysisForm{Symbol: "  "})
	assert.Error(t, err)

	raw, err := svc.Analyze(context.Background(), model.AnalysisForm{Symbol: "EURUSD"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"EURUSD"}`, string(raw))
}
