package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/yourorg/trading-dashboard/internal/catalog"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/session"
	"github.com/yourorg/trading-dashboard/internal/utils"
	"github.com/yourorg/trading-dashboard/internal/validator"
	"github.com/yourorg/trading-dashboard/internal/view"

	"go.uber.org/zap"
)

// AnalyticsAPI is the analytics backend as seen by the dashboard
type AnalyticsAPI interface {
	session.Backend
	BaseURL() string
	FetchCatalog(ctx context.Context) (*model.ConceptsResponse, error)
	FetchConceptCount(ctx context.Context) (int, error)
	FetchConceptCategories(ctx context.Context) (map[string][]model.ConceptRecord, error)
	FetchConcept(ctx context.Context, name string) (*model.ConceptRecord, error)
	FetchStrategyKeys(ctx context.Context) (*model.StrategiesResponse, error)
	FetchStrategyDetails(ctx context.Context, name string) (*model.StrategyDetails, error)
	AnalyzeSymbol(ctx context.Context, symbol, timeframe string) (model.AnalysisResult, error)
	FetchExampleBacktest(ctx context.Context) (*model.BacktestResponse, error)
	HealthCheck(ctx context.Context) (*model.HealthStatus, error)
}

// DashboardService composes dashboard pages and submits user operations
type DashboardService struct {
	api       AnalyticsAPI
	filter    catalog.Filterer
	validator *validator.FormValidator
	logger    *zap.Logger
}

// NewDashboardService creates a new dashboard service. A nil filter uses the pure filter.
func NewDashboardService(api AnalyticsAPI, filter catalog.Filterer, formValidator *validator.FormValidator, logger *zap.Logger) *DashboardService {
	if filter == nil {
		filter = catalog.FilterFunc(catalog.Filter)
	}
	return &DashboardService{
		api:       api,
		filter:    filter,
		validator: formValidator,
		logger:    logger,
	}
}

// Health checks the analytics backend
func (s *DashboardService) Health(ctx context.Context) BackendStatus {
	status := BackendStatus{URL: s.api.BaseURL(), Status: "unreachable"}
	health, err := s.api.HealthCheck(ctx)
	if err != nil {
		return status
	}
	status.Healthy = true
	status.Status = health.Status
	return status
}

// Index builds the landing page: headline stats, a concept preview and backend health
func (s *DashboardService) Index(ctx context.Context) IndexPage {
	c := s.loadCatalog(ctx)
	return IndexPage{
		Stats:    view.ComposeStats(c),
		Concepts: view.ConceptCards(c.Records(), view.PreviewConcepts),
		Backend:  s.Health(ctx),
	}
}

// Concepts builds the catalog page filtered by category and search term.
// An unavailable backend yields an empty catalog.
func (s *DashboardService) Concepts(ctx context.Context, category, term string, page utils.PaginationParams) ConceptsPage {
	if category == "" {
		category = catalog.AllCategories
	}

	c := s.loadCatalog(ctx)
	matched := s.filter.Filter(c, category, term)
	start, end := page.Window(len(matched))

	result := ConceptsPage{
		Category:   category,
		Search:     term,
		Categories: catalog.Categories(c),
		Concepts:   view.ConceptCards(matched[start:end], 0),
		Total:      c.Len(),
		Matched:    len(matched),
		Pagination: utils.NewPaginationMetadata(len(matched), page),
	}
	if category == catalog.AllCategories && term == "" {
		result.Groups = catalog.GroupByCategory(c)
	}
	return result
}

// ConceptCount returns the number of implemented concepts
func (s *DashboardService) ConceptCount(ctx context.Context) (int, error) {
	return s.api.FetchConceptCount(ctx)
}

// ConceptCategories returns the backend's own category grouping
func (s *DashboardService) ConceptCategories(ctx context.Context) (map[string][]model.ConceptRecord, error) {
	return s.api.FetchConceptCategories(ctx)
}

// Concept returns one concept with its badge color
func (s *DashboardService) Concept(ctx context.Context, name string) (*view.ConceptCard, error) {
	record, err := s.api.FetchConcept(ctx, name)
	if err != nil {
		return nil, err
	}
	return &view.ConceptCard{ConceptRecord: *record, Color: catalog.CategoryColor(record.Category)}, nil
}

// Strategies builds the strategies page. The default keys are used when the
// backend list is unavailable.
func (s *DashboardService) Strategies(ctx context.Context) StrategiesPage {
	keys, fallback := s.strategyKeys(ctx)
	return StrategiesPage{
		Strategies: view.StrategyCards(keys),
		Timeframes: model.Timeframes,
		Fallback:   fallback,
	}
}

// StrategyDetails returns the backend description of a strategy
func (s *DashboardService) StrategyDetails(ctx context.Context, name string) (*model.StrategyDetails, error) {
	return s.api.FetchStrategyDetails(ctx, name)
}

// Analyze validates the form and runs a symbol analysis
func (s *DashboardService) Analyze(ctx context.Context, form model.AnalysisForm) (json.RawMessage, error) {
	form.Symbol = strings.TrimSpace(form.Symbol)
	if err := s.validator.ValidateAnalysisForm(form); err != nil {
		return nil, err
	}
	return s.api.AnalyzeSymbol(ctx, form.Symbol, form.Timeframe)
}

// Backtesting builds the backtest page with form defaults and the result to display
func (s *DashboardService) Backtesting(ctx context.Context, sess *session.Session) BacktestingPage {
	keys, _ := s.strategyKeys(ctx)
	return BacktestingPage{
		Form:       model.DefaultBacktestForm(),
		Strategies: view.StrategyCards(keys),
		Timeframes: model.Timeframes,
		Panel:      s.BacktestPanel(ctx, sess),
	}
}

// SubmitSignals validates the form and starts signal generation for the session.
// Invalid input is reported through the session's notifications and issues no request.
// With wait set the call blocks until the operation resolves or ctx ends.
func (s *DashboardService) SubmitSignals(ctx context.Context, sess *session.Session, form model.SignalForm, wait bool) (SignalsPanel, bool, error) {
	form.Symbol = strings.TrimSpace(form.Symbol)
	if err := s.validator.ValidateSignalForm(form); err != nil {
		s.rejectForm(ctx, sess, session.OperationSignals, err)
		return SignalsPanel{}, false, err
	}

	var started bool
	if wait {
		_, started = sess.Signals.Execute(ctx, form)
	} else {
		started = sess.Signals.Submit(form)
	}
	return s.SignalsPanel(sess), started, nil
}

// SignalsPanel returns the session's signal operation with its rendered results
func (s *DashboardService) SignalsPanel(sess *session.Session) SignalsPanel {
	state := sess.Signals.State()
	result, _ := state.Succeeded()
	return SignalsPanel{State: state, View: view.ComposeSignals(result)}
}

// SubmitBacktest validates the form and starts a backtest for the session
func (s *DashboardService) SubmitBacktest(ctx context.Context, sess *session.Session, form model.BacktestForm, wait bool) (BacktestPanel, bool, error) {
	form.Symbol = strings.TrimSpace(form.Symbol)
	if err := s.validator.ValidateBacktestForm(form); err != nil {
		s.rejectForm(ctx, sess, session.OperationBacktest, err)
		return BacktestPanel{}, false, err
	}

	request := form.Request()
	var started bool
	if wait {
		_, started = sess.Backtest.Execute(ctx, request)
	} else {
		started = sess.Backtest.Submit(request)
	}
	return s.BacktestPanel(ctx, sess), started, nil
}

// BacktestPanel returns the session's backtest operation and the result to show:
// the latest successful run once one exists, otherwise the example. The example is
// fetched once per session and kept, so it stays visible when the backend goes away.
func (s *DashboardService) BacktestPanel(ctx context.Context, sess *session.Session) BacktestPanel {
	state := sess.Backtest.State()

	live := sess.LastBacktest()
	var example *model.BacktestResult
	if live == nil {
		example = s.example(ctx, sess)
	}

	return BacktestPanel{State: state, View: view.ChooseBacktest(live, example)}
}

func (s *DashboardService) example(ctx context.Context, sess *session.Session) *model.BacktestResult {
	if example := sess.Example(); example != nil {
		return example
	}
	response, err := s.api.FetchExampleBacktest(ctx)
	if err != nil {
		return nil
	}
	sess.SetExample(response.Results)
	return response.Results
}

// Abandon drops the named in-flight operation of the session
func (s *DashboardService) Abandon(sess *session.Session, name string) (bool, error) {
	switch name {
	case session.OperationSignals:
		return sess.Signals.Abandon(), nil
	case session.OperationBacktest:
		return sess.Backtest.Abandon(), nil
	default:
		return false, ErrUnknownOperation
	}
}

// Notifications drains the session's pending notifications
func (s *DashboardService) Notifications(sess *session.Session) model.NotificationListResponse {
	items := sess.Feed.Drain()
	return model.NotificationListResponse{Notifications: items, Total: len(items)}
}

// ErrUnknownOperation is returned for operation names the dashboard does not have
var ErrUnknownOperation = errors.New("unknown operation")

func (s *DashboardService) rejectForm(ctx context.Context, sess *session.Session, operationName string, err error) {
	message := err.Error()
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		message = validationErr.Message
	}

	notification := model.Notification{
		Type:      model.NotificationError,
		Operation: operationName,
		Message:   message,
	}
	if notifyErr := sess.Notify(ctx, notification); notifyErr != nil {
		s.logger.Error("Failed to deliver notification", zap.Error(notifyErr))
	}
}

func (s *DashboardService) loadCatalog(ctx context.Context) *catalog.Catalog {
	response, err := s.api.FetchCatalog(ctx)
	if err != nil {
		return catalog.New(nil, 0)
	}
	return catalog.New(response.Concepts, response.TotalConcepts)
}

func (s *DashboardService) strategyKeys(ctx context.Context) ([]string, bool) {
	response, err := s.api.FetchStrategyKeys(ctx)
	if err != nil || len(response.Strategies) == 0 {
		return model.DefaultStrategyKeys, true
	}
	return response.Strategies, false
}
