package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourorg/trading-dashboard/internal/model"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is used when no backend address is configured
	DefaultBaseURL = "http://localhost:8000"

	defaultStrategy  = "comprehensive"
	defaultTimeframe = "1h"
)

// AnalyticsClient handles communication with the analytics backend
type AnalyticsClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAnalyticsClient creates a new analytics backend client
func NewAnalyticsClient(baseURL string, timeout time.Duration, logger *zap.Logger) *AnalyticsClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &AnalyticsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the backend address the client talks to
func (c *AnalyticsClient) BaseURL() string {
	return c.baseURL
}

// FetchCatalog retrieves all concept records
func (c *AnalyticsClient) FetchCatalog(ctx context.Context) (*model.ConceptsResponse, error) {
	var result model.ConceptsResponse
	if err := c.do(ctx, "fetch concepts", http.MethodGet, "/api/concepts/", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchConceptCount retrieves the number of implemented concepts
func (c *AnalyticsClient) FetchConceptCount(ctx context.Context) (int, error) {
	var result model.ConceptCountResponse
	if err := c.do(ctx, "fetch concept count", http.MethodGet, "/api/concepts/count", nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

// FetchConceptCategories retrieves concepts grouped by category on the backend side
func (c *AnalyticsClient) FetchConceptCategories(ctx context.Context) (map[string][]model.ConceptRecord, error) {
	var result model.ConceptCategoriesResponse
	if err := c.do(ctx, "fetch concept categories", http.MethodGet, "/api/concepts/categories", nil, &result); err != nil {
		return nil, err
	}
	if result.Categories == nil {
		result.Categories = map[string][]model.ConceptRecord{}
	}
	return result.Categories, nil
}

// FetchConcept retrieves a single concept by display name or slug
func (c *AnalyticsClient) FetchConcept(ctx context.Context, name string) (*model.ConceptRecord, error) {
	path := "/api/concepts/" + url.PathEscape(ConceptSlug(name))

	var result model.ConceptRecord
	if err := c.do(ctx, "fetch concept", http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchStrategyKeys retrieves the selectable strategy keys
func (c *AnalyticsClient) FetchStrategyKeys(ctx context.Context) (*model.StrategiesResponse, error) {
	var result model.StrategiesResponse
	if err := c.do(ctx, "fetch strategies", http.MethodGet, "/api/strategies/", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchStrategyDetails retrieves the backend description of one strategy
func (c *AnalyticsClient) FetchStrategyDetails(ctx context.Context, name string) (*model.StrategyDetails, error) {
	path := "/api/strategies/strategies/" + url.PathEscape(name)

	var result model.StrategyDetails
	if err := c.do(ctx, "fetch strategy details", http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeSymbol runs a full concept analysis for a symbol. The payload is backend-defined.
func (c *AnalyticsClient) AnalyzeSymbol(ctx context.Context, symbol, timeframe string) (model.AnalysisResult, error) {
	if timeframe == "" {
		timeframe = defaultTimeframe
	}
	body := model.AnalysisRequest{Symbol: symbol, Timeframe: timeframe}

	var result json.RawMessage
	if err := c.do(ctx, "analyze symbol", http.MethodPost, "/api/strategies/analyze", body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GenerateSignals asks the backend strategy engine for trading signals.
// Inputs are validated by the caller.
func (c *AnalyticsClient) GenerateSignals(ctx context.Context, symbol, strategy, timeframe string) (*model.SignalSetResult, error) {
	if strategy == "" {
		strategy = defaultStrategy
	}
	if timeframe == "" {
		timeframe = defaultTimeframe
	}
	body := model.SignalRequest{Symbol: symbol, Strategy: strategy, Timeframe: timeframe}

	var result model.SignalSetResult
	if err := c.do(ctx, "generate signals", http.MethodPost, "/api/strategies/signals", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RunBacktest executes a historical backtest on the backend
func (c *AnalyticsClient) RunBacktest(ctx context.Context, request model.BacktestRequest) (*model.BacktestResponse, error) {
	const op = "run backtest"

	var result model.BacktestResponse
	if err := c.do(ctx, op, http.MethodPost, "/api/backtesting/run", request, &result); err != nil {
		return nil, err
	}
	if result.Results == nil {
		return nil, c.fail(&Error{Op: op, Kind: KindDecode, Err: errors.New("response has no results")})
	}
	return &result, nil
}

// FetchExampleBacktest retrieves the placeholder backtest shown before any user run
func (c *AnalyticsClient) FetchExampleBacktest(ctx context.Context) (*model.BacktestResponse, error) {
	const op = "fetch example backtest"

	var result model.BacktestResponse
	if err := c.do(ctx, op, http.MethodGet, "/api/backtesting/example", nil, &result); err != nil {
		return nil, err
	}
	if result.Results == nil {
		return nil, c.fail(&Error{Op: op, Kind: KindDecode, Err: errors.New("response has no results")})
	}
	return &result, nil
}

// HealthCheck checks whether the backend is up
func (c *AnalyticsClient) HealthCheck(ctx context.Context) (*model.HealthStatus, error) {
	var result model.HealthStatus
	if err := c.do(ctx, "health check", http.MethodGet, "/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do issues a request and decodes a 2xx JSON response into out.
// Every failure is logged here and returned as *Error.
func (c *AnalyticsClient) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return c.fail(&Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to marshal request: %w", err)})
		}
		reader = bytes.NewReader(jsonData)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return c.fail(&Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Sending backend request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(transportError(op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errorResp)
		var cause error
		if errorResp.Detail != "" {
			cause = errors.New(errorResp.Detail)
		}
		return c.fail(&Error{Op: op, Kind: KindStatus, StatusCode: resp.StatusCode, Err: cause})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(&Error{Op: op, Kind: KindDecode, Err: fmt.Errorf("failed to decode response: %w", err)})
	}

	return nil
}

func (c *AnalyticsClient) fail(err *Error) error {
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.String("kind", string(err.Kind)),
	}
	if err.StatusCode != 0 {
		fields = append(fields, zap.Int("status", err.StatusCode))
	}
	if err.Err != nil {
		fields = append(fields, zap.Error(err.Err))
	}
	c.logger.Error("Backend request failed", fields...)
	return err
}

// ConceptSlug converts a concept display name into its backend path segment
func ConceptSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
