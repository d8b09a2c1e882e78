package service

import (
	"github.com/yourorg/trading-dashboard/internal/catalog"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/operation"
	"github.com/yourorg/trading-dashboard/internal/utils"
	"github.com/yourorg/trading-dashboard/internal/view"
)

// BackendStatus reports whether the analytics backend answered its health check
type BackendStatus struct {
	Healthy bool   `json:"healthy"`
	Status  string `json:"status"`
	URL     string `json:"url,omitempty"`
}

// IndexPage is the dashboard landing page
type IndexPage struct {
	Stats    model.DashboardStats `json:"stats"`
	Concepts []view.ConceptCard   `json:"concepts"`
	Backend  BackendStatus        `json:"backend"`
}

// ConceptsPage is the concept catalog page with its current filter applied
type ConceptsPage struct {
	Category   string                   `json:"category"`
	Search     string                   `json:"search"`
	Categories []string                 `json:"categories"`
	Concepts   []view.ConceptCard       `json:"concepts"`
	Groups     []catalog.Group          `json:"groups,omitempty"`
	Total      int                      `json:"total"`
	Matched    int                      `json:"matched"`
	Pagination utils.PaginationMetadata `json:"pagination"`
}

// StrategiesPage lists the selectable strategies
type StrategiesPage struct {
	Strategies []view.StrategyCard `json:"strategies"`
	Timeframes []string            `json:"timeframes"`
	Fallback   bool                `json:"fallback"`
}

// SignalsPanel is the signal operation state with its rendered results
type SignalsPanel struct {
	State operation.State[model.SignalSetResult] `json:"state"`
	View  *view.SignalView                       `json:"view,omitempty"`
}

// BacktestPanel is the backtest operation state with the result that should be shown
type BacktestPanel struct {
	State operation.State[model.BacktestResponse] `json:"state"`
	View  view.BacktestView                        `json:"view"`
}

// BacktestingPage is the backtest form page
type BacktestingPage struct {
	Form       model.BacktestForm  `json:"form"`
	Strategies []view.StrategyCard `json:"strategies"`
	Timeframes []string            `json:"timeframes"`
	Panel      BacktestPanel       `json:"panel"`
}
