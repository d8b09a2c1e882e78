package model

// BacktestRequest is the body of POST /api/backtesting/run
type BacktestRequest struct {
	Symbol         string      `json:"symbol"`
	Strategy       StrategyKey `json:"strategy"`
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
	InitialCapital float64     `json:"initial_capital"`
	RiskPerTrade   float64     `json:"risk_per_trade"`
	Timeframe      string      `json:"timeframe"`
}

// BacktestResult holds the already-computed performance metrics of a backtest.
// WinningTrades + LosingTrades == TotalTrades is assumed of backend output, not enforced.
type BacktestResult struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	TotalReturn   float64 `json:"total_return"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
	ProfitFactor  float64 `json:"profit_factor"`
	FinalCapital  float64 `json:"final_capital"`
}

// BacktestResponse is the payload of /api/backtesting/run and /api/backtesting/example
type BacktestResponse struct {
	Symbol   string           `json:"symbol,omitempty"`
	Strategy string           `json:"strategy,omitempty"`
	Period   string           `json:"period,omitempty"`
	Request  *BacktestRequest `json:"request,omitempty"`
	Results  *BacktestResult  `json:"results"`
	Status   string           `json:"status,omitempty"`
}

// DefaultBacktestRequest returns the initial backtest form values
func DefaultBacktestRequest() BacktestRequest {
	return BacktestRequest{
		Symbol:         "EURUSD",
		Strategy:       "silver_bullet",
		StartDate:      "2023-01-01",
		EndDate:        "2023-12-31",
		InitialCapital: 10000,
		RiskPerTrade:   1.0,
		Timeframe:      "1h",
	}
}
