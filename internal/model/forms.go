package model

// SignalForm is the user-entered signal generation form
type SignalForm struct {
	Symbol    string `json:"symbol" validate:"required"`
	Strategy  string `json:"strategy" validate:"required"`
	Timeframe string `json:"timeframe" validate:"omitempty,timeframe"`
}

// BacktestForm is the user-entered backtest form
type BacktestForm struct {
	Symbol         string  `json:"symbol" validate:"required"`
	Strategy       string  `json:"strategy" validate:"required"`
	StartDate      string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	InitialCapital float64 `json:"initial_capital" validate:"gt=0"`
	RiskPerTrade   float64 `json:"risk_per_trade" validate:"gt=0,lte=100"`
	Timeframe      string  `json:"timeframe" validate:"required,timeframe"`
}

// Request converts the form into the backend request body
func (f BacktestForm) Request() BacktestRequest {
	return BacktestRequest{
		Symbol:         f.Symbol,
		Strategy:       f.Strategy,
		StartDate:      f.StartDate,
		EndDate:        f.EndDate,
		InitialCapital: f.InitialCapital,
		RiskPerTrade:   f.RiskPerTrade,
		Timeframe:      f.Timeframe,
	}
}

// DefaultBacktestForm returns the backtest form as first shown
func DefaultBacktestForm() BacktestForm {
	r := DefaultBacktestRequest()
	return BacktestForm{
		Symbol:         r.Symbol,
		Strategy:       r.Strategy,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		InitialCapital: r.InitialCapital,
		RiskPerTrade:   r.RiskPerTrade,
		Timeframe:      r.Timeframe,
	}
}

// AnalysisForm is the symbol analysis form
type AnalysisForm struct {
	Symbol    string `json:"symbol" validate:"required"`
	Timeframe string `json:"timeframe" validate:"omitempty,timeframe"`
}
