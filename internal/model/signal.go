package model

// SignalRequest is the body of POST /api/strategies/signals
type SignalRequest struct {
	Symbol    string      `json:"symbol"`
	Strategy  StrategyKey `json:"strategy"`
	Timeframe string      `json:"timeframe"`
}

// Signal is one trade recommendation produced by the backend strategy engine
type Signal struct {
	Timestamp       string   `json:"timestamp,omitempty"`
	Symbol          string   `json:"symbol,omitempty"`
	SignalType      string   `json:"signal_type"`
	EntryPrice      float64  `json:"entry_price"`
	StopLoss        float64  `json:"stop_loss"`
	TakeProfit      float64  `json:"take_profit"`
	Confidence      float64  `json:"confidence"`
	Strategy        string   `json:"strategy,omitempty"`
	ConceptsUsed    []string `json:"concepts_used"`
	RiskRewardRatio float64  `json:"risk_reward_ratio"`
}

// SignalSetResult is the payload of POST /api/strategies/signals
type SignalSetResult struct {
	Symbol       string      `json:"symbol"`
	Strategy     StrategyKey `json:"strategy"`
	Timeframe    string      `json:"timeframe,omitempty"`
	SignalsCount int         `json:"signals_count"`
	Signals      []Signal    `json:"signals"`
}
