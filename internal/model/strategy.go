package model

import "encoding/json"

// StrategyKey identifies a backend strategy (e.g. "silver_bullet")
type StrategyKey = string

// StrategiesResponse is the payload of GET /api/strategies/
type StrategiesResponse struct {
	TotalStrategies int           `json:"total_strategies,omitempty"`
	Strategies      []StrategyKey `json:"strategies"`
}

// StrategyDetails is the payload of GET /api/strategies/strategies/{name}
type StrategyDetails struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// StrategyDescriptor holds display-only metadata for a strategy key
type StrategyDescriptor struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	WinRate      string `json:"winRate"`
	ProfitFactor string `json:"profitFactor"`
	AvgRisk      string `json:"avgRisk"`
}

// AnalysisRequest is the body of POST /api/strategies/analyze
type AnalysisRequest struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
}

// AnalysisResult is the backend-defined analysis payload, passed through untouched
type AnalysisResult = json.RawMessage

// DefaultStrategyKeys is used when the strategy list cannot be fetched
var DefaultStrategyKeys = []StrategyKey{
	"silver_bullet",
	"asian_breakout",
	"ny_reversal",
	"london_killzone",
	"fvg_sniper",
	"order_block",
	"comprehensive",
}

// StrategyDescriptors is the static display table keyed by strategy key
var StrategyDescriptors = map[StrategyKey]StrategyDescriptor{
	"silver_bullet": {
		Name:         "Silver Bullet",
		Description:  "15-minute window after NY Open high-probability setup",
		Category:     "Killzone",
		WinRate:      "72%",
		ProfitFactor: "2.8",
		AvgRisk:      "1:3",
	},
	"asian_breakout": {
		Name:         "Asian Breakout",
		Description:  "Breakout from Asian session range during London open",
		Category:     "Session",
		WinRate:      "65%",
		ProfitFactor: "2.2",
		AvgRisk:      "1:2",
	},
	"ny_reversal": {
		Name:         "NY Reversal",
		Description:  "Reversal patterns during New York session",
		Category:     "Reversal",
		WinRate:      "68%",
		ProfitFactor: "2.5",
		AvgRisk:      "1:2.5",
	},
	"london_killzone": {
		Name:         "London Killzone",
		Description:  "High-activity period during London open",
		Category:     "Killzone",
		WinRate:      "70%",
		ProfitFactor: "2.6",
		AvgRisk:      "1:2.8",
	},
	"fvg_sniper": {
		Name:         "FVG Sniper",
		Description:  "Precise entries using Fair Value Gap analysis",
		Category:     "Precision",
		WinRate:      "75%",
		ProfitFactor: "3.1",
		AvgRisk:      "1:4",
	},
	"order_block": {
		Name:         "Order Block",
		Description:  "Support/resistance from institutional order areas",
		Category:     "Institutional",
		WinRate:      "69%",
		ProfitFactor: "2.4",
		AvgRisk:      "1:2.2",
	},
	"comprehensive": {
		Name:         "Comprehensive",
		Description:  "All strategies combined with smart filtering",
		Category:     "Combined",
		WinRate:      "71%",
		ProfitFactor: "2.9",
		AvgRisk:      "1:3.2",
	},
}

// Timeframes lists the selectable chart timeframes
var Timeframes = []string{"1m", "5m", "15m", "1h", "4h", "1d"}
