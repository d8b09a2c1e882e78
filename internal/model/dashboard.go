package model

// DashboardStats holds the headline numbers shown on the index page
type DashboardStats struct {
	TotalConcepts   int     `json:"total_concepts"`
	TotalStrategies int     `json:"total_strategies"`
	WinRate         float64 `json:"win_rate"`
	ProfitFactor    float64 `json:"profit_factor"`
}

// DefaultDashboardStats are shown when the backend does not report its own totals
var DefaultDashboardStats = DashboardStats{
	TotalConcepts:   17,
	TotalStrategies: 13,
	WinRate:         68.5,
	ProfitFactor:    2.45,
}
