package view

import "github.com/yourorg/trading-dashboard/internal/model"

// ResultSource tells where a displayed backtest result came from
type ResultSource string

const (
	SourceLive    ResultSource = "live"
	SourceExample ResultSource = "example"
	SourceNone    ResultSource = "none"
)

// BacktestView is the backtest result panel
type BacktestView struct {
	Source  ResultSource          `json:"source"`
	Results *model.BacktestResult `json:"results,omitempty"`
	Summary *BacktestSummary      `json:"summary,omitempty"`
}

// BacktestSummary holds display-formatted backtest metrics
type BacktestSummary struct {
	TotalTrades   int    `json:"total_trades"`
	WinningTrades int    `json:"winning_trades"`
	LosingTrades  int    `json:"losing_trades"`
	WinRate       string `json:"win_rate"`
	TotalReturn   string `json:"total_return"`
	ProfitFactor  string `json:"profit_factor"`
	MaxDrawdown   string `json:"max_drawdown"`
	SharpeRatio   string `json:"sharpe_ratio"`
	FinalCapital  string `json:"final_capital"`
}

// ChooseBacktest prefers the live result whenever one exists and falls back to the example
func ChooseBacktest(live, example *model.BacktestResult) BacktestView {
	switch {
	case live != nil:
		summary := SummarizeBacktest(*live)
		return BacktestView{Source: SourceLive, Results: live, Summary: &summary}
	case example != nil:
		summary := SummarizeBacktest(*example)
		return BacktestView{Source: SourceExample, Results: example, Summary: &summary}
	default:
		return BacktestView{Source: SourceNone}
	}
}

// SummarizeBacktest formats backtest metrics for display
func SummarizeBacktest(r model.BacktestResult) BacktestSummary {
	return BacktestSummary{
		TotalTrades:   r.TotalTrades,
		WinningTrades: r.WinningTrades,
		LosingTrades:  r.LosingTrades,
		WinRate:       Percent(r.WinRate, 1),
		TotalReturn:   Percent(r.TotalReturn, 1),
		ProfitFactor:  Fixed(r.ProfitFactor, 2),
		MaxDrawdown:   Percent(r.MaxDrawdown, 2),
		SharpeRatio:   Fixed(r.SharpeRatio, 2),
		FinalCapital:  Currency(r.FinalCapital),
	}
}
