package view

import "github.com/yourorg/trading-dashboard/internal/model"

// MaxSignalCards is the number of signals rendered in the results panel
const MaxSignalCards = 5

// SignalCard is one rendered signal
type SignalCard struct {
	SignalType   string   `json:"signal_type"`
	Confidence   string   `json:"confidence"`
	EntryPrice   string   `json:"entry_price"`
	StopLoss     string   `json:"stop_loss"`
	TakeProfit   string   `json:"take_profit"`
	RiskReward   string   `json:"risk_reward"`
	ConceptsUsed []string `json:"concepts_used"`
}

// SignalView is the signal results panel
type SignalView struct {
	Symbol       string       `json:"symbol"`
	Strategy     string       `json:"strategy"`
	Timeframe    string       `json:"timeframe,omitempty"`
	SignalsCount int          `json:"signals_count"`
	Cards        []SignalCard `json:"cards"`
	Hidden       int          `json:"hidden"`
}

// ComposeSignals renders the first MaxSignalCards signals of a result, or nil without one
func ComposeSignals(r *model.SignalSetResult) *SignalView {
	if r == nil {
		return nil
	}

	shown := r.Signals
	if len(shown) > MaxSignalCards {
		shown = shown[:MaxSignalCards]
	}

	cards := make([]SignalCard, 0, len(shown))
	for _, s := range shown {
		cards = append(cards, SignalCard{
			SignalType:   s.SignalType,
			Confidence:   Percent(s.Confidence*100, 1),
			EntryPrice:   Fixed(s.EntryPrice, 5),
			StopLoss:     Fixed(s.StopLoss, 5),
			TakeProfit:   Fixed(s.TakeProfit, 5),
			RiskReward:   Fixed(s.RiskRewardRatio, 1),
			ConceptsUsed: s.ConceptsUsed,
		})
	}

	return &SignalView{
		Symbol:       r.Symbol,
		Strategy:     r.Strategy,
		Timeframe:    r.Timeframe,
		SignalsCount: r.SignalsCount,
		Cards:        cards,
		Hidden:       len(r.Signals) - len(shown),
	}
}
