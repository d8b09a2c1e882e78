package view

import (
	"testing"

	"github.com/yourorg/trading-dashboard/internal/catalog"
	"github.com/yourorg/trading-dashboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exampleResult = model.BacktestResult{
	TotalTrades:   156,
	WinningTrades: 94,
	LosingTrades:  62,
	WinRate:       60.26,
	TotalReturn:   23.5,
	MaxDrawdown:   8.2,
	SharpeRatio:   1.42,
	ProfitFactor:  1.85,
	FinalCapital:  12350.0,
}

func TestChooseBacktestPrefersLive(t *testing.T) {
	live := model.BacktestResult{TotalTrades: 10, WinRate: 50, FinalCapital: 11000}
	example := exampleResult

	v := ChooseBacktest(&live, &example)
	assert.Equal(t, SourceLive, v.Source)
	assert.Equal(t, &live, v.Results)
	assert.Equal(t, "$11,000", v.Summary.FinalCapital)
}

func TestChooseBacktestFallsBackToExample(t *testing.T) {
	example := exampleResult

	v := ChooseBacktest(nil, &example)
	assert.Equal(t, SourceExample, v.Source)
	require.NotNil(t, v.Summary)
	assert.Equal(t, BacktestSummary{
		TotalTrades:   156,
		WinningTrades: 94,
		LosingTrades:  62,
		WinRate:       "60.3%",
		TotalReturn:   "23.5%",
		ProfitFactor:  "1.85",
		MaxDrawdown:   "8.20%",
		SharpeRatio:   "1.42",
		FinalCapital:  "$12,350",
	}, *v.Summary)
}

func TestChooseBacktestNone(t *testing.T) {
	v := ChooseBacktest(nil, nil)
	assert.Equal(t, SourceNone, v.Source)
	assert.Nil(t, v.Results)
	assert.Nil(t, v.Summary)
}

func TestComposeSignalsShowsFirstFive(t *testing.T) {
	signals := make([]model.Signal, 7)
	for i := range signals {
		signals[i] = model.Signal{SignalType: "BUY", Confidence: 0.755, EntryPrice: 1.08523, StopLoss: 1.082, TakeProfit: 1.0921, RiskRewardRatio: 2.25}
	}
	v := ComposeSignals(&model.SignalSetResult{Symbol: "EURUSD", Strategy: "silver_bullet", SignalsCount: 7, Signals: signals})

	require.NotNil(t, v)
	assert.Len(t, v.Cards, MaxSignalCards)
	assert.Equal(t, 2, v.Hidden)
	assert.Equal(t, 7, v.SignalsCount)

	card := v.Cards[0]
	assert.Equal(t, "75.5%", card.Confidence)
	assert.Equal(t, "1.08523", card.EntryPrice)
	assert.Equal(t, "1.08200", card.StopLoss)
	assert.Equal(t, "1.09210", card.TakeProfit)
	assert.Equal(t, "2.3", card.RiskReward)
}

func TestComposeSignalsNil(t *testing.T) {
	assert.Nil(t, ComposeSignals(nil))
}

func TestStrategyCards(t *testing.T) {
	cards := StrategyCards([]string{"silver_bullet", "breaker_block"})

	require.Len(t, cards, 2)
	assert.True(t, cards[0].Known)
	assert.Equal(t, "Silver Bullet", cards[0].Name)
	assert.Equal(t, "72%", cards[0].WinRate)

	assert.False(t, cards[1].Known)
	assert.Equal(t, "Breaker Block", cards[1].Name)
	assert.Empty(t, cards[1].WinRate)
}

func TestComposeStats(t *testing.T) {
	assert.Equal(t, model.DefaultDashboardStats, ComposeStats(nil))

	stats := ComposeStats(catalog.New(nil, 50))
	assert.Equal(t, 50, stats.TotalConcepts)
	assert.Equal(t, 13, stats.TotalStrategies)
	assert.Equal(t, 68.5, stats.WinRate)
	assert.Equal(t, 2.45, stats.ProfitFactor)
}

func TestConceptCardsLimit(t *testing.T) {
	records := make([]model.ConceptRecord, 10)
	for i := range records {
		records[i] = model.ConceptRecord{Name: DisplayName("concept"), Category: "Advanced"}
	}

	cards := ConceptCards(records, PreviewConcepts)
	assert.Len(t, cards, 8)
	assert.Equal(t, "purple", cards[0].Color)
	assert.Len(t, ConceptCards(records, 0), 10)
}
