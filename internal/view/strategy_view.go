package view

import (
	"strings"

	"github.com/yourorg/trading-dashboard/internal/model"
)

// StrategyCard pairs a selectable strategy key with its display metadata
type StrategyCard struct {
	Key   string `json:"key"`
	Known bool   `json:"known"`
	model.StrategyDescriptor
}

// StrategyCards joins keys with the static descriptor table, preserving key order
func StrategyCards(keys []string) []StrategyCard {
	cards := make([]StrategyCard, 0, len(keys))
	for _, key := range keys {
		descriptor, ok := model.StrategyDescriptors[key]
		if !ok {
			descriptor = model.StrategyDescriptor{Name: DisplayName(key)}
		}
		cards = append(cards, StrategyCard{Key: key, Known: ok, StrategyDescriptor: descriptor})
	}
	return cards
}

// DisplayName turns a snake_case key into a title ("order_block" -> "Order Block")
func DisplayName(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
