package view

import (
	"github.com/yourorg/trading-dashboard/internal/catalog"
	"github.com/yourorg/trading-dashboard/internal/model"
)

// PreviewConcepts is the number of concepts listed on the index page
const PreviewConcepts = 8

// ConceptCard is a concept with its category badge color
type ConceptCard struct {
	model.ConceptRecord
	Color string `json:"color"`
}

// ComposeStats fills the index page stats, using defaults where the backend gave nothing
func ComposeStats(c *catalog.Catalog) model.DashboardStats {
	stats := model.DefaultDashboardStats
	if total := c.Total(); total > 0 {
		stats.TotalConcepts = total
	}
	return stats
}

// ConceptCards renders up to limit records from the start of records; limit <= 0 means all
func ConceptCards(records []model.ConceptRecord, limit int) []ConceptCard {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	cards := make([]ConceptCard, 0, len(records))
	for _, r := range records {
		cards = append(cards, ConceptCard{ConceptRecord: r, Color: catalog.CategoryColor(r.Category)})
	}
	return cards
}
