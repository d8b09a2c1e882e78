package catalog

import "github.com/yourorg/trading-dashboard/internal/model"

// Group is one category bucket of a catalog
type Group struct {
	Category string                `json:"category"`
	Color    string                `json:"color"`
	Concepts []model.ConceptRecord `json:"concepts"`
}

// GroupByCategory buckets records by category. Categories appear in first-seen order.
func GroupByCategory(c *Catalog) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, r := range c.Records() {
		i, ok := index[r.Category]
		if !ok {
			i = len(groups)
			index[r.Category] = i
			groups = append(groups, Group{Category: r.Category, Color: CategoryColor(r.Category)})
		}
		groups[i].Concepts = append(groups[i].Concepts, r)
	}

	return groups
}

// Categories lists the selector options: "All" followed by categories in first-seen order
func Categories(c *Catalog) []string {
	seen := make(map[string]bool)
	categories := []string{AllCategories}
	for _, r := range c.Records() {
		if !seen[r.Category] {
			seen[r.Category] = true
			categories = append(categories, r.Category)
		}
	}
	return categories
}

// CategoryColor returns the badge color for a concept category
func CategoryColor(category string) string {
	switch category {
	case "Core":
		return "blue"
	case "Advanced":
		return "purple"
	case "Time & Price":
		return "green"
	case "Risk Management":
		return "red"
	default:
		return "gray"
	}
}
