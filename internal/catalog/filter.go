package catalog

import (
	"strings"

	"github.com/yourorg/trading-dashboard/internal/model"
)

// Filterer derives a filtered view of a catalog. Implementations must return a
// subsequence of the catalog in source order.
type Filterer interface {
	Filter(c *Catalog, category, term string) []model.ConceptRecord
}

// FilterFunc adapts a plain function to Filterer
type FilterFunc func(c *Catalog, category, term string) []model.ConceptRecord

// Filter calls f(c, category, term)
func (f FilterFunc) Filter(c *Catalog, category, term string) []model.ConceptRecord {
	return f(c, category, term)
}

// Filter keeps records whose category equals category exactly (unless it is "All")
// and whose name or description contains term, ignoring case.
func Filter(c *Catalog, category, term string) []model.ConceptRecord {
	records := c.Records()
	result := make([]model.ConceptRecord, 0, len(records))

	filterCategory := category != AllCategories
	needle := strings.ToLower(term)

	for _, r := range records {
		if filterCategory && r.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.Name), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) {
			continue
		}
		result = append(result, r)
	}

	return result
}
