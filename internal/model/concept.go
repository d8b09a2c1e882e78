package model

// ConceptRecord represents a single trading concept from the backend catalog
type ConceptRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ConceptsResponse is the payload of GET /api/concepts/
type ConceptsResponse struct {
	TotalConcepts int             `json:"total_concepts,omitempty"`
	Concepts      []ConceptRecord `json:"concepts"`
}

// ConceptCountResponse is the payload of GET /api/concepts/count
type ConceptCountResponse struct {
	Count int `json:"count"`
}

// ConceptCategoriesResponse is the payload of GET /api/concepts/categories
type ConceptCategoriesResponse struct {
	Categories map[string][]ConceptRecord `json:"categories"`
}
