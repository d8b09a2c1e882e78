package model

// HealthStatus is the payload of the backend GET /health
type HealthStatus struct {
	Status      string `json:"status"`
	AgentStatus string `json:"agent_status,omitempty"`
}
