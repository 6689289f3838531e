package common

import "time"

// AckResponse acknowledges a webhook delivery
type AckResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// ListResponse wraps a collection with its size
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// HealthResponse reports dependency health
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Time     time.Time         `json:"time"`
	Revision string            `json:"revision,omitempty"`
}

// TimestampResponse represents common timestamp fields
type TimestampResponse struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
