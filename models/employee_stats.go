package models

import "github.com/google/uuid"

// EmployeeStats is derived on every load and never persisted.
type EmployeeStats struct {
	Profile       Profile           `json:"profile"`
	Transactions  []Transaction     `json:"transactions"`
	TotalCount    int               `json:"total_count"`
	TodayCount    int               `json:"today_count"`
	ServiceCounts map[uuid.UUID]int `json:"service_counts"`
}
