// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

package core

// HealthStatus represents the health state reported by a role service.
type HealthStatus string

const (
	// HealthHealthy indicates the service is up and accepting tasks.
	HealthHealthy HealthStatus = "healthy"
)

// HealthReport is the fixed body returned by GET /health.
// It never reflects the generation backend's availability.
type HealthReport struct {
	Status HealthStatus `json:"status"`
	Role   string       `json:"role"`
}

// NewHealthReport returns the healthy report for the given role display name.
func NewHealthReport(role string) HealthReport {
	return HealthReport{Status: HealthHealthy, Role: role}
}
