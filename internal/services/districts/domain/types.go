// Package domain holds the district service contracts and DTOs
package domain

import "mgnrega/internal/core/aggregate"

// Aggregated shapes are owned by core/aggregate; these aliases keep handlers off core imports
type (
	DistrictRecord  = aggregate.DistrictRecord
	MonthlySnapshot = aggregate.MonthlySnapshot
	StateSummary    = aggregate.StateSummary
)

// MaxCompare bounds one comparison request
const MaxCompare = 20
