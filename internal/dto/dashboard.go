package dto

import (
	"time"

	"github.com/noah-isme/studio-console-api/internal/analytics"
)

// ViewContext describes the reference instant a view was computed for.
type ViewContext struct {
	ReferenceTime time.Time `json:"reference_time"`
	Timezone      string    `json:"timezone"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// OverviewResponse is the console landing-page payload.
type OverviewResponse struct {
	ViewContext
	Stats analytics.OverviewStats `json:"stats"`
}

// AttendanceResponse carries the three attendance charts.
type AttendanceResponse struct {
	ViewContext
	Window  analytics.Window `json:"window"`
	Daily   analytics.Series `json:"daily"`
	Weekly  analytics.Series `json:"weekly"`
	Monthly analytics.Series `json:"monthly"`
}

// FinanceResponse carries the financial summary.
type FinanceResponse struct {
	ViewContext
	Summary analytics.FinanceSummary `json:"summary"`
}

// TrainersResponse carries the trainer leaderboard.
type TrainersResponse struct {
	ViewContext
	Trainers []analytics.TrainerPerformance `json:"trainers"`
}

// PackagesResponse carries the package expiration buckets.
type PackagesResponse struct {
	ViewContext
	analytics.PackageReport
}

// ReconcileRequest asks for a package reconciliation run.
type ReconcileRequest struct {
	Apply bool `json:"apply"`
}

// ReconcileResponse reports the classification and any credits reset.
type ReconcileResponse struct {
	PackagesResponse
	Applied    bool     `json:"applied"`
	ResetCount int      `json:"reset_count"`
	ResetIDs   []string `json:"reset_ids,omitempty"`
}
