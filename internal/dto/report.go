package dto

import "time"

// Report kinds available for export.
const (
	ReportKindTrainers = "trainers"
	ReportKindFinance  = "finance"
	ReportKindPackages = "packages"
)

// Report formats.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

// ReportRequest describes an export.
type ReportRequest struct {
	Kind   string     `validate:"required,oneof=trainers finance packages"`
	Format string     `validate:"required,oneof=csv pdf"`
	At     *time.Time `validate:"-"`
	From   *time.Time `validate:"-"`
	To     *time.Time `validate:"-"`
}

// ReportFile is a rendered export ready to be streamed.
type ReportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
