package service

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-console-api/internal/analytics"
	"github.com/noah-isme/studio-console-api/internal/dto"
	appErrors "github.com/noah-isme/studio-console-api/pkg/errors"
	"github.com/noah-isme/studio-console-api/pkg/export"
)

type dashboardViews interface {
	Finance(ctx context.Context, at *time.Time, filter analytics.FinanceFilter) (*dto.FinanceResponse, bool, error)
	Trainers(ctx context.Context, at *time.Time) (*dto.TrainersResponse, bool, error)
	Packages(ctx context.Context, at *time.Time) (*dto.PackagesResponse, bool, error)
}

// ReportService turns dashboard views into CSV or PDF exports.
type ReportService struct {
	views     dashboardViews
	exporter  *ExportService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(views dashboardViews, exporter *ExportService, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = NewExportService(logger, nil, nil)
	}
	return &ReportService{views: views, exporter: exporter, validator: validate, logger: logger}
}

// Export builds the requested report.
func (s *ReportService) Export(ctx context.Context, req dto.ReportRequest) (*dto.ReportFile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}

	var (
		data export.Dataset
		err  error
	)
	switch req.Kind {
	case dto.ReportKindTrainers:
		data, err = s.trainerDataset(ctx, req)
	case dto.ReportKindFinance:
		data, err = s.financeDataset(ctx, req)
	case dto.ReportKindPackages:
		data, err = s.packageDataset(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	file, err := s.exporter.Render(req.Kind, req.Format, data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return file, nil
}

func (s *ReportService) trainerDataset(ctx context.Context, req dto.ReportRequest) (export.Dataset, error) {
	resp, _, err := s.views.Trainers(ctx, req.At)
	if err != nil {
		return export.Dataset{}, err
	}
	headers := []string{"Trainer", "Email", "Lessons (month)", "Attendance (month)", "Unique students", "Avg attendance", "Score", "Activity"}
	rows := make([]map[string]string, 0, len(resp.Trainers))
	for _, t := range resp.Trainers {
		rows = append(rows, map[string]string{
			"Trainer":            t.Name,
			"Email":              t.Email,
			"Lessons (month)":    strconv.Itoa(t.Month.Lessons),
			"Attendance (month)": strconv.Itoa(t.Month.Attendance),
			"Unique students":    strconv.Itoa(t.Month.UniqueStudents),
			"Avg attendance":     strconv.FormatFloat(t.Month.AvgAttendance, 'f', 1, 64),
			"Score":              strconv.Itoa(t.PerformanceScore),
			"Activity":           t.ActivityLevel,
		})
	}
	return export.Dataset{Title: "Trainer performance " + resp.ReferenceTime.Format("January 2006"), Headers: headers, Rows: rows}, nil
}

func (s *ReportService) financeDataset(ctx context.Context, req dto.ReportRequest) (export.Dataset, error) {
	resp, _, err := s.views.Finance(ctx, req.At, analytics.FinanceFilter{From: req.From, To: req.To})
	if err != nil {
		return export.Dataset{}, err
	}
	sum := resp.Summary
	headers := []string{"Month", "Income", "Expense", "Net"}
	rows := make([]map[string]string, 0, len(sum.ByMonth)+1)
	for _, m := range sum.ByMonth {
		rows = append(rows, map[string]string{
			"Month":   m.Month,
			"Income":  m.Income.StringFixed(2),
			"Expense": m.Expense.StringFixed(2),
			"Net":     m.Net.StringFixed(2),
		})
	}
	rows = append(rows, map[string]string{
		"Month":   "Total",
		"Income":  sum.TotalIncome.StringFixed(2),
		"Expense": sum.TotalExpenses.StringFixed(2),
		"Net":     sum.NetProfit.StringFixed(2),
	})
	return export.Dataset{Title: "Financial summary", Headers: headers, Rows: rows}, nil
}

func (s *ReportService) packageDataset(ctx context.Context, req dto.ReportRequest) (export.Dataset, error) {
	resp, _, err := s.views.Packages(ctx, req.At)
	if err != nil {
		return export.Dataset{}, err
	}
	headers := []string{"Member", "Email", "Membership", "Remaining classes", "Expiry", "Status", "Message"}
	rows := make([]map[string]string, 0, resp.Total())
	for _, bucket := range [][]analytics.PackageEntry{resp.ExpiredWithCredits, resp.ExpiringSoon, resp.RecentlyExpired} {
		for _, e := range bucket {
			rows = append(rows, map[string]string{
				"Member":            e.Name,
				"Email":             e.Email,
				"Membership":        e.MembershipType,
				"Remaining classes": strconv.Itoa(e.RemainingClasses),
				"Expiry":            e.ExpiryDate.Format("2006-01-02"),
				"Status":            string(e.Bucket),
				"Message":           e.Message,
			})
		}
	}
	return export.Dataset{Title: "Package expiration", Headers: headers, Rows: rows}, nil
}
