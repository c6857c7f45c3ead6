package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studio-console-api/internal/analytics"
	"github.com/noah-isme/studio-console-api/internal/dto"
)

type snapshotSource interface {
	Load(ctx context.Context) (analytics.Snapshot, bool, error)
	Location() *time.Location
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Snapshots snapshotSource
	Metrics   *MetricsService
	Logger    *zap.Logger
}

// DashboardService loads a snapshot per request and runs the requested aggregation over it.
// Aggregations never fail; only the load can.
type DashboardService struct {
	snapshots snapshotSource
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		snapshots: params.Snapshots,
		metrics:   params.Metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Overview returns the landing-page summary.
func (s *DashboardService) Overview(ctx context.Context, at *time.Time) (*dto.OverviewResponse, bool, error) {
	snapshot, hit, ref, err := s.load(ctx, at)
	if err != nil {
		return nil, false, err
	}
	var stats analytics.OverviewStats
	s.observe("overview", func() { stats = analytics.Overview(snapshot, ref) })
	return &dto.OverviewResponse{ViewContext: s.viewContext(ref), Stats: stats}, hit, nil
}

// Attendance returns the daily, weekly and monthly attendance charts.
func (s *DashboardService) Attendance(ctx context.Context, at *time.Time) (*dto.AttendanceResponse, bool, error) {
	snapshot, hit, ref, err := s.load(ctx, at)
	if err != nil {
		return nil, false, err
	}
	var report analytics.AttendanceReport
	s.observe("attendance", func() { report = analytics.Attendance(snapshot.Lessons, ref) })
	if report.Weekly.Placeholder {
		s.logger.Debug("weekly attendance is placeholder data", zap.Time("reference", ref))
	}
	return &dto.AttendanceResponse{
		ViewContext: s.viewContext(ref),
		Window:      analytics.NewWindow(ref),
		Daily:       report.Daily,
		Weekly:      report.Weekly,
		Monthly:     report.Monthly,
	}, hit, nil
}

// Finance returns the financial summary for the filter. An empty filter covers all time.
func (s *DashboardService) Finance(ctx context.Context, at *time.Time, filter analytics.FinanceFilter) (*dto.FinanceResponse, bool, error) {
	snapshot, hit, ref, err := s.load(ctx, at)
	if err != nil {
		return nil, false, err
	}
	var summary analytics.FinanceSummary
	s.observe("finance", func() { summary = analytics.SummarizeFinance(snapshot.Transactions, filter) })
	return &dto.FinanceResponse{ViewContext: s.viewContext(ref), Summary: summary}, hit, nil
}

// Trainers returns the trainer leaderboard.
func (s *DashboardService) Trainers(ctx context.Context, at *time.Time) (*dto.TrainersResponse, bool, error) {
	snapshot, hit, ref, err := s.load(ctx, at)
	if err != nil {
		return nil, false, err
	}
	var trainers []analytics.TrainerPerformance
	s.observe("trainers", func() { trainers = analytics.TrainerPerformanceReport(snapshot.Users, snapshot.Lessons, ref) })
	return &dto.TrainersResponse{ViewContext: s.viewContext(ref), Trainers: trainers}, hit, nil
}

// Packages returns the package expiration buckets.
func (s *DashboardService) Packages(ctx context.Context, at *time.Time) (*dto.PackagesResponse, bool, error) {
	snapshot, hit, ref, err := s.load(ctx, at)
	if err != nil {
		return nil, false, err
	}
	var report analytics.PackageReport
	s.observe("packages", func() { report = analytics.ClassifyPackages(snapshot.Users, ref) })
	return &dto.PackagesResponse{ViewContext: s.viewContext(ref), PackageReport: report}, hit, nil
}

// ReferenceTime resolves the instant a view is computed for, in the studio time zone.
func (s *DashboardService) ReferenceTime(at *time.Time) time.Time {
	loc := s.snapshots.Location()
	if at != nil {
		return at.In(loc)
	}
	return s.now().In(loc)
}

func (s *DashboardService) load(ctx context.Context, at *time.Time) (analytics.Snapshot, bool, time.Time, error) {
	snapshot, hit, err := s.snapshots.Load(ctx)
	if err != nil {
		return analytics.Snapshot{}, false, time.Time{}, err
	}
	return snapshot, hit, s.ReferenceTime(at), nil
}

func (s *DashboardService) observe(view string, fn func()) {
	start := time.Now()
	fn()
	s.metrics.ObserveAggregation(view, time.Since(start))
}

func (s *DashboardService) viewContext(ref time.Time) dto.ViewContext {
	return dto.ViewContext{
		ReferenceTime: ref,
		Timezone:      ref.Location().String(),
		GeneratedAt:   s.now().UTC(),
	}
}
