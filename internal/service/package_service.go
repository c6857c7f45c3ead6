package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studio-console-api/internal/dto"
	appErrors "github.com/noah-isme/studio-console-api/pkg/errors"
)

type documentBatchWriter interface {
	UpdateMany(ctx context.Context, collection string, ids []string, fields map[string]interface{}) error
}

type snapshotInvalidator interface {
	snapshotSource
	Invalidate(ctx context.Context, collection string)
}

// PackageServiceParams groups constructor dependencies.
type PackageServiceParams struct {
	Snapshots       snapshotInvalidator
	Writer          documentBatchWriter
	UsersCollection string
	Metrics         *MetricsService
	Logger          *zap.Logger
}

// PackageService runs package reconciliation. Credits are only written back when the caller
// asks for it explicitly.
type PackageService struct {
	dashboard *DashboardService
	snapshots snapshotInvalidator
	writer    documentBatchWriter
	users     string
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewPackageService constructs a PackageService.
func NewPackageService(params PackageServiceParams) *PackageService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	users := params.UsersCollection
	if users == "" {
		users = "users"
	}
	return &PackageService{
		dashboard: NewDashboardService(DashboardServiceParams{Snapshots: params.Snapshots, Metrics: params.Metrics, Logger: logger}),
		snapshots: params.Snapshots,
		writer:    params.Writer,
		users:     users,
		metrics:   params.Metrics,
		logger:    logger,
	}
}

// Reconcile classifies packages and, when apply is set, resets the remaining classes of every
// expired package that still holds credits.
func (s *PackageService) Reconcile(ctx context.Context, at *time.Time, apply bool) (*dto.ReconcileResponse, error) {
	if apply {
		// Writes must be decided on the current credit balance, not a cached copy.
		s.snapshots.Invalidate(ctx, s.users)
	}
	packages, _, err := s.dashboard.Packages(ctx, at)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReconcileResponse{PackagesResponse: *packages, Applied: apply}
	if !apply || len(packages.ExpiredWithCredits) == 0 {
		return resp, nil
	}

	ids := make([]string, 0, len(packages.ExpiredWithCredits))
	for _, entry := range packages.ExpiredWithCredits {
		ids = append(ids, entry.UserID)
	}
	fields := map[string]interface{}{
		"remainingClasses": 0,
		"creditsResetAt":   s.dashboard.now().UTC(),
	}
	if err := s.writer.UpdateMany(ctx, s.users, ids, fields); err != nil {
		s.logger.Error("package credit reset failed", zap.Int("count", len(ids)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, "failed to reset expired package credits")
	}
	s.snapshots.Invalidate(ctx, s.users)
	s.metrics.RecordCreditResets(len(ids))
	s.logger.Info("expired package credits reset", zap.Int("count", len(ids)))

	resp.ResetCount = len(ids)
	resp.ResetIDs = ids
	return resp, nil
}
