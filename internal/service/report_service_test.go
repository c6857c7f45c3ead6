package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-console-api/internal/dto"
	appErrors "github.com/noah-isme/studio-console-api/pkg/errors"
	"github.com/noah-isme/studio-console-api/pkg/export"
)

func newTestReportService(src *fakeSnapshots) *ReportService {
	exporter := NewExportService(zap.NewNop(), nil, nil)
	exporter.now = func() time.Time { return serviceNow }
	return NewReportService(newTestDashboard(src), exporter, nil, zap.NewNop())
}

func TestReportServiceRejectsInvalidRequest(t *testing.T) {
	svc := newTestReportService(&fakeSnapshots{snapshot: studioSnapshot()})

	_, err := svc.Export(context.Background(), dto.ReportRequest{Kind: "grades", Format: "csv"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Export(context.Background(), dto.ReportRequest{Kind: dto.ReportKindFinance, Format: "xlsx"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestReportServiceTrainerCSV(t *testing.T) {
	svc := newTestReportService(&fakeSnapshots{snapshot: studioSnapshot()})

	file, err := svc.Export(context.Background(), dto.ReportRequest{Kind: dto.ReportKindTrainers, Format: dto.ReportFormatCSV})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Filename, "trainers-20240313-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(file.Payload), "\uFEFF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Trainer,Email,Lessons (month),Attendance (month),Unique students,Avg attendance,Score,Activity", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Maya Demir,,2,5,4,2.5,"))
	assert.True(t, strings.HasSuffix(lines[1], ",Low"))
}

func TestReportServiceFinanceIncludesTotals(t *testing.T) {
	svc := newTestReportService(&fakeSnapshots{snapshot: studioSnapshot()})

	file, err := svc.Export(context.Background(), dto.ReportRequest{Kind: dto.ReportKindFinance, Format: dto.ReportFormatCSV})

	require.NoError(t, err)
	body := string(file.Payload)
	assert.Contains(t, body, "2024-02,80.00,0.00,80.00")
	assert.Contains(t, body, "2024-03,500.00,200.00,300.00")
	assert.Contains(t, body, "Total,580.00,200.00,380.00")
}

func TestReportServicePackagePDF(t *testing.T) {
	svc := newTestReportService(&fakeSnapshots{snapshot: studioSnapshot()})

	file, err := svc.Export(context.Background(), dto.ReportRequest{Kind: dto.ReportKindPackages, Format: dto.ReportFormatPDF})

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Payload), "%PDF"))
}

func TestReportServicePropagatesLoadFailure(t *testing.T) {
	svc := newTestReportService(&fakeSnapshots{err: appErrors.ErrDataUnavailable})

	_, err := svc.Export(context.Background(), dto.ReportRequest{Kind: dto.ReportKindPackages, Format: dto.ReportFormatCSV})

	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDataUnavailable))
}

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) { return nil, errors.New("disk full") }
func (failingRenderer) ContentType() string                   { return "text/csv" }
func (failingRenderer) Extension() string                     { return "csv" }

func TestReportServiceRenderFailure(t *testing.T) {
	exporter := NewExportService(nil, failingRenderer{}, nil)
	svc := NewReportService(newTestDashboard(&fakeSnapshots{snapshot: studioSnapshot()}), exporter, nil, nil)

	_, err := svc.Export(context.Background(), dto.ReportRequest{Kind: dto.ReportKindTrainers, Format: dto.ReportFormatCSV})

	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}
