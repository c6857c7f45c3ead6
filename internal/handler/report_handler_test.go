package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studio-console-api/internal/dto"
	appErrors "github.com/noah-isme/studio-console-api/pkg/errors"
)

type fakeReports struct {
	last dto.ReportRequest
	err  error
}

func (f *fakeReports) Export(_ context.Context, req dto.ReportRequest) (*dto.ReportFile, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ReportFile{Filename: req.Kind + ".csv", ContentType: "text/csv; charset=utf-8", Payload: []byte("Month,Income\n")}, nil
}

func serveReport(reports *fakeReports, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/reports/:kind", NewReportHandler(reports, time.UTC).Download)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestReportHandlerStreamsAttachment(t *testing.T) {
	reports := &fakeReports{}

	rec := serveReport(reports, "/reports/Finance?from=2024-03-01&to=2024-03-31")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="finance.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Month,Income\n", rec.Body.String())

	assert.Equal(t, "finance", reports.last.Kind)
	assert.Equal(t, dto.ReportFormatCSV, reports.last.Format)
	require.NotNil(t, reports.last.To)
	assert.True(t, reports.last.To.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestReportHandlerPassesFormat(t *testing.T) {
	reports := &fakeReports{}

	rec := serveReport(reports, "/reports/packages?format=PDF&at=2024-03-13")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.ReportFormatPDF, reports.last.Format)
	require.NotNil(t, reports.last.At)
}

func TestReportHandlerErrors(t *testing.T) {
	rec := serveReport(&fakeReports{}, "/reports/trainers?at=soon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serveReport(&fakeReports{err: appErrors.Clone(appErrors.ErrValidation, "invalid report request")}, "/reports/grades")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}
