package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studio-console-api/internal/dto"
	"github.com/noah-isme/studio-console-api/pkg/response"
)

type reportExporter interface {
	Export(ctx context.Context, req dto.ReportRequest) (*dto.ReportFile, error)
}

// ReportHandler exposes report downloads.
type ReportHandler struct {
	reports  reportExporter
	location *time.Location
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportExporter, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{reports: reports, location: loc}
}

// Download godoc
// @Summary Download a report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param kind path string true "trainers, finance or packages"
// @Param format query string false "csv (default) or pdf"
// @Param at query string false "Reference instant"
// @Param from query string false "Finance lower bound"
// @Param to query string false "Finance upper bound"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/{kind} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	req := dto.ReportRequest{
		Kind:   strings.ToLower(c.Param("kind")),
		Format: strings.ToLower(c.DefaultQuery("format", dto.ReportFormatCSV)),
	}
	var err error
	if req.At, err = queryInstant(c, "at", h.location); err != nil {
		response.Error(c, err)
		return
	}
	if req.From, req.To, err = queryRange(c, h.location); err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.reports.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
