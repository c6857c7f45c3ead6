package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-console-api/internal/dto"
	"github.com/noah-isme/studio-console-api/pkg/export"
)

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportService renders datasets into downloadable files.
type ExportService struct {
	renderers map[string]datasetRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		renderers: map[string]datasetRenderer{
			dto.ReportFormatCSV: csv,
			dto.ReportFormatPDF: pdf,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Render produces a file named after the report kind and generation date.
func (s *ExportService) Render(kind, format string, data export.Dataset) (*dto.ReportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %s", format)
	}
	payload, err := renderer.Render(data)
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", kind, err)
	}
	file := &dto.ReportFile{
		Filename:    s.filename(kind, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}
	s.logger.Debug("report rendered", zap.String("kind", kind), zap.String("format", format), zap.Int("bytes", len(payload)))
	return file, nil
}

func (s *ExportService) filename(kind, ext string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%s-%s.%s", kind, s.now().Format("20060102"), suffix, ext)
}
