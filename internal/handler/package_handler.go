package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-console-api/internal/dto"
	"github.com/noah-isme/studio-console-api/internal/middleware"
	appErrors "github.com/noah-isme/studio-console-api/pkg/errors"
	"github.com/noah-isme/studio-console-api/pkg/response"
)

type packageReconciler interface {
	Reconcile(ctx context.Context, at *time.Time, apply bool) (*dto.ReconcileResponse, error)
}

// PackageHandler exposes package reconciliation.
type PackageHandler struct {
	service  packageReconciler
	location *time.Location
	logger   *zap.Logger
}

// NewPackageHandler constructs the handler.
func NewPackageHandler(service packageReconciler, loc *time.Location, logger *zap.Logger) *PackageHandler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageHandler{service: service, location: loc, logger: logger}
}

// Reconcile godoc
// @Summary Classify package expirations and optionally reset expired credits
// @Tags Packages
// @Accept json
// @Produce json
// @Param payload body dto.ReconcileRequest false "Set apply to write remainingClasses = 0"
// @Param at query string false "Reference instant (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /packages/reconcile [post]
func (h *PackageHandler) Reconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid reconcile payload"))
		return
	}
	at, err := queryInstant(c, "at", h.location)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.Reconcile(c.Request.Context(), at, req.Apply)
	if err != nil {
		response.Error(c, err)
		return
	}
	if principal, ok := middleware.CurrentPrincipal(c); ok && result.Applied {
		h.logger.Info("package reconciliation applied",
			zap.String("uid", principal.UID),
			zap.Int("reset_count", result.ResetCount),
		)
	}
	response.JSON(c, http.StatusOK, result, middleware.ResponseMeta(c))
}
