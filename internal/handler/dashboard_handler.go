package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studio-console-api/internal/analytics"
	"github.com/noah-isme/studio-console-api/internal/dto"
	"github.com/noah-isme/studio-console-api/internal/middleware"
	"github.com/noah-isme/studio-console-api/internal/models"
	appErrors "github.com/noah-isme/studio-console-api/pkg/errors"
	"github.com/noah-isme/studio-console-api/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context, at *time.Time) (*dto.OverviewResponse, bool, error)
	Attendance(ctx context.Context, at *time.Time) (*dto.AttendanceResponse, bool, error)
	Finance(ctx context.Context, at *time.Time, filter analytics.FinanceFilter) (*dto.FinanceResponse, bool, error)
	Trainers(ctx context.Context, at *time.Time) (*dto.TrainersResponse, bool, error)
	Packages(ctx context.Context, at *time.Time) (*dto.PackagesResponse, bool, error)
}

// DashboardHandler wires the dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service  dashboardService
	location *time.Location
}

// NewDashboardHandler constructs the handler. Date-only query values are read in loc.
func NewDashboardHandler(service dashboardService, loc *time.Location) *DashboardHandler {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardHandler{service: service, location: loc}
}

// Overview godoc
// @Summary Studio overview
// @Description The finance block is returned to admins only
// @Tags Dashboard
// @Produce json
// @Param at query string false "Reference instant (RFC3339 or YYYY-MM-DD). Defaults to now"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	at, ok := h.referenceTime(c)
	if !ok {
		return
	}
	resp, hit, err := h.service.Overview(c.Request.Context(), at)
	if err == nil && resp != nil && !canSeeFinance(c) {
		trimmed := *resp
		trimmed.Stats = resp.Stats.WithoutFinance()
		resp = &trimmed
	}
	h.respond(c, resp, hit, err)
}

func canSeeFinance(c *gin.Context) bool {
	principal, ok := middleware.CurrentPrincipal(c)
	return ok && principal.Role == models.RoleAdmin
}

// Attendance godoc
// @Summary Daily, weekly and monthly attendance charts
// @Tags Dashboard
// @Produce json
// @Param at query string false "Reference instant (RFC3339 or YYYY-MM-DD). Defaults to now"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /dashboard/attendance [get]
func (h *DashboardHandler) Attendance(c *gin.Context) {
	at, ok := h.referenceTime(c)
	if !ok {
		return
	}
	resp, hit, err := h.service.Attendance(c.Request.Context(), at)
	if err == nil && resp != nil {
		middleware.SetMeta(c, "placeholder", resp.Weekly.Placeholder)
	}
	h.respond(c, resp, hit, err)
}

// Finance godoc
// @Summary Financial summary
// @Tags Dashboard
// @Produce json
// @Param from query string false "Inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Upper bound; a date covers that whole day"
// @Param at query string false "Reference instant"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/finance [get]
func (h *DashboardHandler) Finance(c *gin.Context) {
	at, ok := h.referenceTime(c)
	if !ok {
		return
	}
	from, to, err := queryRange(c, h.location)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp, hit, err := h.service.Finance(c.Request.Context(), at, analytics.FinanceFilter{From: from, To: to})
	h.respond(c, resp, hit, err)
}

// Trainers godoc
// @Summary Trainer performance leaderboard
// @Tags Dashboard
// @Produce json
// @Param at query string false "Reference instant (RFC3339 or YYYY-MM-DD). Defaults to now"
// @Success 200 {object} response.Envelope
// @Router /dashboard/trainers [get]
func (h *DashboardHandler) Trainers(c *gin.Context) {
	at, ok := h.referenceTime(c)
	if !ok {
		return
	}
	resp, hit, err := h.service.Trainers(c.Request.Context(), at)
	h.respond(c, resp, hit, err)
}

// Packages godoc
// @Summary Package expiration buckets
// @Tags Dashboard
// @Produce json
// @Param at query string false "Reference instant (RFC3339 or YYYY-MM-DD). Defaults to now"
// @Success 200 {object} response.Envelope
// @Router /dashboard/packages [get]
func (h *DashboardHandler) Packages(c *gin.Context) {
	at, ok := h.referenceTime(c)
	if !ok {
		return
	}
	resp, hit, err := h.service.Packages(c.Request.Context(), at)
	h.respond(c, resp, hit, err)
}

func (h *DashboardHandler) referenceTime(c *gin.Context) (*time.Time, bool) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return nil, false
	}
	at, err := queryInstant(c, "at", h.location)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return at, true
}

func (h *DashboardHandler) respond(c *gin.Context, data interface{}, hit bool, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, data, middleware.ResponseMeta(c))
}
