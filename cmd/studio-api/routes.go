package main

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studio-console-api/internal/handler"
	"github.com/noah-isme/studio-console-api/internal/middleware"
	"github.com/noah-isme/studio-console-api/internal/models"
	appErrors "github.com/noah-isme/studio-console-api/pkg/errors"
	"github.com/noah-isme/studio-console-api/pkg/response"
)

type routeDeps struct {
	APIPrefix        string
	DashboardEnabled bool
	Verifier         middleware.TokenVerifier
	Limiter          *middleware.RateLimiter
	Dashboard        *handler.DashboardHandler
	Packages         *handler.PackageHandler
	Reports          *handler.ReportHandler
	Metrics          *handler.MetricsHandler
}

func registerRoutes(r *gin.Engine, deps routeDeps) {
	r.GET("/health", deps.Metrics.Health)
	r.GET("/ready", deps.Metrics.Ready)
	r.GET("/metrics", deps.Metrics.Prometheus)

	api := r.Group(deps.APIPrefix)
	api.Use(middleware.RateLimit(deps.Limiter), middleware.WithResponseMeta(), middleware.Auth(deps.Verifier))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor)
	admin := middleware.RequireRoles(models.RoleAdmin)

	dashboard := api.Group("/dashboard")
	if deps.DashboardEnabled {
		dashboard.GET("/overview", staff, deps.Dashboard.Overview)
		dashboard.GET("/attendance", staff, deps.Dashboard.Attendance)
		dashboard.GET("/trainers", staff, deps.Dashboard.Trainers)
		dashboard.GET("/finance", admin, deps.Dashboard.Finance)
		dashboard.GET("/packages", admin, deps.Dashboard.Packages)
	} else {
		dashboard.Any("/*view", featureDisabled)
	}

	api.POST("/packages/reconcile", admin, deps.Packages.Reconcile)
	api.GET("/reports/:kind", admin, deps.Reports.Download)
	api.GET("/system/metrics", admin, deps.Metrics.Summary)
}

func featureDisabled(c *gin.Context) {
	response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "dashboard is disabled"))
}
