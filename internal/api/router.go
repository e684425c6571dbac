// Package api registers the HTTP routes for the report pipeline.
//
// @title Visit Pipeline API
// @version 1.0
// @description Appointment batch processing, review detection, and report export.
// @BasePath /api/v1
package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "go-visit-pipeline/docs"
	"go-visit-pipeline/internal/api/handler"
	"go-visit-pipeline/internal/history"
	"go-visit-pipeline/internal/pipeline"
	"go-visit-pipeline/internal/store"
	"go-visit-pipeline/pkg/router"
)

// NewRouter builds the full route table over the service and stores.
func NewRouter(svc *pipeline.Service, hs history.Store, runs *store.Store, log *zap.Logger) *router.Router {
	r := router.New(log)

	reports := handler.NewReportHandler(svc, log)
	hist := handler.NewHistoryHandler(hs, log)
	health := handler.NewHealthHandler(runs, log)

	r.POST("/api/v1/reports", reports.CreateReport)
	r.GET("/api/v1/reports", reports.ListReports)
	// More specific routes first
	r.GET("/api/v1/reports/*/results", reports.GetReportResults)
	r.GET("/api/v1/reports/*/warnings", reports.GetReportWarnings)
	r.GET("/api/v1/reports/*/cancellations", reports.GetReportCancellations)
	r.GET("/api/v1/reports/*/export", reports.GetReportExport)
	// Generic report route last
	r.GET("/api/v1/reports/*", reports.GetReport)

	r.GET("/api/v1/history", hist.ListHistory)
	r.GET("/api/v1/history/*", hist.GetCaller)
	r.DELETE("/api/v1/history", hist.ResetHistory)

	r.GET("/api/v1/health", health.Health)

	r.GET("/swagger/*", func(w http.ResponseWriter, req *http.Request) {
		httpSwagger.WrapHandler.ServeHTTP(w, req)
	})

	return r
}
