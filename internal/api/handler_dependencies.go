package api

import (
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclelog/internal/logger"
	"github.com/terraincognita07/cyclelog/internal/metrics"
	"github.com/terraincognita07/cyclelog/internal/services"
)

func (handler *Handler) withDependencies(deps Dependencies) *Handler {
	log := deps.Log
	if log == nil {
		log = logger.WithComponent("api")
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.New()
	}
	hub := deps.Hub
	if hub == nil {
		hub = services.NewSnapshotHub()
	}

	skips := services.NewLoggingSkipReporter(log.WithField("subsystem", "analytics"), collector)

	handler.log = log
	handler.hub = hub
	handler.metrics = collector.Handler()
	handler.authService = services.NewAuthService(deps.Repositories.Users)
	handler.cycleService = services.NewCycleService(
		deps.Repositories.Cycles,
		handler.location,
		services.WithSnapshotPublisher(hub),
		services.WithMutationCounter(collector),
		services.WithCycleLogger(log.WithFields(logrus.Fields{"subsystem": "cycles"})),
	)
	handler.statsService = services.NewStatsService(deps.Repositories.Cycles, handler.location, skips)
	handler.settingsService = services.NewSettingsService(deps.Repositories.Users)
	handler.exportService = services.NewExportService(deps.Repositories.Cycles, handler.location)
	return handler
}
