package monitoring

import (
	"context"
	"time"

	"github.com/noctura/landing/config/router"
	"github.com/noctura/landing/internal/log"
	"github.com/noctura/landing/pkg/circuitbreaker"
	"gorm.io/gorm"
)

const (
	monitoringRequestsPerMinute = 10
	healthCheckTimeout          = 2 * time.Second
)

type Cache interface {
	Ping(ctx context.Context) error
}

// RelayReporter exposes the circuit state guarding the waitlist destination.
type RelayReporter interface {
	RelayState() circuitbreaker.CircuitState
}

type HealthStatus struct {
	Database int `json:"database"` // 1 = healthy, 0 = unhealthy/not configured
	Cache    int `json:"cache"`    // 1 = healthy, 0 = unhealthy/not configured
	Relay    int `json:"relay"`    // 1 = circuit closed or probing, 0 = open
	Uptime   int `json:"uptime"`   // uptime in seconds
}

type MonitoringController struct {
	db        *gorm.DB
	cache     Cache
	relay     RelayReporter
	startTime time.Time
	now       func() time.Time
}

func NewMonitoringController(db *gorm.DB, cache Cache, relay RelayReporter) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		cache:     cache,
		relay:     relay,
		startTime: time.Now(),
		now:       time.Now,
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			limiter := routerService.NewRateLimiter("monitoring", monitoringRequestsPerMinute, time.Minute)

			routerService.AddGetHandler(controller, limiter, "health", ctrl.healthCheck)
		},
	)
}

func (ctrl *MonitoringController) healthCheck(c *router.RequestContext) *router.ServiceResult {
	logger := router.GetLogger(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := ctrl.performHealthChecks(ctx, logger)
	logger.Debug("Health check completed",
		"database", status.Database,
		"cache", status.Cache,
		"relay", status.Relay,
	)

	return router.OKResult(status, "noctura-landing health check completed")
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(ctrl.now().Sub(ctrl.startTime).Seconds()),
	}

	checkDatabaseConnectivity(ctx, ctrl, &status, logger)
	checkCacheConnectivity(ctx, ctrl, &status, logger)
	checkRelayState(ctrl, &status, logger)

	return status
}

func checkCacheConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.cache == nil {
		return
	}
	if ctrl.cache.Ping(ctx) == nil {
		status.Cache = 1
		return
	}
	logger.Error("Cache health check failed")
}

func checkDatabaseConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.db == nil {
		return
	}
	if ctrl.checkDatabase(ctx) {
		status.Database = 1
		return
	}
	logger.Error("Database health check failed")
}

func checkRelayState(ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.relay == nil {
		return
	}
	state := ctrl.relay.RelayState()
	if state == circuitbreaker.Open {
		logger.Warn("Waitlist relay circuit is open")
		return
	}
	status.Relay = 1
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
