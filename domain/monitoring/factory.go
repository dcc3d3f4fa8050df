package monitoring

import (
	"github.com/noctura/landing/config/router"
	"gorm.io/gorm"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db    *gorm.DB
	cache Cache
	relay RelayReporter
}

func NewMonitoringControllerFactory(db *gorm.DB, cache Cache, relay RelayReporter) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:    db,
		cache: cache,
		relay: relay,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.cache, f.relay)
}
