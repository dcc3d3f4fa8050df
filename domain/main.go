package domain

import (
	"context"
	"time"

	"github.com/noctura/landing/config"
	"github.com/noctura/landing/domain/landing"
	"github.com/noctura/landing/domain/monitoring"
	"github.com/noctura/landing/domain/waitlist"
)

const waitlistDrainTimeout = 30 * time.Second

func SetupCoreDomain(appConfig *config.ApplicationConfig) error {
	rs := appConfig.RouterService

	waitlistFactory := waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, appConfig.Waitlist, rs.MetricsRegisterer())
	service, err := waitlistFactory.CreateService()
	if err != nil {
		return err
	}

	appConfig.OnCleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitlistDrainTimeout)
		defer cancel()
		if err := service.Close(ctx); err != nil {
			appConfig.Logger.Error("Failed to drain waitlist dispatches", "error", err)
		}
	})

	rs.MountController(landing.NewLandingController(service, appConfig.Waitlist.ContactEmail))
	rs.MountController(waitlistFactory.CreateController(service))
	rs.MountController(monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Cache, service).CreateController())

	return nil
}
