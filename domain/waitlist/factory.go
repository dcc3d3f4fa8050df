package waitlist

import (
	"fmt"

	"github.com/noctura/landing/config"
	"github.com/noctura/landing/config/router"
	"github.com/noctura/landing/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateService() (WaitlistService, error)
	CreateController(service WaitlistService) *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db         *gorm.DB
	logger     *log.Logger
	cfg        *config.WaitlistConfig
	registerer prometheus.Registerer
}

func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, cfg *config.WaitlistConfig, registerer prometheus.Registerer) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:         db,
		logger:     logger,
		cfg:        cfg,
		registerer: registerer,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateService() (WaitlistService, error) {
	dispatcher, err := NewDispatcher(f.cfg, f.logger)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Waitlist relay configured",
		"relay", f.cfg.Relay,
		"delivery", f.cfg.Delivery,
		"destination", dispatcher.Destination(),
	)

	return NewWaitlistService(ServiceConfig{
		Logger:            f.logger,
		Dispatcher:        dispatcher,
		Repository:        NewSubmissionRepository(f.db),
		Registerer:        f.registerer,
		FireAndForget:     f.cfg.IsFireAndForget(),
		BackgroundTimeout: f.cfg.RelayTimeout * 3,
	}), nil
}

func (f *DefaultWaitlistServiceFactory) CreateController(service WaitlistService) *router.RESTController {
	return NewWaitlistController(service)
}

// NewDispatcher builds the acknowledged relay named by cfg.Relay.
func NewDispatcher(cfg *config.WaitlistConfig, logger *log.Logger) (Dispatcher, error) {
	switch cfg.Relay {
	case config.RelaySES:
		return NewSESRelay(SESRelayConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			From:            cfg.NotifyFrom,
			To:              cfg.NotifyTo,
			MaxAttempts:     cfg.MaxAttempts,
			Logger:          logger,
		}), nil
	case config.RelayFormspree, "":
		relay, err := NewFormRelay(FormRelayConfig{
			Endpoint:    cfg.FormEndpoint,
			Timeout:     cfg.RelayTimeout,
			MaxAttempts: cfg.MaxAttempts,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		return relay, nil
	default:
		return nil, fmt.Errorf("unsupported waitlist relay %q", cfg.Relay)
	}
}
