package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/noctura/landing/pkg/utils"
)

const (
	RelayFormspree = "formspree"
	RelaySES       = "ses"

	DeliveryAcknowledged  = "acknowledged"
	DeliveryFireAndForget = "fire_and_forget"

	DefaultFormEndpoint = "https://formspree.io/f/mblkendl"
	DefaultContactEmail = "contact@noctura.ai"
)

type WaitlistConfig struct {
	Relay        string
	Delivery     string
	FormEndpoint string
	RelayTimeout time.Duration
	MaxAttempts  int

	NotifyTo   string
	NotifyFrom string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	ContactEmail string
}

func NewWaitlistConfig() *WaitlistConfig {
	return &WaitlistConfig{
		Relay:        strings.ToLower(utils.GetEnvTrimmedOrDefault("WAITLIST_RELAY", RelayFormspree)),
		Delivery:     strings.ToLower(utils.GetEnvTrimmedOrDefault("WAITLIST_DELIVERY", DeliveryFireAndForget)),
		FormEndpoint: utils.GetEnvTrimmedOrDefault("WAITLIST_FORM_ENDPOINT", DefaultFormEndpoint),
		RelayTimeout: utils.GetEnvDuration("WAITLIST_RELAY_TIMEOUT", 10*time.Second),
		MaxAttempts:  utils.GetEnvPositiveInt("WAITLIST_RELAY_MAX_ATTEMPTS", 3),

		NotifyTo:   utils.GetEnvTrimmed("WAITLIST_NOTIFY_TO"),
		NotifyFrom: utils.GetEnvTrimmed("WAITLIST_NOTIFY_FROM"),

		AWSRegion:          utils.GetEnvTrimmedOrDefault("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     sanitizeEnv(utils.GetEnvTrimmed("AWS_ACCESS_KEY_ID")),
		AWSSecretAccessKey: sanitizeEnv(utils.GetEnvTrimmed("AWS_SECRET_ACCESS_KEY")),

		ContactEmail: utils.GetEnvTrimmedOrDefault("CONTACT_EMAIL", DefaultContactEmail),
	}
}

func (wc *WaitlistConfig) IsFireAndForget() bool {
	return wc.Delivery == DeliveryFireAndForget
}

func (wc *WaitlistConfig) Validate() error {
	switch wc.Delivery {
	case DeliveryAcknowledged, DeliveryFireAndForget:
	default:
		return fmt.Errorf("unsupported WAITLIST_DELIVERY %q (supported: %s, %s)", wc.Delivery, DeliveryAcknowledged, DeliveryFireAndForget)
	}

	switch wc.Relay {
	case RelayFormspree:
		u, err := url.Parse(wc.FormEndpoint)
		if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
			return fmt.Errorf("invalid WAITLIST_FORM_ENDPOINT %q: expected an absolute http(s) URL", wc.FormEndpoint)
		}
	case RelaySES:
		missing := []string{}
		if wc.NotifyTo == "" {
			missing = append(missing, "WAITLIST_NOTIFY_TO")
		}
		if wc.NotifyFrom == "" {
			missing = append(missing, "WAITLIST_NOTIFY_FROM")
		}
		if wc.AWSAccessKeyID == "" {
			missing = append(missing, "AWS_ACCESS_KEY_ID")
		}
		if wc.AWSSecretAccessKey == "" {
			missing = append(missing, "AWS_SECRET_ACCESS_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("WAITLIST_RELAY=ses requires: %s", strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("unsupported WAITLIST_RELAY %q (supported: %s, %s)", wc.Relay, RelayFormspree, RelaySES)
	}

	return nil
}
