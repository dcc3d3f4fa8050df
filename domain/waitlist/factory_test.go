package waitlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/noctura/landing/config"
	"github.com/noctura/landing/internal/log"
	"github.com/noctura/landing/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validatingUpstream answers 422 for values without an "@", like the hosted form service.
func validatingUpstream(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseForm(); err != nil || !strings.Contains(r.PostForm.Get("email"), "@") {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"errors":[{"field":"email","code":"TYPE_EMAIL"}]}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func defaultWaitlistConfig(t *testing.T, endpoint string) *config.WaitlistConfig {
	t.Helper()
	for _, key := range []string{"WAITLIST_RELAY", "WAITLIST_DELIVERY", "WAITLIST_RELAY_TIMEOUT", "WAITLIST_RELAY_MAX_ATTEMPTS"} {
		t.Setenv(key, "")
	}
	t.Setenv("WAITLIST_FORM_ENDPOINT", endpoint)

	cfg := config.NewWaitlistConfig()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestFactory_DefaultDeliveryReportsSuccessForUnvalidatedEmail(t *testing.T) {
	upstream, calls := validatingUpstream(t)
	registry := prometheus.NewRegistry()
	cfg := defaultWaitlistConfig(t, upstream.URL+"/f/test")

	service, err := NewWaitlistServiceFactory(nil, log.NewDiscardLogger(), cfg, registry).CreateService()
	require.NoError(t, err)

	result, err := service.Join(context.Background(), "not-an-email")
	require.NoError(t, err)
	assert.Equal(t, SuccessNotification(), result.Notification)
	assert.Equal(t, MessageJoined, result.Notification.Message)
	assert.Empty(t, result.Email)
	assert.Equal(t, models.SubmissionOutcomeQueued, result.Outcome)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, service.Close(ctx))

	assert.EqualValues(t, 1, calls.Load(), "rejections are not retried")
	metrics := service.(*waitlistService).metrics
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.submissions.WithLabelValues(models.SubmissionOutcomeQueued)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.background.WithLabelValues(models.SubmissionOutcomeRejected)))
}

func TestFactory_AcknowledgedDeliverySurfacesRejection(t *testing.T) {
	upstream, calls := validatingUpstream(t)
	cfg := defaultWaitlistConfig(t, upstream.URL+"/f/test")
	cfg.Delivery = config.DeliveryAcknowledged

	service, err := NewWaitlistServiceFactory(nil, log.NewDiscardLogger(), cfg, prometheus.NewRegistry()).CreateService()
	require.NoError(t, err)

	result, err := service.Join(context.Background(), "not-an-email")
	require.Error(t, err)
	assert.Equal(t, MessageFailed, result.Notification.Message)
	assert.Equal(t, "not-an-email", result.Email)
	assert.Equal(t, models.SubmissionOutcomeRejected, result.Outcome)
	assert.EqualValues(t, 1, calls.Load())
}
