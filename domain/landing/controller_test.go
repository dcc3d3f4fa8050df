package landing

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noctura/landing/config/router"
	"github.com/noctura/landing/domain/waitlist"
	"github.com/noctura/landing/internal/log"
	"github.com/noctura/landing/internal/models"
	apperrors "github.com/noctura/landing/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLandingRouter(t *testing.T, service waitlist.WaitlistService) *router.RouterService {
	t.Helper()
	rs := router.CreateRouterService(log.NewDiscardLogger(), nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
	t.Cleanup(rs.Cleanup)
	rs.MountController(NewLandingController(service, "contact@noctura.ai"))
	return rs
}

func postForm(rs *router.RouterService, email string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}}
	req := httptest.NewRequest(http.MethodPost, "/waitlist", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(rec, req)
	return rec
}

func TestLandingPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	rs := newLandingRouter(t, waitlist.NewMockWaitlistService(ctrl))

	rec := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Secure Your AI Agents with")
	assert.Contains(t, body, ">Join Waitlist</button>")
	assert.NotContains(t, body, `id="toast"`)
}

func TestJoinWaitlistPage_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := waitlist.NewMockWaitlistService(ctrl)
	service.EXPECT().Join(gomock.Any(), "user@example.com").Return(&waitlist.JoinResult{
		Notification: waitlist.SuccessNotification(),
		Outcome:      models.SubmissionOutcomeDelivered,
	}, nil)

	rec := postForm(newLandingRouter(t, service), "user@example.com")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "toast-success")
	assert.Contains(t, body, "added to the waitlist")
	assert.Contains(t, body, `value=""`)
}

func TestJoinWaitlistPage_EmptyEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := waitlist.NewMockWaitlistService(ctrl)
	service.EXPECT().Join(gomock.Any(), "").Return(&waitlist.JoinResult{
		Notification: waitlist.ErrorNotification(waitlist.MessageEmailRequired),
		Outcome:      waitlist.OutcomeInvalid,
	}, waitlist.ErrEmailRequired)

	rec := postForm(newLandingRouter(t, service), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "toast-error")
	assert.Contains(t, body, waitlist.MessageEmailRequired)
}

func TestJoinWaitlistPage_DispatchFailureKeepsEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := waitlist.NewMockWaitlistService(ctrl)
	service.EXPECT().Join(gomock.Any(), "user@example.com").Return(&waitlist.JoinResult{
		Notification: waitlist.ErrorNotification(waitlist.MessageFailed),
		Email:        "user@example.com",
		Outcome:      models.SubmissionOutcomeFailed,
	}, apperrors.NewBadGatewayError(waitlist.MessageFailed, nil))

	rec := postForm(newLandingRouter(t, service), "user@example.com")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Something went wrong. Please try again.")
	assert.Contains(t, body, `value="user@example.com"`)
}

func TestStaticAssets(t *testing.T) {
	ctrl := gomock.NewController(t)
	rs := newLandingRouter(t, waitlist.NewMockWaitlistService(ctrl))

	for _, path := range []string{"/static/styles.css", "/static/waitlist.js"} {
		rec := httptest.NewRecorder()
		rs.GetEngine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Body.String())
	}
}

func TestNotFoundPageForBrowsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	rs := newLandingRouter(t, waitlist.NewMockWaitlistService(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}
