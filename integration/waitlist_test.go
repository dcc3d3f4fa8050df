package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/noctura/landing/config"
	"github.com/noctura/landing/config/router"
	"github.com/noctura/landing/domain"
	"github.com/noctura/landing/internal/log"
	"github.com/noctura/landing/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// formUpstream stands in for the hosted form service.
type formUpstream struct {
	server *httptest.Server
	status atomic.Int32

	mu     sync.Mutex
	emails []string
}

func newFormUpstream() *formUpstream {
	u := &formUpstream{}
	u.status.Store(http.StatusOK)
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		u.mu.Lock()
		u.emails = append(u.emails, r.PostForm.Get("email"))
		u.mu.Unlock()
		w.WriteHeader(int(u.status.Load()))
		_, _ = w.Write([]byte(`{}`))
	}))
	return u
}

func (u *formUpstream) received() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.emails...)
}

func (u *formUpstream) reset(status int) {
	u.mu.Lock()
	u.emails = nil
	u.mu.Unlock()
	u.status.Store(int32(status))
}

func newApplication(db *gorm.DB, upstreamURL, delivery string) (*config.ApplicationConfig, error) {
	logger := log.NewDiscardLogger()

	appConfig := &config.ApplicationConfig{
		DB:     db,
		Logger: logger,
		Waitlist: &config.WaitlistConfig{
			Relay:        config.RelayFormspree,
			Delivery:     delivery,
			FormEndpoint: upstreamURL + "/f/test",
			RelayTimeout: 2 * time.Second,
			MaxAttempts:  2,
			ContactEmail: config.DefaultContactEmail,
		},
	}
	appConfig.RouterService = router.CreateRouterService(logger, nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    10 * time.Second,
		MetricsEnabled:    true,
	})

	if err := domain.SetupCoreDomain(appConfig); err != nil {
		return nil, err
	}
	return appConfig, nil
}

type WaitlistAPITestSuite struct {
	suite.Suite
	db        *gorm.DB
	upstream  *formUpstream
	server    *httptest.Server
	baseURL   string
	appConfig *config.ApplicationConfig
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared&_busy_timeout=10000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.AutoMigrate(models.ModelRegistry...))

	suite.upstream = newFormUpstream()

	suite.appConfig, err = newApplication(suite.db, suite.upstream.server.URL, config.DeliveryAcknowledged)
	suite.Require().NoError(err)

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL
}

func (suite *WaitlistAPITestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.upstream != nil {
		suite.upstream.server.Close()
	}
	if suite.appConfig != nil {
		suite.appConfig.Cleanup()
	}
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM waitlist_submissions")
	suite.upstream.reset(http.StatusOK)
}

func (suite *WaitlistAPITestSuite) outcomes() []string {
	var rows []models.WaitlistSubmission
	suite.Require().NoError(suite.db.Order("created_at asc").Find(&rows).Error)
	outcomes := make([]string, 0, len(rows))
	for _, row := range rows {
		outcomes = append(outcomes, row.Outcome)
	}
	return outcomes
}

func (suite *WaitlistAPITestSuite) postJSON(email string) (*http.Response, map[string]interface{}) {
	body, _ := json.Marshal(map[string]string{"email": email})
	resp, err := http.Post(suite.baseURL+"/v1/waitlist", "application/json", bytes.NewBuffer(body))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var response map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	return resp, response
}

func (suite *WaitlistAPITestSuite) postForm(email string) (*http.Response, string) {
	resp, err := http.PostForm(suite.baseURL+"/waitlist", url.Values{"email": {email}})
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	suite.Require().NoError(err)
	return resp, buf.String()
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, err := http.Get(suite.baseURL + "/health")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	suite.Contains(response["message"], "health check completed")

	data := response["data"].(map[string]interface{})
	suite.Equal(float64(1), data["database"])
	suite.Equal(float64(0), data["cache"])
	suite.Equal(float64(1), data["relay"])
	suite.Contains(data, "uptime")
}

func (suite *WaitlistAPITestSuite) TestLandingPage() {
	resp, err := http.Get(suite.baseURL + "/")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	suite.NotEmpty(resp.Header.Get("Content-Security-Policy"))
}

func (suite *WaitlistAPITestSuite) TestJoinViaAPI_Delivered() {
	resp, response := suite.postJSON("user@example.com")

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(response["message"], "added to the waitlist")
	data := response["data"].(map[string]interface{})
	suite.Equal("", data["email"])
	suite.Equal(models.SubmissionOutcomeDelivered, data["status"])

	suite.Equal([]string{"user@example.com"}, suite.upstream.received())
	suite.Equal([]string{models.SubmissionOutcomeDelivered}, suite.outcomes())
}

func (suite *WaitlistAPITestSuite) TestJoinViaAPI_MalformedEmailStillRelayed() {
	resp, _ := suite.postJSON("not-an-email")

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal([]string{"not-an-email"}, suite.upstream.received())
}

func (suite *WaitlistAPITestSuite) TestJoinViaAPI_EmptyEmail() {
	resp, response := suite.postJSON("")

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal("Please enter your email address", response["message"])
	suite.Empty(suite.upstream.received())
	suite.Empty(suite.outcomes())
}

func (suite *WaitlistAPITestSuite) TestJoinViaAPI_UpstreamRejects() {
	suite.upstream.reset(http.StatusUnprocessableEntity)

	resp, response := suite.postJSON("user@example.com")

	suite.Equal(http.StatusBadGateway, resp.StatusCode)
	suite.Equal("Something went wrong. Please try again.", response["message"])
	data := response["data"].(map[string]interface{})
	suite.Equal("user@example.com", data["email"])
	suite.Len(suite.upstream.received(), 1)
	suite.Equal([]string{models.SubmissionOutcomeRejected}, suite.outcomes())
}

func (suite *WaitlistAPITestSuite) TestJoinViaForm() {
	resp, body := suite.postForm("user@example.com")

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(body, "toast-success")
	suite.Contains(body, `value=""`)
	suite.Equal([]string{"user@example.com"}, suite.upstream.received())
}

func (suite *WaitlistAPITestSuite) TestJoinViaForm_UpstreamDown() {
	suite.upstream.reset(http.StatusServiceUnavailable)

	resp, body := suite.postForm("user@example.com")

	suite.Equal(http.StatusBadGateway, resp.StatusCode)
	suite.Contains(body, "Something went wrong. Please try again.")
	suite.Contains(body, `value="user@example.com"`)
	suite.Len(suite.upstream.received(), 2)
	suite.Equal([]string{models.SubmissionOutcomeFailed}, suite.outcomes())
}

func (suite *WaitlistAPITestSuite) TestMetricsExposeSubmissions() {
	suite.postJSON("user@example.com")

	resp, err := http.Get(suite.baseURL + "/metrics")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	suite.Require().NoError(err)
	suite.True(strings.Contains(buf.String(), `waitlist_submissions_total{outcome="delivered"}`))
}

func TestWaitlistAPISuite(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}

	suite.Run(t, new(WaitlistAPITestSuite))
}

func TestFireAndForgetDrainsOnCleanup(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}

	dbPath := filepath.Join(t.TempDir(), "waitlist.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.ModelRegistry...))

	upstream := newFormUpstream()
	defer upstream.server.Close()
	upstream.reset(http.StatusInternalServerError)

	appConfig, err := newApplication(db, upstream.server.URL, config.DeliveryFireAndForget)
	require.NoError(t, err)
	server := httptest.NewServer(appConfig.RouterService.GetEngine())

	body, _ := json.Marshal(map[string]string{"email": "user@example.com"})
	resp, err := http.Post(server.URL+"/v1/waitlist", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	server.Close()
	appConfig.Cleanup()

	reopened, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	defer config.CloseDatabase(reopened, log.NewDiscardLogger())

	var rows []models.WaitlistSubmission
	require.NoError(t, reopened.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.SubmissionOutcomeFailed, rows[0].Outcome)
	assert.Equal(t, http.StatusInternalServerError, rows[0].StatusCode)
	assert.Len(t, upstream.received(), 2)
}
