package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRemote(t *testing.T) {
	before := testutil.ToFloat64(remoteRequests.WithLabelValues("getComments", "ok"))
	ObserveRemote("getComments", "ok", 120*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(remoteRequests.WithLabelValues("getComments", "ok")))
}

func TestObserveReload(t *testing.T) {
	okBefore := testutil.ToFloat64(siteReloads.WithLabelValues("manual", "ok"))
	errBefore := testutil.ToFloat64(siteReloads.WithLabelValues("manual", "error"))

	ObserveReload("manual", nil)
	ObserveReload("manual", errors.New("bad yaml"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(siteReloads.WithLabelValues("manual", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(siteReloads.WithLabelValues("manual", "error")))
}

func TestSessionGauges(t *testing.T) {
	SetActiveSessions(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(activeSessions))

	before := testutil.ToFloat64(reapedSessions)
	ObserveReaped(3)
	assert.Equal(t, before+3, testutil.ToFloat64(reapedSessions))
}

func TestHandler(t *testing.T) {
	ObserveEvent("nav-click")
	ObserveRateLimited("events")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `folio_session_events_total{type="nav-click"}`)
	assert.Contains(t, body, `folio_http_rate_limited_total{limiter="events"}`)
	assert.Contains(t, body, "go_goroutines")
}
