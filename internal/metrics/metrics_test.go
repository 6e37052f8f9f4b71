package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	Init()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/teapot", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before200 := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "200"))
	before418 := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "418"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, before200+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "200")))
	assert.Equal(t, before418+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "418")))
	assert.Positive(t, testutil.CollectAndCount(httpRequestDurationSeconds))
}

func TestDomainCounters(t *testing.T) {
	Init()

	before := testutil.ToFloat64(contactSubmissionsTotal.WithLabelValues("sent"))
	ObserveContact("sent")
	assert.Equal(t, before+1, testutil.ToFloat64(contactSubmissionsTotal.WithLabelValues("sent")))

	okBefore := testutil.ToFloat64(motionReplaysTotal.WithLabelValues("ok"))
	rejBefore := testutil.ToFloat64(motionReplaysTotal.WithLabelValues("rejected"))
	ObserveReplay(true, 42)
	ObserveReplay(false, 0)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(motionReplaysTotal.WithLabelValues("ok")))
	assert.Equal(t, rejBefore+1, testutil.ToFloat64(motionReplaysTotal.WithLabelValues("rejected")))

	visits := testutil.ToFloat64(visitorsTrackedTotal)
	ObserveVisit()
	assert.Equal(t, visits+1, testutil.ToFloat64(visitorsTrackedTotal))
}

func TestHandlerExposesCollectors(t *testing.T) {
	Init()
	ObserveContact("spam")

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `portfolio_contact_submissions_total{outcome="spam"}`))
}
