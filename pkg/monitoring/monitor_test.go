package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Init()
	Init()

	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/api/quests/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/metrics", PrometheusHandler())

	before := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/api/quests/:id", "404"))
	for _, path := range []string{"/api/quests/1", "/api/quests/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/api/quests/:id", "404")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "unmatched", "404")), 1.0)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "campus_quest_http_requests_total")
}
