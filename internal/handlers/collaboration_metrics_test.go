package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"talent-service/internal/metrics"
	"talent-service/internal/mocks"
)

func setupCollabMetricsRouter(handler *CollaborationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", int64(1))
		c.Next()
	})
	r.POST("/collaboration/request", handler.SendRequest)
	r.PUT("/collaboration/:id/accept", handler.AcceptRequest)
	r.PUT("/collaboration/:id/reject", handler.RejectRequest)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func fetchMetrics(t *testing.T, router *gin.Engine) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func metricValue(metricsBody, name, status string) (float64, bool) {
	target := name + `{status="` + status + `"}`
	for _, line := range strings.Split(metricsBody, "\n") {
		if strings.HasPrefix(line, target+" ") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return 0, false
			}
			value, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return 0, false
			}
			return value, true
		}
	}
	return 0, false
}

func assertMetricIncrement(t *testing.T, router *gin.Engine, name, status string, call func()) {
	t.Helper()
	before, _ := metricValue(fetchMetrics(t, router), name, status)
	call()
	after, found := metricValue(fetchMetrics(t, router), name, status)
	require.True(t, found)
	require.Greater(t, after, before)
}

func TestCollabRequestMetricsFailed(t *testing.T) {
	metrics.RegisterCollaborationMetrics()
	handler := collabHandlerWith(new(mocks.MockCollaborationRepository), new(mocks.MockUserRepository))
	router := setupCollabMetricsRouter(handler)

	assertMetricIncrement(t, router, "collaboration_requests_total", "failed", func() {
		req := httptest.NewRequest(http.MethodPost, "/collaboration/request", bytes.NewBufferString(`{"receiverId":"bad"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCollabAcceptMetricsFailed(t *testing.T) {
	metrics.RegisterCollaborationMetrics()
	handler := collabHandlerWith(new(mocks.MockCollaborationRepository), new(mocks.MockUserRepository))
	router := setupCollabMetricsRouter(handler)

	assertMetricIncrement(t, router, "collaboration_accepts_total", "failed", func() {
		req := httptest.NewRequest(http.MethodPut, "/collaboration/abc/accept", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCollabRejectMetricsFailed(t *testing.T) {
	metrics.RegisterCollaborationMetrics()
	handler := collabHandlerWith(new(mocks.MockCollaborationRepository), new(mocks.MockUserRepository))
	router := setupCollabMetricsRouter(handler)

	assertMetricIncrement(t, router, "collaboration_rejects_total", "failed", func() {
		req := httptest.NewRequest(http.MethodPut, "/collaboration/abc/reject", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
