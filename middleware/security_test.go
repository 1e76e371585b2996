package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/yashrajoria/sneakershop/middleware"
	aws_pkg "github.com/yashrajoria/sneakershop/pkg/aws"
)

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl := middleware.NewRateLimiter(rate.Every(time.Hour), 2, time.Hour)
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req, _ := http.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_SameBucketPerIP(t *testing.T) {
	rl := middleware.NewRateLimiter(rate.Every(time.Minute), 1, time.Hour)
	assert.Same(t, rl.GetLimiter("1.1.1.1"), rl.GetLimiter("1.1.1.1"))
	assert.NotSame(t, rl.GetLimiter("1.1.1.1"), rl.GetLimiter("2.2.2.2"))
}

func TestSecurityHeadersAndCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.SecurityHeaders(), middleware.CORS([]string{"http://localhost:3000"}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req, _ = http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestTimeout_SetsDeadline(t *testing.T) {
	r := gin.New()
	r.GET("/slow", middleware.Timeout(time.Second), func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/slow", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

type recordedMetric struct {
	name       string
	dimensions map[string]string
}

type captureRecorder struct {
	mu      sync.Mutex
	metrics []recordedMetric
	done    chan struct{}
}

func (r *captureRecorder) add(name string, dims map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, recordedMetric{name: name, dimensions: dims})
	if name == aws_pkg.MetricHTTP4xx {
		close(r.done)
	}
	return nil
}

func (r *captureRecorder) RecordCount(_ context.Context, name string, dims map[string]string) error {
	return r.add(name, dims)
}

func (r *captureRecorder) RecordLatency(_ context.Context, name string, _ time.Duration, dims map[string]string) error {
	return r.add(name, dims)
}

func (r *captureRecorder) RecordValue(_ context.Context, name string, _ float64, dims map[string]string) error {
	return r.add(name, dims)
}

func TestMetricsMiddleware(t *testing.T) {
	rec := &captureRecorder{done: make(chan struct{})}
	r := gin.New()
	r.Use(middleware.MetricsMiddleware(rec, "sneakershop"))
	r.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req, _ := http.NewRequest(http.MethodGet, "/api/products/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("metrics were not recorded")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.metrics, 4)
	assert.Equal(t, aws_pkg.MetricHTTPRequests, rec.metrics[0].name)
	assert.Equal(t, "/api/products/:id", rec.metrics[0].dimensions["Path"])
	assert.Equal(t, "4xx", rec.metrics[0].dimensions["Status"])
}

func TestMetricsMiddleware_NilRecorder(t *testing.T) {
	r := gin.New()
	r.Use(middleware.MetricsMiddleware(nil, "sneakershop"))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/ok", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
