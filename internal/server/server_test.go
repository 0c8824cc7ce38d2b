package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/xela07ax/incentive-bridge/internal/domain"
	"github.com/xela07ax/incentive-bridge/internal/infra"
	"github.com/xela07ax/incentive-bridge/internal/metrics"
)

func newTestServer(rps float64, burst int) (*Server, *fakeChat) {
	cfg := &infra.Config{
		Webhook: infra.WebhookConfig{
			Secret:         testSecret,
			RateLimitRPS:   rps,
			RateLimitBurst: burst,
		},
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := &fakeStore{rec: domain.Record{ID: "rec123", Fields: map[string]any{}}}
	chat := &fakeChat{messageID: "msg-1"}
	wh := NewWebhookHandler(testSecret, store, chat, zap.NewNop(), m)
	return New(cfg, zap.NewNop(), m, wh, reg), chat
}

func TestLivenessRoute(t *testing.T) {
	srv, _ := newTestServer(100, 100)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	srv, _ := newTestServer(100, 100)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookRouteRateLimited(t *testing.T) {
	// Бакет на 2 запроса без пополнения: третий должен отлететь в 429
	srv, chat := newTestServer(0, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/send-incentive", strings.NewReader(`{"recordId":"rec123"}`))
		req.Header.Set(secretHeader, testSecret)
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Len(t, chat.posted, 2)
}

func TestTraceIDPropagated(t *testing.T) {
	srv, _ := newTestServer(100, 100)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-ID", "trace-abc")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, "trace-abc", w.Header().Get("X-Trace-ID"))
}

func TestTraceIDGenerated(t *testing.T) {
	srv, _ := newTestServer(100, 100)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}
