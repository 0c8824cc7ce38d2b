package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xela07ax/incentive-bridge/internal/infra"
	"github.com/xela07ax/incentive-bridge/internal/metrics"
)

// Server — HTTP-поверхность моста: liveness, метрики и маршрут вебхука.
type Server struct {
	router  *chi.Mux
	logger  *zap.Logger
	metrics *metrics.Metrics

	webhookHandler *WebhookHandler
}

// New инициализирует роутер со всеми зависимостями.
func New(
	cfg *infra.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	webhookH *WebhookHandler,
	reg *prometheus.Registry,
) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		logger:         logger.Named("http"),
		metrics:        m,
		webhookHandler: webhookH,
	}

	s.routes(cfg, reg)
	return s
}

func (s *Server) routes(cfg *infra.Config, reg *prometheus.Registry) {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(TracingMiddleware)
	r.Use(requestLogger(s.logger, s.metrics))

	// --- 2. Служебные роуты ---
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// --- 3. Вебхук автоматизации (под лимитером) ---
	r.Group(func(r chi.Router) {
		limiter := rate.NewLimiter(rate.Limit(cfg.Webhook.RateLimitRPS), cfg.Webhook.RateLimitBurst)
		r.Use(rateLimit(limiter, s.metrics))

		r.Post("/send-incentive", s.webhookHandler.Handle)
	})
}

// ServeHTTP позволяет использовать Server как стандартный http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
