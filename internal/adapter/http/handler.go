package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crowdfund/internal/core/port"
	"crowdfund/internal/metrics"
)

// Services are the inbound ports served over HTTP.
type Services struct {
	Registry  port.RegistryUseCase
	Factory   port.FactoryUseCase
	Campaigns port.CampaignUseCase
	Events    port.EventFeed
}

// Options tune request authentication and throttling.
type Options struct {
	Clock            port.Clock
	SignatureMaxSkew time.Duration
	RateLimitRPS     float64 // zero disables rate limiting
	RateLimitBurst   int
}

// Handler is the inbound HTTP adapter. Reads are public; every state
// changing route requires a signed request whose signer becomes the caller.
type Handler struct {
	svc     Services
	auth    *Authenticator
	limiter *keyLimiter
	logger  *slog.Logger
	router  chi.Router
}

func NewHandler(svc Services, opts Options, logger *slog.Logger) *Handler {
	h := &Handler{
		svc:     svc,
		auth:    NewAuthenticator(opts.Clock, opts.SignatureMaxSkew),
		limiter: newKeyLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		logger:  logger,
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, h.instrumented, middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.rateLimited)

		r.Get("/registry", h.handleRegistry)
		r.Get("/admins/{address}", h.handleIsAdmin)
		r.Get("/campaigns", h.handleListCampaigns)
		r.Get("/campaigns/{id}", h.handleGetCampaign)
		r.Get("/campaigns/{id}/contributions/{address}", h.handleContribution)
		r.Get("/events", h.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticated)

			r.Post("/admins", h.handleAddAdmin)
			r.Delete("/admins/{address}", h.handleRemoveAdmin)
			r.Post("/registry/pause", h.handlePause)
			r.Post("/registry/unpause", h.handleUnpause)

			r.Post("/campaigns", h.handleCreateCampaign)
			r.Post("/campaigns/{id}/pledge", h.handlePledge)
			r.Post("/campaigns/{id}/finalize", h.handleFinalize)
			r.Post("/campaigns/{id}/withdraw", h.handleWithdraw)
			r.Post("/campaigns/{id}/refund", h.handleRefund)
			r.Post("/campaigns/{id}/cancel", h.handleCancel)
		})
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// instrumented records request latency by route pattern and logs at debug.
func (h *Handler) instrumented(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		metrics.RecordHTTPRequest(r.Method, route, status, elapsed)
		h.logger.DebugContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("elapsed", elapsed),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
