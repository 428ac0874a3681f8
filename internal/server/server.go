package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/RewardEngine_Go/internal/economy"
	"github.com/osse101/RewardEngine_Go/internal/feed"
	"github.com/osse101/RewardEngine_Go/internal/gacha"
	"github.com/osse101/RewardEngine_Go/internal/handler"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/metrics"
	"github.com/osse101/RewardEngine_Go/internal/wheel"
)

type Server struct {
	httpServer *http.Server
}

// NewServer wires the HTTP routes. deps back /readyz and may be empty.
func NewServer(port int, apiKey string, trustedProxies []string, deps []handler.DependencyCheck, gachaService gacha.Service, wheelService wheel.Service, economyService economy.Service, hub *feed.Hub) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(apiKey, trustedProxies, deps, gachaService, wheelService, economyService, hub),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the chi router behind the server
func NewRouter(apiKey string, trustedProxies []string, deps []handler.DependencyCheck, gachaService gacha.Service, wheelService wheel.Service, economyService economy.Service, hub *feed.Hub) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	tracker := NewClientTracker()

	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, tracker))
	r.Use(RateLimitMiddleware(trustedProxies, tracker))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps...))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		gachaHandler := handler.NewGachaHandler(gachaService)
		r.Route("/gacha", func(r chi.Router) {
			r.Post("/pull", gachaHandler.HandlePull)
			r.Post("/multi-pull", gachaHandler.HandleMultiPull)
			r.Get("/odds", gachaHandler.HandleGetOdds)
			r.Get("/pity", gachaHandler.HandleGetPity)
			r.Get("/history", gachaHandler.HandleGetHistory)
		})

		wheelHandler := handler.NewWheelHandler(wheelService)
		r.Route("/wheel", func(r chi.Router) {
			r.Post("/spin", wheelHandler.HandleSpin)
			r.Get("/jackpot", wheelHandler.HandleGetJackpot)
			r.Get("/feed", feed.Handler(hub))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/credit", handler.HandleAdminCredit(economyService))
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// statusOf treats a handler that never wrote a header as 200
func statusOf(ww middleware.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}

func redactHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
			out[k] = []string{RedactedValue}
			continue
		}
		out[k] = v
	}
	return out
}

// loggingMiddleware tags each request with an id, echoes it in
// X-Request-ID, and logs start and completion.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slices.ContainsFunc(quietPaths, func(p string) bool { return strings.HasPrefix(r.URL.Path, p) }) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		id := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), id)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, id)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())
		log.Debug(LogMsgRequestHeaders, "headers", redactHeaders(r.Header))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", statusOf(ww),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully. Hijacked websocket connections are
// not tracked by Shutdown; the feed hub closes them.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
