package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/MinionBot_Go/internal/activity"
	"github.com/osse101/MinionBot_Go/internal/database"
	"github.com/osse101/MinionBot_Go/internal/gear"
	"github.com/osse101/MinionBot_Go/internal/handler"
	"github.com/osse101/MinionBot_Go/internal/item"
	"github.com/osse101/MinionBot_Go/internal/logger"
	"github.com/osse101/MinionBot_Go/internal/metrics"
	"github.com/osse101/MinionBot_Go/internal/repository"
	"github.com/osse101/MinionBot_Go/internal/transaction"
	"github.com/osse101/MinionBot_Go/internal/user"
)

// Services bundles everything the router needs. Keeping it a struct stops
// NewServer's signature from growing a parameter per service.
type Services struct {
	User        user.Service
	Transaction transaction.Service
	Gear        gear.Service
	Activity    activity.Service
	Economy     repository.Economy
	Catalog     item.Catalog
}

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, services Services) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", handler.HandleRegisterUser(services.User))
			r.Get("/bank", handler.HandleGetBank(services.User, services.Economy, services.Catalog))
			r.Post("/transact", handler.HandleTransact(services.User, services.Transaction, services.Catalog))

			r.Route("/item", func(r chi.Router) {
				r.Post("/give", handler.HandleGiveItem(services.User, services.Transaction, services.Catalog))
			})
		})

		r.Route("/gear", func(r chi.Router) {
			r.Post("/equip", handler.HandleEquip(services.User, services.Gear, services.Catalog))
			r.Post("/unequip", handler.HandleUnequip(services.User, services.Gear, services.Catalog))
			r.Post("/unequip-all", handler.HandleUnequipAll(services.User, services.Gear, services.Catalog))
			r.Post("/swap", handler.HandleSwap(services.User, services.Gear, services.Catalog))
			r.Get("/view", handler.HandleViewGear(services.User, services.Gear, services.Catalog))

			r.Post("/preset", handler.HandleEquipPreset(services.User, services.Gear, services.Catalog))
			r.Post("/preset/save", handler.HandleSavePreset(services.User, services.Gear, services.Catalog))
			r.Post("/preset/delete", handler.HandleDeletePreset(services.User, services.Gear))
			r.Get("/presets", handler.HandleListPresets(services.User, services.Gear, services.Catalog))
		})

		r.Route("/activity", func(r chi.Router) {
			r.Post("/start", handler.HandleStartActivity(services.User, services.Activity, services.Catalog))
			r.Post("/cancel", handler.HandleCancelActivity(services.User, services.Activity, services.Catalog))
			r.Get("/status", handler.HandleActivityStatus(services.User, services.Activity, services.Catalog))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health and metrics endpoints are scraped constantly; logging them
		// would drown everything else out.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
