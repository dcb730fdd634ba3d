package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/calliope-systems/shelfrank"
	"github.com/calliope-systems/shelfrank/internal/config"
	logpkg "github.com/calliope-systems/shelfrank/internal/logger"
	"github.com/calliope-systems/shelfrank/internal/metrics"
	catalogrepo "github.com/calliope-systems/shelfrank/internal/repository/catalog"
	chiTransport "github.com/calliope-systems/shelfrank/internal/transport/chi"
	"github.com/calliope-systems/shelfrank/internal/usecase/compact"
	healthuc "github.com/calliope-systems/shelfrank/internal/usecase/health"
	"github.com/calliope-systems/shelfrank/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting shelfrank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_source", cfg.Catalog.Source),
	)

	// Create catalog source based on config
	ctx := context.Background()
	var source shelfrank.Source
	var sourcePinger healthuc.SourcePinger

	switch cfg.Catalog.Source {
	case "file":
		fileSource := catalogrepo.NewFileSource(cfg.Catalog.Path, logger)
		source = fileSource
		sourcePinger = fileSource
	case "redis":
		redisSource, err := catalogrepo.NewRedisSource(catalogrepo.RedisConfig{
			Addrs:    cfg.Catalog.Addrs,
			Password: cfg.Catalog.Password,
			Key:      cfg.Catalog.Key,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create catalog source", zap.Error(err))
		}
		defer redisSource.Close()

		readiness := time.Duration(cfg.Catalog.ReadinessTimeout) * time.Second
		if err := redisSource.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Catalog backend not ready", zap.Error(err))
		}
		logger.Info("Connected to catalog backend")
		source = redisSource
		sourcePinger = redisSource
	default:
		logger.Fatal("Unknown catalog source", zap.String("source", cfg.Catalog.Source))
	}

	// Token estimator: tiktoken when the encoding loads, bytes/4 otherwise.
	// Encodings download on first use, so an air-gapped host still starts.
	estimator := buildEstimator(cfg.Tokens.Encoding, logger)

	engine, err := shelfrank.New(
		shelfrank.WithSource(source),
		shelfrank.WithSearchDefaults(cfg.Search),
		shelfrank.WithTokenEstimator(estimator),
		shelfrank.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("Failed to build engine", zap.Error(err))
	}
	logger.Info("Catalog ready", zap.Int("items", engine.CatalogSize()))

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	publishCatalogMetrics(engine)

	// Health service
	healthSvc := healthuc.New(engine, sourcePinger)

	// Create chi server
	server := chiTransport.NewServer(&meteredEngine{engine}, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEstimator prefers a real tokenizer and degrades to the heuristic.
func buildEstimator(encoding string, logger *zap.Logger) compact.TokenEstimator {
	est, err := compact.NewTiktokenEstimator(encoding)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, using heuristic estimator",
			zap.String("encoding", encoding), zap.Error(err))
		return compact.NewHeuristicEstimator()
	}
	return est
}

// meteredEngine refreshes catalog gauges after successful reloads.
type meteredEngine struct {
	*shelfrank.Engine
}

func (m *meteredEngine) Reload(ctx context.Context) (int, error) {
	n, err := m.Engine.Reload(ctx)
	if err == nil {
		publishCatalogMetrics(m.Engine)
	}
	return n, err
}

func publishCatalogMetrics(engine *shelfrank.Engine) {
	st := engine.Stats()
	metrics.CatalogItems.Set(float64(st.ItemCount))
	if st.OriginalTokens > 0 {
		pct := (1 - float64(st.CompactTokens)/float64(st.OriginalTokens)) * 100
		metrics.TokenSavingsPercent.Set(pct)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
