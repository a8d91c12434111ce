package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/benvon/roda-da-vida/api"
	"github.com/benvon/roda-da-vida/internal/config"
	"github.com/benvon/roda-da-vida/internal/database"
	"github.com/benvon/roda-da-vida/internal/handlers"
	"github.com/benvon/roda-da-vida/internal/logger"
	"github.com/benvon/roda-da-vida/internal/middleware"
	"github.com/benvon/roda-da-vida/internal/services/ai"
	"github.com/benvon/roda-da-vida/internal/services/analysis"
	"github.com/benvon/roda-da-vida/internal/services/capture"
	"github.com/benvon/roda-da-vida/internal/services/payment"
	"github.com/benvon/roda-da-vida/internal/storage"
	"github.com/benvon/roda-da-vida/internal/telemetry"
	"github.com/benvon/roda-da-vida/internal/workspace"
)

const serviceName = "roda-da-vida-api"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	if err := run(cfg, zapLogger, debugMode); err != nil {
		zapLogger.Fatal("server_failed", zap.Error(err))
	}
	zapLogger.Info("server_exited")
}

func run(cfg *config.Config, zapLogger *zap.Logger, debugMode bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("storage_driver", cfg.StorageDriver),
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("ai_model", cfg.AIModel),
		zap.String("payment_provider", cfg.PaymentProvider),
		zap.String("capture_sink", cfg.CaptureSink),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	tracingEnabled := false
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(ctx, serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracingEnabled = true
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	backend, err := storage.Open(ctx, cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			zapLogger.Warn("failed_to_close_storage", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_storage", zap.String("driver", cfg.StorageDriver))

	registry, err := workspace.NewRegistry(backend.KV, cfg.WorkspaceCacheSize, workspace.Options{
		Location: cfg.Location,
		Logger:   zapLogger,
	})
	if err != nil {
		return err
	}

	provider, err := ai.DefaultRegistry().GetProvider(cfg.AIProvider, ai.ProviderConfig{
		APIKey:    cfg.AIKey(),
		Model:     cfg.AIModel,
		BaseURL:   cfg.AIBaseURL,
		Logger:    zapLogger,
		DebugMode: debugMode,
	})
	if err != nil {
		zapLogger.Warn("failed_to_create_ai_provider_using_offline_mode", zap.Error(err))
		provider, err = ai.DefaultRegistry().GetProvider("static", ai.ProviderConfig{})
		if err != nil {
			return err
		}
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := analysis.NewMetrics(promRegistry)
	if err != nil {
		return err
	}
	orchestrator := analysis.NewOrchestrator(provider, zapLogger, metrics)

	sink, closeSink, err := capture.New(ctx, capture.Options{
		Kind:        cfg.CaptureSink,
		DSN:         cfg.CaptureDSN,
		RabbitMQURL: cfg.RabbitMQURL,
		Logger:      zapLogger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSink(); err != nil {
			zapLogger.Warn("failed_to_close_capture_sink", zap.Error(err))
		}
	}()

	payments, err := payment.New(cfg.PaymentProvider, cfg.StripeSecretKey)
	if err != nil {
		return err
	}

	healthChecker := handlers.NewHealthChecker(backend.KV)

	var limiterStore limiter.Store
	if cfg.RedisURL != "" {
		redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisLimiter.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		if limiterStore, err = redisLimiter.Store(); err != nil {
			return err
		}
		healthChecker.WithCheck("redis", redisLimiter)
		zapLogger.Info("connected_to_redis")
	} else {
		limiterStore = middleware.NewMemoryStore()
	}

	g, gctx := errgroup.WithContext(ctx)

	// limit builds the rate limit for one subrouter. Each scope has its own
	// budget. With a SQL backend the rate is read from ratelimit_config and
	// hot-reloaded.
	limit := func(scope string) (func(http.Handler) http.Handler, error) {
		if backend.DB == nil {
			return middleware.RateLimit(limiterStore, cfg.RateLimit, scope)
		}
		reloader := middleware.NewRateLimitReloader(limiterStore, database.NewRatelimitConfigRepository(backend.DB), cfg.RateLimit, scope, zapLogger, time.Minute)
		g.Go(func() error {
			reloader.Start(gctx)
			return nil
		})
		return reloader.Middleware(), nil
	}

	r := mux.NewRouter()

	// Middleware registered first runs outermost
	if tracingEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	// LLM calls take up to a minute
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.ClientID)
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})).Methods("GET")
	handlers.NewOpenAPIHandler(api.OpenAPISpec).RegisterRoutes(r)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	handlers.NewWheelHandler(registry).RegisterRoutes(apiRouter.PathPrefix("/wheel").Subrouter())
	handlers.NewHistoryHandler(registry, zapLogger).RegisterRoutes(apiRouter.PathPrefix("/history").Subrouter())
	handlers.NewTourHandler(registry).RegisterRoutes(apiRouter.PathPrefix("/tour").Subrouter())

	entitlementHandler := handlers.NewEntitlementHandler(registry, sink, payments, zapLogger,
		handlers.WithPrice(cfg.PremiumPriceCents, cfg.PremiumCurrency))
	entitlementHandler.RegisterRoutes(apiRouter.PathPrefix("/entitlement").Subrouter())

	analysisRouter := apiRouter.PathPrefix("/analysis").Subrouter()
	analysisLimit, err := limit("analysis")
	if err != nil {
		return fmt.Errorf("analysis rate limit: %w", err)
	}
	analysisRouter.Use(analysisLimit)
	handlers.NewAnalysisHandler(registry, orchestrator, zapLogger).RegisterRoutes(analysisRouter)

	checkoutRouter := apiRouter.PathPrefix("/checkout").Subrouter()
	checkoutLimit, err := limit("checkout")
	if err != nil {
		return fmt.Errorf("checkout rate limit: %w", err)
	}
	checkoutRouter.Use(checkoutLimit)
	entitlementHandler.RegisterCheckoutRoutes(checkoutRouter)

	// Preflight requests; CORS has already answered with the headers
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   95 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	g.Go(func() error {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("server_shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}
