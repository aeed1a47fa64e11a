package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/adapter/ai/groq"
	"github.com/larkfield/lark-server/internal/adapter/ai/huggingface"
	"github.com/larkfield/lark-server/internal/adapter/ai/openai"
	"github.com/larkfield/lark-server/internal/adapter/cache"
	"github.com/larkfield/lark-server/internal/adapter/http/fiber/handlers"
	"github.com/larkfield/lark-server/internal/adapter/http/fiber/middleware"
	"github.com/larkfield/lark-server/internal/adapter/livekit"
	"github.com/larkfield/lark-server/internal/adapter/queue"
	speechAdapter "github.com/larkfield/lark-server/internal/adapter/speech"
	"github.com/larkfield/lark-server/internal/adapter/storage/postgres"
	"github.com/larkfield/lark-server/internal/adapter/vault"
	wsAdapter "github.com/larkfield/lark-server/internal/adapter/websocket"
	"github.com/larkfield/lark-server/internal/domain"
	"github.com/larkfield/lark-server/internal/infrastructure/circuitbreaker"
	"github.com/larkfield/lark-server/internal/observability/telemetry"
	"github.com/larkfield/lark-server/internal/ports"
	"github.com/larkfield/lark-server/internal/service/assistant"
	"github.com/larkfield/lark-server/internal/service/auth"
	"github.com/larkfield/lark-server/internal/service/dispatch"
	"github.com/larkfield/lark-server/internal/service/health"
	"github.com/larkfield/lark-server/internal/service/miranda"
	"github.com/larkfield/lark-server/internal/service/report"
	"github.com/larkfield/lark-server/internal/service/speech"
	"github.com/larkfield/lark-server/internal/service/statute"
	"github.com/larkfield/lark-server/pkg/config"
)

const serviceName = "lark-server"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Starting LARK server",
		zap.String("service", serviceName),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// Vault overrides flat config for secrets when enabled.
	if cfg.Vault.Enabled {
		if err := loadSecretsFromVault(cfg, logger); err != nil {
			logger.Fatal("Failed to load secrets from Vault", zap.Error(err))
		}
	}

	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// PostgreSQL
	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	if cfg.Database.SeedStatutes {
		if err := postgres.SeedStatutes(db, statute.SampleStatutes(), logger); err != nil {
			logger.Fatal("Failed to seed statutes", zap.Error(err))
		}
	}

	// Redis, falling back to in-process cache so a missing Redis never
	// blocks a patrol unit from starting.
	var appCache ports.Cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, using local cache", zap.Error(err))
		appCache = cache.NewLocalCache(time.Minute, logger)
	} else {
		appCache = redisCache
		defer redisCache.Close()
	}

	// Dispatch message broker.
	messageQueue, err := queue.New(cfg.Queue.Driver, cfg.Queue.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// Repositories
	officerRepo := postgres.NewOfficerRepository(db, logger)
	statuteRepo := postgres.NewStatuteRepository(db, logger)
	reportRepo := postgres.NewReportRepository(db, logger)

	// AI providers behind per-provider circuit breakers.
	breakers := circuitbreaker.NewManager(logger)
	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	openaiClient.SetHTTPClient(circuitbreaker.NewHTTPClient("openai", 60*time.Second, breakers, logger))
	groqClient := groq.NewClient(cfg.Groq.APIKey, cfg.Groq.Model, logger)
	groqClient.SetHTTPClient(circuitbreaker.NewHTTPClient("groq", 60*time.Second, breakers, logger))
	hfClient := huggingface.NewClient(cfg.HuggingFace.APIKey, cfg.HuggingFace.Endpoint, cfg.HuggingFace.Model, logger)
	hfClient.SetHTTPClient(circuitbreaker.NewHTTPClient("huggingface", 30*time.Second, breakers, logger))

	// WebSocket hub for pushing speech and alerts to field clients.
	wsHub := wsAdapter.NewHub(logger)
	go wsHub.Run()

	// Speech output: synthesize with OpenAI, broadcast over the hub, one
	// utterance at a time.
	synthesizer := speechAdapter.NewSynthesizer(openaiClient, wsHub, logger)
	speechQueue := speech.NewQueue(synthesizer, logger)
	defer speechQueue.Close()
	speechQueue.SetDefaultOptions(domain.VoiceOptions{
		Voice:  cfg.Voice.Voice,
		Speed:  cfg.Voice.Speed,
		Volume: cfg.Voice.Volume,
	})

	// Services
	authService := auth.NewService(officerRepo, appCache, cfg.JWT.Secret, logger)
	assistantService := assistant.NewService(speechQueue, logger)
	mirandaService := miranda.NewService(appCache, logger)
	statuteService := statute.NewService(statuteRepo, appCache, openaiClient, logger)
	reportService := report.NewService(reportRepo, openaiClient, groqClient, logger)
	dispatchService := dispatch.NewService(messageQueue, logger)

	if cfg.Offline.StartOffline {
		assistantService.SetOfflineMode(true)
		dispatchService.SetOfflineMode(true)
	}

	go mirandaService.WarmCache(context.Background())

	// Health checks
	var natsConnected func() bool
	if nq, ok := messageQueue.(*queue.NATSQueue); ok {
		natsConnected = nq.IsConnected
	}
	healthConfig := &health.Config{
		Version:       cfg.App.Version,
		DB:            sqlDB,
		NatsConnected: natsConnected,
	}
	if redisCache != nil {
		healthConfig.Redis = redisCache.Client()
	}
	healthService := health.NewService(healthConfig, logger)

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	} else {
		app.Use(middleware.DefaultCORS())
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	health.NewHandler(healthService).RegisterRoutes(app)

	if cfg.Prometheus.Enabled {
		path := cfg.Prometheus.Path
		if path == "" {
			path = "/metrics"
		}
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	v1 := app.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService, logger)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/refresh", authHandler.RefreshToken)

	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", authHandler.Me)

	assistantHandler := handlers.NewAssistantHandler(assistantService, logger)
	protected.Post("/assistant/command", assistantHandler.ProcessCommand)
	protected.Post("/assistant/threat", assistantHandler.AlertThreat)
	protected.Post("/assistant/backup", assistantHandler.RequestBackup)
	protected.Post("/assistant/translate", assistantHandler.Translate)
	protected.Post("/assistant/offline", assistantHandler.SetOfflineMode)
	protected.Get("/assistant/history", assistantHandler.GetHistory)

	voiceHandler := handlers.NewVoiceHandler(assistantService, openaiClient, hfClient, logger)
	protected.Post("/voice/command", voiceHandler.ProcessCommand)
	protected.Post("/voice/transcribe", voiceHandler.Transcribe)
	protected.Post("/voice/analyze", voiceHandler.AnalyzeAudio)

	mirandaHandler := handlers.NewMirandaHandler(mirandaService, assistantService, logger)
	protected.Get("/miranda/languages", mirandaHandler.Languages)
	protected.Get("/miranda/:language", mirandaHandler.GetRights)
	protected.Post("/miranda/deliver", mirandaHandler.Deliver)

	statuteHandler := handlers.NewStatuteHandler(statuteService, logger)
	protected.Get("/statutes", statuteHandler.Search)
	protected.Get("/statutes/:id", statuteHandler.Get)
	protected.Post("/statutes/suggest", statuteHandler.Suggest)

	reportHandler := handlers.NewReportHandler(reportService, logger)
	protected.Post("/reports", reportHandler.Create)
	protected.Get("/reports", reportHandler.List)
	protected.Get("/reports/:id", reportHandler.Get)
	protected.Put("/reports/:id", reportHandler.Update)
	protected.Post("/reports/analyze", reportHandler.Analyze)

	dispatchHandler := handlers.NewDispatchHandler(dispatchService, assistantService, logger)
	protected.Post("/dispatch/location", dispatchHandler.UpdateLocation)
	protected.Post("/dispatch/backup", dispatchHandler.RequestBackup)

	if cfg.LiveKit.APIKey != "" {
		liveKitHandler := handlers.NewLiveKitHandler(livekit.NewTokenProvider(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret), logger)
		protected.Post("/livekit/token", liveKitHandler.Token)
	}

	// WebSocket surfaces: transcribed voice commands, hub events, and the
	// full-duplex realtime bridge.
	wsAuth := middleware.AuthRequired(authService)
	voiceStreamHandler := wsAdapter.NewVoiceStreamHandler(assistantService, openaiClient, logger)
	wsAdapter.SetupVoiceRoutes(app, voiceStreamHandler, wsHub, wsAuth)

	realtimeProxy := wsAdapter.NewRealtimeProxy(cfg.OpenAI.APIKey, logger)
	wsAdapter.SetupRealtimeRoutes(app, realtimeProxy, wsAuth)

	go func() {
		logger.Info("Starting HTTP server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	speechQueue.Stop()

	logger.Info("Server exited gracefully")
}

// loadSecretsFromVault replaces config secrets with Vault-managed values.
func loadSecretsFromVault(cfg *config.Config, logger *zap.Logger) error {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		return err
	}

	if url, err := sm.DatabaseURL(); err == nil {
		cfg.Database.URL = url
	}
	if key, err := sm.OpenAIAPIKey(); err == nil {
		cfg.OpenAI.APIKey = key
	}
	if key, err := sm.GroqAPIKey(); err == nil {
		cfg.Groq.APIKey = key
	}
	if key, err := sm.HuggingFaceAPIKey(); err == nil {
		cfg.HuggingFace.APIKey = key
	}
	secret, err := sm.JWTSecret()
	if err != nil {
		return fmt.Errorf("reading jwt secret: %w", err)
	}
	cfg.JWT.Secret = secret
	if key, apiSecret, err := sm.LiveKitCredentials(); err == nil {
		cfg.LiveKit.APIKey = key
		cfg.LiveKit.APISecret = apiSecret
	}

	logger.Info("Secrets loaded from Vault")
	return nil
}
