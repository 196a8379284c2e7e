package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/adapters/event"
	httpAdapter "github.com/khoahotran/cv-studio/adapters/http"
	"github.com/khoahotran/cv-studio/adapters/media_storage"
	"github.com/khoahotran/cv-studio/adapters/persistence"
	"github.com/khoahotran/cv-studio/adapters/render"
	"github.com/khoahotran/cv-studio/internal/application/compose"
	"github.com/khoahotran/cv-studio/internal/application/service"
	authUC "github.com/khoahotran/cv-studio/internal/application/usecase/auth"
	documentUC "github.com/khoahotran/cv-studio/internal/application/usecase/document"
	profileUC "github.com/khoahotran/cv-studio/internal/application/usecase/profile"
	shareUC "github.com/khoahotran/cv-studio/internal/application/usecase/share"
	"github.com/khoahotran/cv-studio/internal/config"
	"github.com/khoahotran/cv-studio/pkg/auth"
	"github.com/khoahotran/cv-studio/pkg/logger"
	"github.com/khoahotran/cv-studio/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Start CV Studio API Server...", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg, appLogger, "cv-studio-api")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Repositories
	repos, closeRepos, err := persistence.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open storage", err)
	}
	defer closeRepos()

	// Optional infrastructure: every piece below degrades instead of failing.
	var cache service.PublicCVCache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Warn("Redis unavailable, public CV cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cache = persistence.NewRedisPublicCVCache(redisClient)
		}
	}

	var views service.ViewRecorder = shareUC.NewDirectViewRecorder(repos.Shares)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		views = kafkaClient
	}

	var uploader service.Uploader
	if cfg.Cloudinary.CloudName != "" {
		uploader, err = media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
	}

	renderer := render.NewChromeRenderer(cfg, appLogger)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenLifespan)
	resolver := compose.NewResolver(repos.Entities, repos.Selections, appLogger)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(repos.Users, jwtSvc, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(repos.Profiles, repos.Entities, uploader, appLogger)
	entityUseCase := profileUC.NewEntityUseCase(repos.Entities)
	documentUseCase := documentUC.NewDocumentUseCase(repos.Documents, appLogger)
	selectionUseCase := documentUC.NewSelectionUseCase(repos.Documents, repos.Entities, repos.Selections, appLogger)
	composeUseCase := documentUC.NewComposeUseCase(repos.Documents, repos.Profiles, resolver, renderer)
	shareUseCase := shareUC.NewShareUseCase(repos.Shares, repos.Documents, cache, appLogger)
	publicCVUseCase := shareUC.NewGetPublicCVUseCase(
		repos.Shares,
		repos.Documents,
		repos.Profiles,
		resolver,
		views,
		cache,
		cfg.Share.CacheTTL,
		appLogger,
	)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:     httpAdapter.NewAuthHandler(loginUseCase, appLogger),
		Profile:  httpAdapter.NewProfileHandler(profileUseCase, entityUseCase, appLogger),
		Document: httpAdapter.NewDocumentHandler(documentUseCase, selectionUseCase, composeUseCase, appLogger),
		Share:    httpAdapter.NewShareHandler(shareUseCase, publicCVUseCase, renderer, appLogger),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(handlers, jwtSvc, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
