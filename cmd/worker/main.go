package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/adapters/event"
	"github.com/khoahotran/cv-studio/adapters/persistence"
	shareUC "github.com/khoahotran/cv-studio/internal/application/usecase/share"
	"github.com/khoahotran/cv-studio/internal/config"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
	"github.com/khoahotran/cv-studio/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting CV Studio Worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg, appLogger, "cv-studio-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	if cfg.Storage.Driver == persistence.DriverMemory {
		appLogger.Fatal("worker needs shared storage", errors.New("storage.driver is memory"))
	}

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	shareRepo := persistence.NewPostgresShareRepo(dbPool, appLogger)
	processViewEventUC := shareUC.NewProcessViewEventUseCase(shareRepo)

	// Kafka Consumer
	viewConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicShareViewed,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer viewConsumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicShareViewed), zap.String("group_id", cfg.Kafka.GroupID))

	for {
		msg, err := viewConsumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		payload, err := event.DecodeShareViewed(msg)
		if err != nil {
			appLogger.Warn("Skipping malformed event", zap.Int64("offset", msg.Offset), zap.Error(err))
			commitMessage(ctx, viewConsumer, msg, appLogger)
			continue
		}

		err = processViewEventUC.Execute(ctx, shareUC.ProcessViewEventInput{ShareID: payload.ShareID})
		switch {
		case permanentFailure(err):
			appLogger.Warn("Skipping unprocessable view event", zap.String("share_id", payload.ShareID.String()), zap.Error(err))
		case err != nil:
			appLogger.Error("Failed to process view event", err, zap.String("share_id", payload.ShareID.String()))
			continue
		}

		commitMessage(ctx, viewConsumer, msg, appLogger)
	}
}

// permanentFailure reports errors that redelivery cannot fix: a malformed
// event or a share link that no longer exists.
func permanentFailure(err error) bool {
	return errors.Is(err, apperror.ErrInvalidInput) || errors.Is(err, apperror.ErrNotFound)
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
