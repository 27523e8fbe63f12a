package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lesson-market/internal/api"
	"lesson-market/internal/config"
	"lesson-market/internal/kafka"
	"lesson-market/internal/lesson"
	"lesson-market/internal/mongodb"
	"lesson-market/internal/order"
	"lesson-market/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".env")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	tel, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "lessons-api",
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	log := tel.Log

	metrics, err := telemetry.NewMetrics(tel.Meter)
	if err != nil {
		panic("failed to create metrics: " + err.Error())
	}

	handle := mongodb.NewHandle(cfg.MongoURI, cfg.DBName, log)
	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	_, err = handle.Connect(connectCtx)
	connectCancel()
	if err != nil {
		log.Error("failed to connect to mongodb", zap.Error(err))
		tel.Shutdown(context.Background())
		os.Exit(1)
	}

	var (
		publisher order.Publisher = order.NopPublisher{}
		producer  *kafka.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		if err := kafka.EnsureTopic(ctx, cfg.KafkaBrokers, kafka.OrdersTopic(cfg.OrdersTopic)); err != nil {
			log.Warn("failed to ensure order topic", zap.String("topic", cfg.OrdersTopic), zap.Error(err))
		}
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.OrdersTopic, log)
		publisher = producer
	} else {
		log.Info("KAFKA_BROKERS not set, order events disabled")
	}

	lessonUC := lesson.NewUseCase(mongodb.NewLessonRepository(handle, tel.Tracer), metrics, log, tel.Tracer)
	orderUC := order.NewUseCase(mongodb.NewOrderRepository(handle, tel.Tracer), publisher, metrics, log, tel.Tracer)

	app := api.New(api.Options{
		CORSOrigins: cfg.CORSOrigins,
		ImagesDir:   cfg.ImagesDir,
		BodyLimit:   cfg.BodyLimit,
	}, api.Deps{
		Lessons: lesson.NewController(lessonUC, log, tel.Tracer),
		Orders:  order.NewController(orderUC, log, tel.Tracer),
		Store:   handle,
		Log:     log,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutting down lessons-api...", zap.String("signal", sig.String()))
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Warn("server shutdown", zap.Error(err))
		}
		cancel()
	}()

	log.Info("lessons-api listening", zap.String("addr", cfg.Addr()), zap.String("db", cfg.DBName))
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Error("server error", zap.Error(err))
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer closeCancel()

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Warn("failed to close producer", zap.Error(err))
		}
	}
	if err := handle.Close(closeCtx); err != nil {
		log.Warn("failed to close mongodb", zap.Error(err))
	}
	log.Info("lessons-api stopped")
	tel.Shutdown(closeCtx)
}
