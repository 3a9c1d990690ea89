package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SorryIWinxX/webmanager/internal/config"
	"github.com/SorryIWinxX/webmanager/internal/db"
	httpserver "github.com/SorryIWinxX/webmanager/internal/http"
	"github.com/SorryIWinxX/webmanager/internal/logging"
	"github.com/SorryIWinxX/webmanager/internal/models"
	"github.com/SorryIWinxX/webmanager/internal/mq"
	"github.com/SorryIWinxX/webmanager/internal/repository"
	"github.com/SorryIWinxX/webmanager/internal/sap"
	"github.com/SorryIWinxX/webmanager/internal/service"
	"github.com/SorryIWinxX/webmanager/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	var (
		noticeRepo repository.NoticeRepository
		userRepo   repository.UserRepository
		orderRepo  repository.SAPOrderRepository
	)
	switch cfg.StoreDriver {
	case config.StorePostgres:
		database, err := db.New(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("connect database", zap.Error(err))
		}
		autoMigrate(database, logger)
		noticeRepo = repository.NewGormNoticeRepository(database)
		userRepo = repository.NewGormUserRepository(database)
		orderRepo = repository.NewGormSAPOrderRepository(database)
	case config.StoreMemory:
		memNotices := repository.NewMemoryNoticeRepository()
		seedNotices(memNotices, logger)
		noticeRepo = memNotices
		userRepo = repository.NewMemoryUserRepository()
		orderRepo = repository.NewMemorySAPOrderRepository()
	}

	var publisher mq.Publisher
	rabbit, err := mq.NewRabbitPublisher(cfg.MQURL, cfg.MQAuditExchange)
	if err != nil {
		logger.Warn("rabbitmq unavailable, continuing without audit events", zap.Error(err))
	} else {
		publisher = rabbit
	}

	// The audit trail is also mirrored into the application log so a plain
	// deployment has a readable record without extra infrastructure.
	var auditSink *mq.RabbitConsumer
	if publisher != nil {
		auditSink, err = mq.NewRabbitConsumer(cfg.MQURL, cfg.MQAuditExchange, cfg.MQAuditQueue)
		if err != nil {
			logger.Warn("audit consumer unavailable", zap.Error(err))
		} else if err := auditSink.Consume(func(msg amqp091.Delivery) {
			logger.Info("audit event",
				zap.String("routing_key", msg.RoutingKey),
				zap.ByteString("payload", msg.Body),
			)
			_ = msg.Ack(false)
		}); err != nil {
			logger.Warn("audit consume failed", zap.Error(err))
		}
	}

	var sapClient *sap.Client
	if cfg.SAPBaseURL != "" {
		sapClient = sap.NewClient(cfg.SAPBaseURL)
	} else {
		logger.Warn("SAP_BASE_URL not set, running in self-contained mode")
	}

	var submitter service.NoticeSubmitter
	var syncClient service.SyncClient
	var reporterClient service.ReporterClient
	if sapClient.Configured() {
		submitter = sapClient
		syncClient = sapClient
		reporterClient = sapClient
	}

	noticeService := service.NewNoticeService(noticeRepo, submitter, publisher, logger)
	userService := service.NewUserService(userRepo, logger)
	authService := service.NewAuthService(userRepo, logger)
	reporterService := service.NewReporterService(reporterClient, logger)
	syncService := service.NewSyncService(syncClient, publisher, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := userService.EnsurePrimaryAdmin(ctx, cfg.AdminPassword); err != nil {
		logger.Fatal("seed primary admin", zap.Error(err))
	}

	if sapClient.Configured() {
		orderWorker := worker.NewOrderSyncWorker(sapClient, orderRepo, cfg.OrderSyncInterval, logger)
		go orderWorker.Run(ctx)
	}

	apiServer := httpserver.NewServer(noticeService, userService, authService, reporterService, syncService, orderRepo, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: apiServer.Engine,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}

	if auditSink != nil {
		_ = auditSink.Close()
	}
	if rabbit != nil {
		_ = rabbit.Close()
	}
	logger.Info("bye")
}

func autoMigrate(database *gorm.DB, logger *zap.Logger) {
	err := database.AutoMigrate(
		&models.MaintenanceNotice{},
		&models.User{},
		&models.SAPOrder{},
	)
	if err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}
}

// seedNotices fills the memory store with a few records so the dashboard has
// something to show without the external system.
func seedNotices(repo *repository.MemoryNoticeRepository, logger *zap.Logger) {
	ctx := context.Background()
	samples := []models.MaintenanceNotice{
		{ShortText: "Machine A scheduled maintenance", Cause: "500-hour service: oil change and filter replacement", Priority: "medium"},
		{ShortText: "Sensor B2 offline on line 3", Cause: "Stopped transmitting data, possible power or cable fault", Priority: "high"},
		{ShortText: "Coolant leak near press P-05", Cause: "Minor leak reported, source not yet identified", Priority: "high"},
	}
	for i := range samples {
		if err := repo.Create(ctx, &samples[i]); err != nil {
			logger.Warn("seed notice failed", zap.Error(err))
		}
	}
}

func init() {
	if mode := os.Getenv("GIN_MODE"); mode == "" {
		gin.SetMode(gin.ReleaseMode)
	}
}
