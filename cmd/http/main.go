package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/notify"
	"github.com/fekuna/omnipos-inventory-service/internal/server"
	"github.com/fekuna/omnipos-inventory-service/internal/store"
	"github.com/fekuna/omnipos-inventory-service/pkg/broker"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/i18n"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/search"

	alertH "github.com/fekuna/omnipos-inventory-service/internal/alert/handler"
	alertUCPkg "github.com/fekuna/omnipos-inventory-service/internal/alert/usecase"

	dashH "github.com/fekuna/omnipos-inventory-service/internal/dashboard/handler"
	dashUCPkg "github.com/fekuna/omnipos-inventory-service/internal/dashboard/usecase"

	depotH "github.com/fekuna/omnipos-inventory-service/internal/depot/handler"
	depotUCPkg "github.com/fekuna/omnipos-inventory-service/internal/depot/usecase"

	prodH "github.com/fekuna/omnipos-inventory-service/internal/product/handler"
	prodUCPkg "github.com/fekuna/omnipos-inventory-service/internal/product/usecase"

	recH "github.com/fekuna/omnipos-inventory-service/internal/reconcile/handler"
	recUCPkg "github.com/fekuna/omnipos-inventory-service/internal/reconcile/usecase"

	txH "github.com/fekuna/omnipos-inventory-service/internal/transaction/handler"
	txListenerPkg "github.com/fekuna/omnipos-inventory-service/internal/transaction/listener"
	txUCPkg "github.com/fekuna/omnipos-inventory-service/internal/transaction/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const notifyBuffer = 1024

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 1.5 Initialize i18n
	i18n.Init()
	if err := i18n.SetDefault(cfg.I18n.DefaultLanguage); err != nil {
		_ = i18n.SetDefault("en")
	}

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 3. Open Storage
	repos, err := store.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer repos.Close()

	// 4. Initialize Redis
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, running without list cache and distributed locks", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 5. Initialize Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (Search falls back to the database)", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 6. Initialize Notifiers
	hub := notify.NewHub(appLogger, cfg.Server.AllowedOrigins...)
	notifiers := notify.Fanout{hub}

	var kafkaConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		})
		defer producer.Close()

		kafkaNotifier := notify.NewKafkaNotifier(producer, notifyBuffer, appLogger)
		go kafkaNotifier.Run(ctx)
		notifiers = append(notifiers, kafkaNotifier)

		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OrdersTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("orders_topic", cfg.Kafka.OrdersTopic),
			zap.String("events_topic", cfg.Kafka.EventsTopic),
		)
	}

	// 7. Initialize UseCases
	alertUC := alertUCPkg.NewAlertUseCase(repos.Alerts, notifiers, appLogger)
	catalog := prodUCPkg.NewCatalog(redisClient, esClient, appLogger)

	recorderOpts := []txUCPkg.Option{
		txUCPkg.WithProductSync(catalog),
		txUCPkg.WithNotifier(notifiers),
	}
	if redisClient != nil {
		recorderOpts = append(recorderOpts, txUCPkg.WithLocker(redisClient))
	} else {
		recorderOpts = append(recorderOpts, txUCPkg.WithLocker(cache.NewLocalLocker()))
	}
	txUC := txUCPkg.NewTransactionUseCase(repos.Transactions, repos.Products, repos.Depots, alertUC, appLogger, recorderOpts...)

	prodUC := prodUCPkg.NewProductUseCase(repos.Products, repos.Depots, txUC, alertUC, catalog, notifiers, appLogger)
	depotUC := depotUCPkg.NewDepotUseCase(repos.Depots, alertUC, notifiers, appLogger)
	recUC := recUCPkg.NewReconcileUseCase(repos.Reconcile, alertUC, appLogger)
	dashUC := dashUCPkg.NewDashboardUseCase(repos.Dashboard, appLogger)

	// 8. Start Listeners
	if kafkaConsumer != nil {
		orderListener := txListenerPkg.NewOrderListener(kafkaConsumer, txUC, appLogger)
		go orderListener.Start(ctx)
	}

	// 9. Start HTTP Server
	srv := server.NewServer(cfg, appLogger, hub,
		prodH.NewProductHandler(prodUC, appLogger),
		depotH.NewDepotHandler(depotUC, appLogger),
		txH.NewTransactionHandler(txUC, appLogger),
		alertH.NewAlertHandler(alertUC, appLogger),
		recH.NewReconcileHandler(recUC, appLogger),
		dashH.NewDashboardHandler(dashUC, appLogger),
	)

	if err := srv.Run(ctx); err != nil {
		appLogger.Error("HTTP server stopped with error", zap.Error(err))
		return
	}
	appLogger.Info("Server stopped")
}
