package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/config"
	"github.com/oksasatya/crateyy/internal/container"
	"github.com/oksasatya/crateyy/internal/infrastructure/mongostore"
	pginfra "github.com/oksasatya/crateyy/internal/infrastructure/postgres"
	"github.com/oksasatya/crateyy/internal/interface/middleware"
	"github.com/oksasatya/crateyy/internal/router"
	"github.com/oksasatya/crateyy/pkg/helpers"
	"github.com/oksasatya/crateyy/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL))

	// Required storage: unreachable databases at boot are fatal.
	if cfg.CatalogDriver == "mongo" {
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDB)
		if err := mongostore.NewProductRepository(db).EnsureIndexes(ctx); err != nil {
			log.Fatalf("failed to create product indexes: %v", err)
		}
		container.SetMongo(db)
	}
	if cfg.IdentityDriver == "postgres" {
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
			DSN:         cfg.PostgresDSN(),
			AppName:     cfg.AppName,
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
	}

	// Optional infrastructure: log and continue without it.
	initOptional(ctx, cfg, logger)
	defer closeOptional()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}

	reg := router.NewRegistry(r)
	if err := router.InitModules(ctx, reg); err != nil {
		log.Fatalf("failed to init modules: %v", err)
	}
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{
			"port":     cfg.Port,
			"catalog":  cfg.CatalogDriver,
			"identity": cfg.IdentityDriver,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func initOptional(ctx context.Context, cfg *config.Config, logger *logrus.Logger) {
	if cfg.RedisAddr != "" {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			helpers.LogDegraded(logger, "redis", "sessions, rate limits and product cache disabled", err, logrus.Fields{"addr": cfg.RedisAddr})
		} else {
			container.SetRedis(rdb)
		}
	}
	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			helpers.LogDegraded(logger, "gcs", "storing uploads locally", err, logrus.Fields{"bucket": cfg.GCSBucket})
		} else {
			container.SetGCS(gcs)
		}
	}
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			helpers.LogDegraded(logger, "elasticsearch", "searching in memory", err, nil)
		} else {
			container.SetES(es)
		}
	}
	if cfg.RabbitMQURL != "" && cfg.MailSendEnabled {
		q, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			helpers.LogDegraded(logger, "rabbitmq", "emails will not be queued", err, nil)
		} else {
			container.SetEmailQueue(q)
		}
	}
}

func closeOptional() {
	if rdb := container.GetRedis(); rdb != nil {
		_ = rdb.Close()
	}
	if gcs := container.GetGCS(); gcs != nil {
		_ = gcs.Close()
	}
	container.GetEmailQueue().Close()
}
