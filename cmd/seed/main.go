package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/config"
	"github.com/oksasatya/crateyy/internal/application"
	"github.com/oksasatya/crateyy/internal/container"
	"github.com/oksasatya/crateyy/internal/domain/entity"
	repo "github.com/oksasatya/crateyy/internal/domain/repository"
	"github.com/oksasatya/crateyy/internal/infrastructure/jsonfile"
	"github.com/oksasatya/crateyy/internal/infrastructure/mongostore"
	pginfra "github.com/oksasatya/crateyy/internal/infrastructure/postgres"
	"github.com/oksasatya/crateyy/internal/router"
	"github.com/oksasatya/crateyy/pkg/helpers"
)

type resetter interface {
	Reset(ctx context.Context) error
}

// seed imports data/products.json and data/users.json into the configured
// backends. Sources are read fully before anything is written, so seeding a
// jsonfile store from its own files with -reset is safe.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	from := flag.String("from", cfg.DataDir, "directory holding products.json and users.json")
	reset := flag.Bool("reset", false, "remove existing products and users before importing")
	flag.Parse()

	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()
	container.SetConfig(cfg)
	container.SetLogger(logger)

	products, err := jsonfile.LoadProducts(filepath.Join(*from, "products.json"))
	if err != nil {
		log.Fatalf("read products: %v", err)
	}
	users, err := jsonfile.LoadUsers(filepath.Join(*from, "users.json"))
	if err != nil {
		log.Fatalf("read users: %v", err)
	}

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
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), AppName: cfg.AppName + "-seed", MaxConns: 2, MinConns: 1, MaxConnLife: time.Hour})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
	}

	productRepo, err := router.ProductRepository()
	if err != nil {
		log.Fatal(err)
	}
	userRepo, err := router.UserRepository()
	if err != nil {
		log.Fatal(err)
	}

	if *reset {
		for name, target := range map[string]any{"products": productRepo, "users": userRepo} {
			r, ok := target.(resetter)
			if !ok {
				log.Fatalf("%s store cannot be reset", name)
			}
			if err := r.Reset(ctx); err != nil {
				log.Fatalf("reset %s: %v", name, err)
			}
		}
		logger.Info("existing data removed")
	}

	pCount, pSkipped := importProducts(ctx, productRepo, products, logger)
	uCount, uSkipped := importUsers(ctx, userRepo, users, logger)
	logger.WithFields(logrus.Fields{
		"products":         pCount,
		"products_skipped": pSkipped,
		"users":            uCount,
		"users_skipped":    uSkipped,
	}).Info("seed complete")
}

func importProducts(ctx context.Context, r repo.ProductRepository, products []entity.Product, logger *logrus.Logger) (int, int) {
	maxID, err := r.MaxID(ctx)
	if err != nil {
		log.Fatalf("read max product id: %v", err)
	}
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	ids := application.NewIDGenerator(maxID)

	imported, skipped := 0, 0
	for i := range products {
		p := products[i]
		if p.ID == 0 {
			p.ID = ids.Next()
		} else if _, err := r.Get(ctx, p.ID); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, repo.ErrProductNotFound) {
			log.Fatalf("check product %d: %v", p.ID, err)
		}
		if p.Image == "" {
			p.Image = entity.PlaceholderImage
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		if err := r.Insert(ctx, &p); err != nil {
			log.Fatalf("insert product %d: %v", p.ID, err)
		}
		imported++
	}
	logger.WithField("count", imported).Info("products imported")
	return imported, skipped
}

func importUsers(ctx context.Context, r repo.UserRepository, users []*entity.User, logger *logrus.Logger) (int, int) {
	imported, skipped := 0, 0
	for _, u := range users {
		if u.Password != "" && !helpers.IsBcryptHash(u.Password) {
			hash, err := helpers.HashPassword(u.Password)
			if err != nil {
				log.Fatalf("hash password for %s: %v", u.Email, err)
			}
			u.Password = hash
		}
		if err := r.Create(ctx, u); err != nil {
			if errors.Is(err, repo.ErrEmailTaken) {
				logger.WithField("email", u.Email).Warn("user exists, skipped")
				skipped++
				continue
			}
			log.Fatalf("insert user %s: %v", u.Email, err)
		}
		imported++
	}
	logger.WithField("count", imported).Info("users imported")
	return imported, skipped
}
