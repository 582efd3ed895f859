package router

import (
	"context"
	"fmt"

	"github.com/oksasatya/crateyy/internal/application"
	"github.com/oksasatya/crateyy/internal/container"
	repo "github.com/oksasatya/crateyy/internal/domain/repository"
	"github.com/oksasatya/crateyy/internal/infrastructure/imagestore"
	"github.com/oksasatya/crateyy/internal/infrastructure/jsonfile"
	"github.com/oksasatya/crateyy/internal/infrastructure/mongostore"
	"github.com/oksasatya/crateyy/internal/infrastructure/oauth"
	"github.com/oksasatya/crateyy/internal/infrastructure/payment"
	pginfra "github.com/oksasatya/crateyy/internal/infrastructure/postgres"
	"github.com/oksasatya/crateyy/internal/infrastructure/search"
	handlers "github.com/oksasatya/crateyy/internal/interface/http"
	"github.com/oksasatya/crateyy/internal/router/modules"
	"github.com/oksasatya/crateyy/pkg/helpers"
)

// ProductRepository picks the catalog backend named by CATALOG_DRIVER.
func ProductRepository() (repo.ProductRepository, error) {
	cfg := container.GetConfig()
	switch cfg.CatalogDriver {
	case "mongo":
		if container.GetMongo() == nil {
			return nil, fmt.Errorf("catalog driver mongo: no database connection")
		}
		return mongostore.NewProductRepository(container.GetMongo()), nil
	case "", "jsonfile":
		return jsonfile.NewProductRepository(cfg.ProductsFile()), nil
	}
	return nil, fmt.Errorf("unknown catalog driver %q", cfg.CatalogDriver)
}

// UserRepository picks the identity backend named by IDENTITY_DRIVER.
func UserRepository() (repo.UserRepository, error) {
	cfg := container.GetConfig()
	switch cfg.IdentityDriver {
	case "postgres":
		if container.GetPGPool() == nil {
			return nil, fmt.Errorf("identity driver postgres: no database pool")
		}
		return pginfra.NewUserRepository(container.GetPGPool()), nil
	case "", "jsonfile":
		return jsonfile.NewUserRepository(cfg.UsersFile()), nil
	}
	return nil, fmt.Errorf("unknown identity driver %q", cfg.IdentityDriver)
}

func buildNotifier() *application.Notifier {
	cfg := container.GetConfig()
	q := container.GetEmailQueue()
	if q == nil || !cfg.MailSendEnabled {
		return nil
	}
	return application.NewNotifier(q, cfg.StoreName, container.GetLogger())
}

func gcsEnabled() bool {
	return container.GetGCS() != nil && container.GetConfig().GCSBucket != ""
}

func buildCatalogService(ctx context.Context) (*application.CatalogService, error) {
	cfg := container.GetConfig()
	products, err := ProductRepository()
	if err != nil {
		return nil, err
	}
	maxID, err := products.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("read max product id: %w", err)
	}

	var images application.ImageStore = imagestore.NewLocal(cfg.UploadsDir, cfg.PublicBaseURL)
	if gcsEnabled() {
		images = imagestore.NewGCS(container.GetGCS(), cfg.GCSBucket)
	}

	svc := application.NewCatalogService(products, application.NewIDGenerator(maxID), images, container.GetRedis(), container.GetLogger())
	if es := container.GetES(); es != nil {
		svc.WithIndex(search.NewProductIndex(es, cfg.ESProductsIndex))
	}
	return svc, nil
}

func buildIdentityService(notifier *application.Notifier) (*application.IdentityService, error) {
	cfg := container.GetConfig()
	users, err := UserRepository()
	if err != nil {
		return nil, err
	}
	svc := application.NewIdentityService(
		users,
		application.NewCredentialVerifier(cfg.PasswordStrategy),
		container.GetJWT(),
		container.GetRedis(),
		notifier,
		container.GetLogger(),
	)
	svc.AllowAdminSignup = cfg.AllowAdminSignup
	return svc, nil
}

func driverName(d string) string {
	if d == "" {
		return "jsonfile"
	}
	return d
}

// healthChecks probes only the services this process was started with.
func healthChecks() map[string]modules.HealthCheck {
	checks := map[string]modules.HealthCheck{}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if db := container.GetMongo(); db != nil {
		checks["mongo"] = func(ctx context.Context) error { return db.Client().Ping(ctx, nil) }
	}
	if es := container.GetES(); es != nil {
		checks["elasticsearch"] = func(ctx context.Context) error { return helpers.PingES(ctx, es) }
	}
	if q := container.GetEmailQueue(); q != nil {
		checks["rabbitmq"] = func(context.Context) error { return q.Healthy() }
	}
	return checks
}

// InitModules builds services from the container singletons and registers
// every feature module. Call once at startup, before RegisterAll.
func InitModules(ctx context.Context, r *Registry) error {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	notifier := buildNotifier()

	catalogSvc, err := buildCatalogService(ctx)
	if err != nil {
		return err
	}
	identity, err := buildIdentityService(notifier)
	if err != nil {
		return err
	}
	orders := application.NewOrderService(
		payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		cfg.RazorpayKeyID,
		notifier,
		logger,
	)

	r.Add(modules.NewProductModule(handlers.NewProductHandler(catalogSvc, logger), jwt))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(identity, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewPaymentModule(handlers.NewPaymentHandler(orders, identity, logger), jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(map[string]string{
			"catalog":  driverName(cfg.CatalogDriver),
			"identity": driverName(cfg.IdentityDriver),
		}, healthChecks()))
	}

	var provider handlers.OAuthProvider
	if cfg.GoogleEnabled() {
		provider = oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	}
	if !gcsEnabled() {
		r.AddRoot(UploadsModule(cfg.UploadsDir))
	}
	r.AddRoot(modules.NewOAuthModule(handlers.NewOAuthHandler(
		provider,
		identity,
		container.GetRedis(),
		logger,
		helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		cfg.LoginSuccessURL,
		cfg.LoginFailureURL,
	)))
	return nil
}
