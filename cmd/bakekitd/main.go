package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/confeitech/bakekit/handler"
	"github.com/confeitech/bakekit/modules/entitlements"
	"github.com/confeitech/bakekit/pkg/config"
	"github.com/confeitech/bakekit/pkg/httpserver"
	"github.com/confeitech/bakekit/pkg/logger"
	"github.com/confeitech/bakekit/pkg/pg"
	"github.com/confeitech/bakekit/pkg/plan"
	"github.com/confeitech/bakekit/pkg/redis"
	"github.com/confeitech/bakekit/pkg/requestid"
	"github.com/confeitech/bakekit/svc/gate"
)

type appConfig struct {
	Env           string        `env:"APP_ENV" envDefault:"development"`
	CatalogPath   string        `env:"PLAN_CATALOG_PATH"` // optional YAML override of the built-in limits table
	CountCacheTTL time.Duration `env:"COUNT_CACHE_TTL" envDefault:"30s"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		appCfg   appConfig
		pgCfg    pg.Config
		redisCfg redis.Config
		httpCfg  httpserver.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&httpCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, "bakekitd"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, log, appCfg, pgCfg, redisCfg, httpCfg); err != nil {
		log.ErrorContext(ctx, "server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, appCfg appConfig, pgCfg pg.Config, redisCfg redis.Config, httpCfg httpserver.Config) error {
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	catalog, err := loadCatalog(ctx, appCfg.CatalogPath)
	if err != nil {
		return err
	}

	store := gate.NewPostgresStore(pool)
	data := gate.NewCountCache(store, rdb, appCfg.CountCacheTTL)

	gateSvc := gate.NewService(
		catalog,
		store.Subscriptions(),
		store.Ledgers(),
		data,
		gate.WithLogger(log),
	)
	defer gateSvc.Close()

	errorHandler := handler.NewErrorHandler(log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
		redis.Healthcheck(rdb),
	))
	r.Mount("/entitlements", entitlements.Router(entitlements.RouterOptions{
		Entitlements: entitlements.NewService(gateSvc, errorHandler),
		Jobs:         entitlements.NewJobsService(gateSvc, errorHandler),
	}))

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// loadCatalog builds the plan catalog, preferring the YAML override when
// one is configured.
func loadCatalog(ctx context.Context, path string) (*plan.Catalog, error) {
	if path == "" {
		return plan.NewCatalog(), nil
	}
	return plan.NewCatalogFromSource(ctx, plan.NewYAMLSource(path))
}
