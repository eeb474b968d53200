// Command server runs the point-of-sale API.
//
// @title                       POS System API
// @version                     1.0
// @description                 Ticketing and inventory consistency engine for a point of sale.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/flujo/pos-system/internal/api"
	"github.com/flujo/pos-system/internal/api/handler"
	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
	"github.com/flujo/pos-system/internal/core/service"
	"github.com/flujo/pos-system/internal/infrastructure/db/memory"
	mongostore "github.com/flujo/pos-system/internal/infrastructure/db/mongo"
	redisstore "github.com/flujo/pos-system/internal/infrastructure/db/redis"
	"github.com/flujo/pos-system/internal/infrastructure/highlight"
	"github.com/flujo/pos-system/internal/infrastructure/queue"
	"github.com/flujo/pos-system/internal/infrastructure/seed"
	"github.com/flujo/pos-system/internal/pkg/config"
	"github.com/flujo/pos-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "pos-system",
		Fields: map[string]string{
			"env":      cfg.Env,
			"store":    cfg.StoreDriver,
			"timezone": cfg.Timezone,
		},
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// repositories bundles one storage backend.
type repositories struct {
	users      ports.UserRepository
	categories ports.CategoryRepository
	products   ports.ProductRepository
	tickets    ports.TicketRepository
	promotions ports.PromotionRepository
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := domain.LocationClock{Location: loc}
	checks := make(map[string]handler.PingFunc)

	repos, closeStore, err := openStore(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeStore()

	cache, closeCache, err := openHighlightCache(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeCache()

	var suggester ports.HighlightSuggester = highlight.Nop{}
	if cfg.Highlight.URL != "" {
		suggester = highlight.NewClient(highlight.Config{
			URL:     cfg.Highlight.URL,
			APIKey:  cfg.Highlight.APIKey,
			Timeout: cfg.Highlight.Timeout,
		})
	} else {
		log.Info().Msg("HIGHLIGHT_URL not set, highlight suggestions disabled")
	}

	dispatcher := queue.NewDispatcher(queue.Config{
		Workers: cfg.Highlight.Workers,
		Timeout: cfg.Highlight.Timeout,
		TTL:     cfg.Highlight.TTL,
	}, suggester, cache, logger.Component("highlight-dispatcher"))

	window := domain.SalesWindow{Open: cfg.SalesOpenHour, Close: cfg.SalesCloseHour}

	e := api.NewRouter(api.Dependencies{
		Auth:         service.NewAuthService(repos.users, cfg.JWTSecret, cfg.TokenTTL),
		Catalog:      service.NewCatalogService(repos.users, repos.categories, repos.products, logger.Component("catalog")),
		Display:      service.NewDisplayService(repos.categories, repos.products, repos.promotions, cache, dispatcher, clock, logger.Component("display")),
		Stock:        service.NewStockService(repos.categories, repos.products, logger.Component("stock")),
		Promotions:   service.NewPromotionService(repos.promotions, repos.products, clock, logger.Component("promotions")),
		Tickets:      service.NewTicketService(repos.tickets, repos.users, repos.products, window, clock, logger.Component("tickets")),
		Reports:      service.NewReportService(repos.tickets, clock),
		HealthChecks: checks,
		JWTSecret:    cfg.JWTSecret,
		Logger:       log,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return dispatcher.Run(gctx)
	})

	g.Go(func() error {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.StoreDriver).
			Str("timezone", cfg.Timezone).
			Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore picks the storage backend. The in-memory store starts from the
// seed catalog; Mongo is seeded only when empty.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, checks map[string]handler.PingFunc) (repositories, func(), error) {
	users, cats := seed.Users(), seed.Categories()
	products := seed.Products(cats)

	if cfg.StoreDriver == config.StoreMemory {
		log.Info().Int("products", len(products)).Msg("using in-memory store")
		return repositories{
			users:      memory.NewUserRepository(users),
			categories: memory.NewCategoryRepository(cats),
			products:   memory.NewProductRepository(products),
			tickets:    memory.NewTicketRepository(),
			promotions: memory.NewPromotionRepository(),
		}, func() {}, nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return repositories{}, nil, err
	}
	closeFn := func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		closeFn()
		return repositories{}, nil, err
	}
	seeded, err := mongostore.SeedIfEmpty(ctx, db, users, cats, products)
	if err != nil {
		closeFn()
		return repositories{}, nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Bool("seeded", seeded).Msg("using mongo store")

	checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	return repositories{
		users:      mongostore.NewUserRepository(db),
		categories: mongostore.NewCategoryRepository(db),
		products:   mongostore.NewProductRepository(db),
		tickets:    mongostore.NewTicketRepository(db),
		promotions: mongostore.NewPromotionRepository(db),
	}, closeFn, nil
}

func openHighlightCache(ctx context.Context, cfg *config.Config, log zerolog.Logger, checks map[string]handler.PingFunc) (ports.HighlightCache, func(), error) {
	if !cfg.Redis.Enabled {
		return memory.NewHighlightCache(), func() {}, nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Str("key_prefix", cfg.Redis.KeyPrefix).Msg("highlight cache on redis")

	checks["redis"] = rdb.Healthy

	return redisstore.NewHighlightCache(rdb), func() { closeRedis(rdb, log) }, nil
}

func closeRedis(rdb *redisstore.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
}
