package container

import (
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/zag-shortener/internal/handlers"
	"github.com/serroba/zag-shortener/internal/health"
	"github.com/serroba/zag-shortener/internal/middleware"
	"github.com/serroba/zag-shortener/internal/shortener"
	"github.com/serroba/zag-shortener/internal/store"
	"github.com/serroba/zag-shortener/internal/web"
	"go.uber.org/zap"
)

// Storage backends accepted by Options.Storage.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Options struct {
	Port              int    `default:"3000"     help:"Port to listen on"                               short:"p"`
	DatabaseURL       string `help:"PostgreSQL connection string"`
	Storage           string `default:"postgres" help:"Storage backend: postgres or memory"`
	RedisAddr         string `help:"Redis server address, empty disables the cache"`
	CacheTTLMinutes   int    `default:"60"       help:"How long resolved mappings stay cached"`
	RetryDelaySeconds int    `default:"5"        help:"Pause between database connection attempts"`
	LogFormat         string `default:"console"  help:"Log encoding: console or json"`
	LogFile           string `help:"Also write logs to this file, rotated"`
}

// Cache holds the optional Redis client. Client is nil when caching is disabled.
type Cache struct {
	Client *redis.Client
}

// Shutdown closes the Redis client if there is one.
func (c *Cache) Shutdown() error {
	if c.Client == nil {
		return nil
	}

	return c.Client.Close()
}

// Register provides options and every package on injector.
func Register(injector *do.Injector, options *Options) {
	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	RedisPackage(injector)
	PostgresPackage(injector)
	RepositoryPackage(injector)
	HTTPPackage(injector)
}

// LoggerPackage provides the process logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return NewLogger(opts.LogFormat, opts.LogFile)
	})
}

// RedisPackage provides the optional cache client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Cache, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.RedisAddr == "" {
			return &Cache{}, nil
		}

		return &Cache{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage provides the database connector. Nothing is dialed until
// the connector is run.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.Connector, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return store.NewConnector(opts.DatabaseURL, logger,
			store.WithRetryDelay(time.Duration(opts.RetryDelaySeconds)*time.Second),
		), nil
	})
}

// RepositoryPackage provides the configured repository, its health state and
// the shortener service.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*store.MemoryStore, error) {
		return store.NewMemoryStore(), nil
	})

	do.Provide(injector, func(i *do.Injector) (health.DatabaseState, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Storage {
		case StorageMemory:
			return do.MustInvoke[*store.MemoryStore](i), nil
		case StoragePostgres:
			return do.MustInvoke[*store.Connector](i), nil
		default:
			return nil, fmt.Errorf("unknown storage %q", opts.Storage)
		}
	})

	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var repo shortener.Repository

		switch opts.Storage {
		case StorageMemory:
			repo = do.MustInvoke[*store.MemoryStore](i)
		case StoragePostgres:
			repo = store.NewPostgresStore(do.MustInvoke[*store.Connector](i))
		default:
			return nil, fmt.Errorf("unknown storage %q", opts.Storage)
		}

		if cache := do.MustInvoke[*Cache](i); cache.Client != nil {
			ttl := time.Duration(opts.CacheTTLMinutes) * time.Minute
			repo = store.NewRedisCacheRepository(repo, cache.Client, ttl, logger)
		}

		return repo, nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		generator, err := shortener.NewDefaultGenerator()
		if err != nil {
			return nil, err
		}

		return shortener.NewService(
			do.MustInvoke[shortener.Repository](i),
			generator,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// HTTPPackage provides the router and the API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
		}))

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(logger))

		service := do.MustInvoke[*shortener.Service](i)
		handlers.RegisterRoutes(api, handlers.NewURLHandler(service, logger))

		var checker health.Checker
		if cache := do.MustInvoke[*Cache](i); cache.Client != nil {
			checker = health.NewRedisChecker(cache.Client)
		}

		health.RegisterRoutes(api, health.NewHandler(do.MustInvoke[health.DatabaseState](i), checker))
		web.RegisterRoutes(router)

		return api, nil
	})
}
