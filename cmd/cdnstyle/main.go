package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/DMarby/cdnstyle/internal/api"
	"github.com/DMarby/cdnstyle/internal/cache"
	"github.com/DMarby/cdnstyle/internal/cache/memory"
	"github.com/DMarby/cdnstyle/internal/cache/redis"
	"github.com/DMarby/cdnstyle/internal/cmd"
	"github.com/DMarby/cdnstyle/internal/database"
	fileDatabase "github.com/DMarby/cdnstyle/internal/database/file"
	"github.com/DMarby/cdnstyle/internal/database/postgresql"
	"github.com/DMarby/cdnstyle/internal/database/spaces"
	"github.com/DMarby/cdnstyle/internal/delivery"
	"github.com/DMarby/cdnstyle/internal/health"
	"github.com/DMarby/cdnstyle/internal/hmac"
	"github.com/DMarby/cdnstyle/internal/logger"
	"github.com/DMarby/cdnstyle/internal/metadata"
	"github.com/DMarby/cdnstyle/internal/metrics"
	"github.com/DMarby/cdnstyle/internal/style"
	"github.com/DMarby/cdnstyle/internal/tracing"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// Comandline flags
var (
	// Global
	listen        = flag.String("listen", ":8080", "listen address")
	metricsListen = flag.String("metrics-listen", "127.0.0.1:8082", "metrics listen address")
	loglevel      = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")

	// Styles
	stylesPath = flag.String("styles", "./test/fixtures/styles/styles.toml", "path to the image style configuration")

	// Database
	databaseBackend = flag.String("database", "file", "which database backend to use (file, postgresql, spaces)")

	// Database - File
	databaseFilePath = flag.String("database-file-path", "./test/fixtures/file/metadata.json", "path to the database file")

	// Database - Postgresql
	databasePostgresqlAddress  = flag.String("database-postgresql-address", "postgresql://postgres@127.0.0.1/postgres?sslmode=disable", "postgresql address")
	databasePostgresqlMaxConns = flag.Int("database-postgresql-max-conns", 10, "postgresql max open connections")

	// Database - Spaces
	databaseSpacesSpace          = flag.String("database-spaces-space", "", "digitalocean space to use")
	databaseSpacesEndpoint       = flag.String("database-spaces-endpoint", "", "spaces endpoint, for example https://ams3.digitaloceanspaces.com")
	databaseSpacesAccessKey      = flag.String("database-spaces-access-key", "", "spaces access key")
	databaseSpacesSecretKey      = flag.String("database-spaces-secret-key", "", "spaces secret key")
	databaseSpacesManifest       = flag.String("database-spaces-manifest", "metadata.json", "path of the metadata manifest in the space")
	databaseSpacesForcePathStyle = flag.Bool("database-spaces-force-path-style", false, "use path style addressing, for s3 compatible stores such as minio")

	// Cache
	cacheBackend = flag.String("cache", "memory", "which cache backend to use (memory, redis)")

	// Cache - Memory
	cacheMemoryMaxEntries = flag.Int("cache-memory-max-entries", 100000, "max number of cached attachments, 0 for unbounded")

	// Cache - Redis
	cacheRedisAddress  = flag.String("cache-redis-address", "redis://127.0.0.1:6379", "redis address, may contain authentication details")
	cacheRedisPoolSize = flag.Int("cache-redis-pool-size", 10, "redis connection pool size")
	cacheRedisTTL      = flag.Duration("cache-redis-ttl", time.Hour, "how long attachment metadata is cached in redis, 0 to never expire")

	// HMAC
	hmacKey = flag.String("hmac-key", "", "hmac key for derivative tokens, tokens are not required when empty")

	// Tracing
	tracingEnabled = flag.Bool("tracing", false, "export traces over otlp, configured with the OTEL_EXPORTER_OTLP_* environment variables")
)

func main() {
	ctx := context.Background()

	// Parse environment variables
	envy.Parse("CDNSTYLE")

	// Parse commandline flags
	flag.Parse()

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Infof))

	// Set up context for shutting down
	shutdownCtx, shutdown := context.WithCancel(ctx)
	defer shutdown()

	// Initialize tracing
	tracer, err := setupTracing(ctx, log)
	if err != nil {
		log.Fatalf("error initializing tracing: %s", err)
	}
	defer tracer.Shutdown(ctx)

	// Load the image styles
	registry, err := style.LoadFile(*stylesPath)
	if err != nil {
		log.Fatalf("error loading image styles: %s", err)
	}

	// Initialize the database, cache
	db, cacheProvider, err := setupBackends(ctx, tracer)
	if err != nil {
		log.Fatalf("error initializing backends: %s", err)
	}
	defer db.Shutdown()
	defer cacheProvider.Shutdown()

	// Wait for the database to be ready
	waitCtx, waitCancel := context.WithTimeout(ctx, cmd.DatabaseTimeout)
	defer waitCancel()
	if err := db.Wait(waitCtx); err != nil {
		log.Fatalf("error waiting for the database: %s", err)
	}

	// Initialize and start the health checker
	checkerCtx, checkerCancel := context.WithCancel(ctx)
	defer checkerCancel()

	checker := &health.Checker{
		Ctx:      checkerCtx,
		Database: db,
		Cache:    cacheProvider,
		Log:      log,
	}
	go checker.Run()

	// Start and listen on http
	api := &api.API{
		Renderer: &style.Renderer{
			Styles:  registry,
			Loader:  metadata.NewCache(tracer, cacheProvider, db),
			Encoder: registry.Encoder(delivery.DefaultFormats()),
			Tracer:  tracer,
			Log:     log,
		},
		HealthChecker:  checker,
		Log:            log,
		Tracer:         tracer,
		HandlerTimeout: cmd.HandlerTimeout,
		HMAC: &hmac.HMAC{
			Key: []byte(*hmacKey),
		},
		Placeholder: registry.Delivery.Placeholder,
	}
	server := cmd.NewServer(*listen, api.Router(), log)

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Infof("shutting down the http server: %s", err)
			shutdown()
		}
	}()

	log.Infof("http server listening on %s, serving %d image styles", *listen, len(registry.Names()))

	// Start the metrics http server
	go metrics.Serve(shutdownCtx, log, checker, *metricsListen)

	// Wait for shutdown or error
	err = cmd.WaitForInterrupt(shutdownCtx)
	log.Infof("shutting down: %s", err)

	// Shut down http server
	serverCtx, serverCancel := context.WithTimeout(ctx, cmd.ShutdownTimeout)
	defer serverCancel()
	if err := server.Shutdown(serverCtx); err != nil {
		log.Warnf("error shutting down: %s", err)
	}
}

func setupTracing(ctx context.Context, log *logger.Logger) (*tracing.Tracer, error) {
	if !*tracingEnabled {
		return tracing.NewNoop(log, "cdnstyle"), nil
	}

	return tracing.New(ctx, log, "cdnstyle")
}

func setupBackends(ctx context.Context, tracer *tracing.Tracer) (db database.Provider, cacheProvider cache.Provider, err error) {
	// Database
	switch *databaseBackend {
	case "file":
		db, err = fileDatabase.New(*databaseFilePath)
	case "postgresql":
		db, err = postgresql.New(*databasePostgresqlAddress, *databasePostgresqlMaxConns)
	case "spaces":
		db, err = spaces.New(ctx, *databaseSpacesSpace, *databaseSpacesEndpoint, *databaseSpacesAccessKey, *databaseSpacesSecretKey, *databaseSpacesManifest, *databaseSpacesForcePathStyle)
	default:
		err = fmt.Errorf("invalid database backend")
	}

	if err != nil {
		return
	}

	// Cache
	switch *cacheBackend {
	case "memory":
		cacheProvider = memory.New(*cacheMemoryMaxEntries)
	case "redis":
		cacheProvider, err = redis.New(ctx, tracer, *cacheRedisAddress, *cacheRedisPoolSize, *cacheRedisTTL)
	default:
		err = fmt.Errorf("invalid cache backend")
	}

	return
}
