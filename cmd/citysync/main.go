// @title           CitySync API
// @version         1.0
// @description     Building energy synchronization and identity resolution service.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API Key authentication

// @host      localhost:8080
// @BasePath  /api/v1

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/urfave/cli/v2"
	_ "modernc.org/sqlite"

	_ "citysync-v0/docs" // Swagger docs

	apiserver "citysync-v0/internal/api"
	configapp "citysync-v0/internal/config/application"
	engineapp "citysync-v0/internal/engine/application"
	enginedomain "citysync-v0/internal/engine/domain"
	engineinfra "citysync-v0/internal/engine/infrastructure"
	"citysync-v0/internal/infrastructure/database"
	"citysync-v0/internal/infrastructure/logger"
	journalinfra "citysync-v0/internal/journal/infrastructure"
	"citysync-v0/internal/metrics"
	"citysync-v0/internal/schema"
)

func main() {
	app := &cli.App{
		Name:  "citysync",
		Usage: "Synchronize building energy data from a city source into a queryable cache",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-key", Usage: "API key for the HTTP API (CITYSYNC_API_KEY)"},
			&cli.StringFlag{Name: "port", Usage: "HTTP API port (CITYSYNC_API_PORT)"},
			&cli.StringFlag{Name: "source-url", Usage: "bulk energy feed URL (CITYSYNC_SOURCE_URL)"},
			&cli.StringFlag{Name: "attributes-url", Usage: "per-building detail URL, optional %s key placeholder (CITYSYNC_ATTRIBUTES_URL)"},
			&cli.StringFlag{Name: "source-token", Usage: "bearer token for the source (CITYSYNC_SOURCE_TOKEN)"},
			&cli.StringFlag{Name: "db-path", Usage: "journal database path (CITYSYNC_DB_PATH)"},
			&cli.DurationFlag{Name: "fast-interval", Usage: "polling interval while changes are landing (CITYSYNC_FAST_INTERVAL)"},
			&cli.DurationFlag{Name: "slow-interval", Usage: "polling interval after a quiet streak (CITYSYNC_SLOW_INTERVAL)"},
			&cli.IntFlag{Name: "quiet-cycles", Usage: "quiet cycles before dropping to slow polling (CITYSYNC_QUIET_CYCLES)"},
			&cli.Float64Flag{Name: "tolerance", Usage: "default spatial lookup tolerance in meters (CITYSYNC_LOOKUP_TOLERANCE)"},
			&cli.DurationFlag{Name: "fetch-timeout", Usage: "source request timeout (CITYSYNC_FETCH_TIMEOUT)"},
			&cli.StringFlag{Name: "seed-file", Usage: "identity seed file with confirmed key mappings (CITYSYNC_SEED_PATH)"},
			&cli.StringFlag{Name: "env-file", Usage: "path to a .env file (default .env)"},
			&cli.StringFlag{Name: "log-level", Usage: "DEBUG, INFO, WARN or ERROR (CITYSYNC_LOG_LEVEL)"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json (CITYSYNC_LOG_FORMAT)"},
			&cli.StringFlag{Name: "log-output", Usage: "stdout, stderr or a file path (CITYSYNC_LOG_OUTPUT)"},
			&cli.BoolFlag{Name: "dev", Usage: "enable dev mode with Swagger UI (CITYSYNC_DEV_MODE)"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log := logger.DefaultLogger()
		log.Error("Application error", "err", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	// The .env file has to land before config resolution reads the
	// environment.
	bootLogger := logger.NewLogger()
	configapp.LoadEnvFile(bootLogger, c.String("env-file"))

	runtimeCfg := configapp.LoadRuntimeConfig(configapp.CLIValues{
		APIKey:          c.String("api-key"),
		APIPort:         c.String("port"),
		LogLevel:        c.String("log-level"),
		LogFormat:       c.String("log-format"),
		LogOutput:       c.String("log-output"),
		DBPath:          c.String("db-path"),
		SourceURL:       c.String("source-url"),
		AttributesURL:   c.String("attributes-url"),
		SourceToken:     c.String("source-token"),
		FetchTimeout:    c.Duration("fetch-timeout"),
		FastInterval:    c.Duration("fast-interval"),
		SlowInterval:    c.Duration("slow-interval"),
		QuietThreshold:  c.Int("quiet-cycles"),
		LookupTolerance: c.Float64("tolerance"),
		SeedPath:        c.String("seed-file"),
		DevMode:         c.Bool("dev"),
	})
	if err := runtimeCfg.Validate(); err != nil {
		return err
	}

	// Rebuild the logger now that the resolved log settings are in the
	// environment-backed config.
	os.Setenv("CITYSYNC_LOG_LEVEL", runtimeCfg.LogLevel)
	os.Setenv("CITYSYNC_LOG_FORMAT", runtimeCfg.LogFormat)
	os.Setenv("CITYSYNC_LOG_OUTPUT", runtimeCfg.LogOutput)
	appLogger := logger.NewLogger()
	logger.SetDefaultLogger(appLogger)

	appLogger.Info("Starting CitySync", "version", "1.0", "source", runtimeCfg.SourceURL)

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Journal database
	appLogger.Debug("Connecting to journal database", "file", runtimeCfg.DBPath)
	db, err := database.ConnectSQLite(runtimeCfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to connect to journal database", "err", err)
		return fmt.Errorf("failed to connect to journal database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(runtime.NumCPU())

	appLogger.Debug("Initializing journal schema")
	if err := schema.Apply(db); err != nil {
		appLogger.Error("Failed to initialize schema", "err", err)
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	journalRepo := journalinfra.NewRepository(db)

	// Sync engine
	appLogger.Debug("Initializing sync engine")
	resolver := enginedomain.NewResolver()
	resolver.AmbiguousMapping = func(primary, confirmed, derived string) {
		metrics.AmbiguousMappingsTotal.Inc()
		appLogger.Warn("Identifier derivation disagrees with confirmed mapping",
			"primary", primary, "confirmed", confirmed, "derived", derived)
	}
	cache := engineapp.NewCache(resolver, enginedomain.NewSpatialIndex())
	differ := enginedomain.NewDiffer(resolver)

	if runtimeCfg.SeedPath != "" {
		rawSeed, err := os.ReadFile(runtimeCfg.SeedPath)
		if err != nil {
			appLogger.Error("Failed to read seed file", "file", runtimeCfg.SeedPath, "err", err)
			return fmt.Errorf("failed to read seed file: %w", err)
		}
		applied, err := configapp.NewLoader(resolver).LoadSeed(sigCtx, rawSeed)
		if err != nil {
			appLogger.Error("Failed to load seed file", "file", runtimeCfg.SeedPath, "err", err)
			return fmt.Errorf("failed to load seed file: %w", err)
		}
		appLogger.Info("Identity seed loaded", "file", runtimeCfg.SeedPath, "mappings", applied)
	}

	var tokenSource engineinfra.TokenSource
	if runtimeCfg.SourceToken != "" {
		token := runtimeCfg.SourceToken
		tokenSource = func(ctx context.Context) (string, error) { return token, nil }
	}
	sourceClient := engineinfra.NewSourceClient(runtimeCfg.SourceURL, runtimeCfg.AttributesURL, runtimeCfg.FetchTimeout, tokenSource)

	notifier := engineapp.NotifierFunc(func(n engineapp.ChangeNotification) {
		for _, ch := range n.Changes {
			appLogger.Info("Building changed", "uid", n.UID, "cycle", n.Cycle, "key", ch.Key, "kind", ch.Kind)
		}
	})

	poller := engineapp.NewPoller(
		appLogger,
		cache,
		differ,
		sourceClient,
		journalRepo,
		notifier,
		metrics.NewRecorder(),
		engineapp.PollerConfig{
			FastInterval:   runtimeCfg.FastInterval,
			SlowInterval:   runtimeCfg.SlowInterval,
			QuietThreshold: runtimeCfg.QuietThreshold,
		},
	)

	// API server
	appLogger.Debug("Initializing API server")
	apiServer, err := apiserver.NewServer(appLogger, runtimeCfg, cache, poller, journalRepo, sourceClient)
	if err != nil {
		appLogger.Error("Failed to create API server", "err", err)
		return fmt.Errorf("failed to create API server: %w", err)
	}

	poller.Start()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("API server error", "err", err)
			serverErrChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	appLogger.Info("CitySync started successfully, waiting for shutdown signal")

	select {
	case <-sigCtx.Done():
		appLogger.Info("Shutdown signal received, starting graceful shutdown")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		var shutdownErr error
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("API server shutdown error", "err", err)
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
		}

		if err := poller.Stop(shutdownCtx); err != nil {
			appLogger.Error("Poller shutdown error", "err", err)
			if shutdownErr != nil {
				return fmt.Errorf("multiple shutdown errors: %v, %v", shutdownErr, err)
			}
			return fmt.Errorf("poller shutdown error: %w", err)
		}

		appLogger.Info("Graceful shutdown completed")
		return shutdownErr
	case err := <-serverErrChan:
		appLogger.Error("Server error received", "err", err)
		return err
	}
}
