package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/n8henrie/knapsack/internal/application"
	"github.com/n8henrie/knapsack/internal/config"
	"github.com/n8henrie/knapsack/internal/knapsack"
	"github.com/n8henrie/knapsack/internal/logging"
	"github.com/n8henrie/knapsack/internal/storage"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("knapsack-server", "Knapsack solver service - solves 0/1 knapsack problems over HTTP and websocket")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	strategy := kingpinApp.Flag("strategy", "Default solver strategy ("+strategyNames()+")").String()
	maxItems := kingpinApp.Flag("max-items", "Largest item count the permutation strategy accepts (set 0 to disable)").Default("-1").Int()
	subsetMaxItems := kingpinApp.Flag("subset-max-items", "Largest item count the subset strategy accepts (set 0 to disable)").Default("-1").Int()
	storageDriver := kingpinApp.Flag("storage", "Solve history driver").Enum(storage.Drivers()...)
	storagePath := kingpinApp.Flag("storage-path", "SQLite database path").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *strategy != "" {
		overrides.Strategy = strategy
	}

	if *maxItems >= 0 {
		overrides.MaxItems = maxItems
	}

	if *subsetMaxItems >= 0 {
		overrides.SubsetMaxItems = subsetMaxItems
	}

	if *storageDriver != "" {
		overrides.StorageDriver = storageDriver
	}

	if *storagePath != "" {
		overrides.StoragePath = storagePath
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.String("strategy", string(cfg.Strategy)),
		zap.Int("max_items", cfg.MaxItems),
		zap.Int("subset_max_items", cfg.SubsetMaxItems),
		zap.String("storage", cfg.StorageDriver),
	)

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), app, cfg.ShutdownGracePeriod, logger)
}

func strategyNames() string {
	names := make([]string, 0, len(knapsack.Strategies()))
	for _, s := range knapsack.Strategies() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// shutdown blocks until a termination signal arrives, then drains the server
// and releases resources.
func shutdown(server *http.Server, resources io.Closer, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}

	if resources == nil {
		return
	}
	if err := resources.Close(); err != nil {
		logger.Error("failed to close storage", zap.Error(err))
	}
}
