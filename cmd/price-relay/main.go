package main

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	"tc.com/price-relay/pkg/clock"
	"tc.com/price-relay/pkg/config"
	"tc.com/price-relay/pkg/feeder/client"
	"tc.com/price-relay/pkg/feeder/keystore"
	"tc.com/price-relay/pkg/feeder/task"
	"tc.com/price-relay/pkg/feeder/tx"
	"tc.com/price-relay/pkg/logging"
	"tc.com/price-relay/pkg/metrics"
	"tc.com/price-relay/pkg/relay"
	"tc.com/price-relay/pkg/sources"
	"tc.com/price-relay/pkg/tracing"
	"tc.com/price-relay/pkg/version"

	// Import sources to register them
	_ "tc.com/price-relay/pkg/sources/cex"
	_ "tc.com/price-relay/pkg/sources/market"
)

var (
	configFile = flag.String("config", "", "Path to configuration file (empty uses built-in defaults)")
	delay      = flag.Uint64("delay", 0, "Upper bound in seconds for a random startup delay")
	taskID     = flag.Uint64("task_id", 0, "Task id used with the task coordinator")
	showVer    = flag.Bool("version", false, "Show version and exit")
	dryRun     = flag.Bool("dry-run", false, "Dry run mode: fetch and normalize the price but don't submit it")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("price-relay version %s\n", version.Version)
		os.Exit(0)
	}

	os.Exit(run())
}

func run() int {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	logging.SetGlobal(logger)

	logger.Info("Starting price-relay", "version", version.Version, "task_id", *taskID, "dry_run", *dryRun)
	if *dryRun {
		logger.Warn("DRY RUN MODE ENABLED - the price will be fetched but NOT submitted to the chain")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, tracer, err := tracing.Init(ctx, tracing.Config{
		Enabled:  cfg.Tracing.Enabled,
		Endpoint: cfg.Tracing.Endpoint,
		Insecure: cfg.Tracing.Insecure,
	})
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	metrics.Init()
	if cfg.Metrics.PushURL != "" {
		defer func() {
			pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metrics.Push(pushCtx, cfg.Metrics.PushURL, cfg.Metrics.Job); err != nil {
				logger.Warn("Failed to push metrics", "error", err)
			}
		}()
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout.ToDuration()}

	relayer, err := newRelay(cfg, logger, httpClient, tracer)
	if err != nil {
		logger.Error("Failed to set up relay", "error", err)
		return 1
	}

	out, err := relayer.Run(ctx)
	if err != nil {
		logger.Error("Relay failed", "error", err)
		return 1
	}

	logger.Info("Relay finished", "status", out.Status, "source", out.Source, "normalized", out.Normalized)
	return 0
}

// newRelay assembles the relay collaborators from configuration and flags.
func newRelay(cfg *config.Config, logger *logging.Logger, httpClient *http.Client, tracer trace.Tracer) (*relay.Relay, error) {
	srcs, err := buildSources(cfg, logger, httpClient, clock.System{})
	if err != nil {
		return nil, err
	}

	selector, err := cfg.NewSelector()
	if err != nil {
		return nil, err
	}

	var coordinator task.Coordinator = task.Noop{}
	if cfg.Task.Enabled {
		coordinator, err = task.NewHTTPCoordinator(cfg.Task.BaseURL, httpClient, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Task coordination enabled", "base_url", cfg.Task.BaseURL)
	}

	var submitter relay.Submitter
	if !*dryRun {
		submitter, err = tx.NewSubmitter(tx.SubmitterConfig{
			ContractAddress: common.HexToAddress(cfg.Feeder.ContractAddress),
			GasLimit:        cfg.Feeder.GasLimit,
			Confirmations:   cfg.Feeder.Confirmations,
			PollInterval:    cfg.Feeder.PollInterval.ToDuration(),
			Timeout:         cfg.Feeder.Timeout.ToDuration(),
			LoadKey:         keyLoader(cfg.Feeder),
			Dial:            client.Dialer(cfg.Feeder.RPCURL),
			Logger:          logger.ZerologLogger(),
		})
		if err != nil {
			return nil, err
		}
	}

	return relay.New(relay.Config{
		Sources:     srcs,
		Selector:    selector,
		Clock:       clock.System{},
		Submitter:   submitter,
		Coordinator: coordinator,
		TaskID:      *taskID,
		MaxDelay:    *delay,
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- startup jitter
		DryRun:      *dryRun,
		Logger:      logger,
		Tracer:      tracer,
	})
}

// keyLoader resolves the keystore password only when a transaction is about
// to be signed.
func keyLoader(cfg config.FeederConfig) tx.KeyLoader {
	return func() (*ecdsa.PrivateKey, common.Address, error) {
		password, err := keystore.ResolvePassword(cfg.KeystorePassword, cfg.KeystorePasswordEnv)
		if err != nil {
			return nil, common.Address{}, fmt.Errorf("%w: %w", keystore.ErrKeystore, err)
		}
		return keystore.Load(cfg.KeystorePath, password)
	}
}

// buildSources creates every enabled source, injecting the shared logger,
// clock and HTTP client into its config map.
func buildSources(cfg *config.Config, logger *logging.Logger, httpClient *http.Client, clk clock.Clock) ([]sources.Source, error) {
	var out []sources.Source
	for _, sourceCfg := range cfg.EnabledSources() {
		srcConfig := make(map[string]interface{}, len(sourceCfg.Config)+3)
		for k, v := range sourceCfg.Config {
			srcConfig[k] = v
		}
		srcConfig[sources.ConfigKeyLogger] = logger.With("source", sourceCfg.Name)
		srcConfig[sources.ConfigKeyClock] = clk
		srcConfig[sources.ConfigKeyHTTPClient] = httpClient

		source, err := sources.Create(strings.ToLower(sourceCfg.Type), sourceCfg.Name, srcConfig)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", sourceCfg.Key(), err)
		}
		logger.Debug("Initialized source", "type", sourceCfg.Type, "name", sourceCfg.Name)
		out = append(out, source)
	}
	return out, nil
}
