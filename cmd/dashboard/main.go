package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-dashboard/internal/config"
	"github.com/rxtech-lab/argo-dashboard/internal/diagnostics"
	"github.com/rxtech-lab/argo-dashboard/internal/engine"
	"github.com/rxtech-lab/argo-dashboard/internal/exchange"
	"github.com/rxtech-lab/argo-dashboard/internal/hub"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/pipeline"
	"github.com/rxtech-lab/argo-dashboard/internal/server"
	"github.com/rxtech-lab/argo-dashboard/internal/session"
	"github.com/rxtech-lab/argo-dashboard/internal/stream"
	"github.com/rxtech-lab/argo-dashboard/internal/version"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const shutdownGrace = 10 * time.Second

// loadConfig reads the optional config file and applies flag and env overrides.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}

	if cmd.IsSet("symbol") {
		cfg.Symbol = cmd.String("symbol")
	}
	if cmd.IsSet("api-key") {
		cfg.Exchange.APIKey = cmd.String("api-key")
	}
	if cmd.IsSet("api-secret") {
		cfg.Exchange.APISecret = cmd.String("api-secret")
	}
	if cmd.IsSet("testnet") {
		cfg.Exchange.Testnet = cmd.Bool("testnet")
	}
	if cmd.IsSet("addr") {
		cfg.Server.Addr = cmd.String("addr")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}

	cfg.Symbol = strings.ToUpper(strings.TrimSpace(cfg.Symbol))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// newExchangeClient returns nil when credentials are absent, which keeps the
// account and trades loops idle.
func newExchangeClient(ctx context.Context, cfg config.Config, log *logger.Logger) exchange.Client {
	if err := cfg.RequireCredentials(); err != nil {
		log.Warn("Account and trade loops are disabled", zap.Error(err))

		return nil
	}

	client, err := exchange.NewBinanceFuturesClient(cfg.Exchange)
	if err != nil {
		log.Warn("Failed to create exchange client, account and trade loops are disabled", zap.Error(err))

		return nil
	}

	if offset, err := client.SyncServerTime(ctx); err != nil {
		log.Warn("Failed to sync server time", zap.Error(err))
	} else {
		log.Info("Synced server time", zap.Int64("offset_ms", offset))
	}

	return client
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithConfig(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	diag := diagnostics.NewRecorder(registry)

	sess := session.NewSession(hub.NewHub(log, diag), cfg.Loops.TradeFetchLimit, log)

	futures.UseTestnet = cfg.Exchange.Testnet
	client := newExchangeClient(ctx, cfg, log)

	quotes := stream.NewBookTickerStream(
		stream.NewBinanceWebSocketService(),
		cfg.Symbol,
		cfg.Stream.ReconnectDelay,
		log,
		diag,
	)

	onTaskExit := engine.OnTaskExitCallback(func(name string, err error) {
		log.Info("Task exited", zap.String("task", name), zap.Bool("failed", err != nil))
	})
	supervisor := engine.NewSupervisor(log, engine.Callbacks{OnTaskExit: &onTaskExit})

	tasks := []struct {
		name string
		task engine.Task
	}{
		{"price_pump", pipeline.NewPricePump(quotes, sess.Hub, log)},
		{"heartbeat", pipeline.NewHeartbeat(sess.Hub, cfg.Loops.HeartbeatInterval, log)},
		{"account_loop", pipeline.NewAccountLoop(client, sess, cfg, log, diag)},
		{"trades_loop", pipeline.NewTradesLoop(client, sess, cfg, log, diag)},
		{"server", server.NewServer(cfg.Server, sess, registry, log)},
	}
	for _, t := range tasks {
		if err := supervisor.Add(t.name, t.task); err != nil {
			return err
		}
	}

	log.Info("Starting dashboard",
		zap.String("version", version.GetVersion()),
		zap.String("symbol", cfg.Symbol),
		zap.Bool("testnet", cfg.Exchange.Testnet),
		zap.String("addr", cfg.Server.Addr),
	)

	if err := supervisor.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		log.Info("Shutdown requested")
	case <-waitC(supervisor):
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	return supervisor.Shutdown(shutdownCtx)
}

func waitC(s *engine.Supervisor) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		_ = s.Wait()
		close(done)
	}()

	return done
}

func schemaAction(_ context.Context, _ *cli.Command) error {
	cfg := config.Default()

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Usage:   "Stream Binance futures account data to dashboard clients",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config `FILE`",
				Sources: cli.EnvVars("DASHBOARD_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Futures symbol to track",
				Value:   "BTCUSDT",
				Sources: cli.EnvVars("BINANCE_SYMBOL"),
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Binance futures API key",
				Sources: cli.EnvVars("BINANCE_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "api-secret",
				Usage:   "Binance futures API secret",
				Sources: cli.EnvVars("BINANCE_API_SECRET"),
			},
			&cli.BoolFlag{
				Name:    "testnet",
				Usage:   "Use the futures testnet",
				Sources: cli.EnvVars("BINANCE_TESTNET"),
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "HTTP listen address",
				Value:   ":8000",
				Sources: cli.EnvVars("DASHBOARD_ADDR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("DASHBOARD_LOG_LEVEL"),
			},
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
		},
	}
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
