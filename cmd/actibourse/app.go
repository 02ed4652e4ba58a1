package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zappabad/actibourse/internal/cadence"
	"github.com/zappabad/actibourse/internal/config"
	"github.com/zappabad/actibourse/internal/game"
	"github.com/zappabad/actibourse/internal/metrics"
	"github.com/zappabad/actibourse/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app bundles everything both front ends share.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	session *game.Session
	metrics *metrics.Metrics
	runner  *cadence.Runner
}

// newApp loads configuration, applies flag overrides and wires the session,
// metrics and cadence runner. jsonLogs selects the production encoder.
func newApp(cmd *cobra.Command, jsonLogs bool) (*app, error) {
	path, _ := cmd.Flags().GetString(configFlagName)
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString(addrFlagName); v != "" {
		cfg.Server.Addr = v
	}
	if v, _ := cmd.Flags().GetString(logFileFlagName); v != "" {
		cfg.Log.File = v
	}
	if v, _ := cmd.Flags().GetString(logLevelFlagName); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	logger, err := newLogger(cfg.Log, jsonLogs)
	if err != nil {
		return nil, err
	}

	gameCfg, err := cfg.GameConfig()
	if err != nil {
		return nil, err
	}
	session, err := game.NewSession(gameCfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	m.ObservePrices(session.MarketSnapshot())
	if err := m.RefreshValuations(session); err != nil {
		return nil, fmt.Errorf("initial valuations: %w", err)
	}
	runner := cadence.NewRunner(gameCfg.Cadence, session, logger, cadence.WithObserver(m.SessionObserver(session)))

	logger.Info("session ready",
		zap.Stringer("session", session.ID),
		zap.Int("teams", gameCfg.Teams),
		zap.Int("securities", len(gameCfg.Securities)),
		zap.Bool("test_mode", gameCfg.TestMode),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		session: session,
		metrics: m,
		runner:  runner,
	}, nil
}

func (a *app) newServer() *server.Server {
	sc := server.DefaultConfig()
	sc.Addr = a.cfg.Server.Addr
	return server.New(sc, a.session, a.runner, a.metrics, a.logger)
}

func (a *app) Close() {
	a.runner.Close()
	_ = a.logger.Sync()
}

// newLogger builds a zap logger writing to cfg.File, or stderr when jsonLogs
// is set and no file is given.
func newLogger(cfg config.LogConfig, jsonLogs bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	zc := zap.NewDevelopmentConfig()
	if jsonLogs {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.File}
	zc.ErrorOutputPaths = []string{cfg.File}
	if jsonLogs && cfg.File == config.DefaultLogFile {
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Named("actibourse"), nil
}
