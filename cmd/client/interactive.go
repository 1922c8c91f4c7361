package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vinzlac/mcp-server-brave-test/internal/bootstrap"
	"github.com/vinzlac/mcp-server-brave-test/internal/config"
	"github.com/vinzlac/mcp-server-brave-test/internal/history"
	"github.com/vinzlac/mcp-server-brave-test/internal/intent"
	"github.com/vinzlac/mcp-server-brave-test/internal/metrics"
	"github.com/vinzlac/mcp-server-brave-test/internal/orchestrator"
	"github.com/vinzlac/mcp-server-brave-test/internal/session"
	"github.com/vinzlac/mcp-server-brave-test/internal/shell"
	"github.com/vinzlac/mcp-server-brave-test/internal/temporalclient"
	"github.com/vinzlac/mcp-server-brave-test/internal/workflow"
)

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if !flags.durable && len(args) == 0 {
		return errors.New("usage: client <server-script>")
	}

	var m *metrics.Metrics
	var observer session.QueryObserver
	if flags.metricsAddr != "" {
		m = metrics.New()
		observer = m
		addr, err := m.Serve(ctx, flags.metricsAddr, logger)
		if err != nil {
			return err
		}
		logger.Info().Str("addr", addr.String()).Msg("serving metrics")
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var engine session.Engine
	if flags.durable {
		c, err := temporalclient.Dial(flags.temporalHost, flags.namespace, logger)
		if err != nil {
			return err
		}
		defer c.Close()
		engine = session.NewDurableEngine(c, cfg.Temporal.TaskQueue, workflow.QueryInput{
			Model:             cfg.LLM.ModelConfig(),
			MaxRounds:         cfg.Agent.MaxRounds,
			FastPath:          true,
			CompletionTimeout: cfg.LLM.Timeout,
			ToolTimeout:       cfg.Agent.ToolTimeout,
		})
		logger.Info().Str("task_queue", cfg.Temporal.TaskQueue).Msg("running queries on Temporal")
	} else {
		if err := cfg.Require(config.CredentialCompletion); err != nil {
			return err
		}
		ts, err := bootstrap.ConnectToolServer(ctx, args[0], cfg, m, logger)
		if err != nil {
			return err
		}
		defer ts.Close()
		client, err := bootstrap.CompletionClient(cfg.LLM, m)
		if err != nil {
			return err
		}
		o := orchestrator.New(orchestrator.Options{
			MaxRounds:  cfg.Agent.MaxRounds,
			Model:      cfg.LLM.ModelConfig(),
			Classifier: intent.DefaultClassifier(),
			Logger:     logger,
		})
		engine = session.NewLocalEngine(o, client, ts.Invoker, ts.Registry.Specs(), cfg.LLM.Timeout)
	}

	sess := session.New(store, engine, session.Options{
		ID:       flags.session,
		MaxTurns: cfg.Agent.HistoryMaxTurns,
		Observer: observer,
		Logger:   logger,
	})
	logger.Debug().Str("session_id", sess.ID()).Msg("session started")

	tty := shell.IsTerminal()
	renderer := shell.NewRenderer(shell.RendererOptions{
		Markdown: tty && !flags.noMarkdown,
		Color:    tty,
		Footer:   logger.GetLevel() <= zerolog.DebugLevel,
	})
	sh := shell.New(sess, shell.Options{In: os.Stdin, Out: os.Stdout, Renderer: renderer, Logger: logger})
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openStore returns the Redis store when REDIS_ADDR is set, else an
// in-memory store.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (history.Store, func(), error) {
	if cfg.Redis.Addr == "" {
		if flags.session != "" {
			logger.Warn().Msg("--session without REDIS_ADDR: history starts empty and is not persisted")
		}
		return history.NewInMemoryStore(), func() {}, nil
	}
	store := history.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, history.WithTTL(cfg.Redis.TTL))
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("persisting history in Redis")
	return store, func() { _ = store.Close() }, nil
}
