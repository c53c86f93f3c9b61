package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	assets "github.com/haatos/deckhand"
	"github.com/haatos/deckhand/internal/console"
	"github.com/haatos/deckhand/internal/engine"
	"github.com/haatos/deckhand/internal/executor"
	"github.com/haatos/deckhand/internal/gitstate"
	"github.com/haatos/deckhand/internal/log"
	"github.com/haatos/deckhand/internal/probe"
	"github.com/haatos/deckhand/internal/registry"
	"github.com/haatos/deckhand/internal/remote"
	"github.com/haatos/deckhand/internal/settings"
	"github.com/haatos/deckhand/internal/status"
	"github.com/haatos/deckhand/internal/watch"
)

func main() {
	logger := log.New("deckhand")

	cmd := &cli.Command{
		Name:      "deckhand",
		Usage:     "sequence validation, build and deploy pipelines, and check what is live",
		ArgsUsage: "[key]",
		Commands: []*cli.Command{
			runCommand(logger),
			listCommand(logger),
			statusCommand(logger),
			watchCommand(logger),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := newApp(ctx, logger)
			if err != nil {
				return err
			}

			if key := cmd.Args().First(); key != "" {
				return app.runKey(ctx, key)
			}

			interactive := term.IsTerminal(int(os.Stdin.Fd()))
			loop := console.NewLoop(app.registry, app.engine, app.source, os.Stdin, os.Stdout)
			if !interactive {
				logger.Warn("stdin is not a terminal, reading operator commands anyway")
			}
			return loop.Run(ctx)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			logger.Error(msg)
		}
		os.Exit(1)
	}
}

// app is the wired-up toolchain: settings, registry, engine and the
// optional status sources, built once per invocation.
type app struct {
	settings *settings.Settings
	registry *registry.Registry
	engine   *engine.Engine
	source   engine.StatusSource
	logger   *slog.Logger
}

func newApp(ctx context.Context, logger *slog.Logger) (*app, error) {
	if err := settings.ReadDotenv("./.env"); err != nil {
		return nil, fmt.Errorf("reading dotenv: %w", err)
	}
	s, err := settings.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	reg, err := loadRegistry(s)
	if err != nil {
		return nil, err
	}

	exec, err := newExecutor(s, logger)
	if err != nil {
		return nil, err
	}

	collector := newCollector(s, logger)
	return &app{
		settings: s,
		registry: reg,
		engine:   engine.New(reg, exec, collector, logger),
		source:   collector,
		logger:   logger,
	}, nil
}

func loadRegistry(s *settings.Settings) (*registry.Registry, error) {
	reg, err := registry.FromFile(s.RegistryPath)
	if err == nil {
		return reg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return registry.FromYAML(assets.DefaultRegistry)
	}
	return nil, err
}

func newExecutor(s *settings.Settings, logger *slog.Logger) (executor.Executor, error) {
	if !s.Agent.Enabled() {
		return executor.NewShell(s.CommandTimeout, logger), nil
	}
	key, err := os.ReadFile(s.Agent.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading agent key: %w", err)
	}
	return executor.NewAgent(
		s.Agent.Host,
		s.Agent.User,
		s.Agent.Workdir,
		key,
		s.CommandTimeout,
		logger,
	), nil
}

func newCollector(s *settings.Settings, logger *slog.Logger) *status.Collector {
	var deployments status.DeploymentSource
	if s.RemoteURL != "" {
		deployments = remote.NewClient(s.RemoteURL, s.RemoteToken, s.RemoteTimeout)
	}
	var prober status.Prober
	if s.ProbeURL != "" {
		prober = probe.NewHTTP(s.ProbeURL, s.ProbeTimeout)
	}
	return status.NewCollector(gitstate.NewSource(s.RepoPath), deployments, prober, logger)
}

// runKey executes one pipeline or workflow; a failed run is surfaced
// as a silent non-zero exit since the report already names the
// failure.
func (a *app) runKey(ctx context.Context, key string) error {
	loop := console.NewLoop(a.registry, a.engine, a.source, os.Stdin, os.Stdout)
	ok, err := loop.RunKey(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return cli.Exit("", 1)
	}
	return nil
}

func runCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "run a pipeline or workflow by key",
		ArgsUsage: "<key>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			key := cmd.Args().First()
			if key == "" {
				return errors.New("missing pipeline or workflow key")
			}
			app, err := newApp(ctx, logger)
			if err != nil {
				return err
			}
			return app.runKey(ctx, key)
		},
	}
}

func listCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list pipeline and workflow keys",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := newApp(ctx, logger)
			if err != nil {
				return err
			}
			console.NewRenderer(os.Stdout).Keys(
				app.registry.PipelineKeys(),
				app.registry.WorkflowKeys(),
			)
			return nil
		},
	}
}

func statusCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "reconcile and print the deployment status",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := newApp(ctx, logger)
			if err != nil {
				return err
			}
			label := status.Reconcile(app.source.Collect(ctx))
			console.NewRenderer(os.Stdout).StatusLabel(label)
			return nil
		},
	}
}

func watchCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "re-check the deployment status on an interval",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := newApp(ctx, logger)
			if err != nil {
				return err
			}
			renderer := console.NewRenderer(os.Stdout)
			return watch.Run(
				ctx,
				app.settings.WatchInterval,
				app.source,
				renderer.StatusLabel,
				logger,
			)
		},
	}
}
