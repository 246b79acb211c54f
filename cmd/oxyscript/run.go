package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-script/engine"
	"github.com/Carmen-Shannon/oxy-script/engine/bridge"
	"github.com/Carmen-Shannon/oxy-script/engine/config"
	"github.com/Carmen-Shannon/oxy-script/engine/logging"
	"github.com/Carmen-Shannon/oxy-script/engine/renderer"
	"github.com/Carmen-Shannon/oxy-script/engine/script"
	"github.com/Carmen-Shannon/oxy-script/engine/script/loader"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v3"
)

var commonFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to TOML configuration file",
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (trace, debug, info, warn, error)",
	},
	&cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format (text, json)",
	},
}

var runFlags = append([]cli.Flag{
	&cli.StringFlag{
		Name:  "present-mode",
		Usage: "Surface present mode (vsync, uncapped)",
	},
	&cli.BoolFlag{
		Name:  "software",
		Usage: "Force the software fallback adapter",
	},
	&cli.BoolFlag{
		Name:  "profile-frames",
		Usage: "Log frame rate and memory statistics once per second",
	},
	&cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "Write a CPU profile into this directory",
	},
}, commonFlags...)

// loadConfig reads the config file and applies flag overrides on top of it.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.LogFormat = cmd.String("log-format")
	}
	if cmd.IsSet("present-mode") {
		cfg.Renderer.PresentMode = cmd.String("present-mode")
	}
	if cmd.IsSet("software") {
		cfg.Renderer.ForceFallbackAdapter = cmd.Bool("software")
	}
	if cmd.IsSet("profile-frames") {
		cfg.Profiler.Enabled = cmd.Bool("profile-frames")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newHost wires the session, bridge and script host for a configuration and evaluates the entry script.
func newHost(ctx context.Context, cfg *config.Config, logger *slog.Logger, entry string) (*script.Host, error) {
	l, err := loader.NewLoader(
		loader.WithLogger(logger.With("component", "loader")),
		loader.WithCacheSize(cfg.Script.CacheSize),
		loader.WithPrefetchWorkers(cfg.Script.PrefetchWorkers),
	)
	if err != nil {
		return nil, err
	}

	b := bridge.NewBridge(
		bridge.NewSession(cfg.WindowConfig()),
		renderer.NewSlot(),
		bridge.WithLogger(logger.With("component", "bridge")),
	)

	host, err := script.NewHost(b,
		script.WithLoader(l),
		script.WithLogger(logger.With("component", "script")),
		script.WithEvalTimeout(cfg.EvalTimeout()),
	)
	if err != nil {
		l.Close()
		return nil, err
	}

	if err := host.Evaluate(ctx, entry); err != nil {
		host.Close()
		return nil, err
	}
	return host, nil
}

// describeError renders an error for the terminal, including the script stack when there is one.
func describeError(err error) string {
	var evalErr *script.EvalError
	if errors.As(err, &evalErr) && evalErr.Stack != "" {
		return fmt.Sprintf("%v\n%s", err, evalErr.Stack)
	}
	return err.Error()
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return cli.Exit(usage, 1)
	}
	entry := cmd.Args().Get(0)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger, err := logging.SetupLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if dir := cmd.String("cpuprofile"); dir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
	}

	host, err := newHost(ctx, cfg, logger, entry)
	if err != nil {
		return cli.Exit(describeError(err), 1)
	}
	defer host.Close()

	app, err := engine.NewApp(host, host.Bridge(),
		engine.WithLogger(logger.With("component", "app")),
		engine.WithProfiling(cfg.Profiler.Enabled),
		engine.WithRendererOptions(
			renderer.WithPresentMode(cfg.PresentMode()),
			renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceFallbackAdapter),
			renderer.WithShaderValidation(cfg.ShaderValidation(), cfg.Renderer.StrictValidation),
		),
	)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := app.Run(ctx); err != nil {
		return cli.Exit(describeError(err), 1)
	}

	logger.Debug("application exited")
	return nil
}
