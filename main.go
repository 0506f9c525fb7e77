package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/munchers/audio"
	"github.com/pthm-cable/munchers/config"
	"github.com/pthm-cable/munchers/game"
	"github.com/pthm-cable/munchers/renderer"
	"github.com/pthm-cable/munchers/tui"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain runs the program and returns its exit code, so deferred cleanup
// (log file, audio) happens before the process exits.
func realMain(args []string) int {
	fs := flag.NewFlagSet("munchers", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := fs.String("mode", "window", "Presentation: window, terminal or headless")
	logStats := fs.Bool("log-stats", false, "Output stats via slog")
	statsWindow := fs.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := fs.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logFile := fs.String("log-file", "munchers.log", "Log file in terminal mode")
	seed := fs.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := fs.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := fs.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster)")
	mute := fs.Bool("mute", false, "Disable sound cues")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Terminal mode owns stdout, so logs go to a file there
	var logOut io.Writer = os.Stdout
	if *mode == "terminal" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			slog.Error("failed to open log file", "path", *logFile, "error", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
		cfg.ComputeDerived()
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var player *audio.Player
	if cfg.Audio.Enabled && !*mute && *mode != "headless" {
		p, err := audio.New(cfg.Audio.Volume)
		if err != nil {
			slog.Warn("audio disabled", "error", err)
		} else {
			player = p
			defer player.Close()
		}
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		EventSink:      player.HandleEvent,
	}

	if err := run(*mode, opts, *maxTicks, player); err != nil {
		slog.Error("run failed", "mode", *mode, "error", err)
		return 1
	}
	return 0
}

func run(mode string, opts game.Options, maxTicks int, player *audio.Player) error {
	cfg := opts.Config

	slog.Info("starting simulation",
		"mode", mode,
		"seed", opts.Seed,
		"stats_window", cfg.Telemetry.StatsWindow,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	switch mode {
	case "headless":
		g := game.NewGameWithOptions(opts)
		defer g.Unload()

		for {
			g.UpdateHeadless()

			if maxTicks > 0 && int(g.Tick()) >= maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return nil
			}
		}

	case "terminal":
		g := game.NewGameWithOptions(opts)
		defer g.Unload()
		focusPlayer(g, player)

		app, err := tui.New(g)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := app.Run(ctx, maxTicks); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil

	case "window":
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Munchers")
		defer rl.CloseWindow()

		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		g := game.NewGameWithOptions(opts)
		defer g.Unload()
		focusPlayer(g, player)

		app := renderer.NewApp(g)
		defer app.Unload()
		app.Run(maxTicks)
		return nil
	}

	return fmt.Errorf("unknown mode %q (want window, terminal or headless)", mode)
}

// focusPlayer makes the player's own events sound distinct.
func focusPlayer(g *game.Game, player *audio.Player) {
	s := g.Snapshot()
	if p, ok := s.PlayerView(); ok {
		player.SetFocus(p.ID)
	}
}
