package main

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/joho/godotenv"

	"github.com/pthm-cable/d20/app"
	"github.com/pthm-cable/d20/config"
	"github.com/pthm-cable/d20/game"
	"github.com/pthm-cable/d20/hull"
	"github.com/pthm-cable/d20/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, playing automatically")
	rounds := flag.Int("rounds", 100, "Headless: stop after N settles")
	maxFrames := flag.Int64("max-frames", 0, "Headless: stop after N frames (0 = unlimited)")
	autoplay := flag.Int("autoplay", 3, "Headless: dice scored per round")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and screenshots")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	debug := flag.Bool("debug", false, "Log at debug level")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// A .env file is optional; D20_* variables may also come from the shell
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	var records []telemetry.RoundStats
	opts := game.Options{
		Seed:    rngSeed,
		Output:  output,
		OnRound: func(r telemetry.RoundStats) { records = append(records, r) },
	}

	if *headless {
		g := game.NewGame(cfg, opts)

		slog.Info("starting headless run",
			"seed", rngSeed,
			"rounds", *rounds,
			"autoplay", *autoplay,
			"max_frames", *maxFrames,
			"calibration", hull.CalibrationVersion,
		)

		for g.Round() < *rounds {
			g.AutoPlay(*autoplay)
			g.Update(cfg.Derived.DT)

			if *maxFrames > 0 && g.Frame() >= *maxFrames {
				slog.Info("max frames reached", "frame", g.Frame())
				break
			}
		}

		slog.Info("headless run complete",
			"frame", g.Frame(),
			"clock_ms", g.Now().Milliseconds(),
			"summary", telemetry.Summarize(records),
		)
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "d20")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(cfg, opts)
	app.New(g, output).Run()

	slog.Info("session summary", "summary", telemetry.Summarize(records))
}
