package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/san-kum/motionlab/internal/config"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	fps        int
	durationMs float64
	frames     int
	format     string
	theme      string
	verbose    bool
	springName string
	samples    int

	compareFrames int
	sharedScale   bool
	maxOvershoot  float64
	tuneSteps     int

	env    config.Env
	logger *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "motionlab",
		Short:         "spring, timeline and state machine animation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			env, err = config.LoadEnv(".env")
			if err != nil {
				return err
			}
			logger = newLogger(os.Stderr)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// no subcommand: interactive view of the default scene
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	addSceneFlags(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", "neon", "color theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene offline and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 0, "frames to run (default: cover duration)")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "run a scene offline and write the trace to stdout",
		Args:  cobra.NoArgs,
		RunE:  exportScene,
	}
	addSceneFlags(exportCmd)
	exportCmd.Flags().IntVar(&frames, "frames", 0, "frames to run (default: cover duration)")
	exportCmd.Flags().StringVar(&format, "format", "csv", "csv, json or svg")
	exportCmd.Flags().BoolVar(&sharedScale, "shared", false, "svg: one y scale for every column")

	plotCmd := &cobra.Command{
		Use:   "plot [column]",
		Short: "plot one column of a scene trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotScene,
	}
	addSceneFlags(plotCmd)
	plotCmd.Flags().IntVar(&frames, "frames", 0, "frames to run (default: cover duration)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "drive a scene in real time with keyboard input",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "neon", "color theme")

	easingCmd := &cobra.Command{
		Use:   "easing [name]",
		Short: "plot an easing curve, or list them",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotEasing,
	}
	easingCmd.Flags().IntVar(&samples, "samples", 80, "points to sample")

	compareCmd := &cobra.Command{
		Use:   "compare [solver] [solver] ...",
		Short: "compare spring solvers on one retarget",
		RunE:  compareSolvers,
	}
	compareCmd.Flags().StringVar(&springName, "spring", "wobbly", "spring preset")
	compareCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	compareCmd.Flags().IntVar(&compareFrames, "frames", 120, "frames to run")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [column]",
		Short: "frequency analysis of scene columns",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeScene,
	}
	addSceneFlags(analyzeCmd)
	analyzeCmd.Flags().IntVar(&frames, "frames", 0, "frames to run (default: cover duration)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the fastest-settling spring under an overshoot cap",
		Args:  cobra.NoArgs,
		RunE:  tuneSpring,
	}
	tuneCmd.Flags().Float64Var(&maxOvershoot, "max-overshoot", 0.02, "largest acceptable overshoot")
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 12, "grid points per parameter")
	tuneCmd.Flags().IntVar(&compareFrames, "frames", 120, "frames to run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes, springs, keyframe animations and easings",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a preset scene as an editable yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "button", "scene preset")

	rootCmd.AddCommand(runCmd, exportCmd, plotCmd, analyzeCmd, liveCmd, easingCmd, compareCmd, tuneCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "button", "scene preset")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().Float64Var(&durationMs, "time", config.DefaultDurationMs, "duration in ms")
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if env.HasLevel {
		level = env.LogLevel
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves --config or --preset, then applies the environment and
// any flags given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	env.Apply(cfg)
	if cmd.Flags().Changed("fps") {
		cfg.FPS = fps
	}
	if cmd.Flags().Changed("time") {
		cfg.DurationMs = durationMs
	}
	return cfg, nil
}
