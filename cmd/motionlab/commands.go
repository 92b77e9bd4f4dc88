package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/motionlab/internal/analysis"
	"github.com/san-kum/motionlab/internal/config"
	"github.com/san-kum/motionlab/internal/easing"
	"github.com/san-kum/motionlab/internal/export"
	"github.com/san-kum/motionlab/internal/keyframe"
	"github.com/san-kum/motionlab/internal/metrics"
	"github.com/san-kum/motionlab/internal/optim"
	"github.com/san-kum/motionlab/internal/scene"
	"github.com/san-kum/motionlab/internal/spring"
	"github.com/san-kum/motionlab/internal/tui"
	"github.com/spf13/cobra"
)

const liveLogFile = "motionlab.log"

func buildScene(cmd *cobra.Command) (*scene.Scene, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return scene.Build(cfg, logger)
}

func traceFor(cmd *cobra.Command) (*scene.Scene, *scene.Trace, error) {
	sc, err := buildScene(cmd)
	if err != nil {
		return nil, nil, err
	}
	n := frames
	if n <= 0 {
		n = sc.DefaultFrames()
	}
	return sc, sc.Run(n), nil
}

func runScene(cmd *cobra.Command, args []string) error {
	start := time.Now()
	sc, tr, err := traceFor(cmd)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("scene: %s\n", tr.Scene)
	fmt.Printf("frames: %d at %d fps (%.0fms)\n", tr.Frames, tr.FPS, tr.Times[len(tr.Times)-1])
	fmt.Printf("completed in %v\n", elapsed)
	if sc.Scheduler().HasActiveAnimations() {
		fmt.Println("still animating at end of run")
	}

	if len(tr.Events) > 0 {
		fmt.Println("\nevents:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  TIME\tMACHINE\tEVENT\tFROM\tTO")
		for _, ev := range tr.Events {
			fmt.Fprintf(w, "  %.0fms\t%s\t%s\t%s\t%s\n", ev.AtMs, ev.Machine, ev.Event, ev.From, ev.To)
		}
		w.Flush()
	}

	fmt.Println("\nfinal values:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range tr.Columns {
		v, _ := tr.Final(name)
		fmt.Fprintf(w, "  %s\t%.4f\n", name, v)
	}
	w.Flush()

	if len(tr.Metrics) > 0 {
		fmt.Println("\nspring metrics:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  SPRING\tOVERSHOOT\tSETTLE_MS\tENERGY_DRIFT")
		for _, name := range sortedNames(tr.Metrics) {
			m := tr.Metrics[name]
			fmt.Fprintf(w, "  %s\t%.4f\t%s\t%.4f\n", name, m["overshoot"], settleText(m["settle_time_ms"]), m["energy_drift"])
		}
		w.Flush()
	}
	return nil
}

func exportScene(cmd *cobra.Command, args []string) error {
	_, tr, err := traceFor(cmd)
	if err != nil {
		return err
	}
	switch format {
	case "csv":
		return tr.WriteCSV(os.Stdout)
	case "json":
		return tr.WriteJSON(os.Stdout)
	case "svg":
		opts := export.DefaultSVGOptions()
		opts.Shared = sharedScale
		return export.TraceSVG(os.Stdout, tr, opts)
	default:
		return fmt.Errorf("unknown format: %s (available: csv, json, svg)", format)
	}
}

func plotScene(cmd *cobra.Command, args []string) error {
	_, tr, err := traceFor(cmd)
	if err != nil {
		return err
	}
	if len(tr.Columns) == 0 {
		return fmt.Errorf("scene %s has nothing to plot", tr.Scene)
	}

	name := tr.Columns[0]
	if len(args) > 0 {
		name = args[0]
	}
	data, ok := tr.Column(name)
	if !ok {
		return fmt.Errorf("unknown column: %s (available: %v)", name, tr.Columns)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s.%s over %.0fms", tr.Scene, name, tr.Times[len(tr.Times)-1])),
	)
	fmt.Println(graph)
	return nil
}

func analyzeScene(cmd *cobra.Command, args []string) error {
	sc, tr, err := traceFor(cmd)
	if err != nil {
		return err
	}
	names := tr.Columns
	if len(args) > 0 {
		if _, ok := tr.Column(args[0]); !ok {
			return fmt.Errorf("unknown column: %s (available: %v)", args[0], tr.Columns)
		}
		names = args[:1]
	}

	springs := make(map[string]spring.Config)
	for _, spc := range sc.Config().Springs {
		springs[spc.Name] = spc.Resolve()
	}

	rate := float64(tr.FPS)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tDOMINANT_HZ\tPREDICTED_HZ\tCROSSINGS")
	for _, name := range names {
		col, _ := tr.Column(name)
		dominant := "-"
		if f, ok := analysis.DominantFrequency(col, rate); ok {
			dominant = fmt.Sprintf("%.3f", f)
		}
		predicted := "-"
		if c, ok := springs[name]; ok {
			predicted = fmt.Sprintf("%.3f", analysis.DampedFrequency(c))
		}
		final, _ := tr.Final(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", name, dominant, predicted, analysis.Crossings(col, final))
	}
	fmt.Fprintf(w, "\nresolution %.3f Hz over %d frames\n", rate/float64(len(tr.Rows)), tr.Frames)
	return w.Flush()
}

func tuneSpring(cmd *cobra.Command, args []string) error {
	if tuneSteps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", tuneSteps)
	}
	goal := optim.SpringGoal{
		Mass:         spring.DefaultMass,
		MaxOvershoot: maxOvershoot,
		FPS:          config.DefaultFPS,
		Frames:       compareFrames,
	}
	g := optim.NewGridSearch([]string{"stiffness", "damping"}, [][]float64{
		optim.Linspace(50, 600, tuneSteps),
		optim.Linspace(5, 60, tuneSteps),
	})

	start := time.Now()
	best, settle, err := g.Search(cmd.Context(), goal.SettleTime())
	if err != nil {
		return err
	}
	cfg := goal.Config(best)
	overshoot, _ := goal.Evaluate(cfg)

	logger.Debug("tune finished", "candidates", g.Size(), "elapsed", time.Since(start))
	fmt.Printf("searched %d springs in %v\n", g.Size(), time.Since(start))
	fmt.Printf("stiffness: %.1f\n", cfg.Stiffness)
	fmt.Printf("damping:   %.1f\n", cfg.Damping)
	fmt.Printf("zeta:      %.3f\n", cfg.DampingRatio())
	fmt.Printf("settle:    %.0fms\n", settle)
	fmt.Printf("overshoot: %.4f\n", overshoot)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the alternate screen owns stderr; debug logs go to a file
	liveLogger := newLogger(io.Discard)
	if verbose {
		f, err := os.OpenFile(liveLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		liveLogger = newLogger(f)
	}

	sc, err := scene.Build(cfg, liveLogger)
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), sc, tui.Options{
		FPS:    cfg.FPS,
		Theme:  theme,
		Logger: liveLogger,
	})
}

func plotEasing(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range easing.Names() {
			fmt.Println(name)
		}
		return nil
	}

	e, err := easing.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w (see: motionlab easing)", err)
	}
	n := samples
	if n < 2 {
		n = 2
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = e.Apply(float64(i) / float64(n-1))
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(n),
		asciigraph.Caption(e.String()),
	)
	fmt.Println(graph)
	return nil
}

func compareSolvers(cmd *cobra.Command, args []string) error {
	cfg, ok := spring.Preset(springName)
	if !ok {
		return fmt.Errorf("unknown spring preset: %s (available: %v)", springName, spring.PresetNames())
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	names := args
	if len(names) == 0 {
		names = spring.SolverNames()
	}

	dt := 1.0 / float64(fps)
	fmt.Printf("spring %s: stiffness=%.0f damping=%.0f mass=%.1f zeta=%.3f, 0 -> 1 at %d fps\n\n",
		springName, cfg.Stiffness, cfg.Damping, cfg.Mass, cfg.DampingRatio(), fps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tOVERSHOOT\tSETTLE_MS\tENERGY_DRIFT\tFINAL\tTIME")
	for _, name := range names {
		solver, err := spring.ParseSolver(name)
		if err != nil {
			return err
		}

		sp := spring.New(cfg, 0).WithSolver(solver)
		sp.SetTarget(1)
		ms := metrics.Standard()

		start := time.Now()
		for i := 0; i <= compareFrames; i++ {
			if i > 0 {
				sp.Step(dt)
			}
			sample := metrics.FromSpring(float64(i)*dt*1000, &sp)
			for _, m := range ms {
				m.Observe(sample)
			}
		}
		elapsed := time.Since(start)

		vals := make(map[string]float64, len(ms))
		for _, m := range ms {
			vals[m.Name()] = m.Value()
		}
		fmt.Fprintf(w, "%s\t%.4f\t%s\t%.4f\t%.4f\t%v\n", name,
			vals["overshoot"], settleText(vals["settle_time_ms"]), vals["energy_drift"], sp.Value(), elapsed)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "SCENE\tFPS\tDURATION\tCONTENTS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%.0fms\t%s\n", name, cfg.FPS, cfg.DurationMs, contents(cfg))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SPRING\tSTIFFNESS\tDAMPING\tMASS\tZETA")
	for _, name := range spring.PresetNames() {
		c, _ := spring.Preset(name)
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.1f\t%.3f\n", name, c.Stiffness, c.Damping, c.Mass, c.DampingRatio())
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "KEYFRAME\tPROPERTIES")
	for _, name := range keyframe.PresetNames() {
		m, _ := keyframe.Preset(name, 1000)
		props := m.Properties()
		parts := make([]string, len(props))
		for i, p := range props {
			parts[i] = p.String()
		}
		fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(parts, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nsolvers: %s\n", strings.Join(spring.SolverNames(), ", "))
	fmt.Printf("themes: %s\n", strings.Join(tui.ThemeNames(), ", "))
	fmt.Printf("easings: %d (see: motionlab easing)\n", len(easing.Names()))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if _, err := os.Stat(args[0]); err == nil {
		return fmt.Errorf("%s already exists", args[0])
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	logger.Info("wrote scene", "preset", preset, "path", args[0])
	return nil
}

func contents(cfg *config.Config) string {
	var parts []string
	add := func(n int, what string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, what))
		}
	}
	add(len(cfg.Springs), "springs")
	add(len(cfg.Timelines), "timelines")
	add(len(cfg.Keyframes), "keyframes")
	add(len(cfg.Signals), "signals")
	add(len(cfg.Machines), "machines")
	add(len(cfg.Script), "script events")
	return strings.Join(parts, ", ")
}

func settleText(ms float64) string {
	if ms < 0 {
		return "unsettled"
	}
	return fmt.Sprintf("%.0f", ms)
}

func sortedNames(m map[string]map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
