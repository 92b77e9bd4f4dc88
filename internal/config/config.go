// Package config describes runnable animation scenes in YAML.
//
// A scene names its springs, timelines, keyframe animations and signals,
// binds signals to spring targets, declares interaction state machines and
// scripts input events over time. Names are resolved to handles by the
// scene package; this package only checks that a file is self-consistent.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/motionlab/internal/easing"
	"github.com/san-kum/motionlab/internal/fsm"
	"github.com/san-kum/motionlab/internal/keyframe"
	"github.com/san-kum/motionlab/internal/spring"
)

const (
	DefaultFPS        = 60
	DefaultDurationMs = 2000.0
)

var ErrInvalidConfig = errors.New("config: invalid scene")

type Config struct {
	Name       string           `yaml:"name"`
	FPS        int              `yaml:"fps"`
	DurationMs float64          `yaml:"duration_ms"`
	Springs    []SpringConfig   `yaml:"springs,omitempty"`
	Timelines  []TimelineConfig `yaml:"timelines,omitempty"`
	Keyframes  []KeyframeConfig `yaml:"keyframes,omitempty"`
	Signals    []SignalConfig   `yaml:"signals,omitempty"`
	Bindings   []BindingConfig  `yaml:"bindings,omitempty"`
	Machines   []MachineConfig  `yaml:"machines,omitempty"`
	Script     []ScriptEvent    `yaml:"script,omitempty"`
}

// SpringConfig starts from Preset when set; explicit non-zero parameters
// override it.
type SpringConfig struct {
	Name      string  `yaml:"name"`
	Preset    string  `yaml:"preset,omitempty"`
	Stiffness float64 `yaml:"stiffness,omitempty"`
	Damping   float64 `yaml:"damping,omitempty"`
	Mass      float64 `yaml:"mass,omitempty"`
	Initial   float64 `yaml:"initial"`
	Solver    string  `yaml:"solver,omitempty"`
}

// Resolve returns the spring parameters this entry describes.
func (s SpringConfig) Resolve() spring.Config {
	cfg := spring.NewConfig(spring.DefaultStiffness, spring.DefaultDamping, spring.DefaultMass)
	if p, ok := spring.Preset(s.Preset); ok {
		cfg = p
	}
	if s.Stiffness != 0 {
		cfg.Stiffness = s.Stiffness
	}
	if s.Damping != 0 {
		cfg.Damping = s.Damping
	}
	if s.Mass != 0 {
		cfg.Mass = s.Mass
	}
	return cfg
}

type TimelineConfig struct {
	Name      string         `yaml:"name"`
	Loop      int32          `yaml:"loop,omitempty"`
	Alternate bool           `yaml:"alternate,omitempty"`
	Rate      *float64       `yaml:"rate,omitempty"`
	Autoplay  bool           `yaml:"autoplay,omitempty"`
	Stagger   *StaggerConfig `yaml:"stagger,omitempty"`
	Entries   []EntryConfig  `yaml:"entries"`
}

// StaggerConfig overrides entry offsets with base + i*delay.
type StaggerConfig struct {
	Base  int32 `yaml:"base"`
	Delay int32 `yaml:"delay"`
}

type EntryConfig struct {
	Name     string  `yaml:"name"`
	Offset   int32   `yaml:"offset,omitempty"`
	Duration uint32  `yaml:"duration"`
	From     float64 `yaml:"from"`
	To       float64 `yaml:"to"`
	Easing   string  `yaml:"easing,omitempty"`
}

type KeyframeConfig struct {
	Name       string        `yaml:"name"`
	Preset     string        `yaml:"preset,omitempty"`
	DurationMs uint32        `yaml:"duration_ms"`
	Autoplay   bool          `yaml:"autoplay,omitempty"`
	Frames     []FrameConfig `yaml:"frames,omitempty"`
}

type FrameConfig struct {
	Time   float64            `yaml:"time"`
	Easing string             `yaml:"easing,omitempty"`
	Props  map[string]float64 `yaml:"props"`
}

type SignalConfig struct {
	Name    string  `yaml:"name"`
	Initial float64 `yaml:"initial"`
}

// BindingConfig drives a spring target from a signal: offset + gain*signal.
// A missing gain means 1.
type BindingConfig struct {
	Signal string   `yaml:"signal"`
	Spring string   `yaml:"spring"`
	Gain   *float64 `yaml:"gain,omitempty"`
	Offset float64  `yaml:"offset,omitempty"`
}

func (b BindingConfig) GainOrDefault() float64 {
	if b.Gain == nil {
		return 1
	}
	return *b.Gain
}

type MachineConfig struct {
	Name        string                    `yaml:"name"`
	Initial     string                    `yaml:"initial"`
	Transitions []TransitionConfig        `yaml:"transitions"`
	OnEnter     map[string][]ActionConfig `yaml:"on_enter,omitempty"`
	OnExit      map[string][]ActionConfig `yaml:"on_exit,omitempty"`
}

type TransitionConfig struct {
	From    string         `yaml:"from"`
	Event   string         `yaml:"event"`
	To      string         `yaml:"to"`
	Guard   *GuardConfig   `yaml:"guard,omitempty"`
	Actions []ActionConfig `yaml:"actions,omitempty"`
}

// GuardConfig compares a signal against a constant.
type GuardConfig struct {
	Signal string  `yaml:"signal"`
	Op     string  `yaml:"op"`
	Value  float64 `yaml:"value"`
}

var guardOps = map[string]func(a, b float64) bool{
	"<":  func(a, b float64) bool { return a < b },
	"<=": func(a, b float64) bool { return a <= b },
	">":  func(a, b float64) bool { return a > b },
	">=": func(a, b float64) bool { return a >= b },
	"==": func(a, b float64) bool { return a == b },
	"!=": func(a, b float64) bool { return a != b },
}

// Compare evaluates the guard's operator on v.
func (g GuardConfig) Compare(v float64) bool {
	op, ok := guardOps[g.Op]
	return ok && op(v, g.Value)
}

type ActionConfig struct {
	Kind   string  `yaml:"kind"`
	Target string  `yaml:"target"`
	Value  float64 `yaml:"value,omitempty"`
}

// Action converts to an fsm action. Call actions cannot be expressed in a
// file.
func (a ActionConfig) Action() (fsm.Action, error) {
	kind, ok := fsm.ParseActionKind(a.Kind)
	if !ok || kind == fsm.ActCall {
		return fsm.Action{}, fmt.Errorf("%w: action kind %q", ErrInvalidConfig, a.Kind)
	}
	return fsm.Action{Kind: kind, Target: a.Target, Value: a.Value}, nil
}

type ScriptEvent struct {
	AtMs    float64 `yaml:"at_ms"`
	Machine string  `yaml:"machine"`
	Event   string  `yaml:"event"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "untitled",
		FPS:        DefaultFPS,
		DurationMs: DefaultDurationMs,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that does not need name resolution.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	}
	if c.DurationMs <= 0 {
		return fmt.Errorf("%w: duration_ms must be positive", ErrInvalidConfig)
	}

	if err := unique("spring", len(c.Springs), func(i int) string { return c.Springs[i].Name }); err != nil {
		return err
	}
	if err := unique("timeline", len(c.Timelines), func(i int) string { return c.Timelines[i].Name }); err != nil {
		return err
	}
	if err := unique("keyframe", len(c.Keyframes), func(i int) string { return c.Keyframes[i].Name }); err != nil {
		return err
	}
	if err := unique("signal", len(c.Signals), func(i int) string { return c.Signals[i].Name }); err != nil {
		return err
	}
	if err := unique("machine", len(c.Machines), func(i int) string { return c.Machines[i].Name }); err != nil {
		return err
	}

	for _, s := range c.Springs {
		if s.Preset != "" {
			if _, ok := spring.Preset(s.Preset); !ok {
				return fmt.Errorf("%w: spring %q: unknown preset %q", ErrInvalidConfig, s.Name, s.Preset)
			}
		}
		if _, err := spring.ParseSolver(s.Solver); err != nil {
			return fmt.Errorf("%w: spring %q: %v", ErrInvalidConfig, s.Name, err)
		}
	}

	for _, tl := range c.Timelines {
		if err := unique("entry in "+tl.Name, len(tl.Entries), func(i int) string { return tl.Entries[i].Name }); err != nil {
			return err
		}
		for _, e := range tl.Entries {
			if _, err := easing.Parse(e.Easing); err != nil {
				return fmt.Errorf("%w: timeline %q entry %q: %v", ErrInvalidConfig, tl.Name, e.Name, err)
			}
		}
	}

	for _, kf := range c.Keyframes {
		if kf.Preset == "" && len(kf.Frames) == 0 {
			return fmt.Errorf("%w: keyframe %q needs a preset or frames", ErrInvalidConfig, kf.Name)
		}
		if kf.Preset != "" {
			if _, ok := keyframe.Preset(kf.Preset, kf.DurationMs); !ok {
				return fmt.Errorf("%w: keyframe %q: unknown preset %q", ErrInvalidConfig, kf.Name, kf.Preset)
			}
		}
		for _, f := range kf.Frames {
			if _, err := easing.Parse(f.Easing); err != nil {
				return fmt.Errorf("%w: keyframe %q: %v", ErrInvalidConfig, kf.Name, err)
			}
			for prop := range f.Props {
				if _, err := keyframe.ParseProperty(prop); err != nil {
					return fmt.Errorf("%w: keyframe %q: %v", ErrInvalidConfig, kf.Name, err)
				}
			}
		}
	}

	for _, m := range c.Machines {
		if m.Initial == "" {
			return fmt.Errorf("%w: machine %q has no initial state", ErrInvalidConfig, m.Name)
		}
		for _, t := range m.Transitions {
			if t.Guard != nil {
				if _, ok := guardOps[t.Guard.Op]; !ok {
					return fmt.Errorf("%w: machine %q: unknown guard op %q", ErrInvalidConfig, m.Name, t.Guard.Op)
				}
			}
			if err := checkActions(m.Name, t.Actions); err != nil {
				return err
			}
		}
		for _, actions := range m.OnEnter {
			if err := checkActions(m.Name, actions); err != nil {
				return err
			}
		}
		for _, actions := range m.OnExit {
			if err := checkActions(m.Name, actions); err != nil {
				return err
			}
		}
	}

	for _, ev := range c.Script {
		if ev.AtMs < 0 {
			return fmt.Errorf("%w: script event %q at negative time", ErrInvalidConfig, ev.Event)
		}
	}
	return nil
}

func checkActions(machine string, actions []ActionConfig) error {
	for _, a := range actions {
		if _, err := a.Action(); err != nil {
			return fmt.Errorf("machine %q: %w", machine, err)
		}
	}
	return nil
}

func unique(kind string, n int, name func(int) string) error {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		nm := name(i)
		if nm == "" {
			return fmt.Errorf("%w: %s %d has no name", ErrInvalidConfig, kind, i)
		}
		if seen[nm] {
			return fmt.Errorf("%w: duplicate %s %q", ErrInvalidConfig, kind, nm)
		}
		seen[nm] = true
	}
	return nil
}
