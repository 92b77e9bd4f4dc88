package config

import "sort"

func gain(v float64) *float64 { return &v }

// Presets builds a fresh copy of each built-in scene.
var Presets = map[string]func() *Config{
	"button": func() *Config {
		return &Config{
			Name: "button", FPS: DefaultFPS, DurationMs: 1500,
			Springs: []SpringConfig{
				{Name: "scale", Preset: "snappy", Initial: 1},
				{Name: "shadow", Preset: "gentle"},
				{Name: "glow", Preset: "wobbly"},
			},
			Signals:  []SignalConfig{{Name: "pressed"}},
			Bindings: []BindingConfig{{Signal: "pressed", Spring: "glow", Gain: gain(1)}},
			Machines: []MachineConfig{{
				Name: "button", Initial: "idle",
				Transitions: []TransitionConfig{
					{From: "idle", Event: "hover", To: "hovered"},
					{From: "hovered", Event: "leave", To: "idle"},
					{From: "hovered", Event: "press", To: "pressed"},
					{From: "pressed", Event: "release", To: "hovered"},
				},
				OnEnter: map[string][]ActionConfig{
					"idle": {
						{Kind: "set_target", Target: "scale", Value: 1},
						{Kind: "set_target", Target: "shadow", Value: 0},
					},
					"hovered": {
						{Kind: "set_target", Target: "scale", Value: 1.05},
						{Kind: "set_target", Target: "shadow", Value: 8},
					},
					"pressed": {
						{Kind: "set_target", Target: "scale", Value: 0.95},
						{Kind: "set_target", Target: "shadow", Value: 2},
						{Kind: "set_signal", Target: "pressed", Value: 1},
					},
				},
				OnExit: map[string][]ActionConfig{
					"pressed": {{Kind: "set_signal", Target: "pressed", Value: 0}},
				},
			}},
			Script: []ScriptEvent{
				{AtMs: 0, Machine: "button", Event: "hover"},
				{AtMs: 300, Machine: "button", Event: "press"},
				{AtMs: 500, Machine: "button", Event: "release"},
				{AtMs: 900, Machine: "button", Event: "leave"},
			},
		}
	},
	"stagger": func() *Config {
		return &Config{
			Name: "stagger", FPS: DefaultFPS, DurationMs: 800,
			Timelines: []TimelineConfig{{
				Name: "cards", Autoplay: true,
				Stagger: &StaggerConfig{Base: 0, Delay: 100},
				Entries: []EntryConfig{
					{Name: "card1", Duration: 300, From: 0, To: 1, Easing: "out_cubic"},
					{Name: "card2", Duration: 300, From: 0, To: 1, Easing: "out_cubic"},
					{Name: "card3", Duration: 300, From: 0, To: 1, Easing: "out_cubic"},
				},
			}},
		}
	},
	"pulse": func() *Config {
		return &Config{
			Name: "pulse", FPS: DefaultFPS, DurationMs: 2400,
			Keyframes: []KeyframeConfig{
				{Name: "heartbeat", Preset: "pulse", DurationMs: 600, Autoplay: true},
			},
			Timelines: []TimelineConfig{{
				Name: "breathe", Loop: -1, Alternate: true, Autoplay: true,
				Entries: []EntryConfig{
					{Name: "opacity", Duration: 800, From: 0.4, To: 1, Easing: "in_out_sine"},
				},
			}},
		}
	},
	"toggle": func() *Config {
		return &Config{
			Name: "toggle", FPS: DefaultFPS, DurationMs: 1800,
			Springs: []SpringConfig{{Name: "knob", Preset: "stiff"}},
			Signals: []SignalConfig{
				{Name: "on"},
				{Name: "enabled", Initial: 1},
			},
			Bindings: []BindingConfig{{Signal: "on", Spring: "knob", Gain: gain(24)}},
			Keyframes: []KeyframeConfig{
				{Name: "flash", Preset: "fade_in", DurationMs: 200},
			},
			Machines: []MachineConfig{{
				Name: "switch", Initial: "off",
				Transitions: []TransitionConfig{
					{
						From: "off", Event: "toggle", To: "on",
						Guard: &GuardConfig{Signal: "enabled", Op: ">=", Value: 1},
						Actions: []ActionConfig{
							{Kind: "set_signal", Target: "on", Value: 1},
							{Kind: "start_keyframe", Target: "flash"},
						},
					},
					{
						From: "on", Event: "toggle", To: "off",
						Actions: []ActionConfig{{Kind: "set_signal", Target: "on", Value: 0}},
					},
				},
			}},
			Script: []ScriptEvent{
				{AtMs: 0, Machine: "switch", Event: "toggle"},
				{AtMs: 600, Machine: "switch", Event: "toggle"},
				{AtMs: 1200, Machine: "switch", Event: "toggle"},
			},
		}
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
