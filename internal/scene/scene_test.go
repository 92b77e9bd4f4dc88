package scene

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/motionlab/internal/config"
	"github.com/san-kum/motionlab/internal/keyframe"
	"github.com/san-kum/motionlab/internal/spring"
	"github.com/san-kum/motionlab/internal/timeline"
)

func buildPreset(t *testing.T, name string) *Scene {
	t.Helper()
	cfg := config.GetPreset(name)
	if cfg == nil {
		t.Fatalf("preset %q missing", name)
	}
	s, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("build %q: %v", name, err)
	}
	return s
}

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		m = math.Max(m, x)
	}
	return m
}

func TestEveryPresetBuilds(t *testing.T) {
	for _, name := range config.ListPresets() {
		t.Run(name, func(t *testing.T) {
			s := buildPreset(t, name)
			tr := s.Run(s.DefaultFrames())
			if len(tr.Rows) != s.DefaultFrames()+1 {
				t.Errorf("rows = %d, want %d", len(tr.Rows), s.DefaultFrames()+1)
			}
			for i, row := range tr.Rows {
				for j, v := range row {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						t.Fatalf("row %d column %s is %v", i, tr.Columns[j], v)
					}
				}
			}
		})
	}
}

func TestColumnOrder(t *testing.T) {
	s := buildPreset(t, "toggle")
	want := []string{"knob", "flash.opacity", "on", "enabled"}
	got := s.Columns()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("columns = %v, want %v", got, want)
	}

	values := s.Sample()
	if values[0].Kind != KindSpring || values[1].Kind != KindKeyframe || values[3].Kind != KindSignal {
		t.Errorf("unexpected kinds %+v", values)
	}
	if values[3].Value != 1 {
		t.Errorf("enabled = %f, want 1", values[3].Value)
	}
}

func TestButtonScript(t *testing.T) {
	s := buildPreset(t, "button")
	tr := s.Run(s.DefaultFrames())

	if len(tr.Events) != 4 {
		t.Fatalf("fired %d events, want 4: %+v", len(tr.Events), tr.Events)
	}
	if tr.Events[0].Event != "hover" || tr.Events[0].AtMs != 0 {
		t.Errorf("first event = %+v", tr.Events[0])
	}
	for i := 1; i < len(tr.Events); i++ {
		if tr.Events[i].AtMs < tr.Events[i-1].AtMs {
			t.Errorf("events out of order: %+v", tr.Events)
		}
	}
	if st, _ := s.State("button"); st != "idle" {
		t.Errorf("final state = %s, want idle", st)
	}

	pressed, _ := tr.Column("pressed")
	if maxOf(pressed) != 1 {
		t.Error("pressed signal never raised")
	}
	if v, _ := tr.Final("pressed"); v != 0 {
		t.Errorf("pressed after release = %f, want 0", v)
	}

	glow, _ := tr.Column("glow")
	if maxOf(glow) < 0.2 {
		t.Errorf("glow binding did not move the spring, max %f", maxOf(glow))
	}

	scale, _ := tr.Column("scale")
	if maxOf(scale) < 1.04 {
		t.Errorf("hover should lift scale toward 1.05, max %f", maxOf(scale))
	}
	if v, _ := tr.Final("scale"); math.Abs(v-1) > 0.01 {
		t.Errorf("final scale = %f, want ~1", v)
	}

	m := tr.Metrics["scale"]
	if _, ok := m["overshoot"]; !ok {
		t.Errorf("scale metrics missing overshoot: %v", m)
	}
}

func TestStaggeredCards(t *testing.T) {
	s := buildPreset(t, "stagger")
	tr := s.Run(s.DefaultFrames())

	card1, _ := tr.Column("cards.card1")
	card2, _ := tr.Column("cards.card2")
	card3, _ := tr.Column("cards.card3")

	// frame 9 is 150ms in
	if card1[9] <= card2[9] {
		t.Errorf("card1 should lead card2: %f vs %f", card1[9], card2[9])
	}
	if card2[9] <= 0 {
		t.Errorf("card2 should have started, got %f", card2[9])
	}
	if card3[9] != 0 {
		t.Errorf("card3 should not have started, got %f", card3[9])
	}

	for _, name := range []string{"cards.card1", "cards.card2", "cards.card3"} {
		if v, _ := tr.Final(name); math.Abs(v-1) > 1e-9 {
			t.Errorf("%s final = %f, want 1", name, v)
		}
	}
	if s.Scheduler().HasActiveAnimations() {
		t.Error("stagger timeline should have finished")
	}
}

func TestPulseKeepsLooping(t *testing.T) {
	s := buildPreset(t, "pulse")
	tr := s.Run(s.DefaultFrames())

	opacity, ok := tr.Column("breathe.opacity")
	if !ok {
		t.Fatalf("missing breathe.opacity in %v", tr.Columns)
	}
	for i, v := range opacity {
		if v < 0.4-1e-9 || v > 1+1e-9 {
			t.Fatalf("opacity[%d] = %f outside [0.4, 1]", i, v)
		}
	}
	if !s.Scheduler().HasActiveAnimations() {
		t.Error("infinite timeline should still be active")
	}

	scale, ok := tr.Column("heartbeat.scale")
	if !ok {
		t.Fatalf("missing heartbeat.scale in %v", tr.Columns)
	}
	if maxOf(scale) < 1.05 {
		t.Errorf("pulse peak = %f, want ~1.1", maxOf(scale))
	}
}

func TestGuardedToggle(t *testing.T) {
	s := buildPreset(t, "toggle")
	s.SetScripted(false)

	s.SetSignal("enabled", 0)
	if st, fired := s.Send("switch", "toggle"); fired || st != "off" {
		t.Errorf("disabled toggle fired: %s %v", st, fired)
	}
	if s.CanSend("switch", "toggle") {
		t.Error("CanSend should honour the guard")
	}

	s.SetSignal("enabled", 1)
	if st, fired := s.Send("switch", "toggle"); !fired || st != "on" {
		t.Fatalf("toggle = %s %v, want on true", st, fired)
	}
	if v, _ := s.SignalValue("on"); v != 1 {
		t.Errorf("on = %f, want 1", v)
	}

	sp, _ := s.Scheduler().Spring(s.springs["knob"])
	if sp.Target() != 24 {
		t.Errorf("knob target = %f, want 24 via binding", sp.Target())
	}

	playing := false
	s.Scheduler().WithKeyframe(s.keyframes["flash"], func(m *keyframe.Multi) { playing = m.IsPlaying() })
	if !playing {
		t.Error("flash should be playing after toggle")
	}

	if _, fired := s.Send("nope", "toggle"); fired {
		t.Error("unknown machine should not fire")
	}
}

func TestToggleScript(t *testing.T) {
	s := buildPreset(t, "toggle")
	tr := s.Run(s.DefaultFrames())

	if len(tr.Events) != 3 {
		t.Fatalf("fired %d events, want 3", len(tr.Events))
	}
	if st, _ := s.State("switch"); st != "on" {
		t.Errorf("state = %s, want on", st)
	}
	if v, _ := tr.Final("knob"); math.Abs(v-24) > 0.5 {
		t.Errorf("knob = %f, want ~24", v)
	}
}

func TestScriptDisabled(t *testing.T) {
	s := buildPreset(t, "button")
	s.SetScripted(false)
	tr := s.Run(60)
	if len(tr.Events) != 0 {
		t.Errorf("events fired with script disabled: %+v", tr.Events)
	}
	if st, _ := s.State("button"); st != "idle" {
		t.Errorf("state = %s, want idle", st)
	}
}

func TestTimelineActions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timelines = []config.TimelineConfig{{
		Name:    "fade",
		Entries: []config.EntryConfig{{Name: "opacity", Duration: 200, From: 0, To: 1}},
	}}
	cfg.Machines = []config.MachineConfig{{
		Name: "m", Initial: "a",
		Transitions: []config.TransitionConfig{
			{From: "a", Event: "go", To: "b", Actions: []config.ActionConfig{{Kind: "start_timeline", Target: "fade"}}},
			{From: "b", Event: "halt", To: "a", Actions: []config.ActionConfig{{Kind: "stop_timeline", Target: "fade"}}},
		},
	}}

	s, err := Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Scheduler().HasActiveAnimations() {
		t.Fatal("timeline should not autoplay")
	}

	s.Send("m", "go")
	if !s.Tick(16) {
		t.Error("started timeline should be active")
	}

	s.Send("m", "halt")
	state := timeline.Idle
	s.Scheduler().WithTimeline(s.timelines["fade"].id, func(tl *timeline.Timeline) { state = tl.State() })
	if state == timeline.Playing {
		t.Error("timeline should have stopped")
	}
	if got := s.Events("m"); len(got) != 1 || got[0] != "go" {
		t.Errorf("events from a = %v, want [go]", got)
	}
}

func TestSpringOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Springs = []config.SpringConfig{
		{Name: "a", Preset: "stiff", Damping: 5, Solver: "rk4", Initial: 3},
	}
	s, err := Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	sp, _ := s.Scheduler().Spring(s.springs["a"])
	want := spring.Config{Stiffness: 400, Damping: 5, Mass: 1}
	if sp.Config() != want {
		t.Errorf("config = %+v, want %+v", sp.Config(), want)
	}
	if sp.Value() != 3 || sp.Target() != 3 {
		t.Errorf("spring should start at rest on 3, got %f -> %f", sp.Value(), sp.Target())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   error
	}{
		{
			name:   "invalid config",
			mutate: func(c *config.Config) { c.FPS = 0 },
			want:   config.ErrInvalidConfig,
		},
		{
			name: "name shared across kinds",
			mutate: func(c *config.Config) {
				c.Signals = append(c.Signals, config.SignalConfig{Name: "scale"})
			},
			want: ErrDuplicateName,
		},
		{
			name: "binding to unknown signal",
			mutate: func(c *config.Config) {
				c.Bindings = append(c.Bindings, config.BindingConfig{Signal: "ghost", Spring: "scale"})
			},
			want: ErrUnknownSignal,
		},
		{
			name: "binding to unknown spring",
			mutate: func(c *config.Config) {
				c.Bindings = append(c.Bindings, config.BindingConfig{Signal: "pressed", Spring: "ghost"})
			},
			want: ErrUnknownSpring,
		},
		{
			name: "action on unknown spring",
			mutate: func(c *config.Config) {
				c.Machines[0].OnEnter["idle"] = append(c.Machines[0].OnEnter["idle"],
					config.ActionConfig{Kind: "set_target", Target: "ghost"})
			},
			want: ErrUnknownSpring,
		},
		{
			name: "action on unknown timeline",
			mutate: func(c *config.Config) {
				c.Machines[0].Transitions[0].Actions = []config.ActionConfig{{Kind: "start_timeline", Target: "ghost"}}
			},
			want: ErrUnknownTimeline,
		},
		{
			name: "guard on unknown signal",
			mutate: func(c *config.Config) {
				c.Machines[0].Transitions[0].Guard = &config.GuardConfig{Signal: "ghost", Op: ">", Value: 0}
			},
			want: ErrUnknownSignal,
		},
		{
			name: "script for unknown machine",
			mutate: func(c *config.Config) {
				c.Script = append(c.Script, config.ScriptEvent{Machine: "ghost", Event: "hover"})
			},
			want: ErrUnknownMachine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.GetPreset("button")
			tt.mutate(cfg)
			_, err := Build(cfg, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var be *BuildError
			if tt.want != config.ErrInvalidConfig && !errors.As(err, &be) {
				t.Errorf("expected *BuildError, got %T", err)
			}
		})
	}
}

func TestRunZeroFrames(t *testing.T) {
	s := buildPreset(t, "stagger")
	tr := s.Run(0)
	if len(tr.Rows) != 1 || tr.Times[0] != 0 {
		t.Errorf("zero-frame run = %d rows at %v", len(tr.Rows), tr.Times)
	}
}

func TestWriteCSV(t *testing.T) {
	s := buildPreset(t, "stagger")
	tr := s.Run(10)

	var buf bytes.Buffer
	if err := tr.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 12 {
		t.Fatalf("records = %d, want header + 11 rows", len(records))
	}
	if got := strings.Join(records[0], ","); got != "time_ms,cards.card1,cards.card2,cards.card3" {
		t.Errorf("header = %s", got)
	}
}

func TestWriteJSON(t *testing.T) {
	s := buildPreset(t, "toggle")
	tr := s.Run(s.DefaultFrames())

	var buf bytes.Buffer
	if err := tr.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var back struct {
		Scene  string       `json:"scene"`
		Events []FiredEvent `json:"events"`
	}
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.Scene != "toggle" || len(back.Events) != 3 {
		t.Errorf("decoded %+v", back)
	}
}

func BenchmarkButtonFrame(b *testing.B) {
	s, err := Build(config.GetPreset("button"), nil)
	if err != nil {
		b.Fatal(err)
	}
	s.SetScripted(false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Tick(16)
		s.Sample()
	}
}
