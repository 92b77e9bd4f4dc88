// Package scene assembles a runnable animation scene from a config.
//
// Build resolves every name in a [config.Config] to a handle: springs,
// timelines and keyframe animations go into a [scheduler.Scheduler],
// signals and bindings into a [reactive.Graph], and state machines into an
// [fsm.Runtime] whose actions are executed by the Scene itself.
//
// A Scene is owned by one goroutine. When it is driven by a
// [scheduler.Driver], call its methods from inside Driver.Do or OnFrame.
package scene

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/san-kum/motionlab/internal/config"
	"github.com/san-kum/motionlab/internal/easing"
	"github.com/san-kum/motionlab/internal/fsm"
	"github.com/san-kum/motionlab/internal/keyframe"
	"github.com/san-kum/motionlab/internal/metrics"
	"github.com/san-kum/motionlab/internal/reactive"
	"github.com/san-kum/motionlab/internal/scheduler"
	"github.com/san-kum/motionlab/internal/spring"
	"github.com/san-kum/motionlab/internal/timeline"
)

type Kind string

const (
	KindSpring   Kind = "spring"
	KindTimeline Kind = "timeline"
	KindKeyframe Kind = "keyframe"
	KindSignal   Kind = "signal"
)

// Value is one named scalar as seen by a renderer.
type Value struct {
	Name  string
	Kind  Kind
	Value float64
}

type entryRef struct {
	name string
	id   timeline.EntryID
}

type timelineRef struct {
	id      scheduler.TimelineID
	entries []entryRef
}

type column struct {
	name string
	kind Kind
	read func() float64
}

type Scene struct {
	cfg    *config.Config
	logger *slog.Logger

	sched    *scheduler.Scheduler
	graph    *reactive.Graph
	machines *fsm.Runtime

	springs      map[string]scheduler.SpringID
	springNames  []string
	timelines    map[string]timelineRef
	keyframes    map[string]scheduler.KeyframeID
	signals      map[string]reactive.SignalID
	machineIDs   map[string]fsm.MachineID
	machineNames []string

	columns []column
	metrics map[string][]metrics.Metric

	clockMs   float64
	script    []config.ScriptEvent
	scriptPos int
	scripted  bool
	fired     []FiredEvent
}

// FiredEvent is one machine event dispatched during a run.
type FiredEvent struct {
	AtMs    float64     `json:"at_ms"`
	Machine string      `json:"machine"`
	Event   string      `json:"event"`
	From    fsm.StateID `json:"from"`
	To      fsm.StateID `json:"to"`
}

func Build(cfg *config.Config, logger *slog.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scene{
		cfg:        cfg,
		logger:     logger.With("scene", cfg.Name),
		sched:      scheduler.New(),
		graph:      reactive.New(),
		machines:   fsm.NewRuntime(),
		springs:    make(map[string]scheduler.SpringID),
		timelines:  make(map[string]timelineRef),
		keyframes:  make(map[string]scheduler.KeyframeID),
		signals:    make(map[string]reactive.SignalID),
		machineIDs: make(map[string]fsm.MachineID),
		metrics:    make(map[string][]metrics.Metric),
		scripted:   true,
	}

	if err := s.checkNames(); err != nil {
		return nil, err
	}

	steps := []func() error{
		s.buildSprings,
		s.buildTimelines,
		s.buildKeyframes,
		s.buildSignals,
		s.buildBindings,
		s.buildMachines,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	s.script = append([]config.ScriptEvent(nil), cfg.Script...)
	sort.SliceStable(s.script, func(i, j int) bool { return s.script[i].AtMs < s.script[j].AtMs })

	s.sched.Observe(s.afterFrame)

	s.logger.Debug("scene built",
		"springs", s.sched.SpringCount(),
		"timelines", s.sched.TimelineCount(),
		"keyframes", s.sched.KeyframeCount(),
		"machines", s.machines.Len())
	return s, nil
}

// checkNames rejects a name reused across springs, timelines, keyframe
// animations and signals, since they share one column namespace.
func (s *Scene) checkNames() error {
	seen := make(map[string]string)
	claim := func(kind, name string) error {
		if prev, ok := seen[name]; ok {
			return &BuildError{Section: kind, Name: name, Wrapped: fmt.Errorf("%w (also a %s)", ErrDuplicateName, prev)}
		}
		seen[name] = kind
		return nil
	}
	for _, sp := range s.cfg.Springs {
		if err := claim("spring", sp.Name); err != nil {
			return err
		}
	}
	for _, tl := range s.cfg.Timelines {
		if err := claim("timeline", tl.Name); err != nil {
			return err
		}
	}
	for _, kf := range s.cfg.Keyframes {
		if err := claim("keyframe", kf.Name); err != nil {
			return err
		}
	}
	for _, sig := range s.cfg.Signals {
		if err := claim("signal", sig.Name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) buildSprings() error {
	for _, sc := range s.cfg.Springs {
		solver, err := spring.ParseSolver(sc.Solver)
		if err != nil {
			return &BuildError{Section: "spring", Name: sc.Name, Wrapped: err}
		}

		id := s.sched.AddSpring(spring.New(sc.Resolve(), sc.Initial).WithSolver(solver))
		s.springs[sc.Name] = id
		s.springNames = append(s.springNames, sc.Name)
		s.metrics[sc.Name] = metrics.Standard()

		s.columns = append(s.columns, column{name: sc.Name, kind: KindSpring, read: func() float64 {
			v, _ := s.sched.SpringValue(id)
			return v
		}})
	}
	return nil
}

func (s *Scene) buildTimelines() error {
	for _, tc := range s.cfg.Timelines {
		tl := timeline.New()
		tl.SetLoop(tc.Loop)
		tl.SetAlternate(tc.Alternate)
		if tc.Rate != nil {
			tl.SetPlaybackRate(*tc.Rate)
		}

		var stagger *timeline.StaggerBuilder
		if tc.Stagger != nil {
			stagger = timeline.NewStagger(tl, tc.Stagger.Base, tc.Stagger.Delay)
		}

		ref := timelineRef{}
		for _, ec := range tc.Entries {
			e, err := easing.Parse(ec.Easing)
			if err != nil {
				return &BuildError{Section: "timeline", Name: tc.Name, Wrapped: err}
			}
			var id timeline.EntryID
			if stagger != nil {
				id = stagger.AddWithEasing(ec.Duration, ec.From, ec.To, e)
			} else {
				id = tl.AddWithEasing(ec.Offset, ec.Duration, ec.From, ec.To, e)
			}
			ref.entries = append(ref.entries, entryRef{name: ec.Name, id: id})
		}

		if tc.Autoplay {
			tl.Start()
		}
		ref.id = s.sched.AddTimeline(tl)
		s.timelines[tc.Name] = ref

		for _, er := range ref.entries {
			tid, eid := ref.id, er.id
			s.columns = append(s.columns, column{name: tc.Name + "." + er.name, kind: KindTimeline, read: func() float64 {
				v, _ := s.sched.TimelineValue(tid, eid)
				return v
			}})
		}
	}
	return nil
}

func (s *Scene) buildKeyframes() error {
	for _, kc := range s.cfg.Keyframes {
		var m *keyframe.Multi
		if kc.Preset != "" {
			var ok bool
			if m, ok = keyframe.Preset(kc.Preset, kc.DurationMs); !ok {
				return &BuildError{Section: "keyframe", Name: kc.Name, Wrapped: fmt.Errorf("%w: preset %q", ErrUnknownKeyframe, kc.Preset)}
			}
		} else {
			m = keyframe.NewMulti(kc.DurationMs)
			for _, fc := range kc.Frames {
				e, err := easing.Parse(fc.Easing)
				if err != nil {
					return &BuildError{Section: "keyframe", Name: kc.Name, Wrapped: err}
				}
				props := make(keyframe.Props, len(fc.Props))
				for name, v := range fc.Props {
					p, err := keyframe.ParseProperty(name)
					if err != nil {
						return &BuildError{Section: "keyframe", Name: kc.Name, Wrapped: err}
					}
					props[p] = v
				}
				m.Keyframe(fc.Time, props, e)
			}
		}

		if kc.Autoplay {
			m.Start()
		}
		id := s.sched.AddKeyframe(m)
		s.keyframes[kc.Name] = id

		for _, p := range m.Properties() {
			prop := p
			s.columns = append(s.columns, column{name: kc.Name + "." + p.String(), kind: KindKeyframe, read: func() float64 {
				v, _ := s.sched.KeyframeValue(id, prop)
				return v
			}})
		}
	}
	return nil
}

func (s *Scene) buildSignals() error {
	for _, sc := range s.cfg.Signals {
		id := s.graph.NewSignal(sc.Initial)
		s.signals[sc.Name] = id
		s.columns = append(s.columns, column{name: sc.Name, kind: KindSignal, read: func() float64 {
			return s.graph.Get(id)
		}})
	}
	return nil
}

func (s *Scene) buildBindings() error {
	for _, bc := range s.cfg.Bindings {
		sig, ok := s.signals[bc.Signal]
		if !ok {
			return &BuildError{Section: "binding", Name: bc.Signal, Wrapped: ErrUnknownSignal}
		}
		sp, ok := s.springs[bc.Spring]
		if !ok {
			return &BuildError{Section: "binding", Name: bc.Spring, Wrapped: ErrUnknownSpring}
		}
		reactive.BindSpring(s.graph, sig, s.sched.SpringTarget(sp), bc.GainOrDefault(), bc.Offset)
	}
	return nil
}

func (s *Scene) buildMachines() error {
	for _, mc := range s.cfg.Machines {
		b := fsm.New(fsm.StateID(mc.Initial)).Executor(s)

		for _, tc := range mc.Transitions {
			t := fsm.Transition{
				From:  fsm.StateID(tc.From),
				Event: fsm.EventID(tc.Event),
				To:    fsm.StateID(tc.To),
			}
			if tc.Guard != nil {
				guard, err := s.compileGuard(*tc.Guard)
				if err != nil {
					return &BuildError{Section: "machine", Name: mc.Name, Wrapped: err}
				}
				t.Guard = guard
			}
			actions, err := s.compileActions(tc.Actions)
			if err != nil {
				return &BuildError{Section: "machine", Name: mc.Name, Wrapped: err}
			}
			t.Actions = actions
			b.Transition(t)
		}

		for _, state := range sortedKeys(mc.OnEnter) {
			actions, err := s.compileActions(mc.OnEnter[state])
			if err != nil {
				return &BuildError{Section: "machine", Name: mc.Name, Wrapped: err}
			}
			b.OnEnter(fsm.StateID(state), actions...)
		}
		for _, state := range sortedKeys(mc.OnExit) {
			actions, err := s.compileActions(mc.OnExit[state])
			if err != nil {
				return &BuildError{Section: "machine", Name: mc.Name, Wrapped: err}
			}
			b.OnExit(fsm.StateID(state), actions...)
		}

		s.machineIDs[mc.Name] = s.machines.Create(b.Build())
		s.machineNames = append(s.machineNames, mc.Name)
	}

	for _, ev := range s.cfg.Script {
		if _, ok := s.machineIDs[ev.Machine]; !ok {
			return &BuildError{Section: "script", Name: ev.Machine, Wrapped: ErrUnknownMachine}
		}
	}
	return nil
}

func (s *Scene) compileGuard(gc config.GuardConfig) (fsm.Guard, error) {
	sig, ok := s.signals[gc.Signal]
	if !ok {
		return nil, fmt.Errorf("guard: %w %q", ErrUnknownSignal, gc.Signal)
	}
	return func() bool { return gc.Compare(s.graph.Get(sig)) }, nil
}

func (s *Scene) compileActions(acs []config.ActionConfig) ([]fsm.Action, error) {
	out := make([]fsm.Action, 0, len(acs))
	for _, ac := range acs {
		a, err := ac.Action()
		if err != nil {
			return nil, err
		}
		var known bool
		var sentinel error
		switch a.Kind {
		case fsm.ActSetTarget:
			_, known = s.springs[a.Target]
			sentinel = ErrUnknownSpring
		case fsm.ActStartTimeline, fsm.ActStopTimeline:
			_, known = s.timelines[a.Target]
			sentinel = ErrUnknownTimeline
		case fsm.ActStartKeyframe:
			_, known = s.keyframes[a.Target]
			sentinel = ErrUnknownKeyframe
		case fsm.ActSetSignal:
			_, known = s.signals[a.Target]
			sentinel = ErrUnknownSignal
		}
		if !known {
			return nil, fmt.Errorf("action %s: %w %q", a.Kind, sentinel, a.Target)
		}
		out = append(out, a)
	}
	return out, nil
}

// Execute carries out a machine action against the scene's objects.
func (s *Scene) Execute(a fsm.Action) {
	switch a.Kind {
	case fsm.ActSetTarget:
		s.sched.SpringTarget(s.springs[a.Target]).SetTarget(a.Value)
	case fsm.ActStartTimeline:
		s.sched.WithTimeline(s.timelines[a.Target].id, func(tl *timeline.Timeline) { tl.Start() })
	case fsm.ActStopTimeline:
		s.sched.WithTimeline(s.timelines[a.Target].id, func(tl *timeline.Timeline) { tl.Stop() })
	case fsm.ActStartKeyframe:
		s.sched.WithKeyframe(s.keyframes[a.Target], func(m *keyframe.Multi) { m.Start() })
	case fsm.ActSetSignal:
		s.graph.Set(s.signals[a.Target], a.Value)
	}
	s.logger.Debug("action", "action", a.String())
}

// Send delivers an input event to a named machine and reports whether a
// transition fired. Unknown machines and unmatched events leave everything
// untouched.
func (s *Scene) Send(machine string, event string) (fsm.StateID, bool) {
	id, ok := s.machineIDs[machine]
	if !ok {
		return "", false
	}
	from, _ := s.machines.Current(id)
	if !s.machines.CanSend(id, fsm.EventID(event)) {
		return from, false
	}
	to, _ := s.machines.Send(id, fsm.EventID(event))
	s.logger.Debug("transition", "machine", machine, "event", event, "from", from, "to", to)
	s.fired = append(s.fired, FiredEvent{AtMs: s.clockMs, Machine: machine, Event: event, From: from, To: to})
	return to, true
}

func (s *Scene) CanSend(machine, event string) bool {
	id, ok := s.machineIDs[machine]
	return ok && s.machines.CanSend(id, fsm.EventID(event))
}

func (s *Scene) State(machine string) (fsm.StateID, bool) {
	id, ok := s.machineIDs[machine]
	if !ok {
		return "", false
	}
	return s.machines.Current(id)
}

// Events lists the events a machine accepts in its current state.
func (s *Scene) Events(machine string) []fsm.EventID {
	var out []fsm.EventID
	if id, ok := s.machineIDs[machine]; ok {
		s.machines.With(id, func(m *fsm.Machine) { out = m.Events() })
	}
	return out
}

func (s *Scene) Machines() []string { return append([]string(nil), s.machineNames...) }

// Tick advances every animation by dtMs and reports whether anything is
// still moving.
func (s *Scene) Tick(dtMs float64) bool {
	return s.sched.Tick(dtMs)
}

// afterFrame runs inside every scheduler frame, including frames ticked
// by a Driver.
func (s *Scene) afterFrame(_ *scheduler.Scheduler, dtMs float64) {
	if dtMs > 0 && !math.IsInf(dtMs, 0) {
		s.clockMs += dtMs
	}
	for _, name := range s.springNames {
		s.sched.WithSpring(s.springs[name], func(sp *spring.Spring) {
			sample := metrics.FromSpring(s.clockMs, sp)
			for _, m := range s.metrics[name] {
				m.Observe(sample)
			}
		})
	}
	s.dispatchDue()
}

func (s *Scene) dispatchDue() {
	if !s.scripted {
		return
	}
	for s.scriptPos < len(s.script) && s.script[s.scriptPos].AtMs <= s.clockMs {
		ev := s.script[s.scriptPos]
		s.scriptPos++
		s.Send(ev.Machine, ev.Event)
	}
}

// SetScripted enables or disables the scripted input events.
func (s *Scene) SetScripted(on bool) { s.scripted = on }

// Sample reads every column at the current instant.
func (s *Scene) Sample() []Value {
	out := make([]Value, len(s.columns))
	for i, c := range s.columns {
		out[i] = Value{Name: c.name, Kind: c.kind, Value: c.read()}
	}
	return out
}

func (s *Scene) Columns() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.name
	}
	return out
}

// Metrics reports the spring metrics gathered so far, keyed by spring name
// then metric name.
func (s *Scene) Metrics() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(s.metrics))
	for name, ms := range s.metrics {
		vals := make(map[string]float64, len(ms))
		for _, m := range ms {
			vals[m.Name()] = m.Value()
		}
		out[name] = vals
	}
	return out
}

func (s *Scene) Scheduler() *scheduler.Scheduler { return s.sched }
func (s *Scene) Graph() *reactive.Graph          { return s.graph }
func (s *Scene) Config() *config.Config          { return s.cfg }
func (s *Scene) ClockMs() float64                { return s.clockMs }

// SignalValue reads a named signal.
func (s *Scene) SignalValue(name string) (float64, bool) {
	id, ok := s.signals[name]
	if !ok {
		return 0, false
	}
	return s.graph.Get(id), true
}

// SetSignal writes a named signal, rerunning any bindings that read it.
func (s *Scene) SetSignal(name string, v float64) bool {
	id, ok := s.signals[name]
	if !ok {
		return false
	}
	s.graph.Set(id, v)
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
