package fsm

import "sort"

type StateID string

type EventID string

// Guard is a side-effect-free predicate gating a transition.
type Guard func() bool

type Transition struct {
	From    StateID
	Event   EventID
	To      StateID
	Guard   Guard
	Actions []Action
}

func (t *Transition) matches(from StateID, ev EventID) bool {
	return t.From == from && t.Event == ev
}

func (t *Transition) allowed() bool {
	return t.Guard == nil || t.Guard()
}

type HistoryEntry struct {
	From  StateID
	Event EventID
	To    StateID
}

type Machine struct {
	initial     StateID
	current     StateID
	transitions []Transition
	entry       map[StateID][]Action
	exit        map[StateID][]Action
	history     []HistoryEntry
	exec        Executor
}

// Send fires the first matching transition whose guard passes and returns
// the resulting state. Without a match the current state is returned
// unchanged and no action runs.
func (m *Machine) Send(ev EventID) StateID {
	t := m.find(ev)
	if t == nil {
		return m.current
	}

	from := m.current
	m.run(m.exit[from])
	m.run(t.Actions)
	m.current = t.To
	m.history = append(m.history, HistoryEntry{From: from, Event: ev, To: t.To})
	m.run(m.entry[t.To])
	return m.current
}

// CanSend reports whether Send(ev) would fire a transition. Only guards are
// evaluated.
func (m *Machine) CanSend(ev EventID) bool {
	return m.find(ev) != nil
}

func (m *Machine) find(ev EventID) *Transition {
	for i := range m.transitions {
		t := &m.transitions[i]
		if t.matches(m.current, ev) && t.allowed() {
			return t
		}
	}
	return nil
}

func (m *Machine) run(actions []Action) {
	for _, a := range actions {
		if a.Kind == ActCall {
			if a.Fn != nil {
				a.Fn()
			}
			continue
		}
		if m.exec != nil {
			m.exec.Execute(a)
		}
	}
}

func (m *Machine) Current() StateID       { return m.current }
func (m *Machine) Initial() StateID       { return m.initial }
func (m *Machine) Is(s StateID) bool      { return m.current == s }
func (m *Machine) SetExecutor(e Executor) { m.exec = e }

// History returns a copy of the fired transitions, oldest first.
func (m *Machine) History() []HistoryEntry {
	out := make([]HistoryEntry, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Machine) ClearHistory() { m.history = m.history[:0] }

// Events lists the events accepted from the current state, ignoring guards.
func (m *Machine) Events() []EventID {
	seen := make(map[EventID]bool)
	var out []EventID
	for i := range m.transitions {
		t := &m.transitions[i]
		if t.From == m.current && !seen[t.Event] {
			seen[t.Event] = true
			out = append(out, t.Event)
		}
	}
	return out
}

// States lists every state named by the machine, sorted.
func (m *Machine) States() []StateID {
	seen := map[StateID]bool{m.initial: true}
	for i := range m.transitions {
		seen[m.transitions[i].From] = true
		seen[m.transitions[i].To] = true
	}
	for s := range m.entry {
		seen[s] = true
	}
	for s := range m.exit {
		seen[s] = true
	}
	out := make([]StateID, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type Builder struct {
	m *Machine
}

func New(initial StateID) *Builder {
	return &Builder{m: &Machine{
		initial: initial,
		current: initial,
		entry:   make(map[StateID][]Action),
		exit:    make(map[StateID][]Action),
	}}
}

// On adds an unguarded transition without actions.
func (b *Builder) On(from StateID, ev EventID, to StateID) *Builder {
	return b.Transition(Transition{From: from, Event: ev, To: to})
}

// OnGuarded adds a transition that only fires while guard passes.
func (b *Builder) OnGuarded(from StateID, ev EventID, to StateID, guard Guard, actions ...Action) *Builder {
	return b.Transition(Transition{From: from, Event: ev, To: to, Guard: guard, Actions: actions})
}

func (b *Builder) Transition(t Transition) *Builder {
	b.m.transitions = append(b.m.transitions, t)
	return b
}

func (b *Builder) OnEnter(s StateID, actions ...Action) *Builder {
	b.m.entry[s] = append(b.m.entry[s], actions...)
	return b
}

func (b *Builder) OnExit(s StateID, actions ...Action) *Builder {
	b.m.exit[s] = append(b.m.exit[s], actions...)
	return b
}

func (b *Builder) Executor(e Executor) *Builder {
	b.m.exec = e
	return b
}

// Build returns a machine in its initial state. The builder stays usable;
// later additions do not reach machines already built, so one builder can
// stamp out a machine per widget.
func (b *Builder) Build() *Machine {
	m := &Machine{
		initial:     b.m.initial,
		current:     b.m.initial,
		transitions: append([]Transition(nil), b.m.transitions...),
		entry:       copyActions(b.m.entry),
		exit:        copyActions(b.m.exit),
		exec:        b.m.exec,
	}
	return m
}

func copyActions(src map[StateID][]Action) map[StateID][]Action {
	dst := make(map[StateID][]Action, len(src))
	for s, actions := range src {
		dst[s] = append([]Action(nil), actions...)
	}
	return dst
}
