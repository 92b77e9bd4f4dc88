package fsm

import "github.com/san-kum/motionlab/internal/arena"

type MachineID arena.Handle

// Runtime holds independent machines, typically one per widget instance.
// It is NOT thread-safe.
type Runtime struct {
	machines *arena.Arena[*Machine]
}

func NewRuntime() *Runtime {
	return &Runtime{machines: arena.New[*Machine]()}
}

func (r *Runtime) Create(m *Machine) MachineID {
	return MachineID(r.machines.Insert(m))
}

// With runs fn on the machine behind id. A stale id is a no-op.
func (r *Runtime) With(id MachineID, fn func(*Machine)) bool {
	m, ok := r.machines.Get(arena.Handle(id))
	if !ok || *m == nil {
		return false
	}
	fn(*m)
	return true
}

func (r *Runtime) Send(id MachineID, ev EventID) (StateID, bool) {
	var state StateID
	ok := r.With(id, func(m *Machine) { state = m.Send(ev) })
	return state, ok
}

func (r *Runtime) CanSend(id MachineID, ev EventID) bool {
	can := false
	r.With(id, func(m *Machine) { can = m.CanSend(ev) })
	return can
}

func (r *Runtime) Current(id MachineID) (StateID, bool) {
	var state StateID
	ok := r.With(id, func(m *Machine) { state = m.Current() })
	return state, ok
}

func (r *Runtime) Remove(id MachineID) bool {
	_, ok := r.machines.Remove(arena.Handle(id))
	return ok
}

func (r *Runtime) Len() int { return r.machines.Len() }
