package fsm

import "fmt"

type ActionKind uint8

const (
	ActSetTarget ActionKind = iota
	ActStartTimeline
	ActStopTimeline
	ActStartKeyframe
	ActSetSignal
	ActCall
)

var actionKindNames = map[ActionKind]string{
	ActSetTarget:     "set_target",
	ActStartTimeline: "start_timeline",
	ActStopTimeline:  "stop_timeline",
	ActStartKeyframe: "start_keyframe",
	ActSetSignal:     "set_signal",
	ActCall:          "call",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", k)
}

// ParseActionKind is the inverse of ActionKind.String.
func ParseActionKind(name string) (ActionKind, bool) {
	for k, n := range actionKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Action is one command run on a transition or on state entry/exit. Target
// names the spring, timeline, keyframe animation or signal it applies to.
type Action struct {
	Kind   ActionKind
	Target string
	Value  float64
	Fn     func()
}

func SetTarget(target string, v float64) Action {
	return Action{Kind: ActSetTarget, Target: target, Value: v}
}

func StartTimeline(name string) Action {
	return Action{Kind: ActStartTimeline, Target: name}
}

func StopTimeline(name string) Action {
	return Action{Kind: ActStopTimeline, Target: name}
}

func StartKeyframe(name string) Action {
	return Action{Kind: ActStartKeyframe, Target: name}
}

func SetSignal(name string, v float64) Action {
	return Action{Kind: ActSetSignal, Target: name, Value: v}
}

func Call(fn func()) Action {
	return Action{Kind: ActCall, Fn: fn}
}

func (a Action) String() string {
	switch a.Kind {
	case ActCall:
		return "call"
	case ActSetTarget, ActSetSignal:
		return fmt.Sprintf("%s(%s, %g)", a.Kind, a.Target, a.Value)
	default:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Target)
	}
}

// Executor carries out every action except Call.
type Executor interface {
	Execute(a Action)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(Action)

func (f ExecutorFunc) Execute(a Action) { f(a) }
