package scene

import "errors"

// Build errors. Each is wrapped with the offending name.
var (
	ErrUnknownSpring   = errors.New("scene: unknown spring")
	ErrUnknownTimeline = errors.New("scene: unknown timeline")
	ErrUnknownKeyframe = errors.New("scene: unknown keyframe animation")
	ErrUnknownSignal   = errors.New("scene: unknown signal")
	ErrUnknownMachine  = errors.New("scene: unknown machine")
	ErrDuplicateName   = errors.New("scene: name used by more than one object")
)

// BuildError records which part of the config failed to resolve.
type BuildError struct {
	Section string
	Name    string
	Wrapped error
}

func (e *BuildError) Error() string {
	return e.Section + " " + e.Name + ": " + e.Wrapped.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Wrapped
}
