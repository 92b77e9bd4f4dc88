// Package scheduler steps every registered animation once per frame.
//
// A [Scheduler] exclusively owns springs, timelines and keyframe animations
// in generational arenas. Callers hold typed handles ([SpringID],
// [TimelineID], [KeyframeID]) and reach the objects only for the duration of
// a single call; a removed handle turns every lookup into a no-op.
//
// Each [Scheduler.Tick] advances everything with the same dt, then raises the
// redraw request while anything is still moving.
//
// # Driver
//
// [Driver] owns a Scheduler on a single goroutine. Other goroutines mutate it
// by sending closures through [Driver.Do]; commands run in FIFO order before
// the next frame. The driver ticks at a fixed rate while animations are
// active and parks when everything has settled, waking on the next command.
//
// # Thread Safety
//
// Scheduler is NOT thread-safe. Driver is safe for concurrent use.
package scheduler
