// Package fsm implements flat statecharts for widget interaction state.
//
// A [Machine] has a current state, an ordered list of guarded transitions,
// and entry and exit actions per state. [Machine.Send] fires the first
// declared transition whose source and event match and whose guard passes:
//
//  1. exit actions of the current state
//  2. the transition's own actions
//  3. the state update
//  4. a history record (from, event, to)
//  5. entry actions of the new state
//
// When nothing matches, Send changes nothing and runs no action.
//
// # Actions
//
// Actions are small tagged values ([SetTarget], [StartTimeline],
// [StopTimeline], [StartKeyframe], [SetSignal]) interpreted by the machine's
// [Executor], plus [Call] for arbitrary code. Guards and actions that panic
// are not recovered.
//
// # Runtime
//
// [Runtime] keeps many independent machines behind generational
// [MachineID] handles. Sending to a removed machine is a no-op.
package fsm
