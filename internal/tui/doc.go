// Package tui renders a running scene in the terminal with Bubble Tea.
//
// A [scheduler.Driver] owns the scene. After every frame, and after every
// batch of commands, it takes a [Snapshot] and posts it to the program;
// key presses travel the other way as driver commands. The model never
// touches the scene directly.
//
// # Key Bindings
//
//	1-9       - Send the nth event of the selected machine
//	Tab       - Select the next machine
//	Shift+Tab - Select the previous machine
//	T         - Cycle color themes
//	Q / Esc   - Quit
package tui
