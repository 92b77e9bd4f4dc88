// Package analysis inspects sampled animation curves.
//
//   - [Spectrum]: power spectrum of a uniformly sampled curve
//   - [DominantFrequency]: strongest non-DC frequency
//   - [DampedFrequency]: ringing frequency a spring config predicts
//   - [Crossings]: how many times a curve crosses a level
//
// # Ringing
//
// An underdamped spring oscillates around its target at the damped natural
// frequency. Comparing it with the measured dominant frequency of a trace
// shows how far a solver's discretisation has shifted the motion:
//
//	col, _ := trace.Column("glow")
//	got, _ := analysis.DominantFrequency(col, float64(trace.FPS))
//	want := analysis.DampedFrequency(cfg)
package analysis
