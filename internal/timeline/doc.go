// Package timeline runs independently offset entries on one shared clock.
//
// A [Timeline] owns its entries behind generational [EntryID] handles.
// Each entry interpolates from a start value to an end value over its own
// window [offset, offset+duration) of the shared clock, shaped by an easing
// curve. Outside its window an entry reports its start or end value exactly.
//
// # Clock
//
// Times are in milliseconds. The clock runs from 0 to the total duration,
// which is the latest end of any entry. Tick advances it by dt scaled by the
// playback rate, forward or backward depending on direction. On reaching a
// boundary the timeline either loops (snapping back, or flipping direction
// in alternate mode) or stops pinned to the boundary. Time past the
// boundary in the crossing frame is discarded.
//
// # States
//
//	Idle --Start--> Playing --Pause/Stop--> Paused --Resume--> Playing
//	Playing --last boundary--> Finished
//
// Seek and Reverse are valid in every state and never change it.
//
// # Thread Safety
//
// Timeline is NOT thread-safe. [Shared] serializes access with a mutex.
package timeline
