package timeline

import "github.com/san-kum/motionlab/internal/easing"

// StaggerBuilder adds entries at base, base+delay, base+2*delay, ...
type StaggerBuilder struct {
	tl    *Timeline
	base  int32
	delay int32
	index int32
}

func NewStagger(tl *Timeline, baseOffset, delay int32) *StaggerBuilder {
	return &StaggerBuilder{tl: tl, base: baseOffset, delay: delay}
}

// Next returns the offset the next added entry will get.
func (b *StaggerBuilder) Next() int32 {
	return b.base + b.index*b.delay
}

func (b *StaggerBuilder) Add(duration uint32, start, end float64) EntryID {
	return b.AddWithEasing(duration, start, end, easing.Of(easing.Linear))
}

func (b *StaggerBuilder) AddWithEasing(duration uint32, start, end float64, e easing.Easing) EntryID {
	id := b.tl.AddWithEasing(b.Next(), duration, start, end, e)
	b.index++
	return id
}

func (b *StaggerBuilder) Timeline() *Timeline { return b.tl }
