package timeline

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/san-kum/motionlab/internal/easing"
)

func TestLinearScenario(t *testing.T) {
	tl := New()
	id := tl.Add(0, 500, 0, 60)
	tl.Start()

	tl.Tick(250)
	v, ok := tl.Value(id)
	if !ok || math.Abs(v-30) > 1e-9 {
		t.Errorf("value at 250ms = %f, %v; want 30", v, ok)
	}

	tl.Tick(350)
	v, _ = tl.Value(id)
	if v != 60 {
		t.Errorf("value at 600ms = %f, want 60", v)
	}
	if tl.IsPlaying() {
		t.Error("timeline without loop should stop at the end")
	}
	if tl.CurrentTime() != 500 {
		t.Errorf("current time = %f, want pinned at 500", tl.CurrentTime())
	}
	if tl.State() != Finished {
		t.Errorf("state = %s, want finished", tl.State())
	}
}

func TestDefaults(t *testing.T) {
	tl := New()
	if tl.Loop() != 0 || tl.Alternate() || tl.IsReversed() || tl.PlaybackRate() != 1 || tl.IsPlaying() {
		t.Error("unexpected defaults")
	}
	if tl.State() != Idle {
		t.Errorf("state = %s, want idle", tl.State())
	}
	if tl.Progress() != 1 {
		t.Errorf("empty timeline progress = %f, want 1", tl.Progress())
	}
}

func TestTotalDuration(t *testing.T) {
	tl := New()
	tl.Add(0, 200, 0, 1)
	tl.Add(300, 100, 0, 1)
	tl.Add(-500, 250, 0, 1)
	if tl.TotalDuration() != 400 {
		t.Errorf("total = %d, want 400", tl.TotalDuration())
	}
}

func TestValueOutsideWindow(t *testing.T) {
	tl := New()
	id := tl.AddWithEasing(100, 200, 10, 20, easing.Of(easing.OutBack))

	tl.Seek(0)
	if v, _ := tl.Value(id); v != 10 {
		t.Errorf("value before offset = %f, want exactly 10", v)
	}
	tl.Seek(99.999)
	if v, _ := tl.Value(id); v != 10 {
		t.Errorf("value just before offset = %f, want exactly 10", v)
	}
	tl.Seek(300)
	if v, _ := tl.Value(id); v != 20 {
		t.Errorf("value at end = %f, want exactly 20", v)
	}
	if p, _ := tl.EntryProgress(id); p != 1 {
		t.Errorf("entry progress at end = %f", p)
	}
}

func TestNegativeOffsetStartsPartway(t *testing.T) {
	tl := New()
	id := tl.Add(-100, 300, 0, 30)
	tl.Start()
	if v, _ := tl.Value(id); math.Abs(v-10) > 1e-9 {
		t.Errorf("value at clock 0 = %f, want 10", v)
	}
}

func TestLoopTwiceStopsOnBoundary(t *testing.T) {
	tl := New()
	tl.Add(0, 500, 0, 1)
	tl.SetLoop(2)
	tl.Start()

	for i := 0; i < 3; i++ {
		tl.Tick(250)
	}
	if !tl.IsPlaying() || tl.CurrentLoop() != 1 {
		t.Fatalf("should be in second play: playing=%v loop=%d", tl.IsPlaying(), tl.CurrentLoop())
	}

	tl.Tick(250)
	if tl.IsPlaying() {
		t.Error("should stop after two plays")
	}
	if tl.CurrentTime() != 500 {
		t.Errorf("current time = %f, want exactly 500", tl.CurrentTime())
	}

	tl.Tick(100)
	if tl.CurrentTime() != 500 {
		t.Error("tick after finish must be a no-op")
	}
}

func TestLoopDiscardsOvershoot(t *testing.T) {
	tl := New()
	tl.Add(0, 100, 0, 1)
	tl.SetLoop(LoopInfinite)
	tl.Start()

	tl.Tick(70)
	tl.Tick(70)
	if tl.CurrentTime() != 0 {
		t.Errorf("after crossing, time = %f, want 0", tl.CurrentTime())
	}
}

func TestPingPong(t *testing.T) {
	tl := New()
	id := tl.Add(0, 500, 0, 60)
	tl.SetLoop(LoopInfinite)
	tl.SetAlternate(true)
	tl.Start()

	flips := 0
	crossings := 0
	prevReversed := tl.IsReversed()
	prevTime := tl.CurrentTime()
	for i := 0; i < 40; i++ {
		before, _ := tl.Value(id)
		tl.Tick(130)
		if tl.CurrentTime() == 0 || tl.CurrentTime() == 500 {
			crossings++
			after, _ := tl.Value(id)
			if math.Abs(after-before) > 60*130.0/500+1e-9 {
				t.Fatalf("value jumped across flip: %f -> %f", before, after)
			}
		}
		if tl.IsReversed() != prevReversed {
			flips++
		}
		if math.Abs(tl.CurrentTime()-prevTime) > 130+1e-6 {
			t.Fatalf("time jumped: %f -> %f", prevTime, tl.CurrentTime())
		}
		prevReversed = tl.IsReversed()
		prevTime = tl.CurrentTime()
	}

	if flips == 0 || flips != crossings {
		t.Errorf("flips = %d, boundary crossings = %d", flips, crossings)
	}
	if !tl.IsPlaying() {
		t.Error("infinite ping-pong should keep playing")
	}
}

func TestPingPongFlipIsContinuous(t *testing.T) {
	tl := New()
	id := tl.Add(0, 500, 0, 60)
	tl.SetLoop(LoopInfinite)
	tl.SetAlternate(true)
	tl.Start()

	tl.Tick(500)
	if !tl.IsReversed() {
		t.Fatal("should have flipped at the end boundary")
	}
	v, _ := tl.Value(id)
	if v != 60 || tl.CurrentTime() != 500 {
		t.Errorf("at flip: value=%f time=%f", v, tl.CurrentTime())
	}

	tl.Tick(100)
	v, _ = tl.Value(id)
	if math.Abs(v-48) > 1e-9 {
		t.Errorf("after flip value = %f, want 48", v)
	}
}

func TestProgressMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tl := New()
	tl.Add(0, 1000, 0, 1)
	tl.Add(250, 400, 0, 1)
	tl.Start()

	prev := tl.Progress()
	for tl.IsPlaying() {
		tl.Tick(rng.Float64() * 40)
		p := tl.Progress()
		if p < prev {
			t.Fatalf("progress decreased: %f -> %f", prev, p)
		}
		if p < 0 || p > 1 {
			t.Fatalf("progress out of range: %f", p)
		}
		prev = p
	}
	if prev != 1 {
		t.Errorf("final progress = %f, want 1", prev)
	}
}

func TestReversedStartAndPlay(t *testing.T) {
	tl := New()
	id := tl.Add(0, 200, 0, 10)
	tl.Reverse()
	tl.Start()
	if tl.CurrentTime() != 200 {
		t.Fatalf("reversed start should begin at the end, got %f", tl.CurrentTime())
	}
	tl.Tick(250)
	if tl.IsPlaying() || tl.CurrentTime() != 0 {
		t.Errorf("reversed play should stop at 0: playing=%v time=%f", tl.IsPlaying(), tl.CurrentTime())
	}
	if v, _ := tl.Value(id); v != 0 {
		t.Errorf("value = %f, want 0", v)
	}
}

func TestPauseResume(t *testing.T) {
	tl := New()
	tl.Add(0, 400, 0, 1)
	tl.Start()
	tl.Tick(100)
	tl.Pause()
	if tl.State() != Paused {
		t.Errorf("state = %s, want paused", tl.State())
	}
	tl.Tick(100)
	if tl.CurrentTime() != 100 {
		t.Errorf("paused timeline advanced to %f", tl.CurrentTime())
	}

	tl.Seek(300)
	tl.Reverse()
	if tl.State() != Paused {
		t.Error("seek and reverse must not change play state")
	}
	tl.Reverse()

	tl.Resume()
	tl.Tick(50)
	if tl.CurrentTime() != 350 {
		t.Errorf("time after resume = %f, want 350", tl.CurrentTime())
	}
}

func TestSetterClamping(t *testing.T) {
	tl := New()
	tl.Add(0, 100, 0, 1)

	tl.SetPlaybackRate(-2)
	if tl.PlaybackRate() != 0 {
		t.Errorf("negative rate -> %f, want 0", tl.PlaybackRate())
	}
	tl.SetPlaybackRate(math.NaN())
	if tl.PlaybackRate() != 0 {
		t.Errorf("NaN rate -> %f, want 0", tl.PlaybackRate())
	}

	tl.Start()
	tl.Tick(50)
	if tl.CurrentTime() != 0 || !tl.IsPlaying() {
		t.Error("zero rate should freeze time but keep playing")
	}

	tl.SetLoop(-7)
	if tl.Loop() != LoopInfinite {
		t.Errorf("loop -7 -> %d, want -1", tl.Loop())
	}

	tl.Seek(-10)
	if tl.CurrentTime() != 0 {
		t.Errorf("seek below 0 -> %f", tl.CurrentTime())
	}
	tl.Seek(1e9)
	if tl.CurrentTime() != 100 {
		t.Errorf("seek past end -> %f", tl.CurrentTime())
	}
}

func TestDoubleRate(t *testing.T) {
	tl := New()
	id := tl.Add(0, 400, 0, 40)
	tl.SetPlaybackRate(2)
	tl.Start()
	tl.Tick(100)
	if v, _ := tl.Value(id); math.Abs(v-20) > 1e-9 {
		t.Errorf("value = %f, want 20", v)
	}
}

func TestRemoveInvalidatesHandle(t *testing.T) {
	tl := New()
	a := tl.Add(0, 100, 0, 1)
	b := tl.Add(0, 600, 0, 1)
	tl.Seek(500)

	if !tl.Remove(b) {
		t.Fatal("remove failed")
	}
	if _, ok := tl.Value(b); ok {
		t.Error("stale handle should report false")
	}
	if _, ok := tl.EntryProgress(b); ok {
		t.Error("stale handle should report false")
	}
	if tl.Remove(b) {
		t.Error("second remove should fail")
	}
	if tl.TotalDuration() != 100 || tl.CurrentTime() != 100 {
		t.Errorf("total=%d time=%f after remove", tl.TotalDuration(), tl.CurrentTime())
	}

	c := tl.Add(0, 50, 0, 1)
	if c == b {
		t.Error("reused slot must carry a new generation")
	}
	ids := tl.EntryIDs()
	if len(ids) != 2 || ids[0] != a || ids[1] != c {
		t.Errorf("entry order = %v", ids)
	}
}

func TestTickIgnoresBadDt(t *testing.T) {
	tl := New()
	tl.Add(0, 100, 0, 1)
	tl.Start()
	for _, dt := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		tl.Tick(dt)
	}
	if tl.CurrentTime() != 0 {
		t.Errorf("bad dt advanced clock to %f", tl.CurrentTime())
	}
}

func TestStaggerOffsets(t *testing.T) {
	tl := New()
	sb := NewStagger(tl, 0, 100)
	ids := []EntryID{
		sb.Add(300, 0, 1),
		sb.Add(300, 0, 1),
		sb.Add(300, 0, 1),
	}

	for i, id := range ids {
		e, ok := tl.Entry(id)
		if !ok {
			t.Fatalf("entry %d missing", i)
		}
		if want := int32(i * 100); e.Offset != want {
			t.Errorf("entry %d offset = %d, want %d", i, e.Offset, want)
		}
	}
	if sb.Next() != 300 {
		t.Errorf("next offset = %d, want 300", sb.Next())
	}
	if tl.TotalDuration() != 500 {
		t.Errorf("total = %d, want 500", tl.TotalDuration())
	}
}

func TestSharedTimeline(t *testing.T) {
	tl := New()
	id := tl.Add(0, 1000, 0, 1)
	sh := NewShared(tl)
	sh.Start()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				sh.Tick(1)
				sh.Value(id)
			}
		}()
	}
	wg.Wait()

	if p := sh.Progress(); math.Abs(p-0.2) > 1e-9 {
		t.Errorf("progress = %f, want 0.2", p)
	}
	sh.Restart()
	sh.With(func(tl *Timeline) {
		if tl.CurrentTime() != 0 {
			t.Error("restart should rewind")
		}
	})
}

func TestNonFiniteBezierValueStaysFinite(t *testing.T) {
	tests := []struct {
		name   string
		easing easing.Easing
	}{
		{"parsed nan", easing.MustParse("cubic_bezier(nan,0,1,1)")},
		{"parsed inf", easing.MustParse("cubic_bezier(0.4,0,inf,1)")},
		{"literal nan", easing.Easing{Kind: easing.CubicBezier, X1: 0.4, Y1: math.NaN(), X2: 0.2, Y2: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := New()
			id := tl.AddWithEasing(0, 500, 0, 60, tt.easing)
			tl.Start()
			tl.Tick(250)

			v, ok := tl.Value(id)
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("value at 50%% = %f, %v", v, ok)
			}
			if math.Abs(v-30) > 1e-9 {
				t.Errorf("value at 50%% = %f, want linear 30", v)
			}
		})
	}
}

func BenchmarkTick(b *testing.B) {
	tl := New()
	sb := NewStagger(tl, 0, 20)
	for i := 0; i < 32; i++ {
		sb.Add(300, 0, 1)
	}
	tl.SetLoop(LoopInfinite)
	tl.Start()
	ids := tl.EntryIDs()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tl.Tick(16)
		for _, id := range ids {
			tl.Value(id)
		}
	}
}
