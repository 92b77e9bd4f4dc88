package scene

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"
)

// Trace is the sampled output of an offline run.
type Trace struct {
	Scene   string                        `json:"scene"`
	FPS     int                           `json:"fps"`
	DtMs    float64                       `json:"dt_ms"`
	Frames  int                           `json:"frames"`
	Columns []string                      `json:"columns"`
	Times   []float64                     `json:"times"`
	Rows    [][]float64                   `json:"rows"`
	Metrics map[string]map[string]float64 `json:"metrics"`
	Events  []FiredEvent                  `json:"events"`
}

// DefaultFrames is the frame count that covers the configured duration.
func (s *Scene) DefaultFrames() int {
	return int(math.Ceil(s.cfg.DurationMs * float64(s.cfg.FPS) / 1000))
}

// Run ticks the scene frames times at a fixed 1000/fps step. Row 0 is the
// state after script events due at time zero have been dispatched.
func (s *Scene) Run(frames int) *Trace {
	if frames < 0 {
		frames = 0
	}
	dt := 1000 / float64(s.cfg.FPS)

	tr := &Trace{
		Scene:   s.cfg.Name,
		FPS:     s.cfg.FPS,
		DtMs:    dt,
		Frames:  frames,
		Columns: s.Columns(),
		Times:   make([]float64, 0, frames+1),
		Rows:    make([][]float64, 0, frames+1),
	}
	firedFrom := len(s.fired)

	s.dispatchDue()
	tr.record(s)
	for i := 0; i < frames; i++ {
		s.Tick(dt)
		tr.record(s)
	}

	tr.Metrics = s.Metrics()
	tr.Events = append([]FiredEvent(nil), s.fired[firedFrom:]...)
	return tr
}

func (tr *Trace) record(s *Scene) {
	values := s.Sample()
	row := make([]float64, len(values))
	for i, v := range values {
		row[i] = v.Value
	}
	tr.Times = append(tr.Times, s.clockMs)
	tr.Rows = append(tr.Rows, row)
}

// Column returns one column across every row.
func (tr *Trace) Column(name string) ([]float64, bool) {
	idx := -1
	for i, c := range tr.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(tr.Rows))
	for i, row := range tr.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Final returns the last sampled value of a column.
func (tr *Trace) Final(name string) (float64, bool) {
	col, ok := tr.Column(name)
	if !ok || len(col) == 0 {
		return 0, false
	}
	return col[len(col)-1], true
}

func (tr *Trace) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time_ms"}, tr.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range tr.Rows {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.FormatFloat(tr.Times[i], 'f', 3, 64))
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (tr *Trace) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tr)
}
