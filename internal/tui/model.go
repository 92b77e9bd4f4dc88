package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/motionlab/internal/interp"
	"github.com/san-kum/motionlab/internal/scene"
)

const (
	historyLen = 48
	barWidth   = 28
	nameWidth  = 18
)

// Controller forwards input to whatever owns the scene.
type Controller interface {
	Send(machine, event string) error
	Refresh() error
}

type MachineState struct {
	Name    string
	State   string
	Events  []string
	Enabled []bool
}

// Snapshot is everything the view needs from one frame.
type Snapshot struct {
	ClockMs  float64
	Frames   uint64
	Active   bool
	Values   []scene.Value
	Machines []MachineState
}

// TakeSnapshot reads sc. Call it on the goroutine that owns sc.
func TakeSnapshot(sc *scene.Scene, active bool, frames uint64) Snapshot {
	snap := Snapshot{
		ClockMs: sc.ClockMs(),
		Frames:  frames,
		Active:  active,
		Values:  sc.Sample(),
	}
	for _, name := range sc.Machines() {
		st, _ := sc.State(name)
		ms := MachineState{Name: name, State: string(st)}
		for _, ev := range sc.Events(name) {
			ms.Events = append(ms.Events, string(ev))
			ms.Enabled = append(ms.Enabled, sc.CanSend(name, string(ev)))
		}
		snap.Machines = append(snap.Machines, ms)
	}
	return snap
}

type frameMsg Snapshot

type errMsg struct{ err error }

type Model struct {
	title string
	ctrl  Controller

	snap     Snapshot
	history  map[string][]float64
	ranges   map[string]interp.Range
	selected int
	theme    int
	width    int
	err      error
}

func NewModel(title string, ctrl Controller, theme string) Model {
	return Model{
		title:   title,
		ctrl:    ctrl,
		history: make(map[string][]float64),
		ranges:  make(map[string]interp.Range),
		theme:   themeIndex(theme),
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return m.command(m.ctrl.Refresh)
}

func (m Model) command(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case frameMsg:
		m.apply(Snapshot(msg))
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.snap.Machines)
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "tab":
		if n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case "shift+tab":
		if n > 0 {
			m.selected = (m.selected + n - 1) % n
		}
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if m.selected >= n {
			return m, nil
		}
		ms := m.snap.Machines[m.selected]
		idx := int(key[0] - '1')
		if idx >= len(ms.Events) {
			return m, nil
		}
		machine, event := ms.Name, ms.Events[idx]
		return m, m.command(func() error { return m.ctrl.Send(machine, event) })
	}
	return m, nil
}

// apply stores a snapshot and extends each column's history. Ranges only
// ever widen so bars do not jump as values settle.
func (m *Model) apply(s Snapshot) {
	m.snap = s
	if m.selected >= len(s.Machines) {
		m.selected = 0
	}

	// Map values are shared with earlier copies of the model; replace rather
	// than append in place.
	history := make(map[string][]float64, len(s.Values))
	ranges := make(map[string]interp.Range, len(s.Values))
	for _, v := range s.Values {
		h := append(append([]float64(nil), m.history[v.Name]...), v.Value)
		if len(h) > historyLen {
			h = h[len(h)-historyLen:]
		}
		history[v.Name] = h

		r, ok := m.ranges[v.Name]
		if !ok {
			r = interp.SafeRange(math.Min(0, v.Value), math.Max(1, v.Value))
		}
		ranges[v.Name] = interp.SafeRange(math.Min(r.Min, v.Value), math.Max(r.Max, v.Value))
	}
	m.history = history
	m.ranges = ranges
}

func (m Model) Theme() Theme { return Themes[m.theme] }
func (m Model) Err() error   { return m.err }

func (m Model) View() string {
	th := m.Theme()
	var b strings.Builder

	status := fg(th.Muted).Render("○ idle")
	if m.snap.Active {
		status = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.Secondary)).Render("● animating")
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.Primary)).Render("motionlab · " + m.title)
	b.WriteString(fmt.Sprintf("%s  %s  %s\n\n", title, status,
		fg(th.Muted).Render(fmt.Sprintf("t=%.0fms  frames=%d", m.snap.ClockMs, m.snap.Frames))))

	label := lipgloss.NewStyle().Width(nameWidth).Foreground(lipgloss.Color(th.Text))
	kind := fg(th.Muted)
	for _, v := range m.snap.Values {
		r := m.ranges[v.Name]
		b.WriteString(label.Render(v.Name))
		b.WriteString(" ")
		b.WriteString(Bar(r.Normalize(v.Value), barWidth, th))
		b.WriteString(fmt.Sprintf(" %9.3f ", v.Value))
		b.WriteString(Sparkline(m.history[v.Name], r, historyLen/2, th))
		b.WriteString(" " + kind.Render(string(v.Kind)) + "\n")
	}

	if len(m.snap.Machines) > 0 {
		b.WriteString("\n")
	}
	for i, ms := range m.snap.Machines {
		marker := "  "
		name := fg(th.Text)
		if i == m.selected {
			marker = fg(th.Accent).Render("▸ ")
			name = name.Bold(true)
		}
		b.WriteString(marker + name.Render(ms.Name) + " " + fg(th.Primary).Render("["+ms.State+"]"))
		for j, ev := range ms.Events {
			style := fg(th.Secondary)
			if !ms.Enabled[j] {
				style = fg(th.Muted).Strikethrough(true)
			}
			if i == m.selected && j < 9 {
				b.WriteString(fmt.Sprintf("  %s %s", fg(th.Accent).Render(fmt.Sprintf("%d", j+1)), style.Render(ev)))
			} else {
				b.WriteString("  " + style.Render(ev))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + fg(th.Muted).Italic(true).Render("1-9 send · tab machine · t theme ("+th.Name+") · q quit") + "\n")
	if m.err != nil {
		b.WriteString(fg(th.Warning).Render(m.err.Error()) + "\n")
	}
	return b.String()
}
