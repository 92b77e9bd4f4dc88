package tui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/motionlab/internal/scene"
	"github.com/san-kum/motionlab/internal/scheduler"
)

type Options struct {
	FPS    int
	Theme  string
	Logger *slog.Logger
}

type driverController struct {
	d  *scheduler.Driver
	sc *scene.Scene
}

func (c driverController) Send(machine, event string) error {
	return c.d.Do(func(*scheduler.Scheduler) { c.sc.Send(machine, event) })
}

func (c driverController) Refresh() error {
	return c.d.Do(func(*scheduler.Scheduler) {})
}

// Run drives sc in real time and shows it until the user quits or ctx is
// cancelled. Scripted events are disabled; input comes from the keyboard.
func Run(ctx context.Context, sc *scene.Scene, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sc.SetScripted(false)

	var (
		p *tea.Program
		d *scheduler.Driver
	)
	d = scheduler.NewDriver(sc.Scheduler(), scheduler.DriverConfig{
		FPS:    opts.FPS,
		Logger: opts.Logger,
		OnFrame: func(_ *scheduler.Scheduler, active bool) {
			p.Send(frameMsg(TakeSnapshot(sc, active, d.Frames())))
		},
	})

	m := NewModel(sc.Config().Name, driverController{d: d, sc: sc}, opts.Theme)
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()

	final, err := p.Run()
	cancel()
	derr := <-errc

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	if derr != nil && !errors.Is(derr, context.Canceled) {
		return derr
	}
	return nil
}
