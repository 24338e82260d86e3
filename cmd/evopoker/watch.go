package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/evopoker/internal/dashboard"
	"github.com/lox/evopoker/internal/live"
)

type WatchCmd struct {
	URL string `arg:"" help:"Address of a running experiment, e.g. ws://host:9090/ws"`
}

func (c *WatchCmd) Run(logger *log.Logger) error {
	client, err := live.Dial(c.URL, logger)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", c.URL, err)
	}
	defer client.Close()

	// The hello frame carries the run config the dashboard needs.
	ev, ok := <-client.Events()
	if !ok {
		return fmt.Errorf("connection to %s closed before hello", c.URL)
	}
	if ev.Err != nil {
		return ev.Err
	}
	if ev.Hello == nil {
		return fmt.Errorf("expected hello from %s", c.URL)
	}

	model, err := dashboard.NewLiveModel(ev.Hello.Config)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	go func() {
		for ev := range client.Events() {
			switch {
			case ev.Err != nil:
				logger.Error("stream error", "err", ev.Err)
				return
			case ev.Snapshot != nil:
				p.Send(dashboard.SnapshotMsg{Snapshot: ev.Snapshot})
			case ev.Complete != nil:
				p.Send(dashboard.CompleteMsg{})
			}
		}
	}()

	_, err = p.Run()
	return err
}
