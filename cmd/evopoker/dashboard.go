package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/evopoker/internal/dashboard"
	"github.com/lox/evopoker/internal/history"
)

type DashboardCmd struct {
	Dir string `arg:"" help:"Run directory to browse" type:"existingdir"`
}

func (c *DashboardCmd) Run(logger *log.Logger) error {
	run, err := history.Open(c.Dir)
	if err != nil {
		return err
	}

	model, err := dashboard.NewModel(dashboard.NewRunSource(run))
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
