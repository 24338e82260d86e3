package main

import (
	"github.com/alecthomas/kong"

	"github.com/lox/evopoker/cmd/evopoker/shared"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging"`

	Run       RunCmd       `cmd:"" help:"Run an evolution experiment and persist its history"`
	Dashboard DashboardCmd `cmd:"" help:"Browse a stored run in the terminal"`
	Watch     WatchCmd     `cmd:"" help:"Follow a live run over WebSocket"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("evopoker"),
		kong.Description("Evolves betting and calling policies for one-card poker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	logger := shared.SetupLogger(cli.Debug)
	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
