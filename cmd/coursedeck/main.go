package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/jrsteele09/coursedeck/cmd/coursedeck/account"
	"github.com/jrsteele09/coursedeck/cmd/coursedeck/courses"
)

func main() {
	app := &cli.App{
		Name:  "coursedeck",
		Usage: "Browse courses and manage your coursedeck account",
		Commands: []*cli.Command{
			account.Cmd(),
			courses.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
