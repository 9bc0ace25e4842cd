package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/api"
	"github.com/travigo/multimodal/pkg/bookings"
	"github.com/travigo/multimodal/pkg/events"
	"github.com/travigo/multimodal/pkg/planner"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRAVIGO_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRAVIGO_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "travigo-multimodal",
		Description: "Train and flight itinerary search and booking services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			planner.RegisterCLI(),
			events.RegisterCLI(),
			bookings.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
