package planner

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/dataaggregator"
	"github.com/travigo/multimodal/pkg/dataaggregator/global"
	"github.com/travigo/multimodal/pkg/dataaggregator/query"
	"github.com/travigo/multimodal/pkg/itinerary"
	"github.com/travigo/multimodal/pkg/junction"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "planner",
		Usage: "Run multimodal searches from the command line",
		Subcommands: []*cli.Command{
			{
				Name:  "plan",
				Usage: "search train and flight itineraries between two places",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "origin", Required: true, Usage: "origin place ID"},
					&cli.StringFlag{Name: "origin-name", Required: true, Usage: "origin display name"},
					&cli.StringFlag{Name: "origin-city", Usage: "origin city"},
					&cli.StringFlag{Name: "destination", Required: true, Usage: "destination place ID"},
					&cli.StringFlag{Name: "destination-name", Required: true, Usage: "destination display name"},
					&cli.StringFlag{Name: "destination-city", Usage: "destination city"},
					&cli.TimestampFlag{Name: "datetime", Layout: time.RFC3339, Usage: "earliest departure, defaults to now"},
					&cli.StringSliceFlag{Name: "dob", Required: true, Usage: "passenger date of birth (YYYY-MM-DD), repeatable"},
					&cli.StringFlag{Name: "filter", Usage: "expression every itinerary must satisfy"},
					&cli.IntFlag{Name: "count", Usage: "maximum itineraries to print, 0 for all"},
					&cli.BoolFlag{Name: "pretty", Usage: "print Go values instead of JSON"},
				},
				Action: func(c *cli.Context) error {
					if err := setup(); err != nil {
						return err
					}

					departureAfter := time.Now()
					if timestamp := c.Timestamp("datetime"); timestamp != nil {
						departureAfter = *timestamp
					}

					results, err := dataaggregator.Lookup[*ctdf.MultimodalSearchResults](c.Context, query.MultimodalSearch{
						Origin: &ctdf.Place{
							PrimaryIdentifier: c.String("origin"),
							PrimaryName:       c.String("origin-name"),
							CityName:          c.String("origin-city"),
						},
						Destination: &ctdf.Place{
							PrimaryIdentifier: c.String("destination"),
							PrimaryName:       c.String("destination-name"),
							CityName:          c.String("destination-city"),
						},
						DepartureAfter: departureAfter,
						PassengerDOBs:  c.StringSlice("dob"),
					})
					if err != nil {
						return err
					}

					filterOptions := itinerary.NewFilterOptions()
					filterOptions.Expression = c.String("filter")
					filterOptions.Count = c.Int("count")

					results.Itineraries, err = itinerary.Filter(results.Itineraries, filterOptions)
					if err != nil {
						return err
					}

					if results.Partial() {
						log.Warn().Interface("failures", results.Failures).Msg("Search returned partial results")
					}

					return output(results, c.Bool("pretty"))
				},
			},
			{
				Name:  "places",
				Usage: "look up place IDs by name",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.IntFlag{Name: "limit", Value: junction.DefaultPlacesLimit},
					&cli.BoolFlag{Name: "pretty", Usage: "print Go values instead of JSON"},
				},
				Action: func(c *cli.Context) error {
					if err := setup(); err != nil {
						return err
					}

					places, err := dataaggregator.Lookup[[]ctdf.Place](c.Context, query.Places{
						Name:  c.String("name"),
						Limit: c.Int("limit"),
					})
					if err != nil {
						return err
					}

					return output(places, c.Bool("pretty"))
				},
			},
		},
	}
}

func setup() error {
	client, err := junction.NewClientFromEnvironment()
	if err != nil {
		return err
	}

	return global.Setup(client)
}

func output(value any, prettyPrint bool) error {
	if prettyPrint {
		_, err := pretty.Println(value)
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	return nil
}
