package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/bookings"
	"github.com/travigo/multimodal/pkg/dataaggregator/global"
	"github.com/travigo/multimodal/pkg/database"
	"github.com/travigo/multimodal/pkg/events"
	"github.com/travigo/multimodal/pkg/junction"
	"github.com/travigo/multimodal/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the multimodal web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.BoolFlag{
						Name:  "no-bookings",
						Usage: "serve searches only, without MongoDB or the bookings routes",
					},
				},
				Action: func(c *cli.Context) error {
					junctionClient, err := junction.NewClientFromEnvironment()
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						log.Warn().Err(err).Msg("Continuing without Redis")
					}

					if err := global.Setup(junctionClient); err != nil {
						return err
					}

					services := Services{}

					if redis_client.QueueConnection != nil {
						publisher, err := events.NewQueuePublisher(redis_client.QueueConnection)
						if err != nil {
							return err
						}
						services.Events = publisher
					}

					if !c.Bool("no-bookings") {
						if err := database.Connect(); err != nil {
							return err
						}

						services.Bookings = &bookings.Service{
							Repository: &bookings.MongoRepository{Collection: database.GetCollection(database.BookingsCollection)},
							Upstream:   junctionClient,
							Events:     services.Events,
						}
					}

					return SetupServer(c.String("listen"), services)
				},
			},
		},
	}
}
