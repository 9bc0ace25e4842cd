package events

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/consumer"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/elastic_client"
	"github.com/travigo/multimodal/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Provides the events runner",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "index search and booking events into Elasticsearch",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stats-listen",
						Value: consumer.DefaultStatsAddress,
						Usage: "listen target for the queue stats server, empty to disable",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(true); err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       QueueName,
						NumberConsumers: 5,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewEventsBatchConsumer(),
						StatsAddress:    c.String("stats-listen"),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish
					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
			{
				Name:  "test-event",
				Usage: "publish a test search event",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					publisher, err := NewQueuePublisher(redis_client.QueueConnection)
					if err != nil {
						return err
					}

					if err := publisher.Publish(ctdf.EventTypeMultimodalSearchCompleted, ctdf.SearchEventBody{
						OriginRef:      "TEST:ORIGIN",
						DestinationRef: "TEST:DESTINATION",
						DepartureAfter: time.Now(),
					}); err != nil {
						return err
					}

					log.Info().Str("queue", QueueName).Msg("Published test event")

					return nil
				},
			},
		},
	}
}
