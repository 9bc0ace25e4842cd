package consumer

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/redis_client"
)

const DefaultStatsAddress = ":3333"

type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	Consumer rmq.BatchConsumer

	// Empty disables the stats server
	StatsAddress string
}

func (c *RedisConsumer) Setup() error {
	if redis_client.QueueConnection == nil {
		return errors.New("redis queue connection not set up")
	}

	if err := c.startConsumers(redis_client.QueueConnection); err != nil {
		return err
	}

	if c.StatsAddress != "" {
		go c.startStatsServer()
	}

	return nil
}

func (c *RedisConsumer) startConsumers(connection rmq.Connection) error {
	log.Info().Str("queue", c.QueueName).Msg("Starting consumers")

	queue, err := connection.OpenQueue(c.QueueName)
	if err != nil {
		return err
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), 1*time.Second); err != nil {
		return err
	}

	for i := 0; i < c.NumberConsumers; i++ {
		log.Info().Msgf("Starting %s consumer %d", c.QueueName, i)

		if _, err := queue.AddBatchConsumer(fmt.Sprintf("%s-%d", c.QueueName, i), int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			return err
		}
	}

	return nil
}

func (c *RedisConsumer) startStatsServer() {
	mux := http.NewServeMux()

	endpoint := fmt.Sprintf("/%s/stats", c.QueueName)
	mux.Handle(endpoint, NewStatsHandler(redis_client.QueueConnection))
	mux.Handle("/health", NewHealthHandler())

	log.Info().Msgf("Stats server listening on %s%s", c.StatsAddress, endpoint)
	if err := http.ListenAndServe(c.StatsAddress, mux); err != nil {
		log.Error().Err(err).Msg("Stats server stopped")
	}
}
