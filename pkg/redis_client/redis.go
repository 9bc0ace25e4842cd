package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

const queueConnectionTag = "multimodal"

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["TRAVIGO_REDIS_ADDRESS"] != "" {
		address = env["TRAVIGO_REDIS_ADDRESS"]
	}

	if env["TRAVIGO_REDIS_PASSWORD"] != "" {
		password = env["TRAVIGO_REDIS_PASSWORD"]
	}

	if env["TRAVIGO_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["TRAVIGO_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	return ConnectWithOptions(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})
}

// ConnectWithOptions sets up the shared client and queue connection
func ConnectWithOptions(options *redis.Options) error {
	client := redis.NewClient(options)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return err
	}

	errChan := make(chan error, 10)
	go logQueueErrors(errChan)

	queueConnection, err := rmq.OpenConnectionWithRedisClient(queueConnectionTag, client, errChan)
	if err != nil {
		client.Close()
		return err
	}

	Client = client
	QueueConnection = queueConnection

	log.Info().Str("address", options.Addr).Int("database", options.DB).Msg("Redis client setup")

	return nil
}

func logQueueErrors(errChan <-chan error) {
	for err := range errChan {
		log.Error().Err(err).Msg("Redis queue error")
	}
}
