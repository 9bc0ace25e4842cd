package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/ctdf"
	"github.com/travigo/multimodal/pkg/elastic_client"
)

// BatchConsumer writes each event into a daily Elasticsearch index
type BatchConsumer struct {
	Index func(indexName string, document io.ReadSeeker)
}

func NewEventsBatchConsumer() *BatchConsumer {
	return &BatchConsumer{Index: elastic_client.IndexRequest}
}

func IndexName(event *ctdf.Event) string {
	return fmt.Sprintf("multimodal-events-%s-%d-%02d-%02d",
		strings.ToLower(string(event.Type)),
		event.Timestamp.Year(), event.Timestamp.Month(), event.Timestamp.Day(),
	)
}

func (c *BatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	for _, payload := range payloads {
		var event ctdf.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Msg("Failed to decode event")
			continue
		}

		c.Index(IndexName(&event), bytes.NewReader([]byte(payload)))

		log.Debug().Str("type", string(event.Type)).Str("id", event.ID).Msg("Indexed event")
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack event")
		}
	}
}
