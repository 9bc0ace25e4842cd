package events

import (
	"encoding/json"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/ctdf"
)

const QueueName = "multimodal-events"

// QueuePublisher pushes events onto the Redis events queue. A nil publisher discards events.
type QueuePublisher struct {
	queue rmq.Queue
}

func NewQueuePublisher(connection rmq.Connection) (*QueuePublisher, error) {
	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, err
	}

	return &QueuePublisher{queue: queue}, nil
}

func (p *QueuePublisher) Publish(eventType ctdf.EventType, body any) error {
	if p == nil {
		return nil
	}

	event := ctdf.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Body:      body,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.queue.PublishBytes(eventBytes); err != nil {
		return err
	}

	log.Debug().Str("type", string(eventType)).Str("id", event.ID).Msg("Published event")

	return nil
}
