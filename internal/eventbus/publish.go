package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"

	"github.com/open-ladder/ranksync/internal/attr"
)

// PublishJSON marshals payload and publishes it to topic, carrying the
// context's correlation ID into the message metadata. Publishers outside the
// handler wrapper (queue workers, the notification sink) emit through this.
func PublishJSON(ctx context.Context, publisher message.Publisher, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload for %s: %w", topic, err)
	}

	msg := message.NewMessage(uuid.New().String(), data)
	msg.SetContext(ctx)
	if correlationID := attr.CorrelationIDFromContext(ctx); correlationID != "" {
		middleware.SetCorrelationID(correlationID, msg)
	}
	return publisher.Publish(topic, msg)
}
