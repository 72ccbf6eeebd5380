package eventservice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wagslane/go-rabbitmq"
)

func (p *MQPublisher) publishJSON(ctx context.Context, routingKey string, msg interface{}, headers rabbitmq.Table) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	p.log.Debug("publicando evento", "routing_key", routingKey, "bytes", len(body))

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.pub.PublishWithContext(
		ctx,
		body,
		[]string{routingKey},
		rabbitmq.WithPublishOptionsContentType("application/json"),
		rabbitmq.WithPublishOptionsExchange(p.exchange),
		rabbitmq.WithPublishOptionsPersistentDelivery,
		rabbitmq.WithPublishOptionsTimestamp(time.Now()),
		rabbitmq.WithPublishOptionsHeaders(headers),
	)
}
