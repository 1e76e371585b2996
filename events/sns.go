package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yashrajoria/sneakershop/models"
	aws_pkg "github.com/yashrajoria/sneakershop/pkg/aws"
)

type SNSPublisher struct {
	client   aws_pkg.SNSPublisher
	topicArn string
}

func NewSNSPublisher(client aws_pkg.SNSPublisher, topicArn string) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn}
}

func (p *SNSPublisher) PublishOrderConfirmed(ctx context.Context, event models.OrderConfirmedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	return p.client.Publish(ctx, p.topicArn, data)
}

func (p *SNSPublisher) Close() error { return nil }
