package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/khrees2412/mockprep/pkg/models"
)

// Exchange is the topic exchange activity entries are published to
const Exchange = "activity_updates"

// Publisher sends activity entries to RabbitMQ
type Publisher struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

// Dial connects to url and declares the exchange
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	p := &Publisher{conn: conn}
	ch, err := p.channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return p, nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	p.ch = ch
	return ch, nil
}

// RoutingKey returns activity.<type>
func RoutingKey(activityType string) string {
	return "activity." + activityType
}

// PublishActivity publishes a as JSON with routing key activity.<type>
func (p *Publisher) PublishActivity(ctx context.Context, a *models.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(a)
	if err != nil {
		return err
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}

	err = ch.Publish(
		Exchange,
		RoutingKey(a.ActivityType),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    a.ID,
			Timestamp:    a.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		// Drop the channel so the next publish reopens it
		p.mu.Lock()
		p.ch = nil
		p.mu.Unlock()
		return fmt.Errorf("failed to publish activity: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.ch != nil {
		p.ch.Close()
		p.ch = nil
	}
	p.mu.Unlock()
	return p.conn.Close()
}
