package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/streadway/amqp"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends events to a topic exchange using the event type as
// routing key.
type AMQPPublisher struct {
	url      string
	exchange string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	chClosed chan *amqp.Error
	// reopen restores conn and ch; replaced in tests.
	reopen func() error
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange}
	p.reopen = p.restore
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	p.conn = conn
	if err := p.openChannel(); err != nil {
		_ = conn.Close()
		p.conn = nil
		return err
	}
	log.Printf("[events] connected exchange=%s", p.exchange)
	return nil
}

// openChannel opens a fresh channel on the live connection. The broker
// closes a channel on some publish errors while the connection stays up.
func (p *AMQPPublisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("amqp exchange %s: %w", p.exchange, err)
	}
	p.ch = ch
	p.chClosed = ch.NotifyClose(make(chan *amqp.Error, 1))
	return nil
}

func (p *AMQPPublisher) restore() error {
	if p.conn == nil || p.conn.IsClosed() {
		return p.connect()
	}
	return p.openChannel()
}

// channelDead reports whether the broker closed the current channel.
func (p *AMQPPublisher) channelDead() bool {
	if p.ch == nil {
		return true
	}
	select {
	case err := <-p.chClosed:
		log.Printf("[events] channel closed: %v", err)
		return true
	default:
		return false
	}
}

func (p *AMQPPublisher) dropChannel() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	p.ch, p.chClosed = nil, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channelDead() || (p.conn != nil && p.conn.IsClosed()) {
		p.dropChannel()
		if err := p.reopen(); err != nil {
			return err
		}
	}
	err = p.ch.Publish(p.exchange, string(e.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID.String(),
		Timestamp:    e.OccurredAt,
		Type:         string(e.Type),
		Body:         body,
		Headers:      amqp.Table{"order_id": e.OrderID},
	})
	if err != nil {
		p.dropChannel()
		return fmt.Errorf("amqp publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropChannel()
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
