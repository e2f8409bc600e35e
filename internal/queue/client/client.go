package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rabbitmq/amqp091-go"
)

// A common interface for queue clients regardless if it's a SQS, RabbitMQ, etc.
type QueueClient interface {
	PublishMessage(ctx context.Context, messageBody string) error
	Ping() error
	GetQueueName() string
	Stop() error
}

type RabbitMqClient struct {
	connection *amqp091.Connection
	channel    *amqp091.Channel
	queueName  string
}

func NewQueueClient(queueURL, user, pass, queueName string) (QueueClient, error) {
	amqpURI := fmt.Sprintf("amqp://%s:%s@%s", url.QueryEscape(user), url.QueryEscape(pass), queueURL)

	conn, err := amqp091.Dial(amqpURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Durable queue: reconciliation events must survive broker restarts.
	_, err = ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &RabbitMqClient{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
	}, nil
}

func (c *RabbitMqClient) PublishMessage(ctx context.Context, messageBody string) error {
	return c.channel.PublishWithContext(
		ctx,
		"",          // default exchange
		c.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         []byte(messageBody),
			DeliveryMode: amqp091.Persistent,
		},
	)
}

func (c *RabbitMqClient) Ping() error {
	if c.connection.IsClosed() {
		return fmt.Errorf("rabbitmq connection is closed")
	}
	if c.channel.IsClosed() {
		return fmt.Errorf("rabbitmq channel is closed")
	}
	return nil
}

func (c *RabbitMqClient) GetQueueName() string {
	return c.queueName
}

func (c *RabbitMqClient) Stop() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	if err := c.connection.Close(); err != nil {
		return err
	}
	return nil
}
