package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"welth/internal/logger"
)

const (
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
	prefetchCount  = 20
	minRetryDelay  = time.Second
)

var errChannelUnavailable = errors.New("AMQP channel unavailable: connection lost")

// AMQPClient publishes and consumes RecurringEvents on a durable queue bound
// to a direct exchange. Throttled events are parked on a delay queue whose
// expired messages dead-letter back onto the main queue.
type AMQPClient struct {
	url            string
	exchangeName   string
	queueName      string
	delayQueueName string

	// mu guards conn and channel, which Consume swaps on reconnect while
	// Dispatch may be publishing from another goroutine.
	mu      sync.RWMutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewAMQPClient dials the broker and declares the exchange, queues and binding.
func NewAMQPClient(url, exchangeName, queueName string) (*AMQPClient, error) {
	c := &AMQPClient{
		url:            url,
		exchangeName:   exchangeName,
		queueName:      queueName,
		delayQueueName: queueName + ".delay",
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *AMQPClient) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := c.setup(channel); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = channel
	c.mu.Unlock()
	return nil
}

func (c *AMQPClient) setup(channel *amqp091.Channel) error {
	err := channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	_, err = channel.QueueDeclare(
		c.delayQueueName, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		amqp091.Table{
			"x-dead-letter-exchange":    c.exchangeName,
			"x-dead-letter-routing-key": c.queueName,
		},
	)
	if err != nil {
		return fmt.Errorf("declare delay queue: %w", err)
	}

	if err := channel.Qos(prefetchCount, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	return nil
}

func (c *AMQPClient) current() (*amqp091.Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.channel == nil || c.channel.IsClosed() {
		return nil, errChannelUnavailable
	}
	return c.channel, nil
}

// Dispatch publishes each event as a persistent message. It implements Dispatcher.
func (c *AMQPClient) Dispatch(ctx context.Context, events []RecurringEvent) error {
	for _, ev := range events {
		if err := c.publish(ctx, c.exchangeName, c.queueName, ev, 0); err != nil {
			return err
		}
	}
	return nil
}

// deferEvent parks ev on the delay queue for delay before it is redelivered.
func (c *AMQPClient) deferEvent(ctx context.Context, ev RecurringEvent, delay time.Duration) error {
	return c.publish(ctx, "", c.delayQueueName, ev, delay)
}

func (c *AMQPClient) publish(ctx context.Context, exchange, routingKey string, ev RecurringEvent, ttl time.Duration) error {
	body, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	channel, err := c.current()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    ev.Timestamp,
		MessageId:    ev.TransactionID,
		Body:         body,
	}
	if ttl > 0 {
		msg.Expiration = expiration(ttl)
	}

	err = channel.PublishWithContext(
		ctx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	logger.Named("amqp").Debugw("published recurring event",
		"transaction_id", ev.TransactionID,
		"user_id", ev.UserID,
		"queue", routingKey,
		"delay", ttl,
	)
	return nil
}

// expiration renders d as a per-message TTL in whole milliseconds, rounded up.
func expiration(d time.Duration) string {
	ms := (d + time.Millisecond - 1) / time.Millisecond
	return strconv.FormatInt(int64(ms), 10)
}

// disposition is what the consumer does with a delivery after handling it.
type disposition int

const (
	dispositionAck disposition = iota
	dispositionDrop
	dispositionRequeue
	dispositionDelay
)

// settle maps a handler result to a disposition. Throttled events are
// delayed rather than requeued so they do not hold up other users.
func settle(err error) (disposition, time.Duration) {
	if err == nil {
		return dispositionAck, 0
	}
	var throttled *ThrottledError
	if errors.As(err, &throttled) {
		return dispositionDelay, max(throttled.RetryAfter, minRetryDelay)
	}
	if Permanent(err) {
		return dispositionDrop, 0
	}
	return dispositionRequeue, 0
}

// Consume delivers events to handler until ctx is done, reconnecting with
// exponential backoff when the broker connection drops. Messages are acked
// after handler succeeds, dropped when the failure is permanent, parked on
// the delay queue when throttled, and requeued otherwise.
func (c *AMQPClient) Consume(ctx context.Context, handler func(context.Context, RecurringEvent) error) error {
	log := logger.Named("amqp")
	attempt := 0

	for {
		err := c.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isConnectionError(err) {
			return err
		}

		wait := exponentialBackoff(attempt)
		attempt++
		log.Warnw("AMQP connection lost, reconnecting", "error", err, "retry_in", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		c.Close()
		if err := c.connect(); err != nil {
			log.Warnw("AMQP reconnect failed", "error", err)
			continue
		}
		attempt = 0
	}
}

func (c *AMQPClient) consumeOnce(ctx context.Context, handler func(context.Context, RecurringEvent) error) error {
	log := logger.Named("amqp")

	channel, err := c.current()
	if err != nil {
		return err
	}

	msgs, err := channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	log.Infow("started consuming recurring events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			log.Infow("stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			ev, err := RecurringEventFromJSON(delivery.Body)
			if err != nil {
				log.Errorw("dropping malformed message", "error", err)
				_ = delivery.Nack(false, false)
				continue
			}

			err = handler(ctx, ev)
			action, delay := settle(err)
			switch action {
			case dispositionAck:
				_ = delivery.Ack(false)
			case dispositionDelay:
				if perr := c.deferEvent(ctx, ev, delay); perr != nil {
					log.Warnw("could not park throttled event, requeueing",
						"error", perr,
						"transaction_id", ev.TransactionID,
					)
					_ = delivery.Nack(false, true)
					continue
				}
				log.Debugw("throttled recurring event parked",
					"transaction_id", ev.TransactionID,
					"user_id", ev.UserID,
					"retry_in", delay,
				)
				_ = delivery.Ack(false)
			default:
				requeue := action == dispositionRequeue
				log.Errorw("failed to handle recurring event",
					"error", err,
					"transaction_id", ev.TransactionID,
					"user_id", ev.UserID,
					"requeue", requeue,
				)
				_ = delivery.Nack(false, requeue)
			}
		}
	}
}

// Close closes the channel and connection.
func (c *AMQPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// exponentialBackoff returns 1s, 2s, 4s ... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection", "channel closed", "eof", "broken pipe"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
