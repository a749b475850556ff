package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans messages out over Redis pub/sub, one channel per
// user. Subscribers (mail bridges, websocket gateways) are out of scope.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher builds a Redis-backed publisher.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

type wireMessage struct {
	Kind      string `json:"notificationType"`
	Subject   string `json:"subject"`
	Body      string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Publish serializes the message and publishes it to the user's channel.
func (p *RedisPublisher) Publish(ctx context.Context, message Message) error {
	payload, err := json.Marshal(wireMessage{
		Kind:      message.Kind,
		Subject:   message.Subject,
		Body:      message.Body,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := p.client.Publish(ctx, message.Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
