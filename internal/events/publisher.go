// Package events forwards committed alerts to external consumers.
package events

import (
	"context"
	"strings"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// AlertPublisher delivers alerts after they are committed. Delivery is
// best effort and never affects the ingestion outcome.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *models.Alert) error
}

// Noop drops every alert.
type Noop struct{}

func (Noop) PublishAlert(context.Context, *models.Alert) error { return nil }

// RedisAlertPublisher appends alerts to a capped Redis stream.
type RedisAlertPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisAlertPublisher(client *redis.Client, stream string, maxLen int64) *RedisAlertPublisher {
	stream = strings.TrimSpace(stream)
	if stream == "" {
		stream = "apiary:alerts"
	}
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &RedisAlertPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *RedisAlertPublisher) PublishAlert(ctx context.Context, alert *models.Alert) error {
	readingID := ""
	if alert.ReadingID != nil {
		readingID = *alert.ReadingID
	}
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"alert_id":   alert.ID,
			"hive_id":    alert.HiveID,
			"reading_id": readingID,
			"level":      string(alert.Level),
			"message":    alert.Message,
			"created_at": alert.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
}

// Forwarder adapts a publisher to the ingest alert hook, logging failures.
func Forwarder(p AlertPublisher, timeout time.Duration) func(alert *models.Alert) {
	return func(alert *models.Alert) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := p.PublishAlert(ctx, alert); err != nil {
			nuts.L.Warnf("[Events] Failed to publish alert %s: %v", alert.ID, err)
		}
	}
}
