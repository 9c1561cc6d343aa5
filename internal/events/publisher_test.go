package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisAlertPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	p := NewRedisAlertPublisher(client, "test:alerts", 100)
	rd := "rd_1"
	alert := &models.Alert{
		ID:        "al_1",
		HiveID:    "hv_1",
		ReadingID: &rd,
		Message:   "too hot",
		Level:     models.AlertLevelCritical,
		CreatedAt: time.Now(),
	}
	require.NoError(t, p.PublishAlert(context.Background(), alert))

	msgs, err := client.XRange(context.Background(), "test:alerts", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "al_1", msgs[0].Values["alert_id"])
	assert.Equal(t, "hv_1", msgs[0].Values["hive_id"])
	assert.Equal(t, "rd_1", msgs[0].Values["reading_id"])
	assert.Equal(t, "critical", msgs[0].Values["level"])
}

func TestForwarderSwallowsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	forward := Forwarder(NewRedisAlertPublisher(client, "", 0), 200*time.Millisecond)
	assert.NotPanics(t, func() {
		forward(&models.Alert{ID: "al_2", HiveID: "hv_1"})
	})
	assert.NoError(t, Noop{}.PublishAlert(context.Background(), nil))
}
