package mq

import (
	"context"
	"encoding/json"
	"log"

	"voyago/models"
	"voyago/rdx"
)

const channel = "availability-events"

// Emit publishes an availability change event to Redis. Failures are logged
// and swallowed; event delivery is best-effort and must never block or fail
// a booking path.
func Emit(ctx context.Context, event models.AvailabilityEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
	}
}

// StartEventWorker subscribes to availability events and hands each one to fn.
// Runs until the subscription channel closes; start it in a goroutine.
func StartEventWorker(fn func(models.AvailabilityEvent)) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[EventWorker] Listening for availability events...")

	for msg := range ch {
		var event models.AvailabilityEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[EventWorker] Failed to parse event: %v", err)
			continue
		}
		fn(event)
	}
}
