package mq

import (
	"context"
	"encoding/json"
	"log"

	"campora/models"
	"campora/rdx"
)

// Notify logs a domain event. Kept separate from Emit so call sites that only
// need operational visibility don't touch Redis.
func Notify(eventName string, content models.Index) error {
	log.Printf("[mq] %s %+v", eventName, content)
	return nil
}

// Emit publishes an indexing event to the Redis channel consumed by
// StartIndexingWorker.
func Emit(ctx context.Context, eventName string, content models.Index) {
	if rdx.Conn == nil {
		return
	}
	content.Method = eventName
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, "market-events", data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
	}
}

// StartIndexingWorker drains the event channel. Purely observational; no
// invariant is enforced here.
func StartIndexingWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, "market-events")
	ch := sub.Channel()

	log.Println("[IndexingWorker] Listening for market events...")

	for msg := range ch {
		var event models.Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[IndexingWorker] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[IndexingWorker] event=%+v", event)
	}
}
