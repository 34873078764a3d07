// Command events tails the chat analytics stream and prints a running
// summary. Useful for watching a deployment without a dashboard.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"ai-places-be/internal/config"
	"ai-places-be/pkg/events"
	"ai-places-be/pkg/nats"
)

type counters struct {
	mu        sync.Mutex
	completed int
	failed    int
	ingested  int
	cached    int
}

func main() {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("NATS_URL is not set")
	}

	sub, err := nats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	var c counters
	err = sub.Subscribe("chat.events.>", "events-tail", func(ctx context.Context, event events.Event) error {
		c.mu.Lock()
		defer c.mu.Unlock()

		switch event.EventType() {
		case events.TypeChatCompleted:
			c.completed++
			if cached, _ := event.Payload()["cached"].(bool); cached {
				c.cached++
			}
			log.Printf("chat completed: intent=%v totalMs=%v degraded=%v",
				event.Payload()["intent"], event.Payload()["totalMs"], event.Payload()["degraded"])
		case events.TypeChatFailed:
			c.failed++
			log.Printf("chat failed: kind=%v correlationId=%v",
				event.Payload()["kind"], event.Payload()["correlationId"])
		case events.TypePlaceIngested:
			c.ingested++
			log.Printf("place ingested: placeId=%v dims=%v",
				event.Payload()["placeId"], event.Payload()["dimensions"])
		default:
			log.Printf("event %s: %v", event.EventType(), event.Payload())
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			c.mu.Lock()
			log.Printf("summary: completed=%d (cached=%d) failed=%d ingested=%d",
				c.completed, c.cached, c.failed, c.ingested)
			c.mu.Unlock()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("shutting down")
}
