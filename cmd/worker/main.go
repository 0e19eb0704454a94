package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schooladmin/internal/config"
	"schooladmin/internal/notify"
	"schooladmin/internal/queue"
	"schooladmin/internal/store"
)

// Worker consumes domain events from the queue and delivers them to the
// notification webhook.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "")
	}

	webhook := notify.New(cfg.NotifyWebhookURL, cfg.NotifySkip)
	if !webhook.Skip {
		if err := webhook.Health(ctx); err != nil {
			log.Printf("WARNING: notification webhook not available: %v", err)
			log.Println("Worker will retry delivery as events arrive")
		} else {
			log.Println("Notification webhook connected")
		}
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for events...")
	for msg := range messages {
		var payload map[string]any
		if err := json.Unmarshal(msg.Body, &payload); err != nil {
			log.Printf("undecodable %s event dropped", msg.Type)
			continue
		}
		schoolID, _ := payload["school_id"].(string)

		evt := notify.Event{
			Type:       msg.Type,
			SchoolID:   schoolID,
			OccurredAt: time.Now().UTC(),
			Data:       payload,
		}
		if err := webhook.Send(ctx, evt); err != nil {
			log.Printf("deliver %s event failed: %v", msg.Type, err)
			continue
		}
		log.Printf("delivered %s event", msg.Type)
	}

	log.Println("worker stopped")
}
