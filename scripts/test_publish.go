//go:build ignore

// Публикует тестовые записи о вызовах инструментов в stream:tool:metrics
// и ждёт, пока воркер подтвердит их обработку.
//
//	go run scripts/test_publish.go -redis localhost:6379 -n 5
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const stream = "stream:tool:metrics"

type toolMetric struct {
	ID              uuid.UUID              `json:"id"`
	ToolName        string                 `json:"tool_name"`
	Status          string                 `json:"status"`
	DurationSeconds float64                `json:"duration_seconds"`
	Context         map[string]interface{} `json:"context"`
	ResultCount     *int                   `json:"result_count,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	group := flag.String("group", "tool-metrics-writers", "Worker consumer group")
	count := flag.Int("n", 3, "Number of records to publish")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	tools := []string{"positions_autocomplete", "search_day_results", "search_calendar_prices"}
	for i := 0; i < *count; i++ {
		results := i + 1
		metric := toolMetric{
			ID:              uuid.New(),
			ToolName:        tools[i%len(tools)],
			Status:          "success",
			DurationSeconds: 0.1 * float64(i+1),
			Context:         map[string]interface{}{"from_term": "Paris", "to_term": "Berlin"},
			ResultCount:     &results,
			CreatedAt:       time.Now().UTC(),
		}

		data, err := json.Marshal(metric)
		if err != nil {
			log.Fatalf("Failed to marshal metric: %v", err)
		}

		id, err := client.XAdd(ctx, &redis.XAddArgs{
			Stream: stream,
			Values: map[string]interface{}{"data": string(data)},
		}).Result()
		if err != nil {
			log.Fatalf("Failed to publish metric: %v", err)
		}
		fmt.Printf("published %s tool=%s id=%s\n", id, metric.ToolName, metric.ID)
	}

	fmt.Printf("waiting for group %q to acknowledge...\n", *group)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("timeout waiting for the worker")
			return
		case <-ticker.C:
			groups, err := client.XInfoGroups(ctx, stream).Result()
			if err != nil {
				continue
			}
			for _, g := range groups {
				if g.Name == *group && g.Pending == 0 && g.EntriesRead > 0 {
					fmt.Printf("all records acknowledged (lag %d)\n", g.Lag)
					return
				}
			}
		}
	}
}
