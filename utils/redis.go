package utils

import (
	"context"
	"log"
	"time"

	"payflow/config"

	"github.com/go-redis/redis/v8"
)

// QueueClient is the Redis client backing the sweep queue and health checks.
var QueueClient *redis.Client

// InitRedis initializes the Redis client for the sweep queue DB.
func InitRedis() {
	QueueClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := QueueClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
}

// GetQueueClient returns the Redis client for the sweep queue.
func GetQueueClient() *redis.Client {
	if QueueClient == nil {
		InitRedis()
	}
	return QueueClient
}
