package scraperinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobradar/radar/jobsearch/scraper"
	"github.com/jobradar/radar/pkg/kernel"
)

// RedisQueue implements scraper.JobQueue on a Redis list plus a zset for
// delayed items. Only queue item IDs travel over the wire; everything
// else lives in Postgres.
type RedisQueue struct {
	client    *redis.Client
	queueName string
}

func NewRedisQueue(client *redis.Client, queueName string) scraper.JobQueue {
	return &RedisQueue{
		client:    client,
		queueName: queueName,
	}
}

// Enqueue pushes an item ID onto the ready list.
func (q *RedisQueue) Enqueue(ctx context.Context, id kernel.QueueItemID) error {
	if err := q.client.LPush(ctx, q.queueName, id.String()).Err(); err != nil {
		return fmt.Errorf("enqueue item %s: %w", id, err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next ready item ID. A timeout is
// not an error: it returns an empty ID.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (kernel.QueueItemID, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // Nothing ready
		}
		return "", fmt.Errorf("dequeue item: %w", err)
	}
	if len(result) < 2 {
		return "", fmt.Errorf("invalid result from queue: expected 2 elements, got %d", len(result))
	}
	return kernel.QueueItemID(result[1]), nil
}

// EnqueueDelayed schedules an item ID for later processing, used for
// retries with backoff.
func (q *RedisQueue) EnqueueDelayed(ctx context.Context, id kernel.QueueItemID, delay time.Duration) error {
	score := float64(time.Now().Add(delay).Unix())
	delayedQueue := q.queueName + ":delayed"

	if err := q.client.ZAdd(ctx, delayedQueue, redis.Z{
		Score:  score,
		Member: id.String(),
	}).Err(); err != nil {
		return fmt.Errorf("enqueue delayed item %s: %w", id, err)
	}
	return nil
}

// MoveDelayedToReady promotes delayed items whose time has come onto the
// ready list.
func (q *RedisQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	delayedQueue := q.queueName + ":delayed"
	now := float64(time.Now().Unix())

	items, err := q.client.ZRangeByScore(ctx, delayedQueue, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%f", now),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("get delayed items: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	// Pipeline so the promote+remove pair lands together.
	pipe := q.client.Pipeline()
	for _, item := range items {
		pipe.LPush(ctx, q.queueName, item)
		pipe.ZRem(ctx, delayedQueue, item)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("move delayed items to ready: %w", err)
	}
	return len(items), nil
}

// Ping checks Redis connectivity.
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
