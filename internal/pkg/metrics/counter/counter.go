// Package counter buffers per-subscription delivery counters in Redis and
// flushes them to the database in batches, so the hot delivery path never
// writes counter rows synchronously.
package counter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ForumBots/HookRelay/internal/pkg/cache"
	"github.com/ForumBots/HookRelay/internal/pkg/database"
)

const (
	deliveredKey = "webhook:counters:delivered"
	failedKey    = "webhook:counters:failed"
)

// AddDelivered increments the pending delivered counter for a subscription
func AddDelivered(subscriptionID string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, deliveredKey, subscriptionID, 1).Err()
}

// AddFailed increments the pending failed counter for a subscription
func AddFailed(subscriptionID string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, failedKey, subscriptionID, 1).Err()
}

// FlushAll flushes both counters to the delivery_stats table
func FlushAll() error {
	if err := flushHashToColumn(deliveredKey, "delivered_count"); err != nil {
		return err
	}
	return flushHashToColumn(failedKey, "failed_count")
}

// flushHashToColumn drains a Redis hash atomically and applies the buffered
// increments to delivery_stats. RENAME to a temporary key keeps in-flight
// increments from being lost during the drain.
func flushHashToColumn(redisKey, column string) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// Missing key means nothing to flush
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "no such key") || err.Error() == "redis: nil" {
			return nil
		}
		return err
	}

	// Ensure cleanup of tmpKey even if later steps fail
	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	for subscriptionID, inc := range data {
		sql := fmt.Sprintf(
			"INSERT INTO delivery_stats (bot_subscription_id, %s, updated_at) VALUES (?, ?, NOW()) "+
				"ON DUPLICATE KEY UPDATE %s = %s + VALUES(%s), updated_at = NOW()",
			column, column, column, column,
		)
		if err := db.Exec(sql, subscriptionID, inc).Error; err != nil {
			return fmt.Errorf("failed to flush %s for subscription %s: %w", column, subscriptionID, err)
		}
	}

	return nil
}
