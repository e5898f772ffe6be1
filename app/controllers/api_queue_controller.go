package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ForumBots/HookRelay/internal/pkg/jobqueue"
)

// HandleQueueStats returns the current queue sizes and per-status job
// counts. Operator surface; protected by basic auth on the admin group.
func HandleQueueStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	queue := jobqueue.GetManager().GetQueue()

	pending, err := queue.GetQueueSize(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to read queue size"})
	}
	processing, err := queue.GetProcessingSize(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to read processing size"})
	}
	stats, err := queue.GetJobStats(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to read job stats"})
	}

	return c.JSON(fiber.Map{
		"running":         jobqueue.GetManager().IsRunning(),
		"pending_size":    pending,
		"processing_size": processing,
		"job_stats":       stats,
		"timestamp":       time.Now().Unix(),
	})
}
