package models

import "time"

const (
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusFailed    = "failed"
)

// WebhookDelivery is the audit record of one delivery attempt to one
// subscription. The notify job writes one row per recipient after the
// attempt, successful or not.
type WebhookDelivery struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	JobID             string    `gorm:"type:varchar(36);index" json:"job_id"`
	BotSubscriptionID string    `gorm:"type:varchar(36);index" json:"bot_subscription_id"`
	EventType         string    `gorm:"type:varchar(50);not null;index" json:"event_type"`
	ContentType       string    `gorm:"type:varchar(50);not null" json:"content_type"`
	ContentID         uint      `gorm:"not null" json:"content_id"`
	Status            string    `gorm:"type:varchar(20);not null;index" json:"status"`
	HTTPStatus        int       `json:"http_status"`
	Error             string    `gorm:"type:text" json:"error,omitempty"`
	DurationMs        int64     `json:"duration_ms"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// DeliveryStat holds per-subscription delivery totals. Increments are
// buffered in Redis and flushed here in batches by the queue manager.
type DeliveryStat struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	BotSubscriptionID string    `gorm:"uniqueIndex;type:varchar(36);not null" json:"bot_subscription_id"`
	DeliveredCount    int64     `gorm:"default:0" json:"delivered_count"`
	FailedCount       int64     `gorm:"default:0" json:"failed_count"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
