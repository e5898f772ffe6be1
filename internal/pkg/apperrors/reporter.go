package apperrors

import (
	"github.com/gofiber/fiber/v2/log"

	"github.com/ForumBots/HookRelay/internal/pkg/env"
)

// WrapStorage converts a low-level persistence failure into a StorageError
// and logs the raw cause. The returned error only includes the raw detail
// when running in dev mode; production callers get the redacted message.
func WrapStorage(op, entity string, err error) *StorageError {
	if err == nil {
		return nil
	}

	log.Errorf("[Storage] %s on %s failed: %v", op, entity, err)

	return &StorageError{
		Op:     op,
		Entity: entity,
		Err:    err,
		Debug:  env.IsDev(),
	}
}

// ReportDelivery logs a per-recipient delivery failure. The notify job calls
// this for each failed recipient and carries on with the remaining ones.
func ReportDelivery(jobID string, err *DeliveryError) {
	if err == nil {
		return
	}
	log.Warnf("[Notify] Job %s: %v", jobID, err)
}
