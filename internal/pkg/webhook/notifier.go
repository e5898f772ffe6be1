package webhook

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ForumBots/HookRelay/app/models"
	"github.com/ForumBots/HookRelay/internal/pkg/apperrors"
)

const (
	// NotifyTimeout bounds one outbound delivery call. A timeout is the only
	// cancellation; there is no mid-flight abort of an in-progress delivery.
	NotifyTimeout = 10 * time.Second

	// SignatureHeader carries the subscription's platform API key so the
	// receiving bot can authenticate that the call came from this platform.
	SignatureHeader = "X-Platform-Api-Key"
)

// Notifier performs one outbound delivery per recipient. It never swallows
// failures: the caller decides how to log and record them.
type Notifier struct {
	client *http.Client
}

// NewNotifier creates a notifier with the default delivery timeout.
func NewNotifier() *Notifier {
	return &Notifier{
		client: &http.Client{Timeout: NotifyTimeout},
	}
}

// NewNotifierWithClient creates a notifier with a custom client (tests).
func NewNotifierWithClient(client *http.Client) *Notifier {
	return &Notifier{client: client}
}

// Notify POSTs the JSON payload to the subscription's webhook, signed with
// its platform API key. Non-2xx responses and network failures are both
// reported as a DeliveryError scoped to this recipient. The returned status
// is the HTTP status observed, or 0 when no response arrived.
func (n *Notifier) Notify(sub *models.BotSubscription, payload []byte) (int, *apperrors.DeliveryError) {
	req, err := http.NewRequest(http.MethodPost, sub.Webhook, bytes.NewReader(payload))
	if err != nil {
		return 0, &apperrors.DeliveryError{
			SubscriptionID: sub.BotSubscriptionID,
			Webhook:        sub.Webhook,
			Err:            err,
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, sub.PlatformAPIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, &apperrors.DeliveryError{
			SubscriptionID: sub.BotSubscriptionID,
			Webhook:        sub.Webhook,
			Err:            err,
		}
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &apperrors.DeliveryError{
			SubscriptionID: sub.BotSubscriptionID,
			Webhook:        sub.Webhook,
			HTTPStatus:     resp.StatusCode,
		}
	}

	return resp.StatusCode, nil
}

// NotifyJSON marshals v and delivers it. Marshalling failures are reported
// as a DeliveryError for this recipient like any other failure.
func (n *Notifier) NotifyJSON(sub *models.BotSubscription, v interface{}) (int, *apperrors.DeliveryError) {
	body, err := json.Marshal(v)
	if err != nil {
		return 0, &apperrors.DeliveryError{
			SubscriptionID: sub.BotSubscriptionID,
			Webhook:        sub.Webhook,
			Err:            err,
		}
	}
	return n.Notify(sub, body)
}
