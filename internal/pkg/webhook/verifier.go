// Package webhook implements the outbound HTTP side of the bot platform:
// the ownership verification handshake run before a subscription goes live,
// and the notification delivery call made for each recipient.
package webhook

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ForumBots/HookRelay/internal/pkg/apperrors"
)

const (
	// VerifyTimeout bounds the blocking verification call so an unreachable
	// endpoint cannot stall subscription creation.
	VerifyTimeout = 5 * time.Second

	// ChallengeHeader carries the shared secret on the verification request.
	ChallengeHeader = "X-Api-Key"

	// ChallengeParam carries the shared secret as a query parameter as well,
	// for endpoints that cannot read request headers.
	ChallengeParam = "challenge"

	maxEchoBytes = 4096
)

// Verifier runs the webhook ownership handshake: it sends the subscription's
// shared secret to the candidate URL and accepts only a 2xx response whose
// body echoes the exact secret back.
type Verifier struct {
	client *http.Client
}

// NewVerifier creates a verifier with the default timeout.
func NewVerifier() *Verifier {
	return &Verifier{
		client: &http.Client{Timeout: VerifyTimeout},
	}
}

// NewVerifierWithClient creates a verifier with a custom client (tests).
func NewVerifierWithClient(client *http.Client) *Verifier {
	return &Verifier{client: client}
}

// Verify proves ownership of webhookURL. Network failures, non-2xx statuses
// and challenge echo mismatches are all reported as the same
// VerificationFailure: none of them proves the subscriber controls the
// endpoint, and the distinction does not matter to the caller.
func (v *Verifier) Verify(webhookURL, secret string) error {
	challengeURL, err := buildChallengeURL(webhookURL, secret)
	if err != nil {
		return &apperrors.VerificationFailure{Webhook: webhookURL, Reason: "invalid URL"}
	}

	req, err := http.NewRequest(http.MethodGet, challengeURL, nil)
	if err != nil {
		return &apperrors.VerificationFailure{Webhook: webhookURL, Reason: "invalid URL"}
	}
	req.Header.Set(ChallengeHeader, secret)

	resp, err := v.client.Do(req)
	if err != nil {
		return &apperrors.VerificationFailure{Webhook: webhookURL, Reason: "endpoint unreachable"}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperrors.VerificationFailure{
			Webhook: webhookURL,
			Reason:  fmt.Sprintf("endpoint answered HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEchoBytes))
	if err != nil {
		return &apperrors.VerificationFailure{Webhook: webhookURL, Reason: "could not read challenge echo"}
	}

	if strings.TrimSpace(string(body)) != secret {
		return &apperrors.VerificationFailure{Webhook: webhookURL, Reason: "challenge echo mismatch"}
	}

	return nil
}

func buildChallengeURL(webhookURL, secret string) (string, error) {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(ChallengeParam, secret)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
