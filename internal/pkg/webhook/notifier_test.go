package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForumBots/HookRelay/app/models"
)

func testSubscription(webhook string) *models.BotSubscription {
	return &models.BotSubscription{
		BotSubscriptionID: "a63edc2e-8e3b-42ce-b780-d7aae4cc0d77",
		BotID:             "7c8d6c5f-09a1-4f70-a3a2-91c23017e3f1",
		IsActive:          true,
		PlatformAPIKey:    testSecret,
		Webhook:           webhook,
	}
}

func TestNotifier_Notify_Success(t *testing.T) {
	var gotKey, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(SignatureHeader)
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sub := testSubscription(server.URL)
	status, derr := NewNotifier().NotifyJSON(sub, map[string]string{"event_type": "post"})

	require.Nil(t, derr)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, testSecret, gotKey, "delivery must be signed with the subscription's key")
	assert.Equal(t, "application/json", gotContentType)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, "post", decoded["event_type"])
}

func TestNotifier_Notify_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	sub := testSubscription(server.URL)
	_, derr := NewNotifier().Notify(sub, []byte(`{}`))

	require.NotNil(t, derr)
	assert.Equal(t, http.StatusInternalServerError, derr.HTTPStatus)
	assert.Equal(t, sub.BotSubscriptionID, derr.SubscriptionID)
}

func TestNotifier_Notify_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, derr := NewNotifier().Notify(testSubscription(url), []byte(`{}`))

	require.NotNil(t, derr)
	assert.Zero(t, derr.HTTPStatus)
	assert.Error(t, derr.Err)
}
