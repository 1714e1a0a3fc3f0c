package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/m-mizutani/drover/pkg/controller/http"
	"github.com/m-mizutani/drover/pkg/domain/model"
)

// recordingWebhookUC records processed events
type recordingWebhookUC struct {
	mu     sync.Mutex
	events []*model.WebhookEvent
}

func (m *recordingWebhookUC) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func newTestServer(t *testing.T, uc *recordingWebhookUC) *controller.Server {
	t.Helper()
	server, err := controller.NewServer(
		context.Background(),
		uc,
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret("test-secret"),
	)
	gt.NoError(t, err)
	return server
}

func TestWebhook_PushEvent(t *testing.T) {
	uc := &recordingWebhookUC{}
	server := newTestServer(t, uc)

	payload := []byte(`{
		"ref": "refs/tags/v1.2.0",
		"repository": {"full_name": "octocat/observer"},
		"sender": {"login": "octocat"}
	}`)

	req := httptest.NewRequest(http.MethodPost, "/hooks/github", bytes.NewReader(payload))
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-GitHub-Delivery", "delivery-1")
	req.Header.Set("X-Hub-Signature-256", sign("test-secret", payload))
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.Array(t, uc.events).Length(1)

	event := uc.events[0]
	gt.Value(t, event.Type).Equal(model.EventTypePush)
	gt.Value(t, event.Ref).Equal("refs/tags/v1.2.0")
	gt.Value(t, event.Repository).Equal("octocat/observer")
	gt.Value(t, event.Sender).Equal("octocat")
	gt.True(t, event.IsSupportedEvent())
}

func TestWebhook_InvalidSignature(t *testing.T) {
	uc := &recordingWebhookUC{}
	server := newTestServer(t, uc)

	payload := []byte(`{"ref": "refs/heads/master"}`)

	req := httptest.NewRequest(http.MethodPost, "/hooks/github", bytes.NewReader(payload))
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-Hub-Signature-256", sign("wrong-secret", payload))
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
	gt.Array(t, uc.events).Length(0)
}

func TestWebhook_MissingSignature(t *testing.T) {
	uc := &recordingWebhookUC{}
	server := newTestServer(t, uc)

	req := httptest.NewRequest(http.MethodPost, "/hooks/github", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("X-GitHub-Event", "push")
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
}

func TestWebhook_UnknownEventType(t *testing.T) {
	uc := &recordingWebhookUC{}
	server := newTestServer(t, uc)

	payload := []byte(`{"zen": "Design for failure."}`)

	req := httptest.NewRequest(http.MethodPost, "/hooks/github", bytes.NewReader(payload))
	req.Header.Set("X-GitHub-Event", "ping")
	req.Header.Set("X-Hub-Signature-256", sign("test-secret", payload))
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.Array(t, uc.events).Length(1)
	gt.Value(t, uc.events[0].Type).Equal(model.EventTypeUnknown)
	gt.False(t, uc.events[0].IsSupportedEvent())
}
