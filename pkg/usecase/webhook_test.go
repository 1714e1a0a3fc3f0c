package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/usecase"
)

type mockPipeline struct {
	triggers chan *model.Trigger
}

func (m *mockPipeline) Run(ctx context.Context, trigger *model.Trigger) (*model.RunReport, error) {
	m.triggers <- trigger
	return &model.RunReport{Trigger: trigger}, nil
}

func TestWebhook_PushEventDispatchesPipeline(t *testing.T) {
	pipeline := &mockPipeline{triggers: make(chan *model.Trigger, 1)}
	uc := usecase.NewWebhook(pipeline)

	event := &model.WebhookEvent{
		ID:         "delivery-1",
		Type:       model.EventTypePush,
		Ref:        "refs/tags/v1.2.0",
		Repository: "octocat/observer",
		Sender:     "octocat",
		ReceivedAt: time.Now(),
	}

	gt.NoError(t, uc.ProcessEvent(context.Background(), event))

	select {
	case trigger := <-pipeline.triggers:
		gt.Value(t, trigger.Ref).Equal("refs/tags/v1.2.0")
		gt.True(t, trigger.IsPublishable())
	case <-time.After(time.Second):
		t.Fatal("pipeline run was not dispatched")
	}
}

func TestWebhook_UnsupportedEventIsIgnored(t *testing.T) {
	pipeline := &mockPipeline{triggers: make(chan *model.Trigger, 1)}
	uc := usecase.NewWebhook(pipeline)

	event := &model.WebhookEvent{
		ID:   "delivery-2",
		Type: model.EventTypeUnknown,
	}

	gt.NoError(t, uc.ProcessEvent(context.Background(), event))

	select {
	case <-pipeline.triggers:
		t.Fatal("unsupported event must not start a run")
	case <-time.After(50 * time.Millisecond):
	}
}
