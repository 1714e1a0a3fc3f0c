package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/utils/async"
)

type webhookUseCase struct {
	pipeline interfaces.PipelineUseCase
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(pipeline interfaces.PipelineUseCase) interfaces.WebhookUseCase {
	return &webhookUseCase{
		pipeline: pipeline,
	}
}

// ProcessEvent processes a webhook event. A supported push event dispatches
// a pipeline run in the background; the webhook response does not wait for
// builds to finish.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"ref", event.Ref,
		"repository", event.Repository,
		"sender", event.Sender,
		"supported", event.IsSupportedEvent(),
	)

	if !event.IsSupportedEvent() {
		logger.Warn("Unsupported event received",
			"type", event.Type,
			"ref", event.Ref,
		)
		return nil
	}

	trigger := model.NewTrigger(event.Ref)
	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := uc.pipeline.Run(ctx, trigger)
		return err
	})

	return nil
}
