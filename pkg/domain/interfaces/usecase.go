package interfaces

import (
	"context"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// PipelineUseCase runs the full build matrix for one trigger
type PipelineUseCase interface {
	// Run fans out one job per matrix entry, waits for all of them, and
	// returns the collected report. The returned error is non-nil iff at
	// least one job failed; the report is returned either way.
	Run(ctx context.Context, trigger *model.Trigger) (*model.RunReport, error)
}

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}
