package usecase

import (
	"context"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

type pipeline struct {
	sandbox   interfaces.Sandbox
	source    interfaces.SourceFetcher
	toolchain interfaces.ToolchainInstaller
	compiler  interfaces.Compiler
	store     interfaces.ArtifactStore
	release   interfaces.ReleaseClient
	project   string
	profile   string
}

// NewPipeline creates a new instance of PipelineUseCase. release may be nil
// when no release backend is configured; a publishable trigger then fails
// the publish stage instead of being silently dropped.
func NewPipeline(
	sandbox interfaces.Sandbox,
	source interfaces.SourceFetcher,
	toolchain interfaces.ToolchainInstaller,
	compiler interfaces.Compiler,
	store interfaces.ArtifactStore,
	release interfaces.ReleaseClient,
	project, profile string,
) interfaces.PipelineUseCase {
	return &pipeline{
		sandbox:   sandbox,
		source:    source,
		toolchain: toolchain,
		compiler:  compiler,
		store:     store,
		release:   release,
		project:   project,
		profile:   profile,
	}
}

// Run fans out one goroutine per matrix job and joins them all. Jobs are
// fail-independent: a failure is recorded in that job's slot and never
// aborts a sibling. Cancellation of ctx propagates into every stage.
func (uc *pipeline) Run(ctx context.Context, trigger *model.Trigger) (*model.RunReport, error) {
	logger := ctxlog.From(ctx)

	runID := uuid.NewString()
	jobs := model.Matrix(uc.project, uc.profile)

	logger.Info("Starting pipeline run",
		"run_id", runID,
		"ref", trigger.Ref,
		"publishable", trigger.IsPublishable(),
		"jobs", len(jobs),
	)

	results := make([]*model.JobResult, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job *model.Job) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = &model.JobResult{
						Job: job,
						Err: goerr.New("panic in build job",
							goerr.V("job", string(job.Kind)),
							goerr.V("recover", r),
							goerr.V("stack", string(debug.Stack())),
						),
					}
				}
			}()
			results[i] = uc.runJob(ctx, runID, trigger, job)
		}(i, job)
	}
	wg.Wait()

	report := &model.RunReport{
		RunID:   runID,
		Trigger: trigger,
		Results: results,
	}

	if failed := report.Failed(); len(failed) > 0 {
		return report, goerr.New("pipeline run finished with failed jobs",
			goerr.V("run_id", runID),
			goerr.V("failed", len(failed)),
			goerr.V("total", len(jobs)),
		)
	}

	logger.Info("Pipeline run completed", "run_id", runID)
	return report, nil
}

// runJob executes the strictly sequential stage pipeline of one job:
// sandbox → checkout → provision → compile → normalize → publish. A later
// stage never starts once an earlier one failed.
func (uc *pipeline) runJob(ctx context.Context, runID string, trigger *model.Trigger, job *model.Job) *model.JobResult {
	logger := ctxlog.From(ctx).With("run_id", runID, "job", string(job.Kind))
	ctx = ctxlog.With(ctx, logger)

	started := time.Now()
	result := &model.JobResult{Job: job}
	defer func() { result.Duration = time.Since(started) }()

	ws, err := uc.sandbox.Create(runID, job)
	if err != nil {
		result.Err = goerr.Wrap(err, "failed to create job workspace",
			goerr.T(types.ErrTagProvisioning))
		return result
	}
	defer func() {
		if err := os.RemoveAll(ws.Root); err != nil {
			logger.Warn("Failed to clean up job workspace", "root", ws.Root, "error", err)
		}
	}()

	if err := uc.source.Fetch(ctx, trigger.Ref, ws.SourceDir); err != nil {
		result.Err = goerr.Wrap(err, "failed to check out source",
			goerr.T(types.ErrTagProvisioning), goerr.V("ref", trigger.Ref))
		return result
	}

	if err := uc.toolchain.Provision(ctx, ws, job); err != nil {
		result.Err = err
		return result
	}
	logger.Info("Toolchain provisioned")

	produced, err := uc.compiler.Build(ctx, ws, job)
	if err != nil {
		result.Err = err
		return result
	}
	logger.Info("Compiled", "produced", produced)

	normalized, err := Normalize(produced, job.NormalizedPath(ws.SourceDir))
	if err != nil {
		result.Err = err
		return result
	}
	result.Artifact = job.CanonicalName()
	logger.Info("Normalized artifact", "artifact", result.Artifact)

	if err := uc.store.Save(ctx, runID, job.CanonicalName(), normalized); err != nil {
		result.Err = goerr.Wrap(err, "failed to archive artifact",
			goerr.T(types.ErrTagPublish), goerr.V("artifact", job.CanonicalName()))
		return result
	}
	result.Archived = true
	logger.Info("Archived artifact", "artifact", result.Artifact)

	if !trigger.IsPublishable() {
		result.Release = model.ReleaseSkipped
		logger.Info("Release attachment skipped: ref is not a tag", "ref", trigger.Ref)
		return result
	}

	if uc.release == nil {
		result.Release = model.ReleaseFailed
		result.Err = goerr.New("release client is not configured",
			goerr.T(types.ErrTagPublish), goerr.V("tag", trigger.Tag()))
		return result
	}

	if err := uc.release.AttachAsset(ctx, trigger.Tag(), job.CanonicalName(), normalized); err != nil {
		// Archival already completed and stays valid
		result.Release = model.ReleaseFailed
		result.Err = goerr.Wrap(err, "failed to attach artifact to release",
			goerr.T(types.ErrTagPublish), goerr.V("tag", trigger.Tag()))
		return result
	}
	result.Release = model.ReleasePublished
	logger.Info("Attached artifact to release", "tag", trigger.Tag(), "artifact", result.Artifact)

	return result
}
