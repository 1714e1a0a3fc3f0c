package interfaces

import (
	"context"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// Sandbox provisions isolated per-job execution environments
type Sandbox interface {
	// Create builds a fresh workspace for one job of a run, with its own
	// working directory and toolchain environment scope
	Create(runID string, job *model.Job) (*model.Workspace, error)
}

// SourceFetcher materializes a checkout of the project source
type SourceFetcher interface {
	// Fetch checks out ref into dest, recursing into submodules
	Fetch(ctx context.Context, ref, dest string) error
}

// ToolchainInstaller resolves and installs the compiler toolchain for a job
type ToolchainInstaller interface {
	// Provision installs the stable toolchain into the workspace; for a
	// cross job it additionally installs the foreign compilation target and
	// the OS-level dependency the project needs
	Provision(ctx context.Context, ws *model.Workspace, job *model.Job) error
}

// Compiler invokes compilation for a job
type Compiler interface {
	// Build compiles the project in the job's profile and returns the path
	// of the produced binary
	Build(ctx context.Context, ws *model.Workspace, job *model.Job) (string, error)
}

// ArtifactStore archives build artifacts of a pipeline run
type ArtifactStore interface {
	// Save stores the file at srcPath under the run's namespace as name
	Save(ctx context.Context, runID, name, srcPath string) error
}

// ReleaseClient attaches files to a tagged release in the hosting backend
type ReleaseClient interface {
	// AttachAsset uploads the file at path as an asset named name of the
	// release identified by tag
	AttachAsset(ctx context.Context, tag, name, path string) error
}
