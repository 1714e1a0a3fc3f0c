package sandbox

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
)

type factory struct {
	baseDir string
}

// New creates a Sandbox that builds job workspaces under baseDir, or the
// system temp directory when baseDir is empty
func New(baseDir string) interfaces.Sandbox {
	return &factory{baseDir: baseDir}
}

// Create builds an isolated workspace for one job: a private root holding
// the source checkout and the job's own toolchain homes. RUSTUP_HOME and
// CARGO_HOME point inside the root, so toolchain state mutated by one job
// can never leak into a sibling.
func (f *factory) Create(runID string, job *model.Job) (*model.Workspace, error) {
	root, err := os.MkdirTemp(f.baseDir, "drover-"+string(job.Kind)+"-*")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create workspace root",
			goerr.V("run_id", runID), goerr.V("job", string(job.Kind)))
	}

	srcDir := filepath.Join(root, "src")
	rustupHome := filepath.Join(root, ".rustup")
	cargoHome := filepath.Join(root, ".cargo")

	for _, dir := range []string{srcDir, rustupHome, cargoHome} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, goerr.Wrap(err, "failed to create workspace directory",
				goerr.V("dir", dir))
		}
	}

	env := append(os.Environ(),
		"RUSTUP_HOME="+rustupHome,
		"CARGO_HOME="+cargoHome,
		"PATH="+filepath.Join(cargoHome, "bin")+string(os.PathListSeparator)+os.Getenv("PATH"),
	)

	return &model.Workspace{
		Root:      root,
		SourceDir: srcDir,
		Env:       env,
	}, nil
}
