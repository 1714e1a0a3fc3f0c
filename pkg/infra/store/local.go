package store

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
)

type localStore struct {
	baseDir string
}

// NewLocal creates an ArtifactStore that archives artifacts into
// baseDir/<runID>/<name> on the local filesystem
func NewLocal(baseDir string) interfaces.ArtifactStore {
	return &localStore{baseDir: baseDir}
}

// Save copies the file at srcPath into the run's directory under name.
// Artifacts are never deleted by the pipeline; retention is up to whoever
// owns baseDir.
func (s *localStore) Save(ctx context.Context, runID, name, srcPath string) error {
	destDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create artifact directory",
			goerr.V("dir", destDir))
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact", goerr.V("path", srcPath))
	}
	defer src.Close()

	destPath := filepath.Join(destDir, name)
	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return goerr.Wrap(err, "failed to create artifact file",
			goerr.V("path", destPath))
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return goerr.Wrap(err, "failed to copy artifact", goerr.V("path", destPath))
	}
	return nil
}
