package store

import (
	"context"
	"io"
	"os"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
)

type gcsStore struct {
	client *storage.Client
	bucket string
}

// NewGCS creates an ArtifactStore backed by a Google Cloud Storage bucket;
// objects are keyed <runID>/<name>
func NewGCS(ctx context.Context, bucket string) (interfaces.ArtifactStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client",
			goerr.V("bucket", bucket))
	}
	return &gcsStore{client: client, bucket: bucket}, nil
}

// Save uploads the file at srcPath as an object of the run's namespace
func (s *gcsStore) Save(ctx context.Context, runID, name, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact", goerr.V("path", srcPath))
	}
	defer src.Close()

	object := path.Join(runID, name)
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to upload artifact",
			goerr.V("bucket", s.bucket), goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize artifact upload",
			goerr.V("bucket", s.bucket), goerr.V("object", object))
	}
	return nil
}
