package github

import (
	"context"
	"os"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

type client struct {
	githubClient *github.Client
	owner        string
	repo         string
}

// NewClient creates a ReleaseClient authenticated with the ambient token.
// The token only needs permission to write release assets of the one
// repository the pipeline builds.
func NewClient(token, owner, repo string) interfaces.ReleaseClient {
	return &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
		owner:        owner,
		repo:         repo,
	}
}

// AttachAsset uploads the file at path as an asset of the release
// identified by tag. Concurrent attaches of distinct filenames to the same
// release are serialized by the backend, not here.
func (c *client) AttachAsset(ctx context.Context, tag, name, path string) error {
	release, _, err := c.githubClient.Repositories.GetReleaseByTag(ctx, c.owner, c.repo, tag)
	if err != nil {
		return goerr.Wrap(err, "failed to find release for tag",
			goerr.T(types.ErrTagPublish),
			goerr.V("owner", c.owner), goerr.V("repo", c.repo), goerr.V("tag", tag))
	}

	file, err := os.Open(path)
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact",
			goerr.T(types.ErrTagPublish), goerr.V("path", path))
	}
	defer file.Close()

	_, _, err = c.githubClient.Repositories.UploadReleaseAsset(
		ctx, c.owner, c.repo, release.GetID(),
		&github.UploadOptions{Name: name},
		file,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to upload release asset",
			goerr.T(types.ErrTagPublish),
			goerr.V("tag", tag), goerr.V("name", name))
	}
	return nil
}
