package source

import (
	"context"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
)

type gitFetcher struct {
	url string
}

// NewGit creates a SourceFetcher that clones from url, which may be a
// remote repository or a local path
func NewGit(url string) interfaces.SourceFetcher {
	return &gitFetcher{url: url}
}

// Fetch clones the repository at the given ref into dest, recursing into
// submodules. Every job gets its own clone so no filesystem state is shared
// across jobs.
func (f *gitFetcher) Fetch(ctx context.Context, ref, dest string) error {
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:               f.url,
		ReferenceName:     plumbing.ReferenceName(ref),
		SingleBranch:      true,
		Depth:             1,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to clone source",
			goerr.V("url", f.url), goerr.V("ref", ref))
	}
	return nil
}
