package usecase

import (
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/types"
)

// Normalize relocates the produced binary to the canonical path in the same
// profile directory. It is a pure rename with no content transformation.
// Renaming a path to itself succeeds trivially, so re-normalizing an
// already-normalized artifact is a no-op.
func Normalize(produced, canonical string) (string, error) {
	if _, err := os.Stat(produced); err != nil {
		if os.IsNotExist(err) {
			// Reaching here means an earlier build failure was not
			// short-circuited by the caller
			return "", goerr.New("produced binary does not exist",
				goerr.T(types.ErrTagNotFound), goerr.V("path", produced))
		}
		return "", goerr.Wrap(err, "failed to stat produced binary",
			goerr.V("path", produced))
	}

	if produced == canonical {
		return canonical, nil
	}

	if err := os.Rename(produced, canonical); err != nil {
		return "", goerr.Wrap(err, "failed to rename produced binary",
			goerr.V("from", produced), goerr.V("to", canonical))
	}
	return canonical, nil
}
