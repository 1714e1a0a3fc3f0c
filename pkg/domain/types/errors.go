package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify where in a job's stage sequence a failure happened.
// Errors are local to one job and never retried; the tag decides how the
// failure is reported, not whether sibling jobs keep running (they do).
var (
	// ErrTagProvisioning marks toolchain or system dependency install failures
	ErrTagProvisioning = goerr.NewTag("provisioning")

	// ErrTagCompile marks compilation failures; the error carries the
	// compiler's diagnostic output as a value
	ErrTagCompile = goerr.NewTag("compile")

	// ErrTagNotFound marks a normalization attempt on a produced path that
	// does not exist. Under correct stage sequencing this never happens.
	ErrTagNotFound = goerr.NewTag("not_found")

	// ErrTagPublish marks archival or release attachment failures
	ErrTagPublish = goerr.NewTag("publish")
)

// IsProvisioningError reports whether err came from the toolchain provisioner
func IsProvisioningError(err error) bool { return goerr.HasTag(err, ErrTagProvisioning) }

// IsCompileError reports whether err came from the build executor
func IsCompileError(err error) bool { return goerr.HasTag(err, ErrTagCompile) }

// IsNotFoundError reports whether err came from the artifact normalizer
func IsNotFoundError(err error) bool { return goerr.HasTag(err, ErrTagNotFound) }

// IsPublishError reports whether err came from the artifact publisher
func IsPublishError(err error) bool { return goerr.HasTag(err, ErrTagPublish) }
