package model

import "time"

// ReleaseState is the outcome of the conditional release attachment. The
// explicit skipped state separates "not a tag" from "never reached" so an
// operator can tell a silent skip apart from a broken job.
type ReleaseState string

const (
	// ReleaseNone means the job failed before the publish stage
	ReleaseNone ReleaseState = ""
	// ReleasePublished means the artifact was attached to the release
	ReleasePublished ReleaseState = "published"
	// ReleaseSkipped means the trigger was not a tag; not an error
	ReleaseSkipped ReleaseState = "skipped"
	// ReleaseFailed means the attachment was attempted and failed
	ReleaseFailed ReleaseState = "failed"
)

// JobResult is the outcome of one job. Archived and Release are independent
// effects: archival happens for every normalized artifact regardless of the
// trigger, attachment only on a publishable one.
type JobResult struct {
	Job      *Job
	Artifact string // Canonical artifact name, set once normalization succeeded
	Archived bool   // Stored as a retrievable build artifact
	Release  ReleaseState
	Err      error
	Duration time.Duration
}

// OK reports whether the job completed all of its stages
func (r *JobResult) OK() bool {
	return r.Err == nil
}

// RunReport is the fan-in of all job outcomes of one pipeline run
type RunReport struct {
	RunID   string
	Trigger *Trigger
	Results []*JobResult
}

// Failed returns the results of jobs that did not complete
func (r *RunReport) Failed() []*JobResult {
	var failed []*JobResult
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether every job of the run succeeded
func (r *RunReport) OK() bool {
	return len(r.Failed()) == 0
}
