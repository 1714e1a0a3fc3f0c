package model

import "strings"

// tagRefPrefix is the tag namespace of git refs; only refs under it
// qualify for release attachment
const tagRefPrefix = "refs/tags/"

// Trigger is the event that started a pipeline run. It is evaluated once
// per run and shared read-only by every job, so either all successfully
// built artifacts are offered for release attachment or none are.
type Trigger struct {
	Ref string // Raw git ref of the triggering event
}

// NewTrigger creates a trigger from the raw event ref
func NewTrigger(ref string) *Trigger {
	return &Trigger{Ref: ref}
}

// IsPublishable reports whether the ref qualifies for release attachment.
// This is the sole predicate gating publication; build success is checked
// independently.
func (t *Trigger) IsPublishable() bool {
	return strings.HasPrefix(t.Ref, tagRefPrefix)
}

// Tag returns the tag name of a publishable ref, or "" otherwise
func (t *Trigger) Tag() string {
	if !t.IsPublishable() {
		return ""
	}
	return strings.TrimPrefix(t.Ref, tagRefPrefix)
}
