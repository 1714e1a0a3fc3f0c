package model

import "path/filepath"

// HostKind identifies the build environment a job runs on
type HostKind string

const (
	HostDarwin       HostKind = "native-darwin"
	HostLinux        HostKind = "native-linux"
	HostWindows      HostKind = "native-windows"
	HostCrossAarch64 HostKind = "cross-linux-aarch64"
)

// CrossTargetAarch64 is the explicit target triple of the cross-compiled
// job. The musl variant links the C runtime statically so the binary runs
// without glibc on the target.
const CrossTargetAarch64 = "aarch64-unknown-linux-musl"

// Job is one independent build unit of the matrix. Jobs share no mutable
// state; everything a stage needs is derived from these fields.
type Job struct {
	Kind    HostKind // Build environment
	Project string   // Executable base name
	Profile string   // Cargo profile (normally "release")
}

// NativeJobs returns the three native jobs of the build matrix
func NativeJobs(project, profile string) []*Job {
	return []*Job{
		{Kind: HostDarwin, Project: project, Profile: profile},
		{Kind: HostLinux, Project: project, Profile: profile},
		{Kind: HostWindows, Project: project, Profile: profile},
	}
}

// CrossJob returns the single cross-compiled job
func CrossJob(project, profile string) *Job {
	return &Job{Kind: HostCrossAarch64, Project: project, Profile: profile}
}

// Matrix returns all jobs of one pipeline run, natives first
func Matrix(project, profile string) []*Job {
	return append(NativeJobs(project, profile), CrossJob(project, profile))
}

// OS returns the artifact naming OS component
func (j *Job) OS() string {
	switch j.Kind {
	case HostDarwin:
		return "darwin"
	case HostWindows:
		return "windows"
	default:
		return "linux"
	}
}

// Arch returns the artifact naming architecture component
func (j *Job) Arch() string {
	if j.Kind == HostCrossAarch64 {
		return "aarch64"
	}
	return "amd64"
}

// ExeSuffix returns the host OS executable suffix: ".exe" on Windows only
func (j *Job) ExeSuffix() string {
	if j.Kind == HostWindows {
		return ".exe"
	}
	return ""
}

// Target returns the explicit target triple, or "" for native jobs where
// the target is implicit (the host triple)
func (j *Job) Target() string {
	if j.Kind == HostCrossAarch64 {
		return CrossTargetAarch64
	}
	return ""
}

// Cross reports whether the job compiles for a foreign architecture and
// must run the compiler under the emulation indirection layer
func (j *Job) Cross() bool {
	return j.Kind == HostCrossAarch64
}

// CanonicalName is the fixed platform-qualified artifact name. It is a pure
// function of the job's kind and project name.
func (j *Job) CanonicalName() string {
	return j.Project + "_" + j.OS() + "_" + j.Arch() + j.ExeSuffix()
}

// ProfileDir is the target subdirectory cargo uses for the profile; the
// "dev" profile writes to "debug"
func (j *Job) ProfileDir() string {
	if j.Profile == "dev" {
		return "debug"
	}
	return j.Profile
}

// ProducedPath is where the compiler deposits the binary before
// normalization, relative to sourceDir. Implicit-target builds write to
// target/<profile>/, explicit-target builds to target/<triple>/<profile>/.
func (j *Job) ProducedPath(sourceDir string) string {
	parts := []string{sourceDir, "target"}
	if t := j.Target(); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, j.ProfileDir(), j.Project+j.ExeSuffix())
	return filepath.Join(parts...)
}

// NormalizedPath is where the normalizer places the artifact: the canonical
// name in the same profile directory as the produced binary
func (j *Job) NormalizedPath(sourceDir string) string {
	return filepath.Join(filepath.Dir(j.ProducedPath(sourceDir)), j.CanonicalName())
}
