package model

// Workspace is the isolated execution environment one job owns for its
// entire lifetime. No other job may observe or mutate it: the source
// checkout, toolchain homes, and environment scope all live under Root.
type Workspace struct {
	Root      string   // Job-private root directory
	SourceDir string   // Checkout of the project source
	Env       []string // Process environment for every command of the job
}
