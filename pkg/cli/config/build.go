package config

import "github.com/urfave/cli/v3"

// Build holds build pipeline configuration
type Build struct {
	Source  string
	Project string
	Profile string
	WorkDir string
}

// Flags returns CLI flags for build configuration
func (c *Build) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "source",
			Usage:       "Source repository (URL or local path)",
			Required:    true,
			Destination: &c.Source,
			Sources:     cli.EnvVars("DROVER_SOURCE"),
		},
		&cli.StringFlag{
			Name:        "project",
			Usage:       "Executable base name (read from Cargo.toml when unset)",
			Destination: &c.Project,
			Sources:     cli.EnvVars("DROVER_PROJECT"),
		},
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Build profile",
			Value:       "release",
			Destination: &c.Profile,
			Sources:     cli.EnvVars("DROVER_PROFILE"),
		},
		&cli.StringFlag{
			Name:        "work-dir",
			Usage:       "Base directory for job workspaces (system temp when unset)",
			Destination: &c.WorkDir,
			Sources:     cli.EnvVars("DROVER_WORK_DIR"),
		},
	}
}
