package config

import "github.com/urfave/cli/v3"

// Store holds artifact store configuration
type Store struct {
	ArtifactDir string
	GCSBucket   string
}

// Flags returns CLI flags for artifact store configuration
func (c *Store) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "artifact-dir",
			Usage:       "Local directory for archived artifacts",
			Value:       "artifacts",
			Destination: &c.ArtifactDir,
			Sources:     cli.EnvVars("DROVER_ARTIFACT_DIR"),
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Archive artifacts into this GCS bucket instead of the local directory",
			Destination: &c.GCSBucket,
			Sources:     cli.EnvVars("DROVER_GCS_BUCKET"),
		},
	}
}
