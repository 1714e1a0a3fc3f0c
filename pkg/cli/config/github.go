package config

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub configuration
type GitHub struct {
	Token         string
	Repo          string
	WebhookSecret string
}

// Flags returns CLI flags for release publishing. Token and repo are only
// needed when a run is expected to attach artifacts to a release.
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "Token used to attach artifacts to releases",
			Destination: &c.Token,
			Sources:     cli.EnvVars("DROVER_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Usage:       "Repository holding the releases (owner/name)",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("DROVER_GITHUB_REPO", "GITHUB_REPOSITORY"),
		},
	}
}

// WebhookFlags returns CLI flags for webhook verification
func (c *GitHub) WebhookFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("DROVER_GITHUB_WEBHOOK_SECRET"),
		},
	}
}

// Split returns the owner and name parts of the configured repository
func (c *GitHub) Split() (string, string, error) {
	owner, name, ok := strings.Cut(c.Repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", goerr.New("invalid repository, expected owner/name",
			goerr.V("repo", c.Repo))
	}
	return owner, name, nil
}
