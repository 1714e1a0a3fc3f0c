package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/drover/pkg/cli/config"
	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/infra/cargo"
	githubinfra "github.com/m-mizutani/drover/pkg/infra/github"
	"github.com/m-mizutani/drover/pkg/infra/manifest"
	"github.com/m-mizutani/drover/pkg/infra/rustup"
	"github.com/m-mizutani/drover/pkg/infra/sandbox"
	"github.com/m-mizutani/drover/pkg/infra/source"
	"github.com/m-mizutani/drover/pkg/infra/store"
	"github.com/m-mizutani/drover/pkg/usecase"
)

func cmdRun() *cli.Command {
	var (
		buildCfg  config.Build
		githubCfg config.GitHub
		storeCfg  config.Store
		ref       string
	)

	flags := append(buildCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, storeCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "ref",
		Usage:       "Git ref that triggered the run",
		Value:       "refs/heads/master",
		Destination: &ref,
		Sources:     cli.EnvVars("DROVER_REF"),
	})

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run the build matrix once",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			pipeline, err := newPipeline(ctx, &buildCfg, &githubCfg, &storeCfg)
			if err != nil {
				return err
			}

			report, runErr := pipeline.Run(ctx, model.NewTrigger(ref))
			printSummary(report)
			return runErr
		},
	}
}

// newPipeline assembles the pipeline use case from configuration
func newPipeline(
	ctx context.Context,
	buildCfg *config.Build,
	githubCfg *config.GitHub,
	storeCfg *config.Store,
) (interfaces.PipelineUseCase, error) {
	project := buildCfg.Project
	if project == "" {
		name, err := manifest.ProjectName(filepath.Join(buildCfg.Source, "Cargo.toml"))
		if err != nil {
			return nil, goerr.Wrap(err,
				"project name is not set and could not be read from the source manifest")
		}
		project = name
	}

	var artifacts interfaces.ArtifactStore
	if storeCfg.GCSBucket != "" {
		gcs, err := store.NewGCS(ctx, storeCfg.GCSBucket)
		if err != nil {
			return nil, err
		}
		artifacts = gcs
	} else {
		artifacts = store.NewLocal(storeCfg.ArtifactDir)
	}

	var release interfaces.ReleaseClient
	if githubCfg.Token != "" && githubCfg.Repo != "" {
		owner, name, err := githubCfg.Split()
		if err != nil {
			return nil, err
		}
		release = githubinfra.NewClient(githubCfg.Token, owner, name)
	}

	return usecase.NewPipeline(
		sandbox.New(buildCfg.WorkDir),
		source.NewGit(buildCfg.Source),
		rustup.NewInstaller(),
		cargo.NewBuilder(),
		artifacts,
		release,
		project,
		buildCfg.Profile,
	), nil
}

// printSummary writes the per-job outcome table to stdout
func printSummary(report *model.RunReport) {
	if report == nil {
		return
	}

	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	fmt.Printf("run %s (%s)\n", report.RunID, report.Trigger.Ref)
	for _, res := range report.Results {
		state := ok("ok")
		if !res.OK() {
			state = bad("failed")
		}

		release := string(res.Release)
		if release == "" {
			release = "-"
		}

		fmt.Printf("  %-22s %-8s artifact=%-28s release=%-10s %s\n",
			res.Job.Kind, state, orDash(res.Artifact), release,
			res.Duration.Round(time.Millisecond))
		if res.Err != nil {
			fmt.Printf("    %s\n", bad(res.Err.Error()))
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
