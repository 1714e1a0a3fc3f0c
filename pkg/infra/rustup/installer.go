package rustup

import (
	"context"
	"os/exec"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

// sslDevPackage is the OS-level dependency the project's dependency graph
// needs when cross-compiling on a Linux host
const sslDevPackage = "libssl-dev"

type installer struct{}

// NewInstaller creates a ToolchainInstaller backed by rustup
func NewInstaller() interfaces.ToolchainInstaller {
	return &installer{}
}

// Provision installs the stable toolchain with the minimal profile and sets
// it as the default. The cross job additionally gets the foreign compilation
// target and the TLS development library. All commands run with the
// workspace's environment scope, so the default-toolchain mutation is
// confined to the job.
func (i *installer) Provision(ctx context.Context, ws *model.Workspace, job *model.Job) error {
	for _, argv := range commands(job) {
		if err := run(ctx, ws, argv); err != nil {
			return err
		}
	}
	return nil
}

// commands returns the provisioning command lines for a job
func commands(job *model.Job) [][]string {
	cmds := [][]string{
		{"rustup", "toolchain", "install", "stable", "--profile", "minimal"},
		{"rustup", "default", "stable"},
	}
	if job.Cross() {
		cmds = append(cmds,
			[]string{"rustup", "target", "add", job.Target()},
			[]string{"apt-get", "install", "-y", sslDevPackage},
		)
	}
	return cmds
}

func run(ctx context.Context, ws *model.Workspace, argv []string) error {
	ctxlog.From(ctx).Debug("Running provisioning command", "command", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = ws.Root
	cmd.Env = ws.Env

	out, err := cmd.CombinedOutput()
	if err != nil {
		return goerr.Wrap(err, "provisioning command failed",
			goerr.T(types.ErrTagProvisioning),
			goerr.V("command", strings.Join(argv, " ")),
			goerr.V("output", string(out)),
		)
	}
	return nil
}
