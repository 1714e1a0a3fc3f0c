package cargo

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

type builder struct{}

// NewBuilder creates a Compiler that invokes cargo, or cross for jobs whose
// target architecture the host cannot execute natively
func NewBuilder() interfaces.Compiler {
	return &builder{}
}

// Build compiles the project and returns the produced binary path. Native
// jobs leave the target implicit (host triple); the cross job names its
// triple explicitly and runs under the cross indirection layer.
func (b *builder) Build(ctx context.Context, ws *model.Workspace, job *model.Job) (string, error) {
	argv := commandLine(job)
	ctxlog.From(ctx).Debug("Running build command", "command", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = ws.SourceDir
	cmd.Env = ws.Env

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", goerr.Wrap(err, "compilation failed",
			goerr.T(types.ErrTagCompile),
			goerr.V("command", strings.Join(argv, " ")),
			goerr.V("diagnostics", out.String()),
		)
	}

	produced := job.ProducedPath(ws.SourceDir)
	if _, err := os.Stat(produced); err != nil {
		return "", goerr.Wrap(err, "compiler did not produce a binary",
			goerr.T(types.ErrTagCompile), goerr.V("path", produced))
	}
	return produced, nil
}

// commandLine returns the compiler invocation for a job
func commandLine(job *model.Job) []string {
	bin := "cargo"
	if job.Cross() {
		bin = "cross"
	}

	argv := []string{bin, "build"}
	if job.Profile == "release" {
		argv = append(argv, "--release")
	} else {
		argv = append(argv, "--profile", job.Profile)
	}
	if t := job.Target(); t != "" {
		argv = append(argv, "--target", t)
	}
	return argv
}
