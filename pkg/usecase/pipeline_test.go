package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
	"github.com/m-mizutani/drover/pkg/usecase"
)

// mockSandbox creates real temp directories so file-producing stages work
type mockSandbox struct {
	t  *testing.T
	mu sync.Mutex
}

func (m *mockSandbox) Create(runID string, job *model.Job) (*model.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	root, err := os.MkdirTemp(m.t.TempDir(), string(job.Kind)+"-*")
	if err != nil {
		return nil, err
	}
	srcDir := filepath.Join(root, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return nil, err
	}
	return &model.Workspace{
		Root:      root,
		SourceDir: srcDir,
		Env: []string{
			"RUSTUP_HOME=" + filepath.Join(root, ".rustup"),
			"CARGO_HOME=" + filepath.Join(root, ".cargo"),
		},
	}, nil
}

type mockSource struct {
	mu   sync.Mutex
	refs []string
}

func (m *mockSource) Fetch(ctx context.Context, ref, dest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs = append(m.refs, ref)
	return os.MkdirAll(dest, 0o755)
}

type provisionCall struct {
	Kind       model.HostKind
	Cross      bool
	RustupHome string
}

type mockToolchain struct {
	mu       sync.Mutex
	calls    []provisionCall
	failKind model.HostKind
}

func (m *mockToolchain) Provision(ctx context.Context, ws *model.Workspace, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var home string
	for _, kv := range ws.Env {
		if v, ok := strings.CutPrefix(kv, "RUSTUP_HOME="); ok {
			home = v
		}
	}
	m.calls = append(m.calls, provisionCall{Kind: job.Kind, Cross: job.Cross(), RustupHome: home})

	if m.failKind != "" && job.Kind == m.failKind {
		return goerr.New("rustup install failed", goerr.T(types.ErrTagProvisioning))
	}
	return nil
}

type mockCompiler struct {
	mu        sync.Mutex
	failKind  model.HostKind
	skipWrite bool
}

func (m *mockCompiler) Build(ctx context.Context, ws *model.Workspace, job *model.Job) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failKind != "" && job.Kind == m.failKind {
		return "", goerr.New("compilation failed",
			goerr.T(types.ErrTagCompile), goerr.V("diagnostics", "error[E0308]: mismatched types"))
	}

	produced := job.ProducedPath(ws.SourceDir)
	if !m.skipWrite {
		if err := os.MkdirAll(filepath.Dir(produced), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(produced, []byte("binary"), 0o755); err != nil {
			return "", err
		}
	}
	return produced, nil
}

type mockStore struct {
	mu    sync.Mutex
	saved []string
	fail  bool
}

func (m *mockStore) Save(ctx context.Context, runID, name, srcPath string) error {
	if m.fail {
		return goerr.New("storage backend unavailable")
	}
	if _, err := os.Stat(srcPath); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, name)
	return nil
}

func (m *mockStore) Saved() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]string{}, m.saved...)
	sort.Strings(out)
	return out
}

type attachCall struct {
	Tag  string
	Name string
}

type mockRelease struct {
	mu       sync.Mutex
	attached []attachCall
	fail     bool
}

func (m *mockRelease) AttachAsset(ctx context.Context, tag, name, path string) error {
	if m.fail {
		return goerr.New("release not found")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attached = append(m.attached, attachCall{Tag: tag, Name: name})
	return nil
}

func (m *mockRelease) Attached() []attachCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]attachCall{}, m.attached...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type fixture struct {
	sandbox   *mockSandbox
	source    *mockSource
	toolchain *mockToolchain
	compiler  *mockCompiler
	store     *mockStore
	release   *mockRelease
	pipeline  interfaces.PipelineUseCase
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		sandbox:   &mockSandbox{t: t},
		source:    &mockSource{},
		toolchain: &mockToolchain{},
		compiler:  &mockCompiler{},
		store:     &mockStore{},
		release:   &mockRelease{},
	}
	f.pipeline = usecase.NewPipeline(
		f.sandbox, f.source, f.toolchain, f.compiler, f.store, f.release,
		"observer", "release",
	)
	return f
}

var allNames = []string{
	"observer_darwin_amd64",
	"observer_linux_aarch64",
	"observer_linux_amd64",
	"observer_windows_amd64.exe",
}

func TestPipeline_BranchPush_ArchivesWithoutRelease(t *testing.T) {
	// Scenario A: all jobs compile, ref is a branch
	f := newFixture(t)

	report, err := f.pipeline.Run(context.Background(), model.NewTrigger("refs/heads/master"))
	gt.NoError(t, err)
	gt.True(t, report.OK())
	gt.Array(t, report.Results).Length(4)

	gt.Value(t, f.store.Saved()).Equal(allNames)
	gt.Array(t, f.release.Attached()).Length(0)

	for _, res := range report.Results {
		gt.True(t, res.Archived)
		gt.Value(t, res.Release).Equal(model.ReleaseSkipped)
	}
}

func TestPipeline_TagPush_ArchivesAndPublishes(t *testing.T) {
	// Scenario B: all jobs compile, ref is a version tag
	f := newFixture(t)

	report, err := f.pipeline.Run(context.Background(), model.NewTrigger("refs/tags/v1.2.0"))
	gt.NoError(t, err)
	gt.True(t, report.OK())

	gt.Value(t, f.store.Saved()).Equal(allNames)

	attached := f.release.Attached()
	gt.Array(t, attached).Length(4)
	for i, call := range attached {
		gt.Value(t, call.Tag).Equal("v1.2.0")
		gt.Value(t, call.Name).Equal(allNames[i])
	}

	for _, res := range report.Results {
		gt.Value(t, res.Release).Equal(model.ReleasePublished)
	}
}

func TestPipeline_CompileFailureIsFailIndependent(t *testing.T) {
	// Scenario C: the windows job fails to compile on a tag push
	f := newFixture(t)
	f.compiler.failKind = model.HostWindows

	report, err := f.pipeline.Run(context.Background(), model.NewTrigger("refs/tags/v1.2.0"))
	gt.Error(t, err)
	gt.False(t, report.OK())
	gt.Array(t, report.Failed()).Length(1)

	gt.Value(t, f.store.Saved()).Equal([]string{
		"observer_darwin_amd64",
		"observer_linux_aarch64",
		"observer_linux_amd64",
	})
	gt.Array(t, f.release.Attached()).Length(3)

	for _, res := range report.Results {
		if res.Job.Kind == model.HostWindows {
			gt.Error(t, res.Err)
			gt.True(t, types.IsCompileError(res.Err))
			gt.False(t, res.Archived)
			gt.Value(t, res.Release).Equal(model.ReleaseNone)
		} else {
			gt.NoError(t, res.Err)
			gt.Value(t, res.Release).Equal(model.ReleasePublished)
		}
	}
}

func TestPipeline_ToolchainIsolation(t *testing.T) {
	// Scenario D: the cross job's foreign target never touches a native
	// job's toolchain environment
	f := newFixture(t)

	_, err := f.pipeline.Run(context.Background(), model.NewTrigger("refs/heads/master"))
	gt.NoError(t, err)

	gt.Array(t, f.toolchain.calls).Length(4)

	homes := map[string]bool{}
	for _, call := range f.toolchain.calls {
		gt.Value(t, call.RustupHome).NotEqual("")
		homes[call.RustupHome] = true
		gt.Value(t, call.Cross).Equal(call.Kind == model.HostCrossAarch64)
	}
	gt.Value(t, len(homes)).Equal(4)
}

func TestPipeline_ProvisioningFailureSkipsLaterStages(t *testing.T) {
	f := newFixture(t)
	f.toolchain.failKind = model.HostCrossAarch64

	report, err := f.pipeline.Run(context.Background(), model.NewTrigger("refs/tags/v1.2.0"))
	gt.Error(t, err)

	gt.Value(t, f.store.Saved()).Equal([]string{
		"observer_darwin_amd64",
		"observer_linux_amd64",
		"observer_windows_amd64.exe",
	})

	for _, res := range report.Results {
		if res.Job.Kind == model.HostCrossAarch64 {
			gt.True(t, types.IsProvisioningError(res.Err))
			gt.False(t, res.Archived)
			gt.Value(t, res.Artifact).Equal("")
		}
	}
}

func TestPipeline_MissingBinaryIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.compiler.skipWrite = true

	report, err := f.pipeline.Run(context.Background(), model.NewTrigger("refs/heads/master"))
	gt.Error(t, err)
	gt.Array(t, report.Failed()).Length(4)
	gt.Array(t, f.store.Saved()).Length(0)

	for _, res := range report.Results {
		gt.True(t, types.IsNotFoundError(res.Err))
	}
}

func TestPipeline_ArchivalFailure(t *testing.T) {
	f := newFixture(t)
	f.store.fail = true

	report, err := f.pipeline.Run(context.Background(), model.NewTrigger("refs/heads/master"))
	gt.Error(t, err)

	for _, res := range report.Results {
		gt.True(t, types.IsPublishError(res.Err))
		gt.False(t, res.Archived)
	}
}

func TestPipeline_AttachFailureKeepsArchival(t *testing.T) {
	f := newFixture(t)
	f.release.fail = true

	report, err := f.pipeline.Run(context.Background(), model.NewTrigger("refs/tags/v1.2.0"))
	gt.Error(t, err)

	// Archival already completed for every job and is not invalidated
	gt.Value(t, f.store.Saved()).Equal(allNames)

	for _, res := range report.Results {
		gt.True(t, res.Archived)
		gt.Value(t, res.Release).Equal(model.ReleaseFailed)
		gt.True(t, types.IsPublishError(res.Err))
	}
}

func TestPipeline_NoReleaseClientOnTagPush(t *testing.T) {
	f := newFixture(t)
	f.pipeline = usecase.NewPipeline(
		f.sandbox, f.source, f.toolchain, f.compiler, f.store, nil,
		"observer", "release",
	)

	report, err := f.pipeline.Run(context.Background(), model.NewTrigger("refs/tags/v1.2.0"))
	gt.Error(t, err)

	for _, res := range report.Results {
		gt.True(t, res.Archived)
		gt.Value(t, res.Release).Equal(model.ReleaseFailed)
	}
}
