package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackjohn7/bowl/internal/cache"
	"github.com/jackjohn7/bowl/internal/config"
	"github.com/jackjohn7/bowl/internal/files"
	"github.com/jackjohn7/bowl/pkg/bundle"
)

// env holds isolated config and data directories for one test.
type env struct {
	configDir string
	dataDir   string
	work      string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	e := env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
		work:      filepath.Join(root, "work"),
	}
	require.NoError(t, os.MkdirAll(e.work, 0o755))
	t.Setenv("BOWL_LOG_LEVEL", "")
	t.Setenv("BOWL_LOG_FORMAT", "")
	return e
}

// run executes the bowl command tree and returns stdout, stderr and the error.
func (e env) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// newTemplate creates a template named name in the work directory with a
// couple of extra files and returns its path.
func (e env) newTemplate(t *testing.T, name string) string {
	t.Helper()
	_, _, err := e.run(t, "-C", e.work, "new", name, "--no-git")
	require.NoError(t, err)

	dir := filepath.Join(e.work, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", "data"), []byte{bundle.FieldFile, bundle.Escape, 0, bundle.FieldContent}, 0o644))
	return dir
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bowl 0.1.0")
	assert.Contains(t, out, bundle.CurrentVersion)
}

func TestInit(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Bowl initialized successfully")

	_, err = os.Stat(filepath.Join(e.configDir, "config.yaml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(e.dataDir, "catalog.db"))
	assert.NoError(t, err)

	// Running init again keeps the existing config.
	_, _, err = e.run(t, "init")
	assert.NoError(t, err)
}

func TestNew(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "-C", e.work, "new", "starter", "--no-git")
	require.NoError(t, err)
	assert.Contains(t, out, `Created template "starter"`)

	cfg, err := config.Load(filepath.Join(e.work, "starter"))
	require.NoError(t, err)
	assert.Equal(t, "starter", cfg.Template.Name)

	readme, err := os.ReadFile(filepath.Join(e.work, "starter", "bowl.md"))
	require.NoError(t, err)
	assert.Equal(t, "# starter\n", string(readme))

	_, _, err = e.run(t, "-C", e.work, "new", "starter", "--no-git")
	assert.ErrorIs(t, err, errTemplateExists)

	_, _, err = e.run(t, "-C", e.work, "new", "bad/name", "--no-git")
	assert.ErrorIs(t, err, config.ErrNameInvalid)
}

func TestCheck(t *testing.T) {
	e := newEnv(t)
	dir := e.newTemplate(t, "starter")

	out, _, err := e.run(t, "-C", dir, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Check succeeded: starter 0.1.0 (4 files")
}

func TestCheck_Failures(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.run(t, "-C", e.work, "check")
	assert.ErrorIs(t, err, config.ErrNotFound)
	assert.Equal(t, exitUserError, exitCode(err))

	dir := e.newTemplate(t, "starter")
	require.NoError(t, os.Remove(filepath.Join(dir, "bowl.md")))
	_, _, err = e.run(t, "-C", dir, "check")
	assert.ErrorIs(t, err, files.ErrMissing)
}

func TestCheck_ReadmeIgnored(t *testing.T) {
	e := newEnv(t)
	dir := e.newTemplate(t, "starter")
	manifest := `[template]
name = "starter"
version = "0.1.0"

[options]
ignore = [".git", "bowl.md"]
readme = "./bowl.md"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(manifest), 0o644))

	_, _, err := e.run(t, "-C", dir, "check")
	assert.ErrorIs(t, err, files.ErrMissing)
	assert.Equal(t, exitUserError, exitCode(err))

	out := filepath.Join(e.work, "starter.bowl")
	_, _, err = e.run(t, "-C", dir, "publish", "-o", out)
	assert.ErrorIs(t, err, files.ErrMissing)
	assert.NoFileExists(t, out)
}

func TestCheck_RejectsMarkerInPath(t *testing.T) {
	e := newEnv(t)
	dir := e.newTemplate(t, "starter")
	if err := os.WriteFile(filepath.Join(dir, "bad\x9cname"), []byte("x"), 0o644); err != nil {
		t.Skipf("filesystem rejects non-UTF-8 names: %v", err)
	}

	_, _, err := e.run(t, "-C", dir, "check")
	assert.ErrorIs(t, err, bundle.ErrPathSentinel)
}

func TestPublish_RequiresTarget(t *testing.T) {
	e := newEnv(t)
	dir := e.newTemplate(t, "starter")

	_, _, err := e.run(t, "-C", dir, "publish")
	assert.ErrorIs(t, err, errRegistryUnavailable)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestPublishLocalListUseRemove(t *testing.T) {
	e := newEnv(t)
	dir := e.newTemplate(t, "starter")

	out, _, err := e.run(t, "-C", dir, "publish", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, "Bowl template built successfully!")

	out, _, err = e.run(t, "list", "--json")
	require.NoError(t, err)
	var listed []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "starter", listed[0].Name)
	assert.Equal(t, "0.1.0", listed[0].TemplateVersion)
	assert.Equal(t, 4, listed[0].FileCount)

	out, _, err = e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "starter")

	dest := filepath.Join(e.work, "project")
	out, _, err = e.run(t, "-C", e.work, "use", "starter", "--dest", "project")
	require.NoError(t, err)
	assert.Contains(t, out, "(4 files)")

	want, err := files.Collect(dir, nil)
	require.NoError(t, err)
	got, err := files.Collect(dest, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, _, err = e.run(t, "-C", e.work, "use", "starter", "--dest", "project")
	assert.ErrorIs(t, err, files.ErrFileExists)
	_, _, err = e.run(t, "-C", e.work, "use", "starter", "--dest", "project", "--force")
	assert.NoError(t, err)

	out, _, err = e.run(t, "remove", "starter")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed starter")

	out, _, err = e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No templates saved")

	_, _, err = e.run(t, "remove", "starter")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestList_IncludesUncatalogued(t *testing.T) {
	e := newEnv(t)
	dir := e.newTemplate(t, "starter")
	_, _, err := e.run(t, "-C", dir, "publish", "--local")
	require.NoError(t, err)

	cacheDir := filepath.Join(e.dataDir, cache.DirName)
	data, err := os.ReadFile(filepath.Join(cacheDir, "starter.bowl"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "copied.bowl"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "junk.bowl"), []byte{bundle.BundleStart}, 0o644))

	out, stderr, err := e.run(t, "list", "--json")
	require.NoError(t, err)
	var listed []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 3)

	assert.Equal(t, "copied", listed[0].Name)
	assert.Empty(t, listed[0].ID)
	assert.Empty(t, listed[0].TemplateVersion)
	assert.Equal(t, bundle.CurrentVersion, listed[0].FormatVersion)
	assert.Equal(t, 4, listed[0].FileCount)
	assert.Equal(t, int64(len(data)), listed[0].Size)

	assert.Equal(t, "junk", listed[1].Name)
	assert.Zero(t, listed[1].FileCount)
	assert.Contains(t, stderr, "cached bundle does not decode")

	assert.Equal(t, "starter", listed[2].Name)
	assert.NotEmpty(t, listed[2].ID)
	assert.Equal(t, "0.1.0", listed[2].TemplateVersion)

	out, _, err = e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "copied")
	assert.Contains(t, out, "starter")
}

func TestSave(t *testing.T) {
	e := newEnv(t)
	dir := e.newTemplate(t, "starter")

	out, _, err := e.run(t, "-C", dir, "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved starter 0.1.0")

	_, err = os.Stat(filepath.Join(e.dataDir, cache.DirName, "starter.bowl"))
	assert.NoError(t, err)
}

func TestPublishOutputAndInspect(t *testing.T) {
	e := newEnv(t)
	dir := e.newTemplate(t, "starter")

	_, _, err := e.run(t, "-C", dir, "publish", "-o", "../dist/")
	require.NoError(t, err)
	bundlePath := filepath.Join(e.work, "dist", "starter.bowl")

	out, _, err := e.run(t, "inspect", "starter", "--path", bundlePath, "--json")
	require.NoError(t, err)
	var res inspectOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, bundle.CurrentVersion, res.Version)
	assert.Len(t, res.Files, 4)

	out, _, err = e.run(t, "inspect", "starter", "--path", bundlePath)
	require.NoError(t, err)
	assert.Contains(t, out, "src/main.go")

	// Explicit file name.
	_, _, err = e.run(t, "-C", dir, "publish", "--output", filepath.Join(e.work, "named.bowl"))
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(e.work, "named.bowl"))
	require.NoError(t, err)
	b, err := bundle.Decode(data)
	require.NoError(t, err)
	assert.Len(t, b.Files, 4)
}

func TestUse_Failures(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.run(t, "-C", e.work, "use", "missing")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	broken := filepath.Join(e.work, "broken.bowl")
	require.NoError(t, os.WriteFile(broken, []byte{bundle.BundleStart}, 0o644))
	_, _, err = e.run(t, "-C", e.work, "use", "broken", "--path", broken)
	assert.ErrorIs(t, err, bundle.ErrMalformed)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestLogLevelFromConfig(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte("log_level: debug\nlog_format: json\n"), 0o644))
	dir := e.newTemplate(t, "starter")

	_, stderr, err := e.run(t, "-C", dir, "check")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"template collected"`)

	_, stderr, err = e.run(t, "-C", dir, "--log-level", "error", "check")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("bad input")))
	assert.Equal(t, exitSysError, exitCode(sysErr(errors.New("disk"))))
	assert.Nil(t, sysErr(nil))
}
