package main

// Notes:
// - The doctor is built with fake lookPath/version functions so results do
//   not depend on the Chrome installed on the machine.
// - /.dockerenv may exist where tests run, so assertions about container
//   detection use the HTML2PDF_CONTAINER override or only check for errors.

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-html2pdf/internal/config"
)

// fakeChrome creates an empty file standing in for the browser binary.
func fakeChrome(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chrome")
	require.NoError(t, os.WriteFile(path, nil, 0o755))
	return path
}

func newTestDoctor(te *testEnv, lookPath func() (string, bool)) *doctor {
	root := &rootCommand{
		env:    te.env,
		cfg:    config.DefaultConfig(),
		envCfg: &config.EnvConfig{},
		out:    newPrinter(te.stdout, te.stderr, true),
	}
	return &doctor{
		root:     root,
		lookPath: lookPath,
		version:  func(string) (string, error) { return "Chromium 131.0.6778.85", nil },
	}
}

func runJSON(t *testing.T, te *testEnv, d *doctor) (*doctorResult, error) {
	t.Helper()
	err := d.run(true)

	var result doctorResult
	require.NoError(t, json.Unmarshal(te.stdout.Bytes(), &result), te.output())
	return &result, err
}

// ---------------------------------------------------------------------------
// TestDoctor_Found - Chrome located through the launcher lookup
// ---------------------------------------------------------------------------

func TestDoctor_Found(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	bin := fakeChrome(t)
	d := newTestDoctor(te, func() (string, bool) { return bin, true })

	result, err := runJSON(t, te, d)
	require.NoError(t, err)

	assert.NotEqual(t, "errors", result.Status)
	assert.True(t, result.Chrome.Found)
	assert.Equal(t, bin, result.Chrome.Path)
	assert.Equal(t, "lookup", result.Chrome.Source)
	assert.Equal(t, "Chromium 131.0.6778.85", result.Chrome.Version)
	assert.True(t, result.System.TempWritable)
	assert.Equal(t, runtime.GOOS, result.Env.OS)
	assert.Equal(t, runtime.GOARCH, result.Env.Arch)
	assert.GreaterOrEqual(t, result.Env.Workers, 1)
}

// ---------------------------------------------------------------------------
// TestDoctor_NotFound - Missing Chrome is a blocking error
// ---------------------------------------------------------------------------

func TestDoctor_NotFound(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	d := newTestDoctor(te, func() (string, bool) { return "", false })

	result, err := runJSON(t, te, d)
	require.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, ExitGeneral, exitCodeFor(err))

	assert.Equal(t, "errors", result.Status)
	assert.False(t, result.Chrome.Found)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "not found")
}

// ---------------------------------------------------------------------------
// TestDoctor_BinaryPriority - profile/flag > ROD_BROWSER_BIN > lookup
// ---------------------------------------------------------------------------

func TestDoctor_BinaryPriority(t *testing.T) {
	t.Parallel()

	fromConfig, fromEnv, fromLookup := fakeChrome(t), fakeChrome(t), fakeChrome(t)
	lookup := func() (string, bool) { return fromLookup, true }

	tests := []struct {
		name       string
		configBin  string
		envBin     string
		wantPath   string
		wantSource string
	}{
		{name: "config", configBin: fromConfig, envBin: fromEnv, wantPath: fromConfig, wantSource: "config"},
		{name: "env", envBin: fromEnv, wantPath: fromEnv, wantSource: "ROD_BROWSER_BIN"},
		{name: "lookup", wantPath: fromLookup, wantSource: "lookup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if tt.envBin != "" {
				te.vars["ROD_BROWSER_BIN"] = tt.envBin
			}
			d := newTestDoctor(te, lookup)
			d.root.cfg.Browser.Bin = tt.configBin

			result, _ := runJSON(t, te, d)
			assert.Equal(t, tt.wantPath, result.Chrome.Path)
			assert.Equal(t, tt.wantSource, result.Chrome.Source)
		})
	}
}

func TestDoctor_BinaryMissing(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	d := newTestDoctor(te, nil)
	d.root.cfg.Browser.Bin = filepath.Join(t.TempDir(), "no-chrome")

	result, err := runJSON(t, te, d)
	require.ErrorIs(t, err, ErrNotReady)
	assert.Contains(t, strings.Join(result.Errors, "\n"), "Chrome not found at")
}

func TestDoctor_VersionWarning(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	bin := fakeChrome(t)
	d := newTestDoctor(te, func() (string, bool) { return bin, true })
	d.version = func(string) (string, error) { return "", errors.New("exec format error") }

	result, err := runJSON(t, te, d)
	require.NoError(t, err)
	assert.Equal(t, "warnings", result.Status)
	assert.Contains(t, strings.Join(result.Warnings, "\n"), "Could not get Chrome version")
}

// ---------------------------------------------------------------------------
// TestDoctor_Container - Sandbox warning in containers and CI
// ---------------------------------------------------------------------------

func TestDoctor_Container(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		vars        map[string]string
		noSandbox   bool
		wantWarning bool
		wantSandbox bool
	}{
		{name: "sandbox enabled", vars: map[string]string{"HTML2PDF_CONTAINER": "1"}, wantWarning: true, wantSandbox: true},
		{name: "disabled by profile", vars: map[string]string{"HTML2PDF_CONTAINER": "1"}, noSandbox: true},
		{name: "disabled by rod env", vars: map[string]string{"HTML2PDF_CONTAINER": "1", "ROD_NO_SANDBOX": "1"}},
		{name: "ci", vars: map[string]string{"CI": "true"}, wantWarning: true, wantSandbox: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			for k, v := range tt.vars {
				te.vars[k] = v
			}
			bin := fakeChrome(t)
			d := newTestDoctor(te, func() (string, bool) { return bin, true })
			d.root.cfg.Browser.NoSandbox = tt.noSandbox

			result, err := runJSON(t, te, d)
			require.NoError(t, err)

			if _, ok := tt.vars["HTML2PDF_CONTAINER"]; ok {
				assert.True(t, result.Env.Container)
				assert.Equal(t, "HTML2PDF_CONTAINER=1", result.Env.ContainerHint)
			}
			if _, ok := tt.vars["CI"]; ok {
				assert.True(t, result.Env.CI)
			}
			assert.Equal(t, tt.wantSandbox, result.Chrome.Sandbox)

			warned := strings.Contains(strings.Join(result.Warnings, "\n"), "sandbox is enabled")
			assert.Equal(t, tt.wantWarning, warned)
		})
	}
}

// ---------------------------------------------------------------------------
// TestDoctor_HumanOutput - Sections and status line
// ---------------------------------------------------------------------------

func TestDoctor_HumanOutput(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	bin := fakeChrome(t)
	d := newTestDoctor(te, func() (string, bool) { return bin, true })

	require.NoError(t, d.run(false))

	out := te.stdout.String()
	for _, want := range []string{
		"html2pdf doctor",
		"Chrome/Chromium",
		"[OK] Found at " + bin,
		"[OK] Version: Chromium 131.0.6778.85",
		"Environment",
		"[OK] Platform: " + runtime.GOOS + "/" + runtime.GOARCH,
		"System",
		"[OK] Temp directory: writable",
		"Status: Ready",
	} {
		assert.Contains(t, out, want)
	}
}

func TestDoctor_HumanOutputErrors(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	d := newTestDoctor(te, func() (string, bool) { return "", false })

	err := d.run(false)
	require.Error(t, err)

	out := te.stdout.String()
	assert.Contains(t, out, "[ERROR] Not found")
	assert.Contains(t, out, "Status: Not ready (see errors above)")
}
