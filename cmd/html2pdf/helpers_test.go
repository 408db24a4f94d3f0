package main

// Notes:
// - Commands run end to end through run() with an in-memory filesystem and a
//   fake converter; browser-backed conversion is covered by the library's
//   integration tests.
// - --config tests read real files from t.TempDir since profiles are loaded
//   from the OS filesystem.

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	html2pdf "github.com/alnah/go-html2pdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake converter
// ---------------------------------------------------------------------------

// fakeConverter mimics html2pdf.Converter: it writes opts.Path itself and
// encodes the payload per opts.Encoding. The PDF embeds the content so tests
// can tell outputs apart.
type fakeConverter struct {
	fs afero.Fs

	mu       sync.Mutex
	errFor   map[string]error // keyed by content
	contents []string
	opts     []html2pdf.Options
}

func (f *fakeConverter) Convert(_ context.Context, content string, opts html2pdf.Options) ([]byte, error) {
	f.mu.Lock()
	f.contents = append(f.contents, content)
	f.opts = append(f.opts, opts)
	err := f.errFor[content]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	pdf := fakePDF(content)
	if opts.Path != "" {
		if err := afero.WriteFile(f.fs, opts.Path, pdf, 0o644); err != nil {
			return nil, err
		}
	}
	if opts.Encoding == html2pdf.EncodingBinary {
		return pdf, nil
	}
	return []byte(base64.StdEncoding.EncodeToString(pdf)), nil
}

func (f *fakeConverter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.opts)
}

func (f *fakeConverter) lastOpts(t *testing.T) html2pdf.Options {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.opts, "converter was not called")
	return f.opts[len(f.opts)-1]
}

func fakePDF(content string) []byte {
	return []byte("%PDF-1.7 " + content)
}

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment
// ---------------------------------------------------------------------------

type testEnv struct {
	env    *Environment
	stdin  *bytes.Buffer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	fs     afero.Fs
	conv   *fakeConverter
	vars   map[string]string
	logs   *test.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	te := &testEnv{
		stdin:  new(bytes.Buffer),
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
		fs:     fs,
		conv:   &fakeConverter{fs: fs, errFor: map[string]error{}},
		vars:   map[string]string{},
	}

	logger, hook := test.NewNullLogger()
	te.logs = hook
	te.env = &Environment{
		Stdin:  te.stdin,
		Stdout: te.stdout,
		Stderr: te.stderr,
		Fs:     fs,
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		LookupEnv: func(name string) (string, bool) {
			v, ok := te.vars[name]
			return v, ok
		},
		Logger:       logger,
		NewConverter: func(...html2pdf.Option) Converter { return te.conv },
	}
	return te
}

func (te *testEnv) run(args ...string) int {
	return run(context.Background(), args, te.env)
}

func (te *testEnv) writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(te.fs, path, []byte(content), 0o644))
}

func (te *testEnv) readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(te.fs, path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

func (te *testEnv) exists(path string) bool {
	ok, _ := afero.Exists(te.fs, path)
	return ok
}

// output returns stdout and stderr for failure messages.
func (te *testEnv) output() string {
	return strings.Join([]string{"stdout:", te.stdout.String(), "stderr:", te.stderr.String()}, "\n")
}
