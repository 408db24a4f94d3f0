package html2pdf

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// TestEncode - Base64 by default, raw bytes for binary
// ---------------------------------------------------------------------------

func TestEncode(t *testing.T) {
	t.Parallel()

	pdf := []byte("%PDF-1.4 \x00\xff")

	assert.Equal(t, base64.StdEncoding.EncodeToString(pdf), string(encode(pdf, EncodingBase64)))
	assert.Equal(t, pdf, encode(pdf, EncodingBinary))
	assert.Empty(t, encode(nil, EncodingBase64))
}

// ---------------------------------------------------------------------------
// TestDecodeBase64
// ---------------------------------------------------------------------------

func TestDecodeBase64(t *testing.T) {
	t.Parallel()

	pdf := []byte("%PDF-1.4 body")

	got, err := DecodeBase64([]byte(base64.StdEncoding.EncodeToString(pdf)))
	require.NoError(t, err)
	assert.Equal(t, pdf, got)

	_, err = DecodeBase64([]byte("not base64!!"))
	require.ErrorIs(t, err, ErrInvalidPayload)
}

// ---------------------------------------------------------------------------
// TestWriteBytes - Overwrite semantics, no directory creation
// ---------------------------------------------------------------------------

func TestWriteBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(afero.Fs)
		path    string
		wantErr bool
	}{
		{
			name:  "existing directory",
			setup: func(fs afero.Fs) { _ = fs.MkdirAll("/out", 0o755) },
			path:  "/out/report.pdf",
		},
		{
			name:    "missing directory",
			setup:   func(afero.Fs) {},
			path:    "/nope/report.pdf",
			wantErr: true,
		},
		{
			name:    "parent is a file",
			setup:   func(fs afero.Fs) { _ = afero.WriteFile(fs, "/file", []byte("x"), 0o644) },
			path:    "/file/report.pdf",
			wantErr: true,
		},
		{
			name:    "empty path",
			setup:   func(afero.Fs) {},
			path:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			tt.setup(fs)

			err := writeBytes(fs, []byte("%PDF"), tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrFileWrite)
				return
			}
			require.NoError(t, err)

			got, err := afero.ReadFile(fs, tt.path)
			require.NoError(t, err)
			assert.Equal(t, []byte("%PDF"), got)

			info, err := fs.Stat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(filePermissions), info.Mode().Perm())
		})
	}
}

// ---------------------------------------------------------------------------
// TestConverter_WriteHelpers - Write*ToFile go through the converter's filesystem
// ---------------------------------------------------------------------------

func TestConverter_WriteHelpers(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/pdf", 0o755))
	c := NewConverter(WithFileSystem(fs))

	pdf := []byte("%PDF-1.7 helpers")

	require.NoError(t, c.WriteBytesToFile(pdf, "/pdf/raw.pdf"))
	require.NoError(t, c.WriteBase64ToFile([]byte(base64.StdEncoding.EncodeToString(pdf)), "/pdf/decoded.pdf"))

	raw, err := afero.ReadFile(fs, "/pdf/raw.pdf")
	require.NoError(t, err)
	decoded, err := afero.ReadFile(fs, "/pdf/decoded.pdf")
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	err = c.WriteBase64ToFile([]byte("%%%"), "/pdf/bad.pdf")
	require.ErrorIs(t, err, ErrInvalidPayload)
	exists, _ := afero.Exists(fs, "/pdf/bad.pdf")
	assert.False(t, exists, "invalid payload must not produce a file")
}

func TestWriteBytesToFile_OS(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.pdf")

	require.NoError(t, WriteBytesToFile([]byte("%PDF"), path))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), got)

	err = WriteBase64ToFile([]byte(base64.StdEncoding.EncodeToString([]byte("%PDF-2"))), path)
	require.NoError(t, err)
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-2"), got)

	err = WriteBytesToFile([]byte("%PDF"), filepath.Join(dir, "missing", "out.pdf"))
	assert.ErrorIs(t, err, ErrFileWrite)
}
