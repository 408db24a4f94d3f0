package html2pdf

import (
	"encoding/base64"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// encode returns pdf unchanged for EncodingBinary and as base64 text otherwise.
func encode(pdf []byte, enc Encoding) []byte {
	if enc == EncodingBinary {
		return pdf
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(pdf)))
	base64.StdEncoding.Encode(out, pdf)
	return out
}

// writeBytes overwrites path with data. The parent directory must already
// exist; it is never created.
func writeBytes(fs afero.Fs, data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrFileWrite)
	}

	dir := filepath.Dir(path)
	info, err := fs.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileWrite, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s: parent %s is not a directory", ErrFileWrite, path, dir)
	}

	if err := afero.WriteFile(fs, path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	return nil
}

// WriteBytesToFile writes raw PDF bytes to path, overwriting any existing
// file. The parent directory must exist.
func (c *Converter) WriteBytesToFile(data []byte, path string) error {
	return writeBytes(c.fs, data, path)
}

// WriteBase64ToFile decodes a base64 payload from Convert and writes the PDF
// to path. The parent directory must exist.
func (c *Converter) WriteBase64ToFile(encoded []byte, path string) error {
	pdf, err := DecodeBase64(encoded)
	if err != nil {
		return err
	}
	return writeBytes(c.fs, pdf, path)
}

// DecodeBase64 decodes a base64 payload back to PDF bytes.
func DecodeBase64(encoded []byte) ([]byte, error) {
	pdf := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(pdf, encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return pdf[:n], nil
}

// WriteBytesToFile writes raw PDF bytes to path on the OS filesystem.
func WriteBytesToFile(data []byte, path string) error {
	return writeBytes(afero.NewOsFs(), data, path)
}

// WriteBase64ToFile decodes a base64 payload and writes it to path on the OS
// filesystem.
func WriteBase64ToFile(encoded []byte, path string) error {
	pdf, err := DecodeBase64(encoded)
	if err != nil {
		return err
	}
	return writeBytes(afero.NewOsFs(), pdf, path)
}
