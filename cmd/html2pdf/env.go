package main

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	html2pdf "github.com/alnah/go-html2pdf"
)

// Converter is the conversion surface the CLI needs.
type Converter interface {
	Convert(ctx context.Context, content string, opts html2pdf.Options) ([]byte, error)
}

// Compile-time interface implementation check.
var _ Converter = (*html2pdf.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Fs        afero.Fs
	Environ   func() []string
	LookupEnv func(string) (string, bool)
	Logger    *logrus.Logger

	// NewConverter builds the converter for convert and serve.
	NewConverter func(opts ...html2pdf.Option) Converter
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Fs:        afero.NewOsFs(),
		Environ:   os.Environ,
		LookupEnv: os.LookupEnv,
		Logger: &logrus.Logger{
			Out:       os.Stderr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
		NewConverter: func(opts ...html2pdf.Option) Converter {
			return html2pdf.NewConverter(opts...)
		},
	}
}
