package yamlutil_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-html2pdf/internal/yamlutil"
)

type profile struct {
	Viewport  string  `yaml:"viewport"`
	Scale     float64 `yaml:"scale"`
	Landscape bool    `yaml:"landscape"`
}

// ---------------------------------------------------------------------------
// TestDecodeStrict - Strict decoding with input guards
// ---------------------------------------------------------------------------

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		wantAny bool
	}{
		{
			name: "known keys decode",
			data: []byte("viewport: 800x600\nscale: 1.5\nlandscape: true\n"),
			dest: &profile{},
		},
		{
			name:    "empty input",
			data:    nil,
			dest:    &profile{},
			wantErr: yamlutil.ErrEmptyInput,
		},
		{
			name:    "nil destination",
			data:    []byte("scale: 1"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "misspelled key is rejected",
			data:    []byte("viewPort: 800x600\n"),
			dest:    &profile{},
			wantAny: true,
		},
		{
			name:    "malformed YAML",
			data:    []byte("viewport: [unclosed"),
			dest:    &profile{},
			wantAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.DecodeStrict(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantAny:
				require.Error(t, err)
				assert.True(t, strings.HasPrefix(err.Error(), "yamlutil:"), "error %q lacks package prefix", err)
			default:
				require.NoError(t, err)
				p := tt.dest.(*profile)
				assert.Equal(t, "800x600", p.Viewport)
				assert.Equal(t, 1.5, p.Scale)
				assert.True(t, p.Landscape)
			}
		})
	}
}

func TestDecodeStrict_TooLarge(t *testing.T) {
	data := []byte("viewport: " + strings.Repeat("x", yamlutil.MaxInputSize))

	err := yamlutil.DecodeStrict(data, &profile{})
	require.ErrorIs(t, err, yamlutil.ErrInputTooLarge)
}

// ---------------------------------------------------------------------------
// TestEncode - Round trip through Encode and DecodeStrict
// ---------------------------------------------------------------------------

func TestEncode(t *testing.T) {
	t.Parallel()

	in := profile{Viewport: "1024x768", Scale: 0.5}
	out, err := yamlutil.Encode(in)
	require.NoError(t, err)
	assert.Contains(t, string(out), "viewport: 1024x768")

	var back profile
	require.NoError(t, yamlutil.DecodeStrict(out, &back))
	assert.Equal(t, in, back)
}
