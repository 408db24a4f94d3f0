package html2pdf

// Notes:
// - rowGroupCSS: nil leaves thead/tfoot alone, true repeats, false pins to a plain row group
// - BuildPrintCSS: rule order is fixed, each rule is labelled, empty when nothing applies

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRequest(t *testing.T) *Request {
	t.Helper()
	req, err := Resolve(Options{})
	require.NoError(t, err)
	return req
}

// ---------------------------------------------------------------------------
// TestRowGroupCSS - Tri-state thead/tfoot repetition
// ---------------------------------------------------------------------------

func TestRowGroupCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		repeat   *bool
		expected string
	}{
		{name: "unset", repeat: nil, expected: ""},
		{name: "repeat", repeat: Bool(true), expected: "\nthead {\n  display: table-header-group;\n}\n"},
		{name: "no repeat", repeat: Bool(false), expected: "\nthead {\n  display: table-row-group;\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, rowGroupCSS("thead", "table-header-group", tt.repeat))
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildPrintCSS_Gating - Each rule appears only when its flag is on
// ---------------------------------------------------------------------------

func TestBuildPrintCSS_Gating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*Request)
		contains   []string
		notContain []string
	}{
		{
			name:       "defaults",
			mutate:     func(*Request) {},
			contains:   []string{"tr {", "img {", "* {"},
			notContain: []string{"div {", "thead", "tfoot"},
		},
		{
			name:       "row break allowed",
			mutate:     func(r *Request) { r.AvoidTableRowBreak = false },
			notContain: []string{"tr {", "table {"},
		},
		{
			name:       "image break allowed",
			mutate:     func(r *Request) { r.AvoidImageBreak = false },
			notContain: []string{"img {"},
		},
		{
			name:     "div break avoided",
			mutate:   func(r *Request) { r.AvoidDivBreak = true },
			contains: []string{"div {\n  break-inside: avoid;"},
		},
		{
			name:       "footer repeats",
			mutate:     func(r *Request) { r.RepeatTableFooter = Bool(true) },
			contains:   []string{"tfoot {\n  display: table-footer-group;"},
			notContain: []string{"thead"},
		},
		{
			name:       "true colors off",
			mutate:     func(r *Request) { r.TrueColors = false },
			notContain: []string{"print-color-adjust"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := defaultRequest(t)
			tt.mutate(req)
			css := BuildPrintCSS(req)

			for _, want := range tt.contains {
				assert.Contains(t, css, want)
			}
			for _, unwanted := range tt.notContain {
				assert.NotContains(t, css, unwanted)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildPrintCSS_Order - Rules are emitted in table order
// ---------------------------------------------------------------------------

func TestBuildPrintCSS_Order(t *testing.T) {
	t.Parallel()

	req := defaultRequest(t)
	req.AvoidDivBreak = true
	req.RepeatTableHeader = Bool(true)
	req.RepeatTableFooter = Bool(false)

	css := BuildPrintCSS(req)

	markers := []string{
		"/* avoid table row break */",
		"/* avoid image break */",
		"/* avoid div break */",
		"/* table header */",
		"/* table footer */",
		"/* true colors */",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(css, m)
		require.GreaterOrEqual(t, idx, 0, "missing %s", m)
		assert.Greater(t, idx, last, "%s out of order", m)
		last = idx
	}
}

func TestBuildPrintCSS_Empty(t *testing.T) {
	t.Parallel()

	req := &Request{}
	assert.Empty(t, BuildPrintCSS(req))
}

func TestTrueColorsCSS(t *testing.T) {
	t.Parallel()

	css := trueColorsCSS(&Request{TrueColors: true})
	for _, prop := range []string{"-webkit-print-color-adjust", "print-color-adjust", "color-adjust"} {
		assert.Contains(t, css, prop+": exact !important;")
	}
}
