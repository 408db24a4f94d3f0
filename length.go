package html2pdf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Length is a CSS-style length: a bare number (pixels) or a number with one
// of the units px, in, cm, mm, pt. The empty Length means zero.
type Length string

// Px returns a pixel Length.
func Px(v float64) Length {
	return Length(strconv.FormatFloat(v, 'f', -1, 64))
}

// Pixels per unit, using the CSS reference pixel (96 per inch).
const pixelsPerInch = 96.0

var lengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)

// Inches converts the length to inches, the unit Chromium's print API expects.
func (l Length) Inches() (float64, error) {
	if strings.TrimSpace(string(l)) == "" {
		return 0, nil
	}

	m := lengthPattern.FindStringSubmatch(string(l))
	if m == nil {
		return 0, fmt.Errorf("invalid length %q", string(l))
	}

	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %w", string(l), err)
	}

	switch strings.ToLower(m[2]) {
	case "", "px":
		return amount / pixelsPerInch, nil
	case "in":
		return amount, nil
	case "cm":
		return amount / 2.54, nil
	case "mm":
		return amount / 25.4, nil
	case "pt":
		return amount / 72.0, nil
	default:
		return 0, fmt.Errorf("unsupported length unit %q in %q", m[2], string(l))
	}
}

// IsZero reports whether the length is unset.
func (l Length) IsZero() bool {
	return strings.TrimSpace(string(l)) == ""
}
