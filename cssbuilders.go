package html2pdf

import "strings"

// printRule is one entry of the print-fidelity table: a CSS block gated by a
// request flag. css returns "" when the rule does not apply.
type printRule struct {
	name string
	css  func(req *Request) string
}

// printRules is applied top to bottom. Every selector is a bare element
// selector, so rules for different elements never compete on specificity.
var printRules = []printRule{
	{name: "avoid table row break", css: avoidRowBreakCSS},
	{name: "avoid image break", css: avoidImageBreakCSS},
	{name: "avoid div break", css: avoidDivBreakCSS},
	{name: "table header", css: tableHeaderCSS},
	{name: "table footer", css: tableFooterCSS},
	{name: "true colors", css: trueColorsCSS},
}

func avoidRowBreakCSS(req *Request) string {
	if !req.AvoidTableRowBreak {
		return ""
	}
	return `
table {
  break-inside: auto;
  page-break-inside: auto;
}
tr {
  break-inside: avoid;
  page-break-inside: avoid;
}
`
}

func avoidImageBreakCSS(req *Request) string {
	if !req.AvoidImageBreak {
		return ""
	}
	return `
img {
  break-inside: avoid;
  page-break-inside: avoid;
}
`
}

func avoidDivBreakCSS(req *Request) string {
	if !req.AvoidDivBreak {
		return ""
	}
	return `
div {
  break-inside: avoid;
  page-break-inside: avoid;
}
`
}

func tableHeaderCSS(req *Request) string {
	return rowGroupCSS("thead", "table-header-group", req.RepeatTableHeader)
}

func tableFooterCSS(req *Request) string {
	return rowGroupCSS("tfoot", "table-footer-group", req.RepeatTableFooter)
}

// rowGroupCSS makes a row group repeat on every page, or pins it to a plain
// row group when repetition is explicitly off. Unset leaves the element alone.
func rowGroupCSS(selector, repeating string, repeat *bool) string {
	if repeat == nil {
		return ""
	}
	display := "table-row-group"
	if *repeat {
		display = repeating
	}
	return "\n" + selector + " {\n  display: " + display + ";\n}\n"
}

func trueColorsCSS(req *Request) string {
	if !req.TrueColors {
		return ""
	}
	return `
* {
  -webkit-print-color-adjust: exact !important;
  print-color-adjust: exact !important;
  color-adjust: exact !important;
}
`
}

// BuildPrintCSS returns the print-fidelity stylesheet for req, or "" when no
// rule applies.
func BuildPrintCSS(req *Request) string {
	var buf strings.Builder
	for _, rule := range printRules {
		css := rule.css(req)
		if css == "" {
			continue
		}
		buf.WriteString("\n/* ")
		buf.WriteString(rule.name)
		buf.WriteString(" */")
		buf.WriteString(css)
	}
	return buf.String()
}
