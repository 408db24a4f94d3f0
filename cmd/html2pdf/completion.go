package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	html2pdf "github.com/alnah/go-html2pdf"
)

// completionMeta holds completion hints for a flag. Flag names, types and
// descriptions come from the FlagSet; cobra generates the shell scripts.
type completionMeta struct {
	Values   []string // enum values
	FileExts []string // file extensions without the dot
}

// flagCompletionMeta maps flag names to their completion metadata.
// This is the only place where completion hints are defined.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"format":   {Values: formatValues()},
	"encoding": {Values: []string{string(html2pdf.EncodingBinary), string(html2pdf.EncodingBase64)}},
	"viewport": {Values: []string{html2pdf.DefaultViewport, "1280x800", "1024x768", "800x600"}},

	// File flags
	"config":          {FileExts: []string{"yaml", "yml"}},
	"output":          {FileExts: []string{"pdf", "b64"}},
	"header-template": {FileExts: []string{"html", "htm"}},
	"footer-template": {FileExts: []string{"html", "htm"}},
}

// inputExts lists the extensions suggested for convert arguments.
var inputExts = []string{"html", "htm", "xhtml"}

func formatValues() []string {
	formats := html2pdf.Formats()
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}

// registerCompletions attaches completion hints to the flags of cmd that
// have metadata. Names without metadata are skipped, so one map serves all
// commands.
func registerCompletions(cmd *cobra.Command) {
	for _, flags := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		flags.VisitAll(func(f *pflag.Flag) {
			meta, ok := flagCompletionMeta[f.Name]
			if !ok {
				return
			}
			if len(meta.Values) > 0 {
				values := meta.Values
				_ = cmd.RegisterFlagCompletionFunc(f.Name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
					return values, cobra.ShellCompDirectiveNoFileComp
				})
				return
			}
			if len(meta.FileExts) > 0 {
				_ = flags.SetAnnotation(f.Name, cobra.BashCompFilenameExt, meta.FileExts)
			}
		})
	}
}

// completeInputs suggests HTML files for convert arguments.
func completeInputs(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return inputExts, cobra.ShellCompDirectiveFilterFileExt
}
