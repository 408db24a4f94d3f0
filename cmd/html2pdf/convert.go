package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	html2pdf "github.com/alnah/go-html2pdf"
)

// stdioPath stands for stdin as input and stdout as output.
const stdioPath = "-"

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

type convertCmd struct {
	root *rootCommand

	url      string
	output   string
	encoding string
	workers  int
	pdf      pdfFlags
}

// job is one input to convert. An empty input means opts.URL is the source.
type job struct {
	input  string
	output string
}

func (j job) source(url string) string {
	if j.input == "" {
		return url
	}
	if j.input == stdioPath {
		return "stdin"
	}
	return j.input
}

// conversionResult holds the outcome of a single conversion.
type conversionResult struct {
	source   string
	output   string
	bytes    int
	err      error
	duration time.Duration
}

func getConvertCmd(root *rootCommand) *cobra.Command {
	c := &convertCmd{root: root}

	cmd := &cobra.Command{
		Use:   "convert [file.html ...]",
		Short: "Convert HTML files, stdin or a URL to PDF",
		Long: `Convert HTML files, stdin ("-") or a URL to PDF.

Each input gets its own browser. Several files convert in parallel, bounded
by --workers. Without --output, file.html becomes file.pdf next to it; with
several inputs --output must be an existing directory.`,
		Example: `  html2pdf convert report.html
  html2pdf convert --url https://example.com -o example.pdf --format a4
  cat page.html | html2pdf convert - -o - > page.pdf
  html2pdf convert *.html -o out/ --workers 4 --repeat-table-header`,
		ValidArgsFunction: completeInputs,
		RunE:              c.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&c.url, "url", "u", "", "print this http(s) or file URL instead of input files")
	flags.StringVarP(&c.output, "output", "o", "", `output file, directory, or "-" for stdout`)
	flags.StringVarP(&c.encoding, "encoding", "e", string(html2pdf.EncodingBinary), "output encoding: binary (PDF) or base64 (text)")
	flags.IntVarP(&c.workers, "workers", "w", 0, "parallel conversions (0 = auto, env HTML2PDF_WORKERS)")
	flags.AddFlagSet(c.pdf.flagSet())
	registerCompletions(cmd)

	return cmd
}

func (c *convertCmd) run(cmd *cobra.Command, args []string) error {
	opts := c.root.cfg.PDF.Options()
	if err := c.pdf.apply(cmd.Flags(), c.root.env.Fs, &opts); err != nil {
		return err
	}

	enc, err := c.outputEncoding(cmd)
	if err != nil {
		return err
	}
	opts.Encoding = enc

	jobs, err := c.plan(args)
	if err != nil {
		return err
	}
	if c.url != "" {
		opts.URL = c.url
	}

	// Catch option errors once, before any file is read or browser started.
	if _, err := html2pdf.Resolve(opts); err != nil {
		return err
	}

	workers := c.workers
	if !cmd.Flags().Changed("workers") && c.root.envCfg.Workers != nil {
		workers = *c.root.envCfg.Workers
	}
	workers = resolveWorkers(workers)
	c.root.env.Logger.WithField("workers", workers).Debugf("converting %d input(s)", len(jobs))

	results := c.convertAll(cmd.Context(), jobs, opts, workers)
	return c.report(results)
}

// outputEncoding picks the payload encoding: flag > profile > binary.
func (c *convertCmd) outputEncoding(cmd *cobra.Command) (html2pdf.Encoding, error) {
	raw := c.encoding
	if !cmd.Flags().Changed("encoding") && c.root.cfg.PDF.Encoding != "" {
		raw = c.root.cfg.PDF.Encoding
	}
	switch strings.ToLower(raw) {
	case "binary", "raw", "buffer", "pdf":
		return html2pdf.EncodingBinary, nil
	case "base64":
		return html2pdf.EncodingBase64, nil
	default:
		return "", usageErrorf("--encoding: unknown value %q (must be binary or base64)", raw)
	}
}

// plan maps inputs to output paths.
func (c *convertCmd) plan(args []string) ([]job, error) {
	if c.url != "" {
		if len(args) > 0 {
			return nil, usageErrorf("--url cannot be combined with input files")
		}
		if c.output == "" {
			return nil, usageErrorf("--output is required with --url")
		}
		return []job{{output: c.output}}, nil
	}

	switch len(args) {
	case 0:
		return nil, fmt.Errorf("%w: pass HTML files, - for stdin, or --url", ErrNoInput)
	case 1:
		return []job{c.planOne(args[0])}, c.checkSingle(args[0])
	}

	for _, a := range args {
		if a == stdioPath {
			return nil, usageErrorf("stdin cannot be combined with other inputs")
		}
	}
	if c.output == stdioPath {
		return nil, usageErrorf("stdout output needs a single input")
	}
	if c.output != "" && !c.isDir(c.output) {
		return nil, usageErrorf("--output must be an existing directory with several inputs, got %s", c.output)
	}

	jobs := make([]job, len(args))
	seen := make(map[string]string, len(args))
	for i, a := range args {
		jobs[i] = c.planOne(a)
		if prev, dup := seen[jobs[i].output]; dup {
			return nil, usageErrorf("%s and %s would both write %s", prev, a, jobs[i].output)
		}
		seen[jobs[i].output] = a
	}
	return jobs, nil
}

func (c *convertCmd) checkSingle(input string) error {
	if input == stdioPath && c.output == "" {
		return usageErrorf("--output is required when reading stdin")
	}
	return nil
}

func (c *convertCmd) planOne(input string) job {
	pdfName := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".pdf"

	switch {
	case c.output == "":
		return job{input: input, output: strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"}
	case c.output != stdioPath && c.isDir(c.output):
		return job{input: input, output: filepath.Join(c.output, pdfName)}
	default:
		return job{input: input, output: c.output}
	}
}

func (c *convertCmd) isDir(path string) bool {
	ok, err := afero.IsDir(c.root.env.Fs, path)
	return err == nil && ok
}

// convertAll runs jobs with at most workers conversions in flight.
// A failed job does not stop the others.
func (c *convertCmd) convertAll(ctx context.Context, jobs []job, opts html2pdf.Options, workers int) []conversionResult {
	conv := c.root.newConverter()
	results := make([]conversionResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = conversionResult{source: j.source(opts.URL), output: j.output, err: err}
				return nil
			}
			results[i] = c.convertOne(ctx, conv, j, opts)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *convertCmd) convertOne(ctx context.Context, conv Converter, j job, opts html2pdf.Options) conversionResult {
	start := time.Now()
	res := conversionResult{source: j.source(opts.URL), output: j.output}
	defer func() { res.duration = time.Since(start) }()

	var content string
	if j.input != "" {
		data, err := readPayload(c.root, j.input)
		if err != nil {
			res.err = err
			return res
		}
		content = string(data)
	}

	toStdout := j.output == stdioPath
	if opts.Encoding == html2pdf.EncodingBinary && !toStdout {
		// The converter writes the raw PDF itself.
		opts.Path = j.output
	}

	payload, err := conv.Convert(ctx, content, opts)
	if err != nil {
		res.err = err
		return res
	}
	res.bytes = len(payload)

	switch {
	case toStdout:
		if _, err := c.root.env.Stdout.Write(payload); err != nil {
			res.err = fmt.Errorf("writing to stdout: %w", err)
		}
	case opts.Path == "":
		if err := afero.WriteFile(c.root.env.Fs, j.output, payload, filePermissions); err != nil {
			res.err = fmt.Errorf("%w: %w", html2pdf.ErrFileWrite, err)
		}
	}
	return res
}

// report prints one line per result and a summary for batches. It returns
// the failures joined, so the exit code reflects the most severe category.
func (c *convertCmd) report(results []conversionResult) error {
	out := c.root.out
	var errs []error

	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			out.fail.Fprint(out.stderr, "FAILED")
			fmt.Fprintf(out.stderr, " %s: %v%s\n", r.source, r.err, hintFor(r.err, r.source))
			continue
		}
		if c.root.quiet || r.output == stdioPath {
			continue
		}
		out.ok.Fprint(out.stderr, "Created")
		fmt.Fprintf(out.stderr, " %s", r.output)
		if c.root.verbose {
			out.faint.Fprintf(out.stderr, " (%s, %v)", r.source, r.duration.Round(time.Millisecond))
		}
		fmt.Fprintln(out.stderr)
	}

	if !c.root.quiet && len(results) > 1 {
		fmt.Fprintf(out.stderr, "\n%d succeeded, %d failed\n", len(results)-len(errs), len(errs))
	}

	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 && len(results) == 1 {
		return errReported{errs[0]}
	}
	return errReported{fmt.Errorf("%d of %d conversions failed: %w", len(errs), len(results), errors.Join(errs...))}
}

// errReported marks an error whose details were already printed per input.
type errReported struct{ err error }

func (e errReported) Error() string { return e.err.Error() }
func (e errReported) Unwrap() error { return e.err }
