package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage     = errors.New("invalid usage")
	ErrNoInput   = errors.New("no input specified")
	ErrReadInput = errors.New("failed to read input")
)

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}

// rootCommand keeps the state shared by every subcommand: global flags and
// the effective profile (defaults < config file < environment < flags).
type rootCommand struct {
	env *Environment
	cmd *cobra.Command

	configName string
	verbose    bool
	quiet      bool
	noColor    bool
	browserBin string
	noSandbox  bool

	cfg    *config.Config
	envCfg *config.EnvConfig
	out    *printer
}

func newRootCommand(env *Environment) *rootCommand {
	c := &rootCommand{env: env}

	c.cmd = &cobra.Command{
		Use:   "html2pdf",
		Short: "Convert HTML documents and web pages to PDF with headless Chrome",
		Long: `html2pdf prints HTML files, stdin or URLs to PDF with headless Chrome.
Tables keep their rows whole across page breaks, headers can repeat on every
page, and colors print as they appear on screen.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	c.cmd.SetIn(env.Stdin)
	c.cmd.SetOut(env.Stdout)
	c.cmd.SetErr(env.Stderr)
	c.cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	c.cmd.PersistentFlags().AddFlagSet(c.persistentFlagSet())
	registerCompletions(c.cmd)

	c.cmd.AddCommand(
		getConvertCmd(c),
		getDecodeCmd(c),
		getServeCmd(c),
		getDoctorCmd(c),
		getConfigCmd(c),
		getVersionCmd(c),
	)
	return c
}

func (c *rootCommand) persistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringVarP(&c.configName, "config", "c", "", "config profile name or path (env HTML2PDF_CONFIG)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "only print errors")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&c.browserBin, "browser", "", "Chrome/Chromium binary (env HTML2PDF_BROWSER_BIN, ROD_BROWSER_BIN)")
	flags.BoolVar(&c.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (containers running as root)")
	return flags
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	c.setupLogger()
	c.out = newPrinter(c.env.Stdout, c.env.Stderr, c.noColor)

	for _, name := range config.UnknownEnvVars(c.env.Environ()) {
		c.env.Logger.Warnf("unknown environment variable %s (typo?)", name)
	}

	envCfg, err := config.LoadEnv(c.env.LookupEnv)
	if err != nil {
		return err
	}

	name := c.configName
	if !cmd.Flags().Changed("config") && envCfg.ConfigPath != nil {
		name = *envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return err
		}
		c.env.Logger.WithField("config", name).Debug("loaded config profile")
	}
	envCfg.Apply(cfg)

	if cmd.Flags().Changed("browser") {
		cfg.Browser.Bin = c.browserBin
	}
	if c.noSandbox {
		cfg.Browser.NoSandbox = true
	}

	c.cfg = cfg
	c.envCfg = envCfg
	c.env.Logger.Debugf("GOMAXPROCS: %d", runtime.GOMAXPROCS(0))
	return nil
}

func (c *rootCommand) setupLogger() {
	switch {
	case c.verbose:
		c.env.Logger.SetLevel(logrus.DebugLevel)
	case c.quiet:
		c.env.Logger.SetLevel(logrus.ErrorLevel)
	default:
		c.env.Logger.SetLevel(logrus.InfoLevel)
	}
	if c.noColor {
		c.env.Logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}
}

// newConverter builds a converter from the effective browser settings.
func (c *rootCommand) newConverter() Converter {
	opts := []html2pdf.Option{
		html2pdf.WithLogger(c.env.Logger),
		html2pdf.WithFileSystem(c.env.Fs),
	}
	if c.cfg.Browser.Bin != "" {
		opts = append(opts, html2pdf.WithBrowserBin(c.cfg.Browser.Bin))
	}
	if c.cfg.Browser.NoSandbox {
		opts = append(opts, html2pdf.WithNoSandbox())
	}
	return c.env.NewConverter(opts...)
}

// printer writes status lines, colored when the terminal supports it.
type printer struct {
	stdout io.Writer
	stderr io.Writer
	ok     *color.Color
	warn   *color.Color
	fail   *color.Color
	faint  *color.Color
}

func newPrinter(stdout, stderr io.Writer, noColor bool) *printer {
	p := &printer{
		stdout: stdout,
		stderr: stderr,
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed, color.Bold),
		faint:  color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{p.ok, p.warn, p.fail, p.faint} {
			c.DisableColor()
		}
	}
	return p
}
