package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"
)

// ErrNotReady reports that doctor found blocking problems.
var ErrNotReady = errors.New("environment not ready for conversion")

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Source  string `json:"source,omitempty"` // flag/profile, ROD_BROWSER_BIN or lookup
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	GOMAXPROCS    int    `json:"gomaxprocs"`
	Workers       int    `json:"workers"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctor runs checks against the effective profile and process environment.
type doctor struct {
	root *rootCommand

	// lookPath and version are replaced in tests.
	lookPath func() (string, bool)
	version  func(bin string) (string, error)
}

func getDoctorCmd(root *rootCommand) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that Chrome and the environment are ready for conversion",
		Long: `Check the Chrome/Chromium installation, sandbox settings, container and CI
detection, and temp directory access. Exits 1 when a blocking problem is found.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			d := &doctor{root: root, lookPath: launcher.LookPath, version: chromeVersion}
			return d.run(jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")

	return cmd
}

func (d *doctor) run(jsonOutput bool) error {
	result := d.check()

	if jsonOutput {
		enc := json.NewEncoder(d.root.env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		d.print(result)
	}

	if result.Status == "errors" {
		return errReported{ErrNotReady}
	}
	return nil
}

// check performs all diagnostic checks.
func (d *doctor) check() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			GOMAXPROCS: runtime.GOMAXPROCS(0),
			NoSandbox:  d.getenv("ROD_NO_SANDBOX"),
			BrowserBin: d.getenv("ROD_BROWSER_BIN"),
		},
	}

	workers := 0
	if w := d.root.envCfg.Workers; w != nil {
		workers = *w
	}
	result.Env.Workers = resolveWorkers(workers)

	d.checkChrome(result)
	d.checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

func (d *doctor) getenv(name string) string {
	v, _ := d.root.env.LookupEnv(name)
	return v
}

func (d *doctor) sandboxDisabled() bool {
	return d.root.cfg.Browser.NoSandbox || d.getenv("ROD_NO_SANDBOX") == "1"
}

// checkChrome locates the binary the converter would launch.
func (d *doctor) checkChrome(result *doctorResult) {
	chromePath, source := d.root.cfg.Browser.Bin, "config"
	if chromePath == "" && result.Env.BrowserBin != "" {
		chromePath, source = result.Env.BrowserBin, "ROD_BROWSER_BIN"
	}
	if chromePath == "" {
		var found bool
		chromePath, found = d.lookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome, pass --browser or set ROD_BROWSER_BIN")
			return
		}
		source = "lookup"
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Source = source
	result.Chrome.Sandbox = !d.sandboxDisabled()

	version, err := d.version(chromePath)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	result.Chrome.Version = version
}

func chromeVersion(bin string) (string, error) {
	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- binary chosen by the user
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// checkEnvironment detects container and CI environments.
func (d *doctor) checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = d.isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if d.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && !d.sandboxDisabled() {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but the sandbox is enabled. Use --no-sandbox or set ROD_NO_SANDBOX=1")
	}
}

// isContainer returns whether we run in a container and which signal said so.
func (d *doctor) isContainer() (bool, string) {
	if d.getenv("HTML2PDF_CONTAINER") == "1" {
		return true, "HTML2PDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := d.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if d.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for HTML content is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "html2pdf-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// print outputs human-readable diagnostic results.
func (d *doctor) print(r *doctorResult) {
	p := d.root.out
	w := p.stdout
	okLine := func(format string, args ...any) {
		p.ok.Fprint(w, "  [OK]")
		fmt.Fprintf(w, " "+format+"\n", args...)
	}
	errLine := func(format string, args ...any) {
		p.fail.Fprint(w, "  [ERROR]")
		fmt.Fprintf(w, " "+format+"\n", args...)
	}

	fmt.Fprintln(w, "html2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		okLine("Found at %s (%s)", r.Chrome.Path, r.Chrome.Source)
		if r.Chrome.Version != "" {
			okLine("Version: %s", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			okLine("Sandbox: enabled")
		} else {
			okLine("Sandbox: disabled")
		}
	} else {
		errLine("Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	okLine("Platform: %s/%s", r.Env.OS, r.Env.Arch)
	okLine("GOMAXPROCS: %d, workers: %d", r.Env.GOMAXPROCS, r.Env.Workers)
	if r.Env.Container {
		okLine("Container: detected (%s)", r.Env.ContainerHint)
	}
	if r.Env.CI {
		okLine("CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		okLine("Temp directory: writable")
	} else {
		errLine("Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			p.warn.Fprint(w, "  [WARN]")
			fmt.Fprintf(w, " %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, e := range r.Errors {
			errLine("%s", e)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
