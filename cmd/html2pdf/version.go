package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Rod       string `json:"rod,omitempty"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

func getVersionCmd(root *rootCommand) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			info := currentVersion()
			if jsonOutput {
				return json.NewEncoder(root.env.Stdout).Encode(info)
			}
			fmt.Fprintf(root.env.Stdout, "html2pdf %s (%s, %s/%s", info.Version, info.GoVersion, info.OS, info.Arch)
			if info.Rod != "" {
				fmt.Fprintf(root.env.Stdout, ", rod %s", info.Rod)
			}
			fmt.Fprintln(root.env.Stdout, ")")
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print version details as JSON")

	return cmd
}

func currentVersion() versionInfo {
	info := versionInfo{
		Version:   Version,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			if dep.Path == "github.com/go-rod/rod" {
				info.Rod = dep.Version
				break
			}
		}
	}
	return info
}
