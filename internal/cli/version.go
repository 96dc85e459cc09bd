package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/vburojevic/fx/internal/output"
)

// VersionCmd shows the build and how to upgrade.
type VersionCmd struct{}

// VersionOutput represents the NDJSON output for version information
type VersionOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	Platform      string `json:"platform"`
	GoInstall     string `json:"go_install"`
	ReleasesURL   string `json:"releases_url"`
}

const (
	goInstallCmd = "go install github.com/vburojevic/fx/cmd/fx@latest"
	releasesURL  = "https://github.com/vburojevic/fx/releases"
)

// Run executes the version command
func (c *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		out := VersionOutput{
			Type:          "version",
			SchemaVersion: output.SchemaVersion,
			Version:       Version,
			Commit:        Commit,
			Platform:      runtime.GOOS + "/" + runtime.GOARCH,
			GoInstall:     goInstallCmd,
			ReleasesURL:   releasesURL,
		}
		return json.NewEncoder(globals.Stdout).Encode(out)
	}

	fmt.Fprintf(globals.Stdout, "fx %s (%s) %s/%s\n", Version, Commit, runtime.GOOS, runtime.GOARCH)
	fmt.Fprintln(globals.Stdout)
	fmt.Fprintln(globals.Stdout, "To upgrade via Go:")
	fmt.Fprintf(globals.Stdout, "  %s\n", goInstallCmd)
	fmt.Fprintln(globals.Stdout)
	fmt.Fprintln(globals.Stdout, "For release notes, see:")
	fmt.Fprintf(globals.Stdout, "  %s\n", releasesURL)
	return nil
}
