// Package buildinfo exposes values injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/pestcrm/internal/buildinfo.buildVersion=1.2.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// DefaultAppVersion is sent as x-app-version when no build version was injected.
const DefaultAppVersion = "1.0.0"

// Version returns the injected build version, or "N/A".
func Version() string {
	return buildVersion
}

// AppVersion returns the version string the API client should announce.
func AppVersion() string {
	if buildVersion == "" || buildVersion == "N/A" {
		return DefaultAppVersion
	}
	return buildVersion
}

func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
