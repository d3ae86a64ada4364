package selenium

import (
	"fmt"
	"strings"
)

const (
	// DefaultBaseURL is the public bucket Selenium releases are published to.
	DefaultBaseURL = "https://selenium-release.storage.googleapis.com"

	// DefaultArtifactPrefix identifies the standalone server jar in a listing.
	DefaultArtifactPrefix = "selenium-server-standalone-"

	// DefaultExt is the artifact file extension.
	DefaultExt = ".jar"

	// FallbackVersion is used whenever the latest release cannot be determined.
	FallbackVersion = "2.53.0"
)

// Artifact describes where a release file lives:
//
//	<BaseURL>/<major.minor>/<Prefix><version><Ext>
//
// The zero value is not usable; start from [DefaultArtifact].
type Artifact struct {
	BaseURL string // bucket root, no trailing slash required
	Prefix  string // filename prefix, e.g. "selenium-server-standalone-"
	Ext     string // filename extension including the dot, e.g. ".jar"
}

// DefaultArtifact returns the Selenium standalone server layout.
func DefaultArtifact() Artifact {
	return Artifact{
		BaseURL: DefaultBaseURL,
		Prefix:  DefaultArtifactPrefix,
		Ext:     DefaultExt,
	}
}

// Filename returns the release file name for version,
// e.g. "selenium-server-standalone-2.53.1.jar".
func (a Artifact) Filename(version string) string {
	return a.Prefix + version + a.Ext
}

// URL returns the download URL for version.
func (a Artifact) URL(version string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(a.BaseURL, "/"), MinorVersion(version), a.Filename(version))
}

// MinorVersion returns the first two dot-separated components of version:
// "2.53.1" -> "2.53". Versions with fewer components are returned unchanged.
func MinorVersion(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}
