package selenium

import (
	"path"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/seleniumdl/pkg/bucket"
	errs "github.com/matzehuels/seleniumdl/pkg/errors"
)

var (
	minorPrefixPattern = regexp.MustCompile(`^(\d+\.\d+)/$`)
	fullVersionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)
)

// MinorRelease is a minor-version directory found in the bucket root.
type MinorRelease struct {
	Version *semver.Version // coerced to major.minor.0
	Minor   string          // directory name without the slash, e.g. "2.53"
}

// ParseMinorReleases returns the prefixes of l that look like "major.minor/",
// in document order. Other prefixes ("icons/", "3.0-beta1/") are ignored.
func ParseMinorReleases(l *bucket.Listing) []MinorRelease {
	var out []MinorRelease
	for _, p := range l.CommonPrefixes {
		m := minorPrefixPattern.FindStringSubmatch(p.Prefix)
		if m == nil {
			continue
		}
		v, err := semver.NewVersion(m[1])
		if err != nil {
			continue
		}
		out = append(out, MinorRelease{Version: v, Minor: m[1]})
	}
	return out
}

// LatestMinor returns the highest minor directory in l by semantic version
// ("2.53" over "2.52", "4.10" over "4.9"). When two prefixes coerce to the
// same version the later one wins.
//
// Returns a NO_VERSION error if l holds no minor-version prefix.
func LatestMinor(l *bucket.Listing) (string, error) {
	var best *MinorRelease
	releases := ParseMinorReleases(l)
	for i := range releases {
		if best == nil || !releases[i].Version.LessThan(best.Version) {
			best = &releases[i]
		}
	}
	if best == nil {
		return "", errs.New(errs.ErrCodeNoVersion, "no major.minor prefixes in listing %q", l.Name)
	}
	return best.Minor, nil
}

// FindVersion returns the full version of the first object in l whose file
// name contains artifactPrefix, e.g. "2.53.1" for
// "2.53/selenium-server-standalone-2.53.1.jar".
//
// Returns a NO_VERSION error if no object matches or the matching file name
// carries no major.minor.patch version.
func FindVersion(l *bucket.Listing, artifactPrefix string) (string, error) {
	for _, o := range l.Contents {
		name := path.Base(o.Key)
		if !strings.Contains(name, artifactPrefix) {
			continue
		}
		v := fullVersionPattern.FindString(name)
		if v == "" {
			return "", errs.New(errs.ErrCodeNoVersion, "object %q has no major.minor.patch version", o.Key)
		}
		return v, nil
	}
	return "", errs.New(errs.ErrCodeNoVersion, "no %s* object under prefix %q", artifactPrefix, l.Prefix)
}
