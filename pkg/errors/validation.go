package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var fullVersionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// ValidateVersion checks that version is a plain "major.minor.patch" string,
// the only shape the download URL template understands.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidInput, "version cannot be empty")
	}
	if !fullVersionPattern.MatchString(version) {
		return New(ErrCodeInvalidInput, "version %q is not major.minor.patch", version)
	}
	return nil
}

// ValidateBucketURL checks that raw is an absolute http(s) URL without a
// query string; query parameters are added per request.
func ValidateBucketURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "bucket url cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid bucket url %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "bucket url %q must use http or https", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "bucket url %q has no host", raw)
	}
	if u.RawQuery != "" {
		return New(ErrCodeInvalidInput, "bucket url %q must not carry a query", raw)
	}
	return nil
}

// ValidateArtifactPrefix validates the filename prefix used to pick the
// artifact out of a listing. It ends up in a URL path and a local filename,
// so path separators and control characters are rejected.
func ValidateArtifactPrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeInvalidInput, "artifact prefix cannot be empty")
	}
	if len(prefix) > 128 {
		return New(ErrCodeInvalidInput, "artifact prefix too long (max 128 characters)")
	}
	for _, r := range prefix {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "artifact prefix contains invalid control characters")
		}
	}
	if strings.ContainsAny(prefix, `/\`) || strings.Contains(prefix, "..") {
		return New(ErrCodeInvalidInput, "artifact prefix %q contains path characters", prefix)
	}
	return nil
}
