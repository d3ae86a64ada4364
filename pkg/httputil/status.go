package httputil

import (
	"net/http"

	errs "github.com/matzehuels/seleniumdl/pkg/errors"
)

// CheckStatus maps the status of a GET on u to a coded error:
// 404 is NOT_FOUND, anything else but 200 is NETWORK_ERROR, and 5xx
// responses are additionally marked retryable.
func CheckStatus(code int, u string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errs.New(errs.ErrCodeNotFound, "GET %s: status %d", u, code)
	case code >= 500:
		return Retryable(errs.New(errs.ErrCodeNetwork, "GET %s: status %d", u, code))
	default:
		return errs.New(errs.ErrCodeNetwork, "GET %s: status %d", u, code)
	}
}
