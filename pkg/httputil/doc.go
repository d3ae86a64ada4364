// Package httputil provides retry helpers shared by the HTTP clients in
// seleniumdl.
//
// # Retry
//
// [Retry] re-runs an operation on transient failures only. Callers mark a
// failure as transient by wrapping it in [RetryableError]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// The bucket listing client treats connection errors and 5xx responses as
// retryable; 404 and malformed listings fail immediately.
package httputil
