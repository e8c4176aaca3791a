// Package provider defines the shared outcome vocabulary for upstream data
// providers. Both registry clients classify their results into the sentinel
// errors declared here so that callers can distinguish a rejected identifier
// from a transient failure without knowing which provider was involved.
package provider

import (
	"net/http"

	"github.com/rotisserie/eris"
)

// Provider names used as cache-key prefixes and log/metric labels.
const (
	NameBrasilAPI = "brasilapi"
	NameCNPJA     = "cnpja"
)

// ErrNotFound means the provider rejected the identifier: it is well-formed
// but unregistered (or malformed from the provider's point of view). This is
// a terminal, user-distinguishable condition.
var ErrNotFound = eris.New("provider: identifier not found")

// ErrUnavailable means the call could not be completed for transient reasons:
// timeout, connection failure, server error, or an unparseable success body.
// The user may retry later.
var ErrUnavailable = eris.New("provider: service unavailable")

// ErrRateLimited means the provider answered 429. It is only ever observed
// inside a client's retry loop; once retries are exhausted it is mapped to
// ErrUnavailable before being returned to the caller.
var ErrRateLimited = eris.New("provider: rate limited")

// ClassifyStatus maps an HTTP status code to an outcome error. It returns nil
// for 2xx responses. The mapping is deliberately a pure function so the
// per-provider bucketing is testable without any network access:
//
//	400, 404          -> ErrNotFound
//	429               -> ErrRateLimited
//	5xx and the rest  -> ErrUnavailable
func ClassifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusBadRequest || code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUnavailable
	}
}
