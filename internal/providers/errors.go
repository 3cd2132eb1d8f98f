// Package providers holds the error taxonomy shared by the generation
// provider clients. Callers distinguish configuration mistakes from
// transient outages with errors.Is against these sentinels; the clients
// wrap them with provider-specific detail.
package providers

import "errors"

var (
	// ErrUnconfigured means the client has no credentials and cannot call out.
	ErrUnconfigured = errors.New("provider is not configured")
	// ErrAuthFailed means the provider rejected our credentials.
	ErrAuthFailed = errors.New("provider authentication failed")
	// ErrQuotaExceeded means the account is out of credits or its
	// subscription lapsed.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	// ErrRateLimited means the provider throttled the request.
	ErrRateLimited = errors.New("provider rate limit exceeded")
	// ErrUnavailable covers connection failures and provider 5xx responses.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrTimeout means the acknowledgment did not arrive within the bound.
	ErrTimeout = errors.New("provider request timed out")
	// ErrBadResponse means a success response carried no usable payload,
	// e.g. no correlation id could be extracted.
	ErrBadResponse = errors.New("provider returned an unusable response")
	// ErrRejected means the provider reported an error inside an HTTP
	// success response body.
	ErrRejected = errors.New("provider rejected the request")
)
