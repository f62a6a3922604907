package domain

import "errors"

// Error taxonomy for the exchange boundary. Callers classify failures with
// errors.Is and decide per call site whether to retry, surface, or swallow.
var (
	// ErrConfig means required credentials are missing. It is raised before
	// any network I/O and is fatal to the affected call only.
	ErrConfig = errors.New("credentials not configured")

	// ErrNetwork is a transport-level failure (DNS, dial, TLS, timeout).
	ErrNetwork = errors.New("network failure")

	// ErrExchange means the exchange answered with a non-success status or
	// a non-zero error code in the response body.
	ErrExchange = errors.New("exchange rejected request")

	// ErrParse means the exchange response did not match the expected shape.
	ErrParse = errors.New("malformed exchange response")

	// ErrNotFound is returned by caches on a miss.
	ErrNotFound = errors.New("not found")
)
