package course

import "errors"

var (
	// ErrNetworkFailure covers timeouts, connection errors and non-2xx replies.
	ErrNetworkFailure = errors.New("course: network failure")
	// ErrParseFailure means the feed answered but the payload was not a course list.
	ErrParseFailure = errors.New("course: malformed payload")
	// ErrNoCachedData is returned when a fetch fails and nothing was persisted before.
	ErrNoCachedData = errors.New("course: no cached data")
)
