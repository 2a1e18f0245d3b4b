package router

import "errors"

var (
	// ErrNotFound indicates no registered route matched the request.
	ErrNotFound = errors.New("router: no matching route")

	// ErrMethodNotAllowed names the case where the path is registered
	// only under other methods. Neither Dispatch returns it: that case
	// yields ErrNotFound.
	ErrMethodNotAllowed = errors.New("router: method not allowed")

	// ErrDepthExceeded names a Mount nesting chain deeper than
	// maxLayerDepth. Mount does not return it: it panics with a string
	// message in that case.
	ErrDepthExceeded = errors.New("router: nested router depth exceeded")

	// ErrNotSuspended indicates Resume was called on a RouteParams whose
	// chain never returned Suspend, so no Resumer was ever stashed.
	ErrNotSuspended = errors.New("router: no suspended continuation to resume")

	// ErrAmbiguousPattern names two entries on the same method with an
	// identical pattern. Handle does not return it: the later
	// registration replaces the earlier handler for dispatch, and Entries
	// lists both.
	ErrAmbiguousPattern = errors.New("router: duplicate route pattern")
)

func panicPrecondition(msg string) {
	panic("router: " + msg)
}
