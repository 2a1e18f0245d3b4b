package router

// Token is the control value a Handler or Middleware returns to tell the
// dispatcher what to do next. Go has no stackful coroutines, so the
// cooperative "yield a verdict, resume later" handler style the upstream
// design builds on is rendered here as an explicit return value plus,
// for Suspend, a stashed continuation closure (see RouteParams.Suspend).
// Router.Dispatch and FlatRouter.Dispatch return the matched route's
// Token to their caller as is; neither acts on it.
type Token uint8

const (
	// Next continues to the next Middleware in the chain, or to the
	// terminal route Handler once the chain is exhausted.
	Next Token = iota

	// NextRoute reports that the current route declines the request.
	// Dispatch does not resume pattern matching on it: no other
	// candidate route is tried, and NextRoute is returned to the caller.
	NextRoute

	// Send ends the chain successfully: a response has been written and
	// no further Middleware or Handler should run.
	Send

	// Suspend pauses the chain. The Handler or Middleware returning it
	// must have called RouteParams.Suspend with a Resumer first; the
	// dispatcher stops driving the chain and returns control to the
	// caller, who resumes later by invoking the stashed Resumer.
	Suspend

	// Complete marks the entire request (not just this chain) finished,
	// distinct from Send in that it also signals the connection's request
	// loop that no further processing of this message is expected.
	Complete

	// Close tears down the underlying connection outright, bypassing any
	// further response framing.
	Close
)

func (t Token) String() string {
	switch t {
	case Next:
		return "next"
	case NextRoute:
		return "next_route"
	case Send:
		return "send"
	case Suspend:
		return "suspend"
	case Complete:
		return "complete"
	case Close:
		return "close"
	default:
		return "unknown"
	}
}
