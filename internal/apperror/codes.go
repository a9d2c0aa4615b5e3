package apperror

// Code identifies the kind of failure a feed-side operation produced.
type Code string

// The complete taxonomy a Feed Session can report. There is no
// catch-all "unknown" code: every failure path in this codebase is
// classified into exactly one of these five before it crosses a
// component boundary.
const (
	// CodeTransportError covers dial failures and any I/O error on an
	// already-established connection (reset, broken pipe, DNS failure).
	CodeTransportError Code = "TRANSPORT_ERROR"

	// CodeTimeout covers a session that produced no frame at all within
	// its read deadline.
	CodeTimeout Code = "TIMEOUT"

	// CodeUnexpectedClose covers a close frame or EOF the session did
	// not itself request.
	CodeUnexpectedClose Code = "UNEXPECTED_CLOSE"

	// CodeNoAck covers a venue that never acknowledged the subscription
	// request within the session's ack window.
	CodeNoAck Code = "NO_ACK"

	// CodeParseError covers a frame that arrived but could not be
	// decoded into a venue message or book level.
	CodeParseError Code = "PARSE_ERROR"
)
