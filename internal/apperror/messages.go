package apperror

// messages maps error codes to a default human-readable message, used
// when a call site doesn't supply one via WithMessage.
var messages = map[Code]string{
	CodeTransportError:  "transport error",
	CodeTimeout:         "no data received within deadline",
	CodeUnexpectedClose: "connection closed unexpectedly",
	CodeNoAck:           "subscription not acknowledged",
	CodeParseError:      "failed to parse message",
}
