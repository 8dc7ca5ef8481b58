// Package apperrors provides chained error values carrying an HTTP-style status
// code and an optional user-facing hint. Each package declares its own sentinel
// errors derived from a package base error, so callers can match with errors.Is
// at any level of the chain.
package apperrors

// Error is the interface implemented by application errors. All mutating
// methods return a copy so sentinels can be shared safely.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // new error using current as template
	Msg(msg string) Error                  // new message, wraps the current error
	MsgErr(msg string, err ...error) Error // new message, wraps current and extra errors
	Err(err ...error) Error                // keeps the message, attaches extra errors
	SetStatusCode(int) Error               // copy with a status code
	StatusCode() int                       // status code, 0 when unset
	WithHint(string) Error                 // copy with a hint shown to the user
	Hint() string                          // hint from this error or the nearest ancestor
	ErrorAll() string                      // message followed by every attached error
}
