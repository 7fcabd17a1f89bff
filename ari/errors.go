package ari

import "github.com/pkg/errors"

// Status is a small integer result code. Every operation that can fail
// returns one instead of raising a panic or an exception; see the
// propagation policy in the error handling design of this module's
// specification.
type Status int

// Status codes. Zero always means success.
const (
	StatusOK Status = iota
	StatusArgument
	StatusDecoding
	StatusInvalidARI
	StatusTypeMismatch
	StatusOutOfRange
	StatusConstraint
	StatusNoChoice
	StatusPermissionDenied
	StatusUnimplemented
	StatusNullFunc
)

var statusText = map[Status]string{
	StatusOK:               "ok",
	StatusArgument:         "invalid argument",
	StatusDecoding:         "decoding error",
	StatusInvalidARI:       "invalid ARI",
	StatusTypeMismatch:     "type mismatch",
	StatusOutOfRange:       "value out of range",
	StatusConstraint:       "constraint violation",
	StatusNoChoice:         "no union choice matched",
	StatusPermissionDenied: "permission denied",
	StatusUnimplemented:    "capability not compiled in",
	StatusNullFunc:         "value not convertible to requested class",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return "unknown status"
}

// Err wraps the status with a message, suitable for the optional
// human-readable out-parameter described for the codecs. The caller may
// recover the Status with errors.Cause-style inspection via As.
type Err struct {
	Status Status
	msg    error
}

// NewErr builds an Err around a status and a formatted message.
func NewErr(status Status, format string, args ...interface{}) *Err {
	return &Err{Status: status, msg: errors.Errorf(format, args...)}
}

// Wrap attaches additional context to an existing error without losing
// its Status, mirroring errors.Wrap from github.com/pkg/errors.
func Wrap(status Status, err error, msg string) *Err {
	return &Err{Status: status, msg: errors.Wrap(err, msg)}
}

func (e *Err) Error() string {
	if e.msg == nil {
		return e.Status.String()
	}
	return e.msg.Error()
}

func (e *Err) Unwrap() error { return e.msg }

// AsStatus extracts the Status from an error produced by this module,
// defaulting to StatusArgument when err does not originate here.
func AsStatus(err error) Status {
	if err == nil {
		return StatusOK
	}
	var e *Err
	if errors.As(err, &e) {
		return e.Status
	}
	return StatusArgument
}
