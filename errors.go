package remu

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to classify a failure.
var (
	// ErrDevice means no output device could be opened or it is already claimed.
	ErrDevice = errors.New("output device unavailable")
	// ErrNotFound means a local source path does not exist.
	ErrNotFound = errors.New("source not found")
	// ErrIO means a local source could not be read.
	ErrIO = errors.New("i/o error")
	// ErrNetwork means a URL fetch failed, timed out or returned a non-2xx status.
	ErrNetwork = errors.New("network error")
	// ErrDecode means the container or codec is unrecognized or corrupt.
	ErrDecode = errors.New("decode error")
	// ErrInvalidSeek means the seek target cannot be reached in the current state.
	ErrInvalidSeek = errors.New("invalid seek")
	// ErrAborted means a load was superseded or cancelled before it completed.
	ErrAborted = errors.New("load aborted")
	// ErrClosed means the player has been closed.
	ErrClosed = errors.New("player closed")
)

// Op names the operation that failed.
type Op string

const (
	OpConnect  Op = "open output device"
	OpOpenFile Op = "open file"
	OpReadFile Op = "read file"
	OpFetch    Op = "fetch url"
	OpProbe    Op = "probe source"
	OpDecode   Op = "decode source"
	OpSeek     Op = "seek"
	OpPlayback Op = "play source"
)

// Error is a classified engine failure.
type Error struct {
	Op     Op
	Origin string // path or URL, empty when not applicable
	Kind   error  // one of the Err* kinds
	Err    error  // underlying cause, may be nil
}

// Error implements error.
func (e *Error) Error() string {
	msg := string(e.Op)
	if e.Origin != "" {
		msg += " " + e.Origin
	}
	switch {
	case e.Err != nil && e.Kind != nil:
		return fmt.Sprintf("%s: %v: %v", msg, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", msg, e.Kind)
	default:
		return msg
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewError returns an *Error.
func NewError(op Op, origin string, kind, err error) *Error {
	return &Error{Op: op, Origin: origin, Kind: kind, Err: err}
}

// KindOf returns the error kind of err, or nil if err is not classified.
func KindOf(err error) error {
	for _, k := range []error{ErrDevice, ErrNotFound, ErrIO, ErrNetwork, ErrDecode, ErrInvalidSeek, ErrAborted, ErrClosed} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
