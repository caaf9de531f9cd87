package ir

import "errors"

// Error kinds. Every error returned by the conversion wraps exactly one of
// these so the driver and the tests can classify it with errors.Is.
var (
	// ErrConfiguration reports a conflicting or invalid request, such as a
	// device link combined with explicit input/output profiles.
	ErrConfiguration = errors.New("configuration error")
	// ErrResource reports a file that cannot be opened, read or written.
	ErrResource = errors.New("resource error")
	// ErrFormat reports an unsupported or mismatched color space or a
	// buffer whose size does not match its descriptor.
	ErrFormat = errors.New("format error")
	// ErrEngine reports a profile the color engine cannot open or a
	// transform it cannot build.
	ErrEngine = errors.New("color engine error")
	// ErrIO reports a malformed codec stream.
	ErrIO = errors.New("codec error")
)
