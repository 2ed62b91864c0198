package tika

import (
	"errors"
	"fmt"
)

// Common errors returned by tika operations
var (
	// ErrRemoteOnly indicates a server operation was requested on a
	// remote-only client, which owns no process
	ErrRemoteOnly = errors.New("tika: remote-only client does not manage a server")

	// ErrServerNotReady indicates the server process exited before
	// emitting its readiness banner
	ErrServerNotReady = errors.New("tika: server exited before becoming ready")

	// ErrNoLanguage indicates the server returned an empty language
	// detection result
	ErrNoLanguage = errors.New("tika: no language detected")

	// ErrArtifactMissing indicates a configured server artifact path
	// does not exist on disk
	ErrArtifactMissing = errors.New("tika: server artifact does not exist")
)

// Kind classifies a failure so callers can decide how to react.
type Kind int

const (
	// KindUnknown is the zero value for unclassified errors
	KindUnknown Kind = iota
	// KindConfig indicates an invalid or missing required setting
	KindConfig
	// KindIO indicates a filesystem failure
	KindIO
	// KindNetwork indicates an HTTP transport failure or a server
	// process that died before serving
	KindNetwork
	// KindSerialization indicates a malformed response body
	KindSerialization
	// KindURLParse indicates a malformed endpoint URL
	KindURLParse
	// KindAddrParse indicates a malformed bind address
	KindAddrParse
)

// Kind string constants
const (
	kindUnknownStr       = "unknown"
	kindConfigStr        = "config"
	kindIOStr            = "io"
	kindNetworkStr       = "network"
	kindSerializationStr = "serialization"
	kindURLParseStr      = "urlparse"
	kindAddrParseStr     = "addrparse"
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return kindConfigStr
	case KindIO:
		return kindIOStr
	case KindNetwork:
		return kindNetworkStr
	case KindSerialization:
		return kindSerializationStr
	case KindURLParse:
		return kindURLParseStr
	case KindAddrParse:
		return kindAddrParseStr
	case KindUnknown:
		fallthrough
	default:
		return kindUnknownStr
	}
}

// Error represents a classified error from a tika operation
type Error struct {
	// Kind is the failure class
	Kind Kind
	// Op is the operation that failed
	Op string
	// Target is the path, URL, or address involved in the operation
	Target string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *Error) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("tika %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("tika %s %q: %v", e.Op, e.Target, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps err with a kind, operation, and target.
func newError(kind Kind, op, target string, err error) *Error {
	return &Error{Kind: kind, Op: op, Target: target, Err: err}
}

// KindOf returns the Kind of err if it is (or wraps) an *Error,
// otherwise KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
