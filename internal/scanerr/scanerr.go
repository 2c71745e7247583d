// Package scanerr implements the §7 error taxonomy as sentinel-wrapped
// error values, dispatched with errors.Is/errors.As rather than custom
// panics or error codes — following indexer.NewScanner/query.QueryEngine's
// plain fmt.Errorf("...: %w", err) idiom (entreya-csvquery).
package scanerr

import "fmt"

// Kind identifies one of the §7 error categories.
type Kind uint8

const (
	IoOpenFailed Kind = iota
	IoReadFailed
	UnknownOperator
	TypeMismatch
	StackUnderflow
	MethodNotFound
	MethodCallFailed
	ParseFailed
	UnterminatedRegion
)

func (k Kind) String() string {
	switch k {
	case IoOpenFailed:
		return "io_open_failed"
	case IoReadFailed:
		return "io_read_failed"
	case UnknownOperator:
		return "unknown_operator"
	case TypeMismatch:
		return "type_mismatch"
	case StackUnderflow:
		return "stack_underflow"
	case MethodNotFound:
		return "method_not_found"
	case MethodCallFailed:
		return "method_call_failed"
	case ParseFailed:
		return "parse_failed"
	case UnterminatedRegion:
		return "unterminated_region"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind and, where it happened, the
// file path involved. errors.Is matches on Kind via Is; errors.As unwraps
// to *Error to recover the Kind and Path.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel for the same Kind, so callers can
// write errors.Is(err, scanerr.Sentinel(scanerr.IoOpenFailed)) without caring about Path
// or the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Err == nil
}

// New wraps err under kind, optionally tagging the file path where it
// occurred. Pass an empty path for errors that are not file-scoped (e.g.
// expression evaluation failures).
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Sentinel returns a zero-cause *Error usable as an errors.Is target, e.g.
// errors.Is(err, scanerr.Sentinel(scanerr.IoOpenFailed)).
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }

// Policy classifies what a caller should do once an error of this Kind is
// observed, per §7's propagation table.
type Policy uint8

const (
	// PolicySkipFile: skip this file, record the error, continue with the
	// next file in the batch (IoOpenFailed).
	PolicySkipFile Policy = iota
	// PolicyAbandonFile: abandon the in-progress file, record, continue
	// (IoReadFailed).
	PolicyAbandonFile
	// PolicyFailExpression: fail the current expression evaluation only
	// (UnknownOperator, TypeMismatch, StackUnderflow, MethodNotFound,
	// MethodCallFailed).
	PolicyFailExpression
	// PolicyFailBatch: abort the whole batch (ParseFailed).
	PolicyFailBatch
	// PolicyRecordOnly: record against the file's row without failing
	// anything (UnterminatedRegion).
	PolicyRecordOnly
)

// PolicyFor reports the propagation policy for kind, per §7.
func PolicyFor(kind Kind) Policy {
	switch kind {
	case IoOpenFailed:
		return PolicySkipFile
	case IoReadFailed:
		return PolicyAbandonFile
	case ParseFailed:
		return PolicyFailBatch
	case UnterminatedRegion:
		return PolicyRecordOnly
	default:
		return PolicyFailExpression
	}
}
