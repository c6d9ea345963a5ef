// Package diagnostics defines the fatal-error vocabulary shared by every
// stage of the compiler core: labeling, constraint generation, solving,
// dynamic marking, and CPS transformation.
//
// Every failure in the core is, per design, unrecoverable locally: a
// compilation either succeeds or aborts. Stages signal failure by panicking
// with a *CoreError. The exported entry points of the label, cfa, and cps
// packages let that panic propagate; each stage of the pipeline package
// recovers it with Recover and hands the caller back an ordinary error in
// the pipeline Context.
package diagnostics

import "fmt"

// ErrorCode classifies a CoreError for callers that want to branch on kind
// (tests, the CLI's exit-code choice) without string-matching messages.
type ErrorCode string

const (
	// Structural errors: a Closure reached the analysis/transformer, or an
	// unsupported term variant was handed to a stage that enumerates its
	// cases explicitly.
	ErrClosureSeen         ErrorCode = "E_CLOSURE_SEEN"
	ErrUnsupportedVariant  ErrorCode = "E_UNSUPPORTED_VARIANT"
	ErrAppNotAtomic        ErrorCode = "E_APP_NOT_ATOMIC"

	// Name resolution errors.
	ErrUnboundVariable ErrorCode = "E_UNBOUND_VARIABLE"

	// Arity/shape mismatches.
	ErrUnknownAtom  ErrorCode = "E_UNKNOWN_ATOM"
	ErrMissingFun   ErrorCode = "E_MISSING_FUN"
	ErrBadIfShape   ErrorCode = "E_BAD_IF_SHAPE"
	ErrStrayConstraint ErrorCode = "E_STRAY_CONSTRAINT"

	// Resource guards configured by pipelinecfg.
	ErrLimitExceeded ErrorCode = "E_LIMIT_EXCEEDED"

	// Failures surfaced by a caller-supplied component (an
	// evalstub.InferenceBackend) rather than by this module's own stages.
	ErrInternal ErrorCode = "E_INTERNAL"
)

// CoreError is the single panic payload used throughout this module for
// fatal, unrecoverable-locally failures (spec §7).
type CoreError struct {
	Code  ErrorCode
	Label int // -1 when no single label is responsible
	Msg   string
}

func (e *CoreError) Error() string {
	if e.Label >= 0 {
		return fmt.Sprintf("%s: %s (label %d)", e.Code, e.Msg, e.Label)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// NewError builds a *CoreError. label may be -1 when the failure isn't tied
// to one term node.
func NewError(code ErrorCode, label int, format string, args ...any) *CoreError {
	return &CoreError{Code: code, Label: label, Msg: fmt.Sprintf(format, args...)}
}

// Fatal panics with a *CoreError, the uniform way every stage in this
// module reports an unrecoverable failure.
func Fatal(code ErrorCode, label int, format string, args ...any) {
	panic(NewError(code, label, format, args...))
}

// Recover turns a panicking *CoreError into a returned error. Any other
// panic value is re-panicked, matching internal/vm's recover convention in
// the teacher repository: only the sentinel errors this package defines are
// ever swallowed at a stage boundary.
func Recover(errp *error) {
	if r := recover(); r != nil {
		if ce, ok := r.(*CoreError); ok {
			*errp = ce
			return
		}
		panic(r)
	}
}
