package ingest

import "fmt"

// FailureKind tags why extraction produced no usable text.
type FailureKind string

const (
	KindOversize    FailureKind = "oversize"
	KindUnsupported FailureKind = "unsupported"
	KindPDF         FailureKind = "pdf"
	KindOCR         FailureKind = "ocr"
)

// Error is a tagged extraction failure. The human-readable text folded
// into the query travels separately; this type is the explicit channel
// callers can branch on.
type Error struct {
	Kind     FailureKind
	Filename string
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Filename, e.Kind, e.cause)
	}
	return fmt.Sprintf("extract %s: %s", e.Filename, e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind FailureKind, filename string, cause error) *Error {
	return &Error{Kind: kind, Filename: filename, cause: cause}
}
