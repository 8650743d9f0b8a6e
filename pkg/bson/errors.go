package bson

import (
	"fmt"
	"strings"
)

// Errors returned by the reader. Typed errors below match these with errors.Is.
var (
	ErrEmptyBuffer         = &ReadError{"empty buffer: no document found"}
	ErrDocumentTooSmall    = &ReadError{"document too small"}
	ErrLengthExceedsBuffer = &ReadError{"document length exceeds buffer"}
	ErrMissingTerminator   = &ReadError{"document is not terminated by null byte"}
	ErrUnknownType         = &ReadError{"unrecognized element type"}
	ErrTruncated           = &ReadError{"element extends past end of document"}
	ErrCorruptValue        = &ReadError{"corrupt element value"}
	ErrMaxDepth            = &ReadError{"maximum nesting depth exceeded"}
	ErrNotFound            = &ReadError{"key not found"}
	ErrEndOfDocument       = &ReadError{"end of document"}
	ErrTypeMismatch        = &ReadError{"type mismatch"}
)

// ReadError represents a document reader error
type ReadError struct {
	Message string
}

func (e *ReadError) Error() string {
	return "bson: " + e.Message
}

// UnknownTypeError reports an element whose type tag is not supported.
type UnknownTypeError struct {
	Type   Type
	Offset int // offset of the tag within its document
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("bson: unrecognized element type 0x%02x at offset %d", byte(e.Type), e.Offset)
}

func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

// TypeMismatchError is returned when a value is decoded as a type other than
// the one it is tagged with.
type TypeMismatchError struct {
	Want Type
	Got  Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("bson: type mismatch: value is %s, not %s", e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ElementError locates a strict validation failure. Path holds the keys from
// the top level document down to the failing element; Offset is the element's
// position within its own document.
type ElementError struct {
	Path   []string
	Offset int
	Err    error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("bson: element %q at offset %d: %v", strings.Join(e.Path, "."), e.Offset, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
