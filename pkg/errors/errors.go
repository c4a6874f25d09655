// Package errors provides structured error types for openmodel.
//
// Every failure the geometry kernel can report carries a machine-readable
// [Code]. Callers branch on codes instead of comparing messages:
//
//	_, err := m.AddFace(ids)
//	if errors.Is(err, errors.CodeUnknownVertex) {
//	    // a referenced vertex is not part of the mesh
//	}
//
// # Error Codes
//
// Codes are grouped by the layer that raises them:
//   - Primitives: DEGENERATE_VECTOR, COLLINEAR_POINTS, SINGULAR_TRANSFORM
//   - Identity: ATTRIBUTE_TYPE, ATTRIBUTE_NOT_FOUND, DUPLICATE_ID
//   - Topology: UNKNOWN_VERTEX, UNKNOWN_FACE, DEGENERATE_FACE, VERTEX_IN_USE
//   - Structure: UNKNOWN_NODE, UNKNOWN_MEMBER, UNKNOWN_SUPPORT, UNKNOWN_LOAD
//   - Serialization: PARSE, REFERENTIAL_INTEGRITY
//   - Everything else: INVALID_INPUT, NOT_FOUND, STALE_PLAN, INTERNAL_ERROR
//
// Besides [Error], the package defines [ParseError] and
// [ReferentialIntegrityError], which carry position and reference context.
// All three satisfy [Coder], so [Is] and [GetCode] work on any of them.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Primitive errors
	CodeDegenerateVector  Code = "DEGENERATE_VECTOR"
	CodeCollinearPoints   Code = "COLLINEAR_POINTS"
	CodeSingularTransform Code = "SINGULAR_TRANSFORM"

	// Identity and attribute errors
	CodeAttributeType     Code = "ATTRIBUTE_TYPE"
	CodeAttributeNotFound Code = "ATTRIBUTE_NOT_FOUND"
	CodeDuplicateID       Code = "DUPLICATE_ID"

	// Topology errors
	CodeUnknownVertex  Code = "UNKNOWN_VERTEX"
	CodeUnknownFace    Code = "UNKNOWN_FACE"
	CodeDegenerateFace Code = "DEGENERATE_FACE"
	CodeVertexInUse    Code = "VERTEX_IN_USE"

	// Structural model errors
	CodeUnknownNode    Code = "UNKNOWN_NODE"
	CodeUnknownMember  Code = "UNKNOWN_MEMBER"
	CodeUnknownSupport Code = "UNKNOWN_SUPPORT"
	CodeUnknownLoad    Code = "UNKNOWN_LOAD"

	// Serialization errors
	CodeParse                Code = "PARSE"
	CodeReferentialIntegrity Code = "REFERENTIAL_INTEGRITY"

	// General errors
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeStalePlan    Code = "STALE_PLAN"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Coder is implemented by every error type in this package.
type Coder interface {
	ErrorCode() Code
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the error code.
func (e *Error) ErrorCode() Code { return e.Code }

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether any error in err's chain carries the given code.
func Is(err error, code Code) bool {
	for err != nil {
		if c, ok := err.(Coder); ok && c.ErrorCode() == code {
			return true
		}
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				if Is(e, code) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if no error in the chain implements [Coder].
func GetCode(err error) Code {
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ParseError reports structurally invalid serialized input.
type ParseError struct {
	Offset int64  // Byte offset into the input, -1 if unknown
	Line   int    // 1-based line, 0 if unknown
	Column int    // 1-based column, 0 if unknown
	Path   string // Location inside the document tree, e.g. "meshes[0].vertices[2].guid"
	Msg    string
	Cause  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := string(CodeParse) + ": "
	if e.Line > 0 {
		msg += fmt.Sprintf("line %d, column %d: ", e.Line, e.Column)
	}
	if e.Path != "" {
		msg += e.Path + ": "
	}
	msg += e.Msg
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error { return e.Cause }

// ErrorCode returns [CodeParse].
func (e *ParseError) ErrorCode() Code { return CodeParse }

// ReferentialIntegrityError reports a reference to an identity that does not
// resolve inside its owning container.
type ReferentialIntegrityError struct {
	Entity  string   // Kind of the referencing entity, e.g. "face" or "member"
	ID      string   // Identity of the referencing entity
	Missing []string // Identities that could not be resolved
	Msg     string   // Optional override of the default message
}

// Error implements the error interface.
func (e *ReferentialIntegrityError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", CodeReferentialIntegrity, e.Msg)
	}
	return fmt.Sprintf("%s: %s %s references unknown %v", CodeReferentialIntegrity, e.Entity, e.ID, e.Missing)
}

// ErrorCode returns [CodeReferentialIntegrity].
func (e *ReferentialIntegrityError) ErrorCode() Code { return CodeReferentialIntegrity }
