package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeUnknownVertex, "vertex %s not in mesh", "abc")

	if err.Code != CodeUnknownVertex {
		t.Errorf("Code = %v, want %v", err.Code, CodeUnknownVertex)
	}

	if err.Message != "vertex abc not in mesh" {
		t.Errorf("Message = %v, want %v", err.Message, "vertex abc not in mesh")
	}

	expected := "UNKNOWN_VERTEX: vertex abc not in mesh"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(CodeInternal, cause, "failed to encode")

	if err.Code != CodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, CodeInternal)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(CodeDegenerateFace, "test"),
			code:     CodeDegenerateFace,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(CodeDegenerateFace, "test"),
			code:     CodeUnknownVertex,
			expected: false,
		},
		{
			name:     "outer code of wrapped error",
			err:      Wrap(CodeParse, New(CodeInvalidInput, "inner"), "outer"),
			code:     CodeParse,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(CodeParse, New(CodeInvalidInput, "inner"), "outer"),
			code:     CodeInvalidInput,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("mesh %s: %w", "m", New(CodeVertexInUse, "in use")),
			code:     CodeVertexInUse,
			expected: true,
		},
		{
			name:     "joined",
			err:      errors.Join(errors.New("plain"), New(CodeUnknownNode, "n")),
			code:     CodeUnknownNode,
			expected: true,
		},
		{
			name:     "parse error",
			err:      &ParseError{Msg: "bad"},
			code:     CodeParse,
			expected: true,
		},
		{
			name:     "referential integrity error",
			err:      fmt.Errorf("decode: %w", &ReferentialIntegrityError{Entity: "face"}),
			code:     CodeReferentialIntegrity,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     CodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     CodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(CodeCollinearPoints, "test"),
			expected: CodeCollinearPoints,
		},
		{
			name:     "parse error",
			err:      fmt.Errorf("read: %w", &ParseError{}),
			expected: CodeParse,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(CodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	t.Run("with position", func(t *testing.T) {
		err := &ParseError{Offset: 12, Line: 2, Column: 5, Path: "meshes[0]", Msg: "unexpected token"}
		expected := "PARSE: line 2, column 5: meshes[0]: unexpected token"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("eof")
		err := &ParseError{Offset: -1, Msg: "truncated", Cause: cause}
		if !errors.Is(err, cause) {
			t.Error("errors.Is(err, cause) = false, want true")
		}
		expected := "PARSE: truncated: eof"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})
}

func TestReferentialIntegrityError(t *testing.T) {
	err := &ReferentialIntegrityError{Entity: "face", ID: "f1", Missing: []string{"v9"}}
	expected := "REFERENTIAL_INTEGRITY: face f1 references unknown [v9]"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}

	var target *ReferentialIntegrityError
	if !errors.As(fmt.Errorf("load: %w", err), &target) {
		t.Fatal("errors.As failed")
	}
	if target.Missing[0] != "v9" {
		t.Errorf("Missing = %v, want [v9]", target.Missing)
	}
}
