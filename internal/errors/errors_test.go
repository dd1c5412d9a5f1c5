package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "a.go", SourceLocation{File: "a.go"}.String())
	assert.Equal(t, "a.go:3", SourceLocation{File: "a.go", Line: 3}.String())
	assert.Equal(t, "a.go:3:7", SourceLocation{File: "a.go", Line: 3, Column: 7}.String())
}

func TestBaseError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(FileSystemErrorCode, "failed to write", cause).
		WithLocation(SourceLocation{File: "out.json"}).
		WithContext("path", "out.json").
		WithSuggestion("free some space")

	assert.Equal(t, "out.json: failed to write: disk full", err.Error())
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, "out.json", err.Context()["path"])
	assert.Equal(t, []string{"free some space"}, err.Suggestions())
	assert.True(t, Is(err, cause))
}

func TestNewMultipleBodyError(t *testing.T) {
	err := NewMultipleBodyError("Orders.Create", []string{"order", "audit"})

	assert.Equal(t, "the operation 'Orders.Create' has more than one body parameter", err.Error())
	assert.True(t, Is(err, ErrMultipleBodyParameters))
	assert.Equal(t, ConfigurationErrorCode, err.ErrorCode())
	assert.Equal(t, "Orders.Create", err.Context()["operation"])
	require.Len(t, err.Suggestions(), 1)
	assert.Contains(t, err.Suggestions()[0], "order, audit")
}

func TestMultipleErrors(t *testing.T) {
	all := NewMultipleErrors()
	assert.NoError(t, all.ErrOrNil())

	all.Add(NewMultipleBodyError("A.B", []string{"x", "y"}))
	all.Add(NewValidationError("method", "GET", "FETCH"))

	require.Error(t, all.ErrOrNil())
	assert.Equal(t, 2, all.Count())
	assert.True(t, all.HasCode(ValidationErrorCode))
	assert.False(t, all.HasCode(LoadErrorCode))
	assert.True(t, Is(all, ErrMultipleBodyParameters))
	assert.Contains(t, all.Error(), "multiple errors (2 total)")

	var validation *ValidationError
	require.True(t, As(all, &validation))
	assert.Equal(t, "method", validation.Field)
}
