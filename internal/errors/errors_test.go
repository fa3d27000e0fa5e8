package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("permission denied")

	// When: wrapping with CheckError
	checkErr := New(ErrCodeRulesUnreadable, "cannot read .gitignore", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, checkErr)
	assert.Equal(t, originalErr, errors.Unwrap(checkErr))
	assert.True(t, errors.Is(checkErr, originalErr))
}

func TestCheckError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "rules not found",
			code:     ErrCodeRulesNotFound,
			message:  ".gitignore not found",
			expected: "[ERR_101_RULES_NOT_FOUND] .gitignore not found",
		},
		{
			name:     "walk failure",
			code:     ErrCodeWalkFailed,
			message:  "cannot read src",
			expected: "[ERR_204_WALK_FAILED] cannot read src",
		},
		{
			name:     "watcher unavailable",
			code:     ErrCodeWatcherUnavailable,
			message:  "inotify limit reached",
			expected: "[ERR_301_WATCHER_UNAVAILABLE] inotify limit reached",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestCheckError_Is_MatchesByCode(t *testing.T) {
	// Given: two errors with same code
	err1 := New(ErrCodeRulesEmpty, "a/.gitignore is empty", nil)
	err2 := New(ErrCodeRulesEmpty, "b/.gitignore is empty", nil)

	// Then: they match by code
	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, New(ErrCodeRulesNotFound, "", nil)))
}

func TestCheckError_WithDetailAndSuggestion(t *testing.T) {
	// Given: a base error
	err := New(ErrCodeRulesNotFound, "rules not found", nil)

	// When: adding context
	err = err.WithDetail("path", "/repo/.gitignore").
		WithSuggestion("Pass --ignore FILE")

	// Then: context is available
	assert.Equal(t, "/repo/.gitignore", err.Details["path"])
	assert.Equal(t, "Pass --ignore FILE", err.Suggestion)
}

func TestCheckError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeRulesNotFound, CategoryConfig},
		{ErrCodeRulesEmpty, CategoryConfig},
		{ErrCodeRulesUnreadable, CategoryConfig},
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodePathNotFound, CategoryIO},
		{ErrCodePermission, CategoryIO},
		{ErrCodeNotADirectory, CategoryIO},
		{ErrCodeWalkFailed, CategoryIO},
		{ErrCodeWatcherUnavailable, CategoryDependency},
		{ErrCodeInvalidFlags, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{"BOGUS", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
		})
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestKindHelpers_SeeThroughWrapping(t *testing.T) {
	// Given: a config error wrapped by fmt.Errorf
	inner := ConfigError(ErrCodeRulesEmpty, "no rules", nil)
	wrapped := fmt.Errorf("load: %w", inner)

	// Then: helpers find it in the chain
	assert.True(t, IsConfigError(wrapped))
	assert.False(t, IsIOError(wrapped))
	assert.Equal(t, ErrCodeRulesEmpty, GetCode(wrapped))
	assert.Equal(t, CategoryConfig, GetCategory(wrapped))

	// And: plain errors have no code
	assert.Empty(t, GetCode(errors.New("plain")))
	assert.False(t, IsConfigError(nil))
}

func TestConstructors_AssignCategories(t *testing.T) {
	assert.Equal(t, CategoryIO, IOError(ErrCodePathNotFound, "missing", nil).Category)
	assert.Equal(t, CategoryDependency, DependencyError("no watcher", nil).Category)
	assert.Equal(t, CategoryValidation, ValidationError("bad flags", nil).Category)
}
