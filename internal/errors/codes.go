// Package errors provides structured error handling for checkignore.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors (rule file, config file)
//   - 2XX: IO errors (directory traversal)
//   - 3XX: Dependency errors (missing runtime capability)
//   - 4XX: Validation errors (flags, arguments)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates rule file or config file errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates directory traversal and file access errors.
	CategoryIO Category = "IO"
	// CategoryDependency indicates a required capability is unavailable.
	CategoryDependency Category = "DEPENDENCY"
	// CategoryValidation indicates invalid user input.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeRulesNotFound   = "ERR_101_RULES_NOT_FOUND"
	ErrCodeRulesEmpty      = "ERR_102_RULES_EMPTY"
	ErrCodeRulesUnreadable = "ERR_103_RULES_UNREADABLE"
	ErrCodeConfigInvalid   = "ERR_104_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodePathNotFound  = "ERR_201_PATH_NOT_FOUND"
	ErrCodePermission    = "ERR_202_PERMISSION"
	ErrCodeNotADirectory = "ERR_203_NOT_A_DIRECTORY"
	ErrCodeWalkFailed    = "ERR_204_WALK_FAILED"

	// Dependency errors (300-399)
	ErrCodeWatcherUnavailable = "ERR_301_WATCHER_UNAVAILABLE"

	// Validation errors (400-499)
	ErrCodeInvalidFlags = "ERR_401_INVALID_FLAGS"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "101" from "ERR_101_RULES_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryDependency
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}
