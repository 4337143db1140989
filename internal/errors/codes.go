// Package errors provides structured error handling for contentgraph.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file read, parse)
//   - 4XX: Validation errors
//   - 5XX: Index build errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration or wiring errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file read and parse errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates index build and unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates the index cannot be built at all.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the operation failed.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid     = "ERR_101_CONFIG_INVALID"
	ErrCodeLoaderMissing     = "ERR_102_LOADER_MISSING"
	ErrCodePathnameCollision = "ERR_103_PATHNAME_COLLISION"
	ErrCodeConfigNotFound    = "ERR_104_CONFIG_NOT_FOUND"

	// IO errors (200-299)
	ErrCodeFileNotFound = "ERR_201_FILE_NOT_FOUND"
	ErrCodeParseFailed  = "ERR_202_PARSE_FAILED"
	ErrCodeFileRead     = "ERR_203_FILE_READ"

	// Validation errors (400-499)
	ErrCodeInvalidPattern = "ERR_401_INVALID_PATTERN"
	ErrCodeInvalidInput   = "ERR_402_INVALID_INPUT"

	// Index build errors (500-599)
	ErrCodeInternal             = "ERR_501_INTERNAL"
	ErrCodeExampleModuleMissing = "ERR_502_EXAMPLE_MODULE_MISSING"
	ErrCodeLoaderFailed         = "ERR_503_LOADER_FAILED"
	ErrCodeStoreFailed          = "ERR_504_STORE_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "101" from "ERR_101_CONFIG_INVALID"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeLoaderMissing, ErrCodePathnameCollision:
		return SeverityFatal
	}
	return SeverityError
}
