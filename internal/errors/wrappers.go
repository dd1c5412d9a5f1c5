package errors

import "fmt"

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapLoadError wraps package loading errors
func WrapLoadError(pattern string, cause error) *BaseError {
	return Wrap(LoadErrorCode, fmt.Sprintf("failed to load packages matching '%s'", pattern), cause).
		WithContext("pattern", pattern)
}

// WrapResolutionError wraps an error raised while resolving an operation's parameters
func WrapResolutionError(operationID string, cause error) *BaseError {
	return Wrap(ResolutionErrorCode, fmt.Sprintf("failed to resolve parameters of '%s'", operationID), cause).
		WithContext("operation", operationID)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}
