package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrMultipleBodyParameters is matched by every multiple-body configuration error
var ErrMultipleBodyParameters = stderrors.New("more than one body parameter")

// ConfigurationError reports an operation whose bindings cannot be represented
type ConfigurationError struct {
	*BaseError
	OperationID string
}

// NewMultipleBodyError reports that an operation resolved to more than one body parameter
func NewMultipleBodyError(operationID string, names []string) *ConfigurationError {
	message := fmt.Sprintf("the operation '%s' has more than one body parameter", operationID)
	err := &ConfigurationError{
		BaseError:   Wrap(ConfigurationErrorCode, message, ErrMultipleBodyParameters),
		OperationID: operationID,
	}
	err.WithContext("operation", operationID)
	err.WithContext("body_parameters", names)
	err.WithSuggestion(fmt.Sprintf("mark all but one of %s with -Query, -Header or -Ignore", strings.Join(names, ", ")))
	return err
}

// WithLocation adds location information to the error
func (e *ConfigurationError) WithLocation(loc SourceLocation) *ConfigurationError {
	e.BaseError.WithLocation(loc)
	return e
}

// WrapConfigurationError wraps configuration-loading errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}
