package errors

import (
	"fmt"
	"strings"
)

// GetCode returns the code string of a structured error, or "" for other errors.
func GetCode(err error) string {
	if cErr, ok := err.(*Error); ok {
		return cErr.Code.String()
	}
	return ""
}

// HasCode reports whether err is a structured error carrying the given code.
func HasCode(err error, code Code) bool {
	cErr, ok := err.(*Error)
	return ok && cErr.Code.Equals(code)
}

// AsError converts any error to the internal structured form.
// Existing *Error values are returned as-is; everything else is wrapped
// under CommonInternal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if cErr, ok := err.(*Error); ok {
		return cErr
	}
	return New(CommonInternal, err.Error(), err)
}

// FormatError renders an error with code, context and cause for log output.
func FormatError(err error) string {
	cErr, ok := err.(*Error)
	if !ok {
		return err.Error()
	}

	parts := []string{
		fmt.Sprintf("Code: %s", cErr.Code),
		fmt.Sprintf("Message: %s", cErr.Message),
	}
	if len(cErr.Context) > 0 {
		parts = append(parts, "Context:")
		for k, v := range cErr.Context {
			parts = append(parts, fmt.Sprintf("  %s: %v", k, v))
		}
	}
	if cErr.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", cErr.Cause))
	}
	return strings.Join(parts, "\n")
}
