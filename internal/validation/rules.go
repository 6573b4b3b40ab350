// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/edgegate/edgegate/internal/errors"
)

var (
	// scopeRegex matches bucket-style scope names: lowercase alphanumerics,
	// dots and dashes, starting and ending with an alphanumeric.
	scopeRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9.\-]{1,61}[a-z0-9]$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// ScopeName validates a resource scope: either the wildcard or a
// bucket-style name.
var ScopeName = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == "*" || scopeRegex.MatchString(s)
	},
	validation.NewError("validation_scope_name", "must be a valid scope name or *"),
)

// ObjectKey validates an object key: non-empty, no path traversal, no
// leading slash, at most 1024 bytes.
var ObjectKey = validation.NewStringRuleWithError(
	func(s string) bool {
		if s == "" || len(s) > 1024 {
			return false
		}
		if strings.HasPrefix(s, "/") {
			return false
		}
		for _, segment := range strings.Split(s, "/") {
			if segment == "" || segment == "." || segment == ".." {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_object_key", "must be a valid object key"),
)

// HTTPMethod validates a capability method: one of GET, PUT, POST, HEAD.
var HTTPMethod = validation.NewStringRuleWithError(
	func(s string) bool {
		switch s {
		case "GET", "PUT", "POST", "HEAD":
			return true
		}
		return false
	},
	validation.NewError("validation_http_method", "must be one of GET, PUT, POST, HEAD"),
)
