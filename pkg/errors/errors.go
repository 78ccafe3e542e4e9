package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode identifies a failure class. Tests and exit statuses key off it,
// never off the message.
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Plugin definitions
	ErrPluginParse    ErrorCode = "PLUGIN_PARSE"
	ErrPluginInvalid  ErrorCode = "PLUGIN_INVALID"
	ErrPluginNotFound ErrorCode = "PLUGIN_NOT_FOUND"
	ErrActionNotFound ErrorCode = "ACTION_NOT_FOUND"

	// Examples
	ErrExampleNotFound ErrorCode = "EXAMPLE_NOT_FOUND"
	ErrExampleReplay   ErrorCode = "EXAMPLE_REPLAY"

	// Output
	ErrDataMaterialize ErrorCode = "DATA_MATERIALIZE"
	ErrOutputFormat    ErrorCode = "OUTPUT_FORMAT"
)

// Process exit statuses, by failure class
const (
	ExitFailure     = 1
	ExitUsage       = 2
	ExitNotFound    = 3
	ExitDefinitions = 4
)

var exitCodes = map[ErrorCode]int{
	ErrInvalidInput:    ExitUsage,
	ErrConfigLoad:      ExitUsage,
	ErrConfigParse:     ExitUsage,
	ErrConfigValid:     ExitUsage,
	ErrOutputFormat:    ExitUsage,
	ErrPluginNotFound:  ExitNotFound,
	ErrActionNotFound:  ExitNotFound,
	ErrExampleNotFound: ExitNotFound,
	ErrPluginParse:     ExitDefinitions,
	ErrPluginInvalid:   ExitDefinitions,
	ErrExampleReplay:   ExitDefinitions,
}

// UsageError is an error carrying a code and key/value details such as the
// path, action or example involved.
type UsageError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *UsageError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
}

func (e *UsageError) Unwrap() error { return e.Wrapped }

// Is matches any UsageError with the same code
func (e *UsageError) Is(target error) bool {
	t, ok := target.(*UsageError)
	return ok && t.Code == e.Code
}

// WithDetail records key on the error and returns it for chaining
func (e *UsageError) WithDetail(key string, value interface{}) *UsageError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a UsageError
func New(code ErrorCode, message string) *UsageError {
	return &UsageError{Code: code, Message: message, Details: make(map[string]interface{})}
}

// Newf creates a UsageError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *UsageError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err under code. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *UsageError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *UsageError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func outermost(err error) *UsageError {
	var ue *UsageError
	if errors.As(err, &ue) {
		return ue
	}
	return nil
}

// IsErrorCode reports whether the outermost UsageError in err's chain has code
func IsErrorCode(err error, code ErrorCode) bool {
	ue := outermost(err)
	return ue != nil && ue.Code == code
}

// GetErrorCode returns the code of the outermost UsageError, or ErrUnknown
func GetErrorCode(err error) ErrorCode {
	if ue := outermost(err); ue != nil {
		return ue.Code
	}
	return ErrUnknown
}

// GetErrorDetails merges the details of every UsageError in err's chain.
// Outer errors win on conflicting keys. Nil when there are none.
func GetErrorDetails(err error) map[string]interface{} {
	var merged map[string]interface{}
	for err != nil {
		if ue, ok := err.(*UsageError); ok {
			for k, v := range ue.Details {
				if merged == nil {
					merged = make(map[string]interface{})
				}
				if _, seen := merged[k]; !seen {
					merged[k] = v
				}
			}
		}
		err = errors.Unwrap(err)
	}
	return merged
}

// FormatDetails renders details as sorted "key=value" pairs
func FormatDetails(details map[string]interface{}) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(pairs, " ")
}

// ExitCode maps err to a process exit status: 0 for nil, ExitFailure for
// anything without a more specific class.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := exitCodes[GetErrorCode(err)]; ok {
		return code
	}
	return ExitFailure
}
