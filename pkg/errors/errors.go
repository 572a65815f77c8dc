package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrConfigLoad   ErrorCode = "CONFIG_LOAD"

	// CLI errors
	ErrUnrecognizedArgument ErrorCode = "UNRECOGNIZED_ARGUMENT"

	// Installer errors
	ErrNoPackageManager      ErrorCode = "NO_PACKAGE_MANAGER"
	ErrInsufficientPrivilege ErrorCode = "INSUFFICIENT_PRIVILEGE"
	ErrVerificationFailed    ErrorCode = "VERIFICATION_FAILED"

	// Identity errors
	ErrConfigWriteFailed ErrorCode = "CONFIG_WRITE_FAILED"

	// Key provisioning errors
	ErrDirectory               ErrorCode = "DIRECTORY_ERROR"
	ErrKeygenUnavailable       ErrorCode = "KEYGEN_UNAVAILABLE"
	ErrKeygenFailed            ErrorCode = "KEYGEN_FAILED"
	ErrPublicKeyUnreadable     ErrorCode = "PUBLIC_KEY_UNREADABLE"
	ErrAgentRegistrationFailed ErrorCode = "AGENT_REGISTRATION_FAILED"
)

// remediations holds the user-facing next step for each fatal code.
var remediations = map[ErrorCode]string{
	ErrConfigLoad:            "fix the configuration file or unset the GITBOOT_* variables and retry",
	ErrUnrecognizedArgument:  "run with --help to see the supported options",
	ErrNoPackageManager:      "install a package manager (or git itself) manually and retry",
	ErrInsufficientPrivilege: "re-run from an elevated (administrator/root) shell",
	ErrVerificationFailed:    "open a new terminal so PATH is refreshed, or install git manually, then retry",
	ErrConfigWriteFailed:     "check that your global git configuration file is writable and retry",
	ErrDirectory:             "check permissions on your home directory and retry",
	ErrKeygenUnavailable:     "install the OpenSSH client (ssh-keygen) and retry",
	ErrKeygenFailed:          "check free disk space and permissions on ~/.ssh, then retry",
	ErrPublicKeyUnreadable:   "check that ~/.ssh/id_ed25519.pub exists and is readable",
}

// BootError represents a structured error with code and details
type BootError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *BootError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *BootError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *BootError) Is(target error) bool {
	var targetErr *BootError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new BootError with the given code and message
func New(code ErrorCode, message string) *BootError {
	return &BootError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new BootError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BootError {
	return &BootError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a BootError
func Wrap(err error, code ErrorCode, message string) *BootError {
	if err == nil {
		return nil
	}
	return &BootError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *BootError {
	if err == nil {
		return nil
	}
	return &BootError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *BootError) WithDetail(key string, value interface{}) *BootError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var bootErr *BootError
	if errors.As(err, &bootErr) {
		return bootErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a BootError
func GetErrorCode(err error) ErrorCode {
	var bootErr *BootError
	if errors.As(err, &bootErr) {
		return bootErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a BootError
func GetErrorDetails(err error) map[string]interface{} {
	var bootErr *BootError
	if errors.As(err, &bootErr) {
		return bootErr.Details
	}
	return nil
}

// Remediation returns the suggested next step for err, or "" when there is none.
func Remediation(err error) string {
	return remediations[GetErrorCode(err)]
}

// UserMessage returns the message of the outermost BootError without its
// code prefix, falling back to err.Error().
func UserMessage(err error) string {
	var bootErr *BootError
	if errors.As(err, &bootErr) {
		if bootErr.Wrapped != nil {
			return fmt.Sprintf("%s: %v", bootErr.Message, bootErr.Wrapped)
		}
		return bootErr.Message
	}
	return err.Error()
}
