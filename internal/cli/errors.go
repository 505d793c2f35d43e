package cli

import "fmt"

// ExitCode is a process exit status.
type ExitCode int

const (
	ExitSuccess      ExitCode = 0
	ExitGeneralError ExitCode = 1
	// ExitCancelled means there was nothing to classify.
	ExitCancelled ExitCode = 2
	// ExitInvalidScene means validation found blocking errors.
	ExitInvalidScene ExitCode = 3
	// ExitSceneLoad means the scene file could not be read or evaluated.
	ExitSceneLoad ExitCode = 4
	// ExitConfig means the configuration is unreadable or invalid.
	ExitConfig ExitCode = 5
)

// CLIError carries an exit code alongside the message shown to the user.
type CLIError struct {
	Code    ExitCode
	Message string
	Err     error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError without an underlying cause.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a CLIError wrapping err.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
