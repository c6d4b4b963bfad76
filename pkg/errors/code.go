package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & input errors
// 11000-11999: Menu selection errors
// 12000-12999: Script execution errors

const (
	// ========== System & Input Errors (10000-10999) ==========

	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalError ErrorCode = 10001

	// Configuration errors (10100-10199)
	ConfigInvalid ErrorCode = 10100

	// Input errors (10200-10299)
	InputReadFailed  ErrorCode = 10200
	InputInterrupted ErrorCode = 10201

	// Validation errors (10300-10399)
	InvalidParams ErrorCode = 10300

	// ========== Selection Errors (11000-11999) ==========

	InvalidSelection ErrorCode = 11000

	// ========== Script Errors (12000-12999) ==========

	ScriptFailed      ErrorCode = 12000
	ScriptStartFailed ErrorCode = 12001
)

// errorMessages maps error codes to the text shown to the user
var errorMessages = map[ErrorCode]string{
	Success:           "Success",
	InternalError:     "Internal error",
	ConfigInvalid:     "Invalid configuration",
	InputReadFailed:   "Failed to read input",
	InputInterrupted:  "Input interrupted",
	InvalidParams:     "Invalid parameters",
	InvalidSelection:  "Invalid choice.",
	ScriptFailed:      "Error during command execution.",
	ScriptStartFailed: "Error during command execution.",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// ExitStatus returns the dispatcher's own process exit status for the code.
// Script failures belong to the child process and leave the dispatcher at 0;
// callers that want them surfaced use StrictExitStatus.
func (c ErrorCode) ExitStatus() int {
	switch {
	case c == Success:
		return 0
	case c >= 12000 && c < 13000:
		return 0
	default:
		return 1
	}
}

// StrictExitStatus is ExitStatus with script failures treated as failures.
func (c ErrorCode) StrictExitStatus() int {
	if c >= 12000 && c < 13000 {
		return 1
	}
	return c.ExitStatus()
}
