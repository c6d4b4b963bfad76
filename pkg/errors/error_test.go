package errors_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	. "eperf/pkg/errors"
)

func TestErrorCode_Message(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{Success, "Success"},
		{InvalidSelection, "Invalid choice."},
		{ScriptFailed, "Error during command execution."},
		{InvalidParams, "Invalid parameters"},
		{ErrorCode(99999), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.code.Message(); got != tt.want {
				t.Errorf("Message() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorCode_ExitStatus(t *testing.T) {
	tests := []struct {
		code       ErrorCode
		wantStatus int
		wantStrict int
	}{
		{Success, 0, 0},
		{InvalidSelection, 1, 1},
		{InputReadFailed, 1, 1},
		{InputInterrupted, 1, 1},
		{InvalidParams, 1, 1},
		{ConfigInvalid, 1, 1},
		{ScriptFailed, 0, 1},
		{ScriptStartFailed, 0, 1},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(int(tt.code)), func(t *testing.T) {
			if got := tt.code.ExitStatus(); got != tt.wantStatus {
				t.Errorf("ExitStatus() = %v, want %v", got, tt.wantStatus)
			}
			if got := tt.code.StrictExitStatus(); got != tt.wantStrict {
				t.Errorf("StrictExitStatus() = %v, want %v", got, tt.wantStrict)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(InvalidParams, "invalid %s", "pid")

	want := "invalid pid"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrapf(t *testing.T) {
	cause := errors.New("exec format error")
	wrappedErr := Wrapf(cause, ScriptStartFailed, "start script failed: %v", cause)

	if wrappedErr.Code != ScriptStartFailed {
		t.Errorf("Code = %v, want %v", wrappedErr.Code, ScriptStartFailed)
	}

	if wrappedErr.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}

	if wrappedErr.Error() != "start script failed: exec format error" {
		t.Errorf("Error() = %q", wrappedErr.Error())
	}

	if Wrapf(nil, InternalError, "ignored") != nil {
		t.Error("Wrapf(nil) should return nil")
	}
}

func TestStackPointsAtCaller(t *testing.T) {
	err := New(InternalError)
	if !strings.Contains(err.Stack, "TestStackPointsAtCaller") {
		t.Errorf("Stack = %q, want the creating function", err.Stack)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{
			name: "nil error",
			err:  nil,
			want: Success,
		},
		{
			name: "custom error",
			err:  New(InvalidSelection),
			want: InvalidSelection,
		},
		{
			name: "wrapped custom error",
			err:  fmt.Errorf("prompt: %w", New(InputReadFailed)),
			want: InputReadFailed,
		},
		{
			name: "standard error",
			err:  errors.New("standard error"),
			want: InternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(InvalidSelection)

	if !Is(err, InvalidSelection) {
		t.Error("Is() should return true for matching code")
	}

	if Is(err, ScriptFailed) {
		t.Error("Is() should return false for non-matching code")
	}

	if Is(nil, InvalidSelection) {
		t.Error("Is() should return false for nil error")
	}
}

func TestCommonErrorConstructors(t *testing.T) {
	t.Run("InvalidSelectionError", func(t *testing.T) {
		err := InvalidSelectionError("7")
		if err.Code != InvalidSelection {
			t.Error("InvalidSelectionError should use InvalidSelection code")
		}
		if err.Error() != "Invalid choice." {
			t.Errorf("Error() = %q", err.Error())
		}
		if err.Details["input"] != "7" {
			t.Error("input detail not set")
		}
	})
}
