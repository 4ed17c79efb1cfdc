package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", New(ErrCodeModuleNotFound, "no known module matching %s", "vm.gc@1.0"),
			"MODULE_NOT_FOUND: no known module matching vm.gc@1.0"},
		{"wrapped", Wrap(ErrCodeActivation, errors.New("bundle exception"), "start %s", "/p/a.jar"),
			"ACTIVATION_FAILED: start /p/a.jar: bundle exception"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := Wrap(ErrCodeInvalidManifest, cause, "read %s", "/p/broken.jar")
	if !errors.Is(err, cause) || errors.Unwrap(err) != cause {
		t.Error("wrapped cause should be reachable through errors.Is and Unwrap")
	}
}

func TestCodeLookups(t *testing.T) {
	notFound := New(ErrCodeModuleNotFound, "no known module matching x")
	activation := Wrap(ErrCodeActivation, New(ErrCodeInvalidInput, "inner"), "outer")
	viaFmt := fmt.Errorf("run web: %w", notFound)

	tests := []struct {
		name     string
		err      error
		code     Code
		is       bool
		getCode  Code
		userText string
	}{
		{"direct", notFound, ErrCodeModuleNotFound, true, ErrCodeModuleNotFound, "no known module matching x"},
		{"other code", notFound, ErrCodeActivation, false, ErrCodeModuleNotFound, "no known module matching x"},
		{"outermost code wins", activation, ErrCodeInvalidInput, false, ErrCodeActivation, "outer"},
		{"through fmt wrap", viaFmt, ErrCodeModuleNotFound, true, ErrCodeModuleNotFound, "no known module matching x"},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false, "", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.is {
				t.Errorf("Is(%s) = %v, want %v", tt.code, got, tt.is)
			}
			if got := GetCode(tt.err); got != tt.getCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.getCode)
			}
			if got := UserMessage(tt.err); got != tt.userText {
				t.Errorf("UserMessage() = %q, want %q", got, tt.userText)
			}
		})
	}

	if Is(nil, ErrCodeInvalidInput) || GetCode(nil) != "" {
		t.Error("nil error should have no code")
	}
}

func TestHint(t *testing.T) {
	inner := New(ErrCodeCommandNotFound, "no command named %q", "gc").WithHint("configured commands: %s", "web")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"direct", inner, "configured commands: web"},
		{"wrapped by fmt", fmt.Errorf("run: %w", inner), "configured commands: web"},
		{"wrapped by Wrap", Wrap(ErrCodeInvalidConfig, inner, "command"), "configured commands: web"},
		{"none", New(ErrCodeInvalidInput, "x"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.err); got != tt.want {
				t.Errorf("Hint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeModuleNotFound, "x"), 404},
		{New(ErrCodeNotFound, "x"), 404},
		{New(ErrCodeInvalidVersion, "x"), 400},
		{New(ErrCodeInvalidInput, "x"), 400},
		{Wrap(ErrCodeActivation, errors.New("boom"), "x"), 500},
		{New(ErrCodeUnsupported, "x"), 501},
		{New(ErrCodeTimeout, "x"), 504},
		{errors.New("plain"), 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
