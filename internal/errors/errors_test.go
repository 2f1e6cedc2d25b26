package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/julianstephens/traffic/internal/lock"
	"github.com/julianstephens/traffic/internal/scheduler"
)

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
	if got := Format(errors.New("phase Shoot has no employees")); got != "Error: phase Shoot has no employees" {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatAddsHint(t *testing.T) {
	err := fmt.Errorf("%w: %q", scheduler.ErrClientNotFound, "Acme")
	got := Format(err)
	if !strings.HasPrefix(got, `Error: client not found: "Acme"`) {
		t.Errorf("Format() = %q", got)
	}
	if !strings.Contains(got, "\nHint: add the client") {
		t.Errorf("Format() missing hint: %q", got)
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unknown", errors.New("boom"), ""},
		{"wrapped lock", fmt.Errorf("%w (pid 42)", lock.ErrLocked), "wait for the other commit"},
		{"uninitialized", errors.New("storage not initialized, run 'traffic init' first"), "run 'traffic init'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hint(tt.err)
			if tt.want == "" && got != "" {
				t.Errorf("Hint() = %q, want empty", got)
			}
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("Hint() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("phase %s has %d employees", "Shoot", 0)
	want := "Error: phase Shoot has 0 employees"
	if got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}
