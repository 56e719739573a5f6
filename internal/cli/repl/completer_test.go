package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter([]string{"login", "logout", "profile", "profile update", "password change", "exit"})

	tests := []struct {
		prefix string
		want   []string
	}{
		{"log", []string{"login", "logout"}},
		{"profile ", []string{"profile update"}},
		{"pa", []string{"password change"}},
		{"h", []string{"help", "history"}},
		{"x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleter_Commands(t *testing.T) {
	c := NewCompleter([]string{"whoami", "exit"})

	want := []string{"complete", "exit", "help", "history", "quit", "whoami"}
	if got := c.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() = %q, want %q", got, want)
	}

	// The returned slice is a copy.
	c.Commands()[0] = "changed"
	if c.Commands()[0] != "complete" {
		t.Error("Commands() exposes internal slice")
	}
}
