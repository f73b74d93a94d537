package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter([]string{"say", "kick", "list", "say", ""})

	tests := []struct {
		prefix string
		want   []string
	}{
		{"k", []string{"kick"}},
		{"s", []string{"say"}},
		{"q", []string{"quit"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}

	if n := len(c.Complete("")); n != 7 {
		t.Errorf("Complete(\"\") returned %d entries, want 7", n)
	}
}
