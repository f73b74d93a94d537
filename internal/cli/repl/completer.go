package repl

import (
	"sort"
	"strings"
)

// Completer suggests console commands by prefix.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over commands plus the REPL built-ins.
func NewCompleter(commands []string) *Completer {
	seen := map[string]bool{}
	var all []string
	for _, c := range append([]string{"complete", "exit", "history", "quit"}, commands...) {
		if c != "" && !seen[c] {
			seen[c] = true
			all = append(all, c)
		}
	}
	sort.Strings(all)
	return &Completer{commands: all}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
