package repl

import (
	"sort"
	"strings"
)

// builtins are handled by the shell itself.
var builtins = []string{"complete", "exit", "help", "history", "quit"}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over commands plus the shell builtins.
// Subcommands are given as "parent child".
func NewCompleter(commands []string) *Completer {
	seen := make(map[string]bool)
	var all []string
	for _, list := range [][]string{commands, builtins} {
		for _, cmd := range list {
			if !seen[cmd] {
				seen[cmd] = true
				all = append(all, cmd)
			}
		}
	}
	sort.Strings(all)
	return &Completer{commands: all}
}

// Complete returns the commands starting with prefix, in sorted order.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Commands returns every known command.
func (c *Completer) Commands() []string {
	return append([]string(nil), c.commands...)
}
