// Package command recognizes "@"-prefixed directives and decides how they are handled.
package command

import (
	"strings"
	"unicode"
)

// Command is a parsed "@verb argument" directive.
type Command struct {
	Verb     string
	Argument string
}

// Parse splits an already trimmed message into verb and argument.
// The second result is false when text does not start with '@'.
func Parse(text string) (Command, bool) {
	rest, ok := strings.CutPrefix(text, "@")
	if !ok {
		return Command{}, false
	}

	verb, arg := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		verb, arg = rest[:i], rest[i:]
	}
	arg = strings.ReplaceAll(strings.TrimSpace(arg), "`", "")
	return Command{Verb: verb, Argument: arg}, true
}

// Mentions returns every "@token" in text, in order, without the '@'.
// A token runs until the next whitespace; empty tokens are skipped.
func Mentions(text string) []string {
	var out []string
	for _, field := range strings.FieldsFunc(text, unicode.IsSpace) {
		// "a@b@c" yields "b@c", matching a leftmost-first @(\S+) scan
		_, tok, ok := strings.Cut(field, "@")
		if ok && tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
