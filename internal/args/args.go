// Package args implements a small consume-once argument list.
//
// Handlers pull the flags they understand out of the list and call Finish
// once they are done; anything left over is reported as an error.
package args

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingOption      = errors.New("missing option")
	ErrOptionWithoutValue = errors.New("option without a value")
	ErrUnusedArguments    = errors.New("unused arguments left")
)

type Arguments struct {
	tokens []string
}

func New(tokens []string) *Arguments {
	return &Arguments{tokens: append([]string(nil), tokens...)}
}

// Subcommand removes and returns the first token if it is not a flag.
func (a *Arguments) Subcommand() string {
	if len(a.tokens) == 0 || strings.HasPrefix(a.tokens[0], "-") {
		return ""
	}
	sub := a.tokens[0]
	a.tokens = a.tokens[1:]
	return sub
}

// Contains reports whether any of the given spellings is present and
// removes the first occurrence.
func (a *Arguments) Contains(names ...string) bool {
	for i, tok := range a.tokens {
		for _, name := range names {
			if tok == name {
				a.remove(i, 1)
				return true
			}
		}
	}
	return false
}

// ValueFromStr returns the value given to name either as "name value" or
// as "name=value".
func (a *Arguments) ValueFromStr(name string) (string, error) {
	for i, tok := range a.tokens {
		if v, ok := strings.CutPrefix(tok, name+"="); ok {
			a.remove(i, 1)
			return v, nil
		}
		if tok != name {
			continue
		}
		if i+1 >= len(a.tokens) {
			a.remove(i, 1)
			return "", fmt.Errorf("%w: %s", ErrOptionWithoutValue, name)
		}
		v := a.tokens[i+1]
		a.remove(i, 2)
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrMissingOption, name)
}

func (a *Arguments) Finish() error {
	if len(a.tokens) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnusedArguments, strings.Join(a.tokens, ", "))
}

func (a *Arguments) remove(i, n int) {
	a.tokens = append(a.tokens[:i:i], a.tokens[i+n:]...)
}
