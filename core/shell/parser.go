// Package shell breaks lines of input into words.
//
// Words are separated by runs of delimiter characters only. There is no
// quoting, escaping, or expansion: the delimiter set is the only
// argument-splitting mechanism.
package shell

import "strings"

const (
	// Delimiters holds the characters that separate words.
	Delimiters = " \t\r\n\a"

	// DefaultTokenCapacity is the starting capacity of a token sequence.
	DefaultTokenCapacity = 64
)

// Tokens is an ordered sequence of non-empty words. Element 0 is the
// command name, the rest are its arguments.
type Tokens []string

// Empty is true if there's no command in the sequence.
func (t Tokens) Empty() bool {
	return len(t) == 0
}

// Name gets the command name, or blank if the sequence is empty.
func (t Tokens) Name() string {
	if t.Empty() {
		return ""
	}
	return t[0]
}

// Args gets the arguments following the command name.
func (t Tokens) Args() []string {
	if t.Empty() {
		return nil
	}
	return t[1:]
}

func isDelimiter(c byte) bool {
	return strings.IndexByte(Delimiters, c) >= 0
}

// Split breaks line into words on any run of Delimiters. The words are
// substrings of line.
func Split(line string) Tokens {
	tokens := make(Tokens, 0, DefaultTokenCapacity)

	start := -1
	for i := 0; i < len(line); i++ {
		switch {
		case isDelimiter(line[i]):
			if start >= 0 {
				tokens = append(tokens, line[start:i])
				start = -1
			}
		case start < 0:
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, line[start:])
	}

	return tokens
}
