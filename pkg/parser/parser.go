// Package parser tokenizes raw command lines into a structured form.
//
// The grammar is deliberately small: a base command, optional subcommand
// words, long and short flags with optional values, positional arguments,
// and pipelines. The parser is total: malformed input never produces an
// error, it falls through to positional arguments. The simulation must
// always produce some output, so there is no failure path here.
package parser

import (
	"regexp"
	"strings"
)

// Command is the parsed form of one command line.
type Command struct {
	// Raw is the original input line, untrimmed tokens preserved as typed.
	Raw string

	// BaseCommand is the first token, e.g. "nvidia-smi".
	BaseCommand string

	// Subcommands are bare words that follow the base command before any
	// flag or positional argument, e.g. ["show", "node"] for
	// "scontrol show node".
	Subcommands []string

	// Flags maps normalized flag names (dashes stripped) to either bool
	// true for presence-only flags or a string value.
	Flags map[string]any

	// PositionalArgs are the remaining bare tokens.
	PositionalArgs []string

	// IsPiped reports whether the line contains at least one pipe.
	IsPiped bool

	// PipedSegments holds the raw text of each pipeline segment when
	// IsPiped is true. Each segment is independently parseable.
	PipedSegments []string
}

// FlagNames returns the normalized flag names in no particular order.
func (c *Command) FlagNames() []string {
	names := make([]string, 0, len(c.Flags))
	for name := range c.Flags {
		names = append(names, name)
	}
	return names
}

// HasFlag reports whether the named flag was given (normalized name).
func (c *Command) HasFlag(name string) bool {
	_, ok := c.Flags[name]
	return ok
}

// FlagString returns the flag's string value, or "" for boolean and
// missing flags.
func (c *Command) FlagString(name string) string {
	if v, ok := c.Flags[name].(string); ok {
		return v
	}
	return ""
}

var (
	negativeNumber = regexp.MustCompile(`^-\d+(\.\d+)?$`)
	numberPattern  = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// isNumeric reports whether the token is an integer or decimal, possibly
// negative.
func isNumeric(tok string) bool {
	return numberPattern.MatchString(tok)
}

// Parse tokenizes a command line. It never fails; unrecognized token shapes
// become positional arguments.
func Parse(line string) *Command {
	cmd := &Command{
		Raw:   line,
		Flags: make(map[string]any),
	}

	if strings.Contains(line, "|") {
		cmd.IsPiped = true
		for _, seg := range strings.Split(line, "|") {
			cmd.PipedSegments = append(cmd.PipedSegments, strings.TrimSpace(seg))
		}
		// The first segment drives base command, flags, and args.
		line = cmd.PipedSegments[0]
	}

	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return cmd
	}

	cmd.BaseCommand = tokens[0]

	inSubcommands := true
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case strings.HasPrefix(tok, "--") && len(tok) > 2:
			inSubcommands = false
			name := strings.TrimPrefix(tok, "--")
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				cmd.Flags[name[:eq]] = name[eq+1:]
				continue
			}
			if value, ok := consumableValue(tokens, i); ok {
				cmd.Flags[name] = value
				i++
			} else {
				cmd.Flags[name] = true
			}

		case isShortFlag(tok):
			inSubcommands = false
			name := tok[1:]
			if len(name) == 1 {
				if value, ok := consumableValue(tokens, i); ok {
					cmd.Flags[name] = value
					i++
				} else {
					cmd.Flags[name] = true
				}
				continue
			}
			// A multi-letter single-dash token followed by a number is a
			// valued option in the nvidia-smi style (-pl 400, -mig 1).
			// Otherwise it is a cluster like -Nel: one boolean flag per
			// letter, never consuming a value.
			if i+1 < len(tokens) && isNumeric(tokens[i+1]) {
				cmd.Flags[name] = tokens[i+1]
				i++
				continue
			}
			for _, ch := range name {
				cmd.Flags[string(ch)] = true
			}

		default:
			if inSubcommands && isBareWord(tok) {
				cmd.Subcommands = append(cmd.Subcommands, tok)
			} else {
				inSubcommands = false
				cmd.PositionalArgs = append(cmd.PositionalArgs, tok)
			}
		}
	}

	return cmd
}

// consumableValue reports whether the token after position i exists and is
// not itself flag-shaped, in which case it is the flag's value. Negative
// numbers are values, not flags.
func consumableValue(tokens []string, i int) (string, bool) {
	if i+1 >= len(tokens) {
		return "", false
	}
	next := tokens[i+1]
	if strings.HasPrefix(next, "-") && !negativeNumber.MatchString(next) {
		return "", false
	}
	return next, true
}

// isShortFlag reports whether the token is a single-dash flag, excluding
// bare "-" and negative numbers.
func isShortFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' || tok[1] == '-' {
		return false
	}
	return !negativeNumber.MatchString(tok)
}

// isBareWord reports whether the token looks like a subcommand word rather
// than a target or value: letters, hyphens, and underscores only. Tokens
// containing digits (node ids, counts, profiles) are positional.
func isBareWord(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		ch := tok[i]
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case i > 0 && (ch == '-' || ch == '_'):
		default:
			return false
		}
	}
	return true
}
