// Package validator judges whether an executed command satisfies a training
// step's objective, by comparing it against a set of expected templates.
//
// Both sides are normalized (lowercased, trimmed, shell substitutions
// canonicalized) before matching. Matching is deliberately forgiving about
// flag order and extra flags but strict about values, and a short list of
// known-invalid shapes is rejected outright regardless of templates.
package validator

import (
	"regexp"
	"strings"

	"github.com/fleetsim/fleetsim/pkg/parser"
)

// substToken replaces $(...) shell substitutions so nondeterministic
// command substitution doesn't break equality.
const substToken = "<subst>"

var (
	substPattern = regexp.MustCompile(`\$\([^)]*\)`)
	spacePattern = regexp.MustCompile(`\s+`)

	// invalidPatterns immediately fail validation: shapes that are always
	// user errors, like a negative GPU index.
	invalidPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(^|\s)-i\s+-\d+`),
		regexp.MustCompile(`(^|\s)--id[= ]-\d+`),
	}
)

// CommandExecuted reports whether the executed command matches any of the
// expected templates. Returns true on the first template that matches.
func CommandExecuted(executed string, expected []string) bool {
	exec := normalize(executed)
	if exec == "" {
		return false
	}

	for _, p := range invalidPatterns {
		if p.MatchString(exec) {
			return false
		}
	}

	for _, tmpl := range expected {
		if matches(exec, normalize(tmpl)) {
			return true
		}
	}
	return false
}

// normalize lowercases, trims, collapses whitespace, and canonicalizes
// shell substitutions.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = substPattern.ReplaceAllString(s, substToken)
	return spacePattern.ReplaceAllString(s, " ")
}

// matches tries the match strategies in order for one template.
func matches(exec, tmpl string) bool {
	// Strategy 1: exact normalized equality.
	if exec == tmpl {
		return true
	}

	// Strategy 2: a pipeline template constrains the whole pipeline and
	// matches segment by segment. A plain template may still match the
	// first stage of a piped execution below.
	if strings.Contains(tmpl, "|") {
		return strings.Contains(exec, "|") && pipelineMatch(exec, tmpl)
	}

	ec := canonicalize(parser.Parse(exec))
	tc := canonicalize(parser.Parse(tmpl))

	// Strategies 3 and 4: structural comparison of the (tool-normalized)
	// parses.
	return structuralMatch(ec, tc)
}

func pipelineMatch(exec, tmpl string) bool {
	es := strings.Split(exec, "|")
	ts := strings.Split(tmpl, "|")
	if len(es) != len(ts) {
		return false
	}
	for i := range es {
		if strings.TrimSpace(es[i]) != strings.TrimSpace(ts[i]) {
			return false
		}
	}
	return true
}

// structuralMatch implements strategy 3: base-command equality, then, if
// the template constrains anything, template flags present with equal
// values, subcommands equal, and positional args equal by position. Extra
// executed flags are allowed.
func structuralMatch(ec, tc *parser.Command) bool {
	if ec.BaseCommand != tc.BaseCommand {
		return false
	}

	if len(tc.Flags) == 0 && len(tc.Subcommands) == 0 && len(tc.PositionalArgs) == 0 {
		return true
	}

	if len(ec.Subcommands) != len(tc.Subcommands) {
		return false
	}
	for i := range tc.Subcommands {
		if ec.Subcommands[i] != tc.Subcommands[i] {
			return false
		}
	}

	for name, want := range tc.Flags {
		got, ok := ec.Flags[name]
		if !ok {
			return false
		}
		// Boolean template flags match by presence; valued ones by exact
		// value.
		if wantStr, isStr := want.(string); isStr {
			gotStr, gotIsStr := got.(string)
			if !gotIsStr || gotStr != wantStr && wantStr != substToken && gotStr != substToken {
				return false
			}
		}
	}

	if len(tc.PositionalArgs) > 0 {
		if len(ec.PositionalArgs) != len(tc.PositionalArgs) {
			return false
		}
		for i := range tc.PositionalArgs {
			if ec.PositionalArgs[i] != tc.PositionalArgs[i] &&
				ec.PositionalArgs[i] != substToken && tc.PositionalArgs[i] != substToken {
				return false
			}
		}
	}

	return true
}

// canonicalize applies strategy 4's tool-specific normalizations so that
// equivalent spellings compare equal under strategy 3.
func canonicalize(c *parser.Command) *parser.Command {
	switch c.BaseCommand {
	case "scontrol":
		// "scontrol show nodes" and "scontrol show node" are the same
		// query: strip the trailing plural from the target noun.
		if len(c.Subcommands) >= 2 && c.Subcommands[0] == "show" {
			c.Subcommands[1] = strings.TrimSuffix(c.Subcommands[1], "s")
		}
	case "sinfo":
		// -o and --output-format are one flag; templates only require that
		// some format was given, not which.
		if _, ok := c.Flags["o"]; ok {
			delete(c.Flags, "o")
			c.Flags["output-format"] = substToken
		}
		if _, ok := c.Flags["output-format"]; ok {
			c.Flags["output-format"] = substToken
		}
	}
	return c
}
