// Package suggest validates flags and subcommands against the registry and
// proposes corrections for near-miss typos.
//
// Matching is exact and case-sensitive first; otherwise candidates are
// ranked by Levenshtein distance against every registered alias, keeping
// only close matches. The goal is to turn a dead-end "unknown flag" into an
// actionable correction.
package suggest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/fleetsim/fleetsim/pkg/registry"
)

const (
	// maxDistance is the edit-distance threshold: close typos match,
	// unrelated words don't.
	maxDistance = 2

	// maxSuggestions bounds the number of corrections offered.
	maxSuggestions = 3
)

// Result is the outcome of validating one flag or subcommand.
type Result struct {
	// ExactMatch is true when the candidate is a registered alias.
	ExactMatch bool

	// Confidence is 1.0 for exact matches, 0 when nothing is within the
	// distance threshold, and in between for near misses.
	Confidence float64

	// Suggestions holds canonical (long-form) names of the nearest known
	// aliases, closest first; equal distances tie-break alphabetically.
	Suggestions []string
}

// Engine validates candidates against a registry's alias sets.
type Engine struct {
	reg *registry.Registry
}

// NewEngine creates a suggestion engine over the given registry.
func NewEngine(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// ValidateFlag checks a flag candidate (leading dashes are stripped)
// against the tool's registered flag aliases.
func (e *Engine) ValidateFlag(tool, candidate string) Result {
	candidate = strings.TrimLeft(candidate, "-")
	if e.reg.Flag(tool, candidate) != nil {
		return Result{ExactMatch: true, Confidence: 1.0}
	}
	return e.rank(candidate, e.reg.FlagAliases(tool), func(alias string) string {
		return e.reg.Flag(tool, alias).Canonical()
	})
}

// ValidateSubcommand checks a subcommand candidate against the tool's
// registered subcommands.
func (e *Engine) ValidateSubcommand(tool, candidate string) Result {
	if e.reg.Subcommand(tool, candidate) != nil {
		return Result{ExactMatch: true, Confidence: 1.0}
	}
	return e.rank(candidate, e.reg.SubcommandNames(tool), func(name string) string {
		return name
	})
}

// rank scores the candidate against each alias and keeps canonical names of
// those within the threshold.
func (e *Engine) rank(candidate string, aliases []string, canonical func(string) string) Result {
	type scored struct {
		name string
		dist int
	}

	var close []scored
	seen := make(map[string]bool)
	for _, alias := range aliases {
		d := fuzzy.LevenshteinDistance(candidate, alias)
		if d > maxDistance {
			continue
		}
		name := canonical(alias)
		if seen[name] {
			continue
		}
		seen[name] = true
		close = append(close, scored{name: name, dist: d})
	}

	if len(close) == 0 {
		return Result{}
	}

	sort.Slice(close, func(i, j int) bool {
		if close[i].dist != close[j].dist {
			return close[i].dist < close[j].dist
		}
		return close[i].name < close[j].name
	})

	if len(close) > maxSuggestions {
		close = close[:maxSuggestions]
	}

	out := Result{
		Confidence: 1.0 - float64(close[0].dist)/float64(maxDistance+1),
	}
	for _, s := range close {
		out.Suggestions = append(out.Suggestions, s.name)
	}
	return out
}

// FormatSuggestion renders a human-readable correction message. It returns
// "" for exact matches, where no correction is needed.
func (e *Engine) FormatSuggestion(tool string, r Result, isFlag bool) string {
	if r.ExactMatch {
		return ""
	}

	kind := "subcommand"
	if isFlag {
		kind = "flag"
	}

	if len(r.Suggestions) == 0 {
		return fmt.Sprintf("%s: unknown %s", tool, kind)
	}

	rendered := make([]string, len(r.Suggestions))
	for i, s := range r.Suggestions {
		if isFlag {
			rendered[i] = "--" + s
		} else {
			rendered[i] = fmt.Sprintf("%q", s)
		}
	}
	return fmt.Sprintf("%s: unknown %s. Did you mean %s?", tool, kind, strings.Join(rendered, ", "))
}
