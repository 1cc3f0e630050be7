// Package registry loads declarative tool definitions and indexes them for
// lookup by tool name, flag alias, and subcommand.
//
// Definitions are YAML documents, one per tool (see the embedded
// definitions/ directory for the default catalogue). The registry is
// initialized once and read-only afterwards. Unknown tools are a normal
// condition (the simulated catalogue grows incrementally), so lookups on
// missing tools return empty or negative results rather than errors.
package registry

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed definitions/*.yaml
var defaultDefinitions embed.FS

// Registry is the in-memory index of tool definitions.
type Registry struct {
	defs  map[string]*Definition
	flags map[string]map[string]*FlagDef       // tool → alias → flag
	subs  map[string]map[string]*SubcommandDef // tool → name → subcommand
}

// Load reads every *.yaml definition under root in fsys and builds the
// index. A malformed document fails the whole load: configuration errors
// surface once at startup, not per command.
func Load(fsys fs.FS, root string) (*Registry, error) {
	r := &Registry{
		defs:  make(map[string]*Definition),
		flags: make(map[string]map[string]*FlagDef),
		subs:  make(map[string]map[string]*SubcommandDef),
	}

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read definition %s: %w", path, err)
		}
		var def Definition
		if err := yaml.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("failed to parse definition %s: %w", path, err)
		}
		if def.Name == "" {
			return fmt.Errorf("definition %s has no tool name", path)
		}
		r.index(&def)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Default builds a registry from the embedded tool catalogue.
func Default() (*Registry, error) {
	return Load(defaultDefinitions, "definitions")
}

// index adds one definition to the lookup maps. Both short and long aliases
// point at the same canonical flag definition.
func (r *Registry) index(def *Definition) {
	r.defs[def.Name] = def

	flagIdx := make(map[string]*FlagDef, len(def.Flags)*2)
	for i := range def.Flags {
		f := &def.Flags[i]
		if f.Short != "" {
			flagIdx[f.Short] = f
		}
		if f.Long != "" {
			flagIdx[f.Long] = f
		}
	}
	r.flags[def.Name] = flagIdx

	subIdx := make(map[string]*SubcommandDef, len(def.Subcommands))
	for i := range def.Subcommands {
		s := &def.Subcommands[i]
		subIdx[s.Name] = s
	}
	r.subs[def.Name] = subIdx
}

// Definition returns the definition for a tool, or nil when unknown.
func (r *Registry) Definition(tool string) *Definition {
	return r.defs[tool]
}

// HasTool reports whether the tool is in the catalogue.
func (r *Registry) HasTool(tool string) bool {
	_, ok := r.defs[tool]
	return ok
}

// Tools returns the catalogue's tool names, sorted.
func (r *Registry) Tools() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flag returns the flag definition an alias resolves to, or nil. The alias
// is given without leading dashes.
func (r *Registry) Flag(tool, alias string) *FlagDef {
	return r.flags[tool][alias]
}

// Subcommand returns the subcommand definition, or nil.
func (r *Registry) Subcommand(tool, name string) *SubcommandDef {
	return r.subs[tool][name]
}

// FlagAliases returns every registered flag alias for a tool, sorted.
func (r *Registry) FlagAliases(tool string) []string {
	idx := r.flags[tool]
	aliases := make([]string, 0, len(idx))
	for alias := range idx {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// SubcommandNames returns every registered subcommand for a tool, sorted.
func (r *Registry) SubcommandNames(tool string) []string {
	idx := r.subs[tool]
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandHelp returns the tool's help text, or "" when unknown.
func (r *Registry) CommandHelp(tool string) string {
	if def := r.defs[tool]; def != nil {
		return def.Help
	}
	return ""
}

// FlagHelp returns the help text for a flag alias, or "".
func (r *Registry) FlagHelp(tool, alias string) string {
	if f := r.Flag(tool, alias); f != nil {
		return f.Help
	}
	return ""
}

// UsageExamples returns the tool's usage examples, or nil.
func (r *Registry) UsageExamples(tool string) []string {
	if def := r.defs[tool]; def != nil {
		return def.Examples
	}
	return nil
}

// ExitCodeMeaning returns the documented meaning of an exit code, or "".
func (r *Registry) ExitCodeMeaning(tool string, code int) string {
	if def := r.defs[tool]; def != nil {
		return def.ExitCodes[code]
	}
	return ""
}

// RequiresRoot reports whether a single flag alias is individually marked
// root-required.
func (r *Registry) RequiresRoot(tool, alias string) bool {
	if f := r.Flag(tool, alias); f != nil {
		return f.RequiresRoot
	}
	return false
}
