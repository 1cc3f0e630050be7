package registry

// Definition describes one simulated tool: its flags, subcommands, declared
// state interactions, and help surface. Definitions are loaded once at
// registry initialization and are read-only thereafter.
type Definition struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Flags       []FlagDef       `yaml:"flags,omitempty" json:"flags,omitempty"`
	Subcommands []SubcommandDef `yaml:"subcommands,omitempty" json:"subcommands,omitempty"`

	StateInteractions StateInteractions `yaml:"state_interactions,omitempty" json:"state_interactions,omitempty"`

	Help      string         `yaml:"help,omitempty" json:"help,omitempty"`
	Examples  []string       `yaml:"examples,omitempty" json:"examples,omitempty"`
	ExitCodes map[int]string `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty"`
}

// FlagDef declares one flag with its short/long aliases.
type FlagDef struct {
	Short        string `yaml:"short,omitempty" json:"short,omitempty"`
	Long         string `yaml:"long,omitempty" json:"long,omitempty"`
	TakesValue   bool   `yaml:"takes_value,omitempty" json:"takes_value,omitempty"`
	RequiresRoot bool   `yaml:"requires_root,omitempty" json:"requires_root,omitempty"`
	Help         string `yaml:"help,omitempty" json:"help,omitempty"`
}

// Canonical returns the flag's canonical name: the long alias when present,
// otherwise the short one.
func (f *FlagDef) Canonical() string {
	if f.Long != "" {
		return f.Long
	}
	return f.Short
}

// SubcommandDef declares one subcommand word.
type SubcommandDef struct {
	Name         string `yaml:"name" json:"name"`
	RequiresRoot bool   `yaml:"requires_root,omitempty" json:"requires_root,omitempty"`
	Help         string `yaml:"help,omitempty" json:"help,omitempty"`
}

// StateInteractions declares which simulated subsystems a tool touches.
type StateInteractions struct {
	ReadsFrom []string           `yaml:"reads_from,omitempty" json:"reads_from,omitempty"`
	WritesTo  []WriteInteraction `yaml:"writes_to,omitempty" json:"writes_to,omitempty"`
}

// WriteInteraction declares one mutable resource a tool can write. When
// RequiresFlags is non-empty the interaction (and its privilege requirement)
// is triggered only by invocations carrying at least one of those flags.
type WriteInteraction struct {
	Resource          string   `yaml:"resource" json:"resource"`
	RequiresPrivilege bool     `yaml:"requires_privilege,omitempty" json:"requires_privilege,omitempty"`
	RequiresFlags     []string `yaml:"requires_flags,omitempty" json:"requires_flags,omitempty"`
}
