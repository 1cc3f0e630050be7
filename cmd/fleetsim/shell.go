package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive training shell",
		Long: `Start an interactive shell against the simulated fleet.

Simulated tools (nvidia-smi, sinfo, scontrol, dcgmi, ipmitool, ethtool)
run as typed. Shell builtins:

  scenario create|use|list|reset|delete   manage isolated scenarios
  su / exit                               raise and drop root
  help [tool]                             tool documentation
  history [n]                             recent commands
  quit                                    leave the shell`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd)
		},
	}
}

func runShell(cmd *cobra.Command) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if !a.settings.Color {
		pterm.DisableColor()
	}

	// A scenario id persisted from a previous run refers to a context that
	// no longer exists; drop it rather than resurrect half a session.
	if st := a.session.State(); st.ActiveScenario != "" {
		a.session.SetActiveScenario("")
	}

	pterm.DefaultBasicText.Printf("fleetsim %s - cluster %q, %d nodes\n",
		version, a.base.Name, len(a.base.Nodes))
	pterm.ThemeDefault.InfoMessageStyle.Println(`Type "help" for builtins, "quit" to leave.`)

	sh := &shell{app: a, out: cmd.OutOrStdout()}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(sh.out, sh.prompt())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if sh.builtin(line) {
			if sh.done {
				break
			}
			continue
		}

		ctx := a.execContext()
		res := a.interp.Run(line, ctx)
		fmt.Fprint(sh.out, res.Output)

		a.session.SetLastCommand(line)
		if err := a.history.Record(line, res.ExitCode, a.scenarios.ActiveID()); err != nil {
			pterm.Warning.Printfln("history not saved: %v", err)
		}
	}

	if err := a.session.Save(); err != nil {
		pterm.Warning.Printfln("session not saved: %v", err)
	}
	return scanner.Err()
}

type shell struct {
	app  *app
	out  io.Writer
	done bool
}

func (s *shell) prompt() string {
	st := s.app.session.State()
	node := st.CurrentNode
	if node == "" {
		node = s.app.settings.DefaultNode
	}

	user, mark := "trainee", "$"
	if st.IsRoot || s.app.settings.StartAsRoot {
		user, mark = "root", "#"
	}

	p := fmt.Sprintf("%s@%s", user, node)
	if id := s.app.scenarios.ActiveID(); id != "" {
		p += fmt.Sprintf(" (%s)", id)
	}
	return pterm.FgLightGreen.Sprint(p) + mark + " "
}

// builtin handles shell-level commands. It returns false when the line
// belongs to the simulated tools.
func (s *shell) builtin(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "logout":
		s.done = true
	case "exit":
		// exit drops root first; a non-root exit leaves the shell.
		if s.app.session.State().IsRoot {
			s.app.session.SetRoot(false)
		} else {
			s.done = true
		}
	case "su":
		s.app.session.SetRoot(true)
	case "ssh":
		s.sshTo(fields[1:])
	case "help":
		s.help(fields[1:])
	case "history":
		s.showHistory()
	case "scenario":
		s.scenario(fields[1:])
	default:
		return false
	}
	return true
}

func (s *shell) sshTo(args []string) {
	if len(args) == 0 {
		pterm.Error.Println("usage: ssh <node>")
		return
	}
	node := s.app.base.Node(args[0])
	if node == nil {
		pterm.Error.Printfln("ssh: could not resolve hostname %s", args[0])
		return
	}
	s.app.session.SetCurrentNode(node.ID)
}

func (s *shell) help(args []string) {
	reg := s.app.interp.Registry()
	if len(args) == 0 {
		pterm.DefaultBasicText.Println("Simulated tools:")
		for _, tool := range reg.Tools() {
			def := reg.Definition(tool)
			pterm.DefaultBasicText.Printf("  %-12s %s\n", tool, def.Description)
		}
		pterm.DefaultBasicText.Println("\nBuiltins: scenario, ssh, su, exit, help, history, quit")
		return
	}

	tool := args[0]
	if !reg.HasTool(tool) {
		pterm.Error.Printfln("help: unknown tool %q", tool)
		return
	}
	pterm.DefaultBasicText.Println(strings.TrimRight(reg.CommandHelp(tool), "\n"))
	if examples := reg.UsageExamples(tool); len(examples) > 0 {
		pterm.DefaultBasicText.Println("\nExamples:")
		for _, ex := range examples {
			pterm.DefaultBasicText.Println("  " + ex)
		}
	}
}

func (s *shell) showHistory() {
	for _, e := range s.app.history.Recent(20) {
		marker := " "
		if !e.Success {
			marker = "!"
		}
		pterm.DefaultBasicText.Printf("%4d %s %s\n", e.ID, marker, e.Command)
	}
}

func (s *shell) scenario(args []string) {
	if len(args) == 0 {
		pterm.Error.Println("usage: scenario create|use|list|reset|delete [id]")
		return
	}

	mgr := s.app.scenarios
	switch args[0] {
	case "create":
		if len(args) < 2 {
			pterm.Error.Println("usage: scenario create <id>")
			return
		}
		mgr.CreateContext(args[1], s.app.base)
		mgr.SetActive(args[1])
		s.app.session.SetActiveScenario(args[1])
		pterm.Success.Printfln("scenario %q created and activated", args[1])

	case "use":
		if len(args) < 2 {
			mgr.SetActive("")
			s.app.session.SetActiveScenario("")
			pterm.Info.Println("scenario deactivated")
			return
		}
		if !mgr.SetActive(args[1]) {
			pterm.Error.Printfln("no scenario %q", args[1])
			return
		}
		s.app.session.SetActiveScenario(args[1])

	case "list":
		ids := mgr.IDs()
		if len(ids) == 0 {
			pterm.Info.Println("no scenarios")
			return
		}
		active := mgr.ActiveID()
		for _, id := range ids {
			marker := " "
			if id == active {
				marker = "*"
			}
			ctx := mgr.GetContext(id)
			pterm.DefaultBasicText.Printf("%s %s (%d mutations)\n", marker, id, ctx.MutationCount())
		}

	case "reset":
		ctx := mgr.Active()
		if ctx == nil {
			pterm.Error.Println("no active scenario")
			return
		}
		ctx.Reset()
		pterm.Success.Printfln("scenario %q reset to its base snapshot", ctx.ID())

	case "delete":
		if len(args) < 2 {
			pterm.Error.Println("usage: scenario delete <id>")
			return
		}
		if !mgr.DeleteContext(args[1]) {
			pterm.Error.Printfln("no scenario %q", args[1])
			return
		}
		if mgr.ActiveID() == "" {
			s.app.session.SetActiveScenario("")
		}
		pterm.Success.Printfln("scenario %q deleted", args[1])

	default:
		pterm.Error.Printfln("scenario: unknown action %q", args[0])
	}
}
