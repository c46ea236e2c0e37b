package commands

import (
	"slices"
	"strings"

	"github.com/andri/cdtable/pkg/config"
	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/store"
	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion subcommand for generating shell completion scripts
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cdtable.

To load completions:

Bash:
  $ source <(cdtable completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ cdtable completion bash > /etc/bash_completion.d/cdtable
  # macOS:
  $ cdtable completion bash > $(brew --prefix)/etc/bash_completion.d/cdtable

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ cdtable completion zsh > "${fpath[1]}/_cdtable"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ cdtable completion fish | source

  # To load completions for each session, execute once:
  $ cdtable completion fish > ~/.config/fish/completions/cdtable.fish

PowerShell:
  PS> cdtable completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> cdtable completion powershell > cdtable.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return nil
			}
		},
	}

	return cmd
}

// registerCompletions adds value completion for the enumerated flags and
// saved table names.
func registerCompletions(root *cobra.Command) {
	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}

	_ = root.RegisterFlagCompletionFunc("source", fixed(config.SourceKinds...))
	_ = root.RegisterFlagCompletionFunc("store", fixed(backendNames()...))
	_ = root.RegisterFlagCompletionFunc("log-level", fixed("debug", "info", "warn", "error"))
	_ = root.RegisterFlagCompletionFunc("log-format", fixed("text", "json"))

	for _, cmd := range root.Commands() {
		switch cmd.Name() {
		case "query":
			_ = cmd.RegisterFlagCompletionFunc("output", fixed(validOutputFormats()...))
			fallthrough
		case "browse":
			_ = cmd.RegisterFlagCompletionFunc("filter-cascade", fixed(
				string(datatable.CascadePreceding), string(datatable.CascadeOthers), string(datatable.CascadeNone)))
		case "tables":
			for _, sub := range cmd.Commands() {
				if sub.Name() == "show" || sub.Name() == "reset" {
					sub.ValidArgsFunction = completeTableNames
				}
			}
		}
	}
}

// completeTableNames lists the saved tables. Completion runs without the
// root pre-run, so the config is loaded here.
func completeTableNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	result, err := config.LoadConfig(config.LoadOptions{ConfigFile: GlobalOptions.ConfigFile, Flags: buildFlagSet(cmd)})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	keys, err := savedTables(result.Config)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, key := range keys {
		if strings.HasPrefix(key, toComplete) && !slices.Contains(args, key) {
			names = append(names, key)
		}
	}
	slices.Sort(names)
	return names, cobra.ShellCompDirectiveNoFileComp
}

func savedTables(cfg config.Config) ([]string, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()
	return st.Keys()
}

func backendNames() []string {
	names := make([]string, 0, len(store.Backends))
	for _, b := range store.Backends {
		names = append(names, string(b))
	}
	return names
}
