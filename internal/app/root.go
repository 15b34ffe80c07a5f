package app

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cityjson/cjval/internal/config"
	"github.com/cityjson/cjval/internal/fetch"
	"github.com/cityjson/cjval/internal/fs"
	"github.com/cityjson/cjval/internal/schema"
)

// ConfigFileEnvVar names the environment variable that overrides which
// config file NewRootCmd reads, when --config is not given.
const ConfigFileEnvVar = "CJVAL_CONFIG_FILE"

// Version is the current version of cjval, set at build time.
var Version = "dev"

// Banner with colour codes and escaped backticks.
var Banner = "\033[32m" + `
   _______ _          __     _______  ______
  / ____(_)_  _______ / /    / / ___/ / __  /
 / /   / / / / / __ \/ /_____/ /\__ \ / / / /
/ /___/ / /_/ / /_/ / /_____/ /___/ // /_/ /
\____/_/\__, /\____/_/     /_//____(_)____/
       /____/
` + "\033[0m"

var LongDescription = `
cjval validates CityJSON documents and CityJSONSeq streams against the
version-specific CityJSON JSON Schemas plus the structural invariants
JSON Schema cannot express (parent/child consistency, vertex index
bounds, semantics/material/texture array shapes, Extensions).
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stderr io.Writer) *cobra.Command {
	var debug bool
	var noColour bool
	var cfgPath pathValue

	rootCmd := &cobra.Command{
		Use:           "cjval",
		Short:         "Validate CityJSON documents and CityJSONSeq streams",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          Banner + "\n" + LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for help and completion commands.
			if cmd.Name() == "help" || isCompletionCommand(cmd) {
				return nil
			}
			// Skip if already initialised (e.g. in tests).
			if lazy.HasInner() {
				if debug {
					ll.Set(slog.LevelDebug)
				}
				return nil
			}

			if debug {
				ll.Set(slog.LevelDebug)
			}

			if cfgPath == "" {
				cfgPath = pathValue(fs.NewEnvProvider().Get(ConfigFileEnvVar))
			}
			if cfgPath == "" {
				cfgPath = ".cjval.yml"
			}
			cfg, err := config.Load(cfgPath.String())
			if err != nil {
				return err
			}

			logger, _, err := setupLogger(stderr, ll, "")
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			registry := schema.NewDefaultRegistry()
			fetcher := fetch.NewHTTPFetcher(cfg.FetchTimeout, 10*1024*1024)

			realMgr := NewCLIManager(logger, registry, fetcher, cmd.OutOrStdout())
			lazy.SetInner(realMgr)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Var(&cfgPath, "config", "path to .cjval.yml (defaults to ./.cjval.yml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewValidateCmd(lazy))
	rootCmd.AddCommand(NewValidateSeqCmd(lazy))
	rootCmd.AddCommand(NewValidateExtCmd())

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
