package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCmd returns the "validate" command: validate a single
// CityJSON document.
func NewValidateCmd(mgr Manager) *cobra.Command {
	var verbose bool
	var watch bool
	var extensionFiles []string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a CityJSON document against its version's schema",
		Args:  cobra.ExactArgs(1),
		Example: `
  cjval validate building.city.json
  cjval validate -v building.city.json
  cjval validate -o json building.city.json
  cjval validate -w building.city.json
  cjval validate -e noise.ext.json building.city.json`,
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose report (the text report lists every check and its messages with or without this flag)")
	outputVal := formatValue("text")
	cmd.Flags().VarP(&outputVal, "output", "o", "Output format (text, json)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Revalidate whenever the file changes")
	cmd.Flags().StringArrayVarP(&extensionFiles, "extensionfile", "e", nil,
		"Local Extension schema file to use instead of fetching its url (repeatable)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path := args[0]
		noColour, _ := cmd.Flags().GetBool("nocolour")
		opts := Options{Verbose: verbose, Output: string(outputVal), UseColour: !noColour, ExtensionFiles: extensionFiles}

		if watch {
			return mgr.WatchFile(cmd.Context(), path, opts, nil)
		}

		valid, err := mgr.ValidateFile(cmd.Context(), path, opts)
		if err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("%s is not valid", path)
		}
		return nil
	}

	return cmd
}

// NewValidateSeqCmd returns the "validate-seq" command: validate a
// CityJSONSeq stream, one document per line.
func NewValidateSeqCmd(mgr Manager) *cobra.Command {
	var verbose bool
	var extensionFiles []string

	cmd := &cobra.Command{
		Use:   "validate-seq <file>",
		Short: "Validate a CityJSONSeq stream",
		Args:  cobra.ExactArgs(1),
		Example: `
  cjval validate-seq tiles.city.jsonl
  cjval validate-seq -e noise.ext.json tiles.city.jsonl`,
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose report (the text report lists every check and its messages with or without this flag)")
	outputVal := formatValue("text")
	cmd.Flags().VarP(&outputVal, "output", "o", "Output format (text, json)")
	cmd.Flags().StringArrayVarP(&extensionFiles, "extensionfile", "e", nil,
		"Local Extension schema file to use instead of fetching its url (repeatable); applies to the header and every feature line")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path := args[0]
		noColour, _ := cmd.Flags().GetBool("nocolour")
		opts := Options{Verbose: verbose, Output: string(outputVal), UseColour: !noColour, ExtensionFiles: extensionFiles}

		valid, err := mgr.ValidateSeqFile(cmd.Context(), path, opts)
		if err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("%s is not valid", path)
		}
		return nil
	}

	return cmd
}
