package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cityjson/cjval/internal/extension"
)

// NewValidateExtCmd returns the "validate-ext" command: check that an
// Extension document is well-formed, without registering it against
// any particular CityJSON document.
func NewValidateExtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-ext <file>",
		Short: "Validate a CityJSON Extension document",
		Args:  cobra.ExactArgs(1),
		Example: `
  cjval validate-ext noise.ext.json`,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path := args[0]
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		doc, err := extension.Parse(raw)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: Extension %q is well-formed (CityJSON %s)\n",
			path, doc.Name, doc.VersionCityJSON)
		return nil
	}

	return cmd
}
