package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/report-designer-api/designer"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <template.json>",
	Short: "Check a template document",
	Long: `Decode a stored template document and report whether it is valid.
The exit status is non-zero when the document does not decode.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		t, err := designer.DecodeDocument(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid template %s with %d components\n", args[0], t.ID, len(t.Components))
		return nil
	},
}
