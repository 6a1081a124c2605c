package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "report-designer",
	Short: "Report template designer API server",
	Long: `Report Designer serves the editing API for report templates.
Templates are composed from a catalog of charts, tables, text blocks and KPI
metrics, bound to data sources and saved to MongoDB.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, validateCmd, catalogCmd)
}

// GetRootCmd returns the root command for tests
func GetRootCmd() *cobra.Command {
	return rootCmd
}
