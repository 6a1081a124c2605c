package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/report-designer-api/catalog"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the component and data source catalogs",
	RunE: func(cmd *cobra.Command, args []string) error {
		sources := catalog.NewDataSourceCatalog()
		out := struct {
			Components  []catalog.Category       `json:"components"`
			DataSources []catalog.DataSourceNode `json:"dataSources"`
		}{
			Components:  catalog.NewComponentCatalog().ListCategories(),
			DataSources: sources.Tree(),
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}
