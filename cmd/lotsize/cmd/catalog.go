package cmd

import (
	"fmt"

	"github.com/rustyeddy/lotsize/market"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Move instrument tables between files and SQLite",
	Long: `Manage a custom instrument table.

Subcommands:
  import - Load a YAML/JSON table into a SQLite store
  export - Write a table (SQLite store or built-in) to YAML/JSON

Examples:
  lotsize catalog export -o instruments.yaml
  lotsize catalog import -f instruments.yaml --db instruments.db
  lotsize catalog export --db instruments.db -o instruments.json`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a YAML/JSON instrument table into SQLite",
	RunE:  runCatalogImport,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an instrument table to YAML/JSON",
	RunE:  runCatalogExport,
}

var (
	catalogFile     string
	catalogImportDB string
	catalogExportDB string
	catalogOut      string
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	catalogImportCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "instrument table to import (required)")
	catalogImportCmd.Flags().StringVar(&catalogImportDB, "db", "instruments.db", "SQLite database path")
	catalogImportCmd.MarkFlagRequired("file")

	catalogExportCmd.Flags().StringVar(&catalogExportDB, "db", "", "SQLite database to export (built-in table when empty)")
	catalogExportCmd.Flags().StringVarP(&catalogOut, "output", "o", "instruments.yaml", "output file (.yaml, .yml or .json)")
}

func importCatalog(file, db string) (int, error) {
	cat, err := market.LoadCatalogFile(file)
	if err != nil {
		return 0, err
	}

	st, err := market.OpenStore(db)
	if err != nil {
		return 0, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.Save(cat); err != nil {
		return 0, fmt.Errorf("save catalog: %w", err)
	}
	return cat.Len(), nil
}

func exportCatalog(db, out string) (int, error) {
	cat := market.DefaultCatalog()
	if db != "" {
		st, err := market.OpenStore(db)
		if err != nil {
			return 0, fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		if cat, err = st.Load(); err != nil {
			return 0, err
		}
	}

	if err := market.SaveCatalogFile(out, cat); err != nil {
		return 0, err
	}
	return cat.Len(), nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	n, err := importCatalog(catalogFile, catalogImportDB)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d instruments into %s\n", n, catalogImportDB)
	return nil
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	n, err := exportCatalog(catalogExportDB, catalogOut)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d instruments to %s\n", n, catalogOut)
	return nil
}
