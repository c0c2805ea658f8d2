package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/campusbot/whereis/internal/building"
	"github.com/campusbot/whereis/internal/source"
)

var (
	convertOut   string
	convertTable string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Copy the validated catalog into a SQLite or Postgres database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("convert"); err != nil {
			return err
		}
		if convertOut == "" {
			return eris.New("--out is required")
		}
		cat, err := loadCatalog(cmd.Context(), cfg)
		if err != nil {
			describeLoadError(cmd.ErrOrStderr(), err)
			return err
		}

		table := convertTable
		if table == "" {
			table = cfg.Catalog.Table
		}
		out := source.Spec{Location: convertOut, Table: table, OrderColumn: cfg.Catalog.OrderColumn}
		if err := source.Write(cmd.Context(), out, toRecords(cat.All())); err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintf("wrote %d buildings to %s (table %s)\n", cat.Len(), source.Redact(convertOut), table))
		return err
	},
}

func toRecords(bs []building.Building) []building.Record {
	out := make([]building.Record, len(bs))
	for i, b := range bs {
		out[i] = building.Record{Code: b.Code, FullName: b.FullName, Aliases: b.Aliases}
	}
	return out
}

func init() {
	convertCmd.Flags().StringVar(&convertOut, "out", "", "SQLite file or postgres:// URL to write")
	convertCmd.Flags().StringVar(&convertTable, "table", "", "table name (default catalog.table)")
	rootCmd.AddCommand(convertCmd)
}
