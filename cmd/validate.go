package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/campusbot/whereis/internal/source"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the catalog and report every problem in it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("validate"); err != nil {
			return err
		}
		cat, err := loadCatalog(cmd.Context(), cfg)
		if err != nil {
			describeLoadError(cmd.OutOrStdout(), err)
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintf("%s: %d buildings\n",
			source.Redact(cfg.Catalog.Source), cat.Len()))
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
