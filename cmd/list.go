package main

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every building code and full name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("list"); err != nil {
			return err
		}
		r, err := buildResolver(cmd.Context(), cfg)
		if err != nil {
			describeLoadError(cmd.ErrOrStderr(), err)
			return err
		}
		return renderList(cmd.OutOrStdout(), r)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
