package main

import (
	"fmt"

	"github.com/rgehrsitz/fiscalgo/internal/config"
	"github.com/spf13/cobra"
)

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [tables-file]",
		Short: "Validate a rate-table override file",
		Long: "Merges the file over the embedded rate tables and checks every table.\n" +
			"Without an argument the tables selected by --tables are checked.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.tablesPath
			if len(args) == 1 {
				path = args[0]
			}
			tables, err := config.NewTablesLoader().Load(path)
			if err != nil {
				return err
			}

			name := path
			if name == "" {
				name = "embedded defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rate tables %s are valid (data year %d, updated %s)\n",
				name, tables.Metadata.DataYear, tables.Metadata.LastUpdated)
			return nil
		},
	}
}
