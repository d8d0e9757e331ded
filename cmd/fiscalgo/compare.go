package main

import (
	"fmt"

	"github.com/rgehrsitz/fiscalgo/internal/compare"
	"github.com/spf13/cobra"
)

func compareCmd(a *app) *cobra.Command {
	var sets, variantSpecs []string
	var format string

	cmd := &cobra.Command{
		Use:   "compare <calculator>",
		Short: "Compare a base input set against variants",
		Example: "  fiscalgo compare ivtm -s measure=11.5 --variant madrid:municipality=madrid --variant bcn:municipality=barcelona\n" +
			"  fiscalgo compare regime -s revenue=50000 --variant ord:regime=ordinario,expenses=10000",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := parseSets(sets)
			if err != nil {
				return err
			}
			if len(variantSpecs) == 0 {
				return fmt.Errorf("at least one --variant is required")
			}
			variants := make([]compare.Variant, 0, len(variantSpecs))
			for _, spec := range variantSpecs {
				v, err := compare.ParseVariant(spec)
				if err != nil {
					return err
				}
				variants = append(variants, v)
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}
			set, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), args[0], base, variants)
			if err != nil {
				return err
			}

			var out string
			switch format {
			case "table", "console":
				out = (&compare.TableFormatter{}).Format(set)
			case "compact":
				out = (&compare.TableFormatter{}).FormatCompact(set)
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(set)
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true}).Format(set)
			default:
				return fmt.Errorf("unsupported format %q (available: table, compact, csv, json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "Base input value as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&variantSpecs, "variant", nil, "Variant as name:key=value[,key=value] (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, compact, csv, json)")
	return cmd
}
