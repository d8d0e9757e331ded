package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/fiscalgo/internal/config"
	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/rgehrsitz/fiscalgo/internal/output"
	"github.com/spf13/cobra"
)

func listCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the calculators and their inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range engine.Registry.Describe() {
				fmt.Fprintf(out, "%-12s %s\n", d.Name, d.Title)
				for _, f := range d.Fields {
					fmt.Fprintf(out, "    %-16s %s\n", f.Key, describeField(f))
				}
			}
			return nil
		},
	}
	return cmd
}

func describeField(f domain.Field) string {
	var b strings.Builder
	b.WriteString(f.Label)
	if f.Unit != "" {
		fmt.Fprintf(&b, " (%s)", f.Unit)
	}
	if f.Base {
		b.WriteString(" [base]")
	}
	if f.Default != "" {
		fmt.Fprintf(&b, " = %s", f.Default)
	}
	if len(f.Options) > 0 {
		values := make([]string, 0, len(f.Options))
		for _, o := range f.Options {
			values = append(values, o.Value)
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(values, "|"))
	}
	return b.String()
}

func calculateCmd(a *app) *cobra.Command {
	var sets []string
	var format, export string

	cmd := &cobra.Command{
		Use:   "calculate <calculator>",
		Short: "Evaluate one calculator",
		Example: "  fiscalgo calculate bollo_auto --set kw=120 --set euro_class=euro6\n" +
			"  fiscalgo calculate irpef -s income=30.000 -f json --export out/irpef.json",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := parseSets(sets)
			if err != nil {
				return err
			}
			f, err := formatterFor(format)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			result, err := engine.Evaluate(args[0], inputs)
			if err != nil {
				return err
			}
			report := output.NewReport(a.locale, result).WithTables(engine.Tables.Metadata)
			return a.render(cmd, f, report, export)
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "Input value as key=value (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().StringVar(&export, "export", "", "Also write the report to this file or directory")
	return cmd
}

func batchCmd(a *app) *cobra.Command {
	var format, export string

	cmd := &cobra.Command{
		Use:   "batch <scenario-file>",
		Short: "Evaluate every scenario of a YAML scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatterFor(format)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			file, err := config.NewScenarioParser(engine.Registry.Has).LoadFromFile(args[0])
			if err != nil {
				return err
			}

			// scenarios evaluated before a failure are still reported
			results, runErr := engine.RunScenarios(cmd.Context(), file)
			if len(results) > 0 {
				report := output.NewReport(a.locale, results...).WithTables(engine.Tables.Metadata)
				if err := a.render(cmd, f, report, export); err != nil {
					return err
				}
			}
			return runErr
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().StringVar(&export, "export", "", "Also write the report to this file or directory")
	return cmd
}

// render prints the report and performs the optional export. A failed
// export is reported but does not fail the command.
func (a *app) render(cmd *cobra.Command, f output.Formatter, report *output.Report, export string) error {
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}

	if export == "" {
		return nil
	}
	path, err := exportReport(export, f, report)
	if err != nil {
		a.notifier.Failure("export", err, map[string]string{"format": f.Name()})
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: export failed: %v\n", err)
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", path)
	return nil
}

// exportReport writes into a directory under a generated name, or to a
// file whose extension picks the format.
func exportReport(target string, f output.Formatter, report *output.Report) (string, error) {
	if info, err := os.Stat(target); (err == nil && info.IsDir()) || strings.HasSuffix(target, string(os.PathSeparator)) {
		return output.WriteFormatted(f, report, target)
	}
	if byExt := output.GetFormatterByName(strings.TrimPrefix(filepath.Ext(target), ".")); byExt != nil {
		f = byExt
	}
	return target, output.Export(target, f, report)
}

func formatterFor(name string) (output.Formatter, error) {
	f := output.GetFormatterByName(name)
	if f == nil {
		return nil, fmt.Errorf("unsupported format %q (available: %s; aliases: %s)", name,
			strings.Join(output.AvailableFormatterNames(), ", "),
			strings.Join(output.AvailableFormatAliases(), ", "))
	}
	return f, nil
}

// parseSets turns repeated key=value flags into raw inputs
func parseSets(sets []string) (map[string]string, error) {
	inputs := make(map[string]string, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", s)
		}
		inputs[key] = strings.TrimSpace(value)
	}
	return inputs, nil
}
