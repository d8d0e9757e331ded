package main

import (
	"fmt"

	"github.com/rgehrsitz/fiscalgo/internal/scaffold"
	"github.com/spf13/cobra"
)

func scaffoldCmd(a *app) *cobra.Command {
	var content string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "scaffold <worklist.csv>",
		Short: "Create calculator pages from a CSV worklist",
		Long: "Reads a CSV worklist (slug, lang, title, calculator, category, description)\n" +
			"and writes <content>/<lang>/<slug>.md for every row. Existing pages are\n" +
			"never overwritten.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			s := scaffold.NewScaffolder(content, engine.Registry.Has)
			s.DryRun = dryRun

			summary, err := s.RunFile(args[0])
			if err != nil {
				a.notifier.Failure("scaffold", err, map[string]string{"worklist": args[0]})
				return err
			}

			out := cmd.OutOrStdout()
			verb := "Created"
			if dryRun {
				verb = "Would create"
			}
			for _, p := range summary.Created {
				fmt.Fprintf(out, "%s %s\n", verb, p)
			}
			for _, p := range summary.Skipped {
				fmt.Fprintf(out, "Skipped %s (exists)\n", p)
			}
			for _, inv := range summary.Invalid {
				fmt.Fprintf(out, "Invalid row %d: %s\n", inv.Line, inv.Reason)
			}
			fmt.Fprintf(out, "%d created, %d skipped, %d invalid\n",
				len(summary.Created), len(summary.Skipped), len(summary.Invalid))
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", "content", "Content root directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be created without writing")
	return cmd
}

func fixLanguageCmd(a *app) *cobra.Command {
	var content string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix-language",
		Short: "Align the front matter language of pages with their directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := scaffold.FixLanguage(content, dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fixed, flagged := 0, 0
			for _, r := range reports {
				switch {
				case r.Error != "":
					a.log.Warnf("%s: %s", r.Path, r.Error)
				case r.Fixed:
					fixed++
					fmt.Fprintf(out, "Fixed %s: lang %q -> %q\n", r.Path, r.FrontMatterLang, r.DirLang)
				}
				if r.BodyMismatch {
					flagged++
					fmt.Fprintf(out, "Check %s: text looks like %q, directory is %q\n", r.Path, r.DetectedLang, r.DirLang)
				}
			}
			fmt.Fprintf(out, "%d pages checked, %d fixed, %d flagged\n", len(reports), fixed, flagged)
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", "content", "Content root directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing")
	return cmd
}
