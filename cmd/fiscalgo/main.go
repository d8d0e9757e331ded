package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sort"
	"strings"
	"syscall"

	"github.com/rgehrsitz/fiscalgo/internal/calculation"
	"github.com/rgehrsitz/fiscalgo/internal/config"
	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/rgehrsitz/fiscalgo/internal/notify"
	"github.com/rgehrsitz/fiscalgo/internal/output"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var logLevels = map[string]logrus.Level{
	"trace": logrus.TraceLevel,
	"debug": logrus.DebugLevel,
	"info":  logrus.InfoLevel,
	"warn":  logrus.WarnLevel,
	"error": logrus.ErrorLevel,
}

// app is the state shared by every subcommand once flags are parsed
type app struct {
	tablesPath string
	logLevel   string
	locale     string
	debug      bool

	env      config.Env
	log      *logrus.Entry
	notifier *notify.Notifier
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.WithField("module", "fiscalgo")}

	root := &cobra.Command{
		Use:   "fiscalgo",
		Short: "Italian and Spanish tax and contribution calculators",
		Long: "Deterministic calculators for vehicle, income, property and social-security\n" +
			"levies, driven by versioned rate tables.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.tablesPath, "tables", "", "Rate-table override file (default: embedded tables, or $FISCALGO_TABLES)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (default: $FISCALGO_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&a.locale, "locale", output.DefaultLocale, "Number format locale (it, es, en)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Log every intermediate value")

	root.AddCommand(
		listCmd(a),
		calculateCmd(a),
		batchCmd(a),
		compareCmd(a),
		validateCmd(a),
		serveCmd(a),
		scaffoldCmd(a),
		fixLanguageCmd(a),
		versionCmd(),
	)
	return root
}

// setup applies .env and environment settings that flags did not override
func (a *app) setup(cmd *cobra.Command) error {
	a.env = config.LoadEnv()
	flags := cmd.Flags()
	if !flags.Changed("tables") {
		a.tablesPath = a.env.TablesPath
	}
	if !flags.Changed("log-level") {
		a.logLevel = a.env.LogLevel
	}
	if a.debug {
		a.logLevel = "debug"
	}

	level, ok := logLevels[strings.ToLower(a.logLevel)]
	if !ok {
		return fmt.Errorf("--log-level must be one of %s", strings.Join(sortedLevels(), ", "))
	}
	logrus.SetLevel(level)
	logrus.SetOutput(cmd.ErrOrStderr())

	if err := notify.Init(notify.Options{
		DSN:         a.env.SentryDSN,
		Environment: a.env.SentryEnvironment,
		Release:     lo.Ternary(a.env.SentryRelease != "", a.env.SentryRelease, version),
	}); err != nil {
		a.log.Warnf("error reporting disabled: %v", err)
	}
	a.notifier = notify.New(a.log)
	return nil
}

func sortedLevels() []string {
	levels := lo.Keys(logLevels)
	sort.Strings(levels)
	return levels
}

// tables loads the rate tables named by --tables or the environment
func (a *app) tables() (*domain.RateTables, error) {
	tables, err := config.NewTablesLoader().Load(a.tablesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate tables: %w", err)
	}
	return tables, nil
}

// engine builds a calculation engine logging through logrus
func (a *app) engine() (*calculation.CalculationEngine, error) {
	tables, err := a.tables()
	if err != nil {
		return nil, err
	}
	engine := calculation.NewCalculationEngine(tables)
	engine.SetLogger(logrus.WithField("module", "calculation"))
	engine.Debug = a.debug
	return engine, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fiscalgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	notify.Flush()
	if err != nil {
		os.Exit(1)
	}
}
