package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/fiscalgo/internal/calculation"
	"github.com/rgehrsitz/fiscalgo/internal/config"
	"github.com/rgehrsitz/fiscalgo/internal/output"
	"github.com/rgehrsitz/fiscalgo/internal/tui"
)

func main() {
	env := config.LoadEnv()
	tablesPath := flag.String("tables", env.TablesPath, "rate-table override file")
	locale := flag.String("locale", output.DefaultLocale, "number format locale (it, es, en)")
	flag.Parse()

	tables, err := config.NewTablesLoader().Load(*tablesPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// the engine keeps its no-op logger: anything written to the terminal
	// would corrupt the screen
	engine := calculation.NewCalculationEngine(tables)

	p := tea.NewProgram(
		tui.NewModel(engine, *locale),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
