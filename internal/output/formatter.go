package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Formatter renders a report in one output format
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// formatterFunc adapts a function to the Formatter interface
type formatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f formatterFunc) Name() string                          { return f.ID }
func (f formatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"json":    JSONFormatter{Pretty: true},
	"csv":     CSVFormatter{},
	"html":    HTMLFormatter{},
}

var formatAliases = map[string]string{
	"text":    "console",
	"table":   "console",
	"verbose": "console",
	"web":     "html",
}

// extensions maps formatter names to export file extensions
var extensions = map[string]string{
	"console": "txt",
	"json":    "json",
	"csv":     "csv",
	"html":    "html",
}

// GetFormatterByName returns a formatter by name or alias, nil when unknown
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists the formatter names in sorted order
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases in sorted order
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// Extension returns the file extension for a formatter
func Extension(f Formatter) string {
	if ext, ok := extensions[f.Name()]; ok {
		return ext
	}
	return "txt"
}

// Export renders the report and writes it to path, creating parent
// directories as needed.
func Export(path string, f Formatter, report *Report) error {
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report as %s: %w", f.Name(), err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteFormatted exports the report into dir under a name derived from the
// report ID and returns the file name.
func WriteFormatted(f Formatter, report *Report, dir string) (string, error) {
	filename := filepath.Join(dir, fmt.Sprintf("fiscalgo_report_%s.%s", report.ShortID(), Extension(f)))
	if err := Export(filename, f, report); err != nil {
		return "", err
	}
	return filename, nil
}
