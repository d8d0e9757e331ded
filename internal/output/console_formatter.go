package output

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ConsoleFormatter renders a plain-text report
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	nf := NewNumberFormatter(report.Locale)

	for i, res := range report.Results {
		if i > 0 {
			fmt.Fprintln(&buf)
		}
		title := res.Title
		if res.Scenario != "" {
			title = fmt.Sprintf("%s - %s", res.Scenario, res.Title)
		}
		fmt.Fprintln(&buf, strings.ToUpper(title))
		fmt.Fprintln(&buf, strings.Repeat("=", 60))

		width := 0
		for _, v := range res.Values {
			if n := utf8.RuneCountInString(v.Label); n > width {
				width = n
			}
		}
		for _, v := range res.Values {
			fmt.Fprintf(&buf, "%s %20s\n", padRight(v.Label, width), nf.Value(v))
		}
		fmt.Fprintln(&buf, strings.Repeat("-", 60))
		fmt.Fprintf(&buf, "%s %20s\n", padRight("TOTALE", width), nf.Currency(res.Amount))

		for _, note := range res.Notes {
			fmt.Fprintf(&buf, "* %s\n", note)
		}
	}

	if len(report.Assumptions) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ASSUMPTIONS:")
		for _, a := range report.Assumptions {
			fmt.Fprintf(&buf, "- %s\n", a)
		}
	}
	return buf.Bytes(), nil
}

// padRight pads by rune count so accented labels line up
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
