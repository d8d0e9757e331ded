package compare

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
)

// columns measures display width with ambiguous-width runes (à, €) as one
// column regardless of the terminal locale
var columns = &runewidth.Condition{EastAsianWidth: false}

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing input sets
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("CALCULATOR COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Calculator: %s\n", compSet.Calculator))
	sb.WriteString("\n")

	nameWidth := 25
	numWidth := 15

	sb.WriteString(fmt.Sprintf("%s %s %s %s\n",
		columns.FillRight("Scenario", nameWidth),
		columns.FillLeft("Amount", numWidth),
		columns.FillLeft("Diff", numWidth),
		columns.FillLeft("% Change", numWidth)))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", alt.Description))
			}
			sb.WriteString(":\n")

			if len(alt.ValueDeltas) == 0 {
				sb.WriteString("  no change\n")
				continue
			}
			for _, d := range alt.ValueDeltas {
				sb.WriteString(fmt.Sprintf("  %s %s%s\n",
					columns.FillRight(tf.truncate(d.Label, 30), 30), tf.deltaSymbol(d.Diff), d.Diff.StringFixed(2)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nSUMMARY\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	diff, pct := "", ""
	if isBase {
		name += " (base)"
	} else {
		diff = tf.deltaSymbol(result.DiffFromBase) + "€" + tf.formatDecimal(result.DiffFromBase)
		pct = tf.deltaSymbol(result.PctFromBase) + result.PctFromBase.StringFixed(1) + "%"
	}

	return fmt.Sprintf("%s %s %s %s\n",
		columns.FillRight(tf.truncate(name, nameWidth), nameWidth),
		columns.FillLeft("€"+tf.formatDecimal(result.Amount), numWidth),
		columns.FillLeft(diff, numWidth),
		columns.FillLeft(pct, numWidth))
}

// formatDecimal formats a decimal for display, abbreviating large amounts
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(100000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(2)
}

// deltaSymbol returns + for increases; negative values carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// truncate shortens s to maxLen display columns
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	return columns.Truncate(s, maxLen, "...")
}

// FormatCompact creates a compact single-line summary for each variant
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s base €%s | ", compSet.Calculator, compSet.BaseResult.Amount.StringFixed(2)))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.DiffFromBase.IsZero() {
			change = tf.deltaSymbol(alt.DiffFromBase) + "€" + alt.DiffFromBase.StringFixed(2)
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
