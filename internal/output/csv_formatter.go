package output

import (
	"bytes"
	"encoding/csv"
)

// CSVFormatter renders one row per named value, so results of different
// calculators fit in a single sheet.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"report_id", "scenario", "calculator", "key", "label", "value", "unit"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, res := range report.Results {
		for _, v := range res.Values {
			row := []string{report.ID, res.Scenario, res.Calculator, v.Key, v.Label, v.Value.String(), string(v.Unit)}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
		total := []string{report.ID, res.Scenario, res.Calculator, "amount", res.Title, res.Amount.StringFixed(2), "currency"}
		if err := w.Write(total); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
