package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestReport() *Report {
	res := domain.NewResult("ivtm", "Impuesto sobre vehículos de tracción mecánica")
	res.Scenario = "coche madrid"
	res.AddUnit("measure", "Medida (cvf)", decimal.RequireFromString("11.5"), domain.UnitNumber)
	res.Add("cuota_base", "Cuota base", decimal.RequireFromString("34.08"))
	res.AddUnit("coeficiente", "Coeficiente municipal", decimal.NewFromInt(2), domain.UnitNumber)
	res.Amount = decimal.RequireFromString("68.16")
	res.Add("cuota", "Cuota anual", res.Amount)
	res.Note("Coeficiente máximo")

	return NewReport("es", res).WithTables(domain.TablesMetadata{DataYear: 2024, LastUpdated: "2024-12-31"})
}

func TestNewReport(t *testing.T) {
	report := buildTestReport()

	_, err := uuid.Parse(report.ID)
	assert.NoError(t, err, "ID should be a UUID")
	assert.Len(t, report.ShortID(), 8)
	assert.Equal(t, "es", report.Locale)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Contains(t, report.Assumptions, "Rate tables: data year 2024, last updated 2024-12-31")
	assert.Len(t, report.Results, 1)

	assert.Equal(t, DefaultLocale, NewReport("").Locale)
	assert.NotEqual(t, NewReport("it").ID, NewReport("it").ID)
}

func TestNumberFormatter(t *testing.T) {
	tests := []struct {
		locale   string
		method   string
		value    string
		expected string
	}{
		{"it", "currency", "1234.5", "1.234,50 €"},
		{"it", "currency", "335.4", "335,40 €"},
		{"en", "currency", "1234.5", "€1,234.50"},
		{"en", "currency", "-6.82", "-€6.82"},
		{"es", "currency", "12345.5", "12.345,50 €"},
		{"it", "percent", "0.35", "35%"},
		{"it", "percent", "0.0123", "1,23%"},
		{"en", "percent", "0.0123", "1.23%"},
		{"it", "number", "120", "120"},
		{"it", "number", "11.5", "11,50"},
		{"not a locale!", "currency", "1", "1,00 €"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s/%s", tt.locale, tt.method, tt.value), func(t *testing.T) {
			nf := NewNumberFormatter(tt.locale)
			d := decimal.RequireFromString(tt.value)
			var got string
			switch tt.method {
			case "currency":
				got = nf.Currency(d)
			case "percent":
				got = nf.Percent(d)
			default:
				got = nf.Number(d)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNumberFormatter_Value(t *testing.T) {
	nf := NewNumberFormatter("it")

	assert.Equal(t, "10,00 €", nf.Value(domain.NamedValue{Value: decimal.NewFromInt(10), Unit: domain.UnitCurrency}))
	assert.Equal(t, "23%", nf.Value(domain.NamedValue{Value: decimal.RequireFromString("0.23"), Unit: domain.UnitPercent}))
	assert.Equal(t, "10", nf.Value(domain.NamedValue{Value: decimal.NewFromInt(10), Unit: domain.UnitNumber}))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "68,16 €", FormatCurrency(decimal.RequireFromString("68.16")))
	assert.Equal(t, "43%", FormatPercentage(decimal.RequireFromString("0.43")))
}

func TestFormatterFunc(t *testing.T) {
	called := false
	formatter := formatterFunc{
		ID: "test-formatter",
		F: func(report *Report) ([]byte, error) {
			called = true
			return []byte("test output"), nil
		},
	}

	out, err := formatter.Format(buildTestReport())
	assert.NoError(t, err)
	assert.True(t, called, "Should call the function")
	assert.Equal(t, []byte("test output"), out)
	assert.Equal(t, "test-formatter", formatter.Name())
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"console", "console"},
		{"JSON", "json"},
		{"csv", "csv"},
		{"html", "html"},
		{"table", "console"},
		{"verbose", "console"},
		{"web", "html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := GetFormatterByName(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.expected, f.Name())
		})
	}

	assert.Nil(t, GetFormatterByName("pdf"), "Should return nil for unknown formatter")
	assert.Equal(t, []string{"console", "csv", "html", "json"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "table")
}

func TestConsoleFormatter_Format(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "COCHE MADRID - IMPUESTO SOBRE VEHÍCULOS DE TRACCIÓN MECÁNICA")
	assert.Contains(t, content, "34,08 €")
	assert.Contains(t, content, "68,16 €")
	assert.Contains(t, content, "* Coeficiente máximo")
	assert.Contains(t, content, "ASSUMPTIONS:")
}

func TestJSONFormatter_Format(t *testing.T) {
	report := buildTestReport()
	out, err := JSONFormatter{Pretty: true}.Format(report)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, report.ID, decoded.ID)
	require.Len(t, decoded.Results, 1)
	assert.True(t, decoded.Results[0].Amount.Equal(decimal.RequireFromString("68.16")))
	assert.Equal(t, "coche madrid", decoded.Results[0].Scenario)
}

func TestCSVFormatter_Format(t *testing.T) {
	report := buildTestReport()
	out, err := CSVFormatter{}.Format(report)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 6, "header, four values and the total")
	assert.Equal(t, "report_id,scenario,calculator,key,label,value,unit", lines[0])
	assert.Equal(t, report.ID+",coche madrid,ivtm,measure,Medida (cvf),11.5,number", lines[1])
	assert.True(t, strings.HasSuffix(lines[5], ",amount,Impuesto sobre vehículos de tracción mecánica,68.16,currency"))
}

func TestHTMLFormatter_Format(t *testing.T) {
	report := buildTestReport()
	report.Results[0].Note("<script>alert(1)</script>")

	out, err := HTMLFormatter{}.Format(report)
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, `<html lang="es">`)
	assert.Contains(t, content, report.ID)
	assert.Contains(t, content, "Cuota base")
	assert.Contains(t, content, "68,16 €")
	assert.NotContains(t, content, "<script>", "notes must be escaped")
}

func TestExport(t *testing.T) {
	report := buildTestReport()
	path := filepath.Join(t.TempDir(), "nested", "dir", "report.json")

	require.NoError(t, Export(path, GetFormatterByName("json"), report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), report.ID)
}

func TestExport_Errors(t *testing.T) {
	report := buildTestReport()

	failing := formatterFunc{ID: "broken", F: func(*Report) ([]byte, error) { return nil, fmt.Errorf("formatter error") }}
	err := Export(filepath.Join(t.TempDir(), "x.txt"), failing, report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formatter error")

	// a regular file where a directory is expected
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	err = Export(filepath.Join(blocker, "report.csv"), CSVFormatter{}, report)
	assert.Error(t, err)
}

func TestWriteFormatted(t *testing.T) {
	report := buildTestReport()
	dir := t.TempDir()

	filename, err := WriteFormatted(HTMLFormatter{}, report, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fiscalgo_report_"+report.ShortID()+".html"), filename)

	_, err = os.Stat(filename)
	assert.NoError(t, err)
}
