package compare

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

func sampleSet() *ComparisonSet {
	return &ComparisonSet{
		Calculator:       "ivtm",
		BaseScenarioName: "base",
		BaseResult: &ComparisonResult{
			ScenarioName: "base",
			Amount:       decimal.RequireFromString("68.16"),
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName: "barcelona",
				Description:  "municipality=barcelona",
				Amount:       decimal.RequireFromString("61.34"),
				DiffFromBase: decimal.RequireFromString("-6.82"),
				PctFromBase:  decimal.RequireFromString("-10.01"),
				ValueDeltas: []ValueDelta{{
					Key: "coeficiente", Label: "Coeficiente municipal",
					Base: decimal.NewFromInt(2), Value: decimal.RequireFromString("1.8"), Diff: decimal.RequireFromString("-0.2"),
				}},
			},
		},
		Recommendations: []string{"Lowest amount: barcelona saves €6.82 compared to base"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	result := (&TableFormatter{}).Format(sampleSet())

	for _, want := range []string{
		"CALCULATOR COMPARISON",
		"Calculator: ivtm",
		"base (base)",
		"€68.16",
		"barcelona",
		"-6.82",
		"-10.0%",
		"COMPARISON TO BASE",
		"barcelona (municipality=barcelona):",
		"Coeficiente municipal",
		"SUMMARY",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in output:\n%s", want, result)
		}
	}
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	set := sampleSet()
	set.AlternativeResults = nil
	set.Recommendations = nil

	result := (&TableFormatter{}).Format(set)
	if strings.Contains(result, "COMPARISON TO BASE") {
		t.Error("Did not expect comparison section without alternatives")
	}
}

func TestTableFormatter_truncate(t *testing.T) {
	tf := &TableFormatter{}
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Cuota", 30, "Cuota"},
		{"Coefficiente per anzianità del veicolo", 30, "Coefficiente per anzianità ..."},
		{"Impuesto sobre vehículos de tracción", 12, "Impuesto ..."},
		{"àààààààààà", 8, "ààààà..."},
	}
	for _, tt := range tests {
		got := tf.truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.width)
		}
	}
}

func TestTableFormatter_AccentedRowsAlign(t *testing.T) {
	tf := &TableFormatter{}
	plain := tf.formatRow(&ComparisonResult{ScenarioName: "madrid", Amount: decimal.RequireFromString("68.16")}, 25, 15, false)
	accented := tf.formatRow(&ComparisonResult{ScenarioName: "Málaga, más cara", Amount: decimal.RequireFromString("68.16")}, 25, 15, false)

	if columns.StringWidth(plain) != columns.StringWidth(accented) {
		t.Errorf("Expected equal row widths:\n%q\n%q", plain, accented)
	}
}

func TestTableFormatter_formatDecimal(t *testing.T) {
	tf := &TableFormatter{}
	tests := map[string]string{
		"68.16":   "68.16",
		"99999":   "99999.00",
		"250000":  "250.0K",
		"1500000": "1.50M",
	}
	for in, want := range tests {
		if got := tf.formatDecimal(decimal.RequireFromString(in)); got != want {
			t.Errorf("formatDecimal(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	got := (&TableFormatter{}).FormatCompact(sampleSet())
	want := "ivtm base €68.16 | barcelona: €-6.82"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	result, err := (&CSVFormatter{}).Format(sampleSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Scenario,Type,Calculator,Overrides,Amount,Diff from Base,% Change" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "base,base,ivtm,,68.16,0.00,0.00" {
		t.Errorf("unexpected base row %q", lines[1])
	}
	if lines[2] != "barcelona,alternative,ivtm,municipality=barcelona,61.34,-6.82,-10.01" {
		t.Errorf("unexpected alternative row %q", lines[2])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	result, err := (&JSONFormatter{Pretty: true}).Format(sampleSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{`"baseScenarioName": "base"`, `"alternativeResults"`, `"recommendations"`, "€6.82"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in output", want)
		}
	}

	var decoded ComparisonSet
	if err := json.Unmarshal([]byte(result), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !decoded.AlternativeResults[0].Amount.Equal(decimal.RequireFromString("61.34")) {
		t.Errorf("unexpected decoded amount %s", decoded.AlternativeResults[0].Amount)
	}
}
