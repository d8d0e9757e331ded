package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/fiscalgo/internal/output"
	"github.com/shopspring/decimal"
)

// run executes a fresh command tree and captures stdout and stderr
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("FISCALGO_TABLES", "")
	t.Setenv("FISCALGO_LOG_LEVEL", "warn")
	t.Setenv("SENTRY_DSN", "")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	if cmd.Use != "fiscalgo" {
		t.Errorf("Expected root command use to be 'fiscalgo', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("Expected root command to have descriptions")
	}

	expected := []string{"list", "calculate", "batch", "compare", "validate", "serve", "scaffold", "fix-language", "version"}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected command %s to be registered", name)
		}
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("Expected no error for help, got %v", err)
	}
	if !strings.Contains(out, "calculate") {
		t.Error("Expected help to list subcommands")
	}
}

func TestListCommand(t *testing.T) {
	out, _, err := run(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"bollo_auto", "irpf", "euro_class", "[base]", "{euro0|"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected list output to contain %q", want)
		}
	}
}

func TestCalculateCommand_JSON(t *testing.T) {
	out, _, err := run(t, "calculate", "bollo_auto", "--set", "kw=120", "-s", "euro_class=euro6", "--format", "json")
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(report.Results))
	}
	if !report.Results[0].Amount.Equal(decimal.RequireFromString("335.40")) {
		t.Errorf("Expected 335.40, got %s", report.Results[0].Amount)
	}
}

func TestCalculateCommand_Console(t *testing.T) {
	out, _, err := run(t, "calculate", "irpef", "-s", "income=30.000")
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if !strings.Contains(out, "6.012,64 €") {
		t.Errorf("Expected localized total in output, got:\n%s", out)
	}
}

func TestCalculateCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown calculator", []string{"calculate", "tari"}},
		{"unknown option", []string{"calculate", "ivtm", "-s", "municipality=atlantis"}},
		{"malformed set", []string{"calculate", "ivtm", "-s", "measure"}},
		{"unknown format", []string{"calculate", "ivtm", "-f", "pdf"}},
		{"no calculator", []string{"calculate"}},
		{"bad log level", []string{"calculate", "ivtm", "--log-level", "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := run(t, tt.args...); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestCalculateCommand_Export(t *testing.T) {
	dir := t.TempDir()

	t.Run("file extension picks the format", func(t *testing.T) {
		path := filepath.Join(dir, "out", "report.csv")
		_, _, err := run(t, "calculate", "ivtm", "-s", "measure=11.5", "--export", path)
		if err != nil {
			t.Fatalf("calculate failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("export missing: %v", err)
		}
		if !strings.HasPrefix(string(data), "report_id,") {
			t.Errorf("Expected CSV export, got %q", string(data))
		}
	})

	t.Run("directory gets a generated name", func(t *testing.T) {
		_, _, err := run(t, "calculate", "ivtm", "-s", "measure=11.5", "-f", "html", "--export", dir)
		if err != nil {
			t.Fatalf("calculate failed: %v", err)
		}
		matches, _ := filepath.Glob(filepath.Join(dir, "fiscalgo_report_*.html"))
		if len(matches) != 1 {
			t.Errorf("Expected one html export, got %v", matches)
		}
	})

	t.Run("failure does not fail the command", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		out, stderr, err := run(t, "calculate", "ivtm", "-s", "measure=11.5", "--export", filepath.Join(blocker, "report.json"))
		if err != nil {
			t.Fatalf("Expected export failure to be non-fatal, got %v", err)
		}
		if out == "" {
			t.Error("Expected the report on stdout")
		}
		if !strings.Contains(stderr, "export failed") {
			t.Errorf("Expected a warning, got %q", stderr)
		}
	})
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	content := `scenarios:
  - name: auto
    calculator: bollo_auto
    inputs:
      kw: "120"
  - name: madrid
    calculator: ivtm
    inputs:
      measure: "11,5"
      municipality: madrid
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "batch", path, "-f", "csv")
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if !strings.Contains(out, "auto,bollo_auto,amount,") || !strings.Contains(out, "madrid,ivtm,amount,Impuesto sobre vehículos de tracción mecánica,68.16") {
		t.Errorf("Unexpected batch output:\n%s", out)
	}

	if _, _, err := run(t, "batch", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing scenario file")
	}
}

func TestBatchCommand_PartialResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	content := `scenarios:
  - name: auto
    calculator: bollo_auto
    inputs:
      kw: "120"
  - name: nowhere
    calculator: ivtm
    inputs:
      measure: "11,5"
      municipality: atlantis
  - name: later
    calculator: bollo_auto
    inputs:
      kw: "50"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "batch", path, "-f", "csv")
	if err == nil || !strings.Contains(err.Error(), `scenario "nowhere"`) {
		t.Fatalf("Expected failure on scenario nowhere, got %v", err)
	}
	if !strings.Contains(out, "auto,bollo_auto,amount,") {
		t.Errorf("Expected the scenario before the failure to be reported:\n%s", out)
	}
	if strings.Contains(out, "later,") {
		t.Errorf("Expected evaluation to stop at the failure:\n%s", out)
	}
}

func TestCompareCommand(t *testing.T) {
	out, _, err := run(t, "compare", "ivtm", "-s", "measure=11.5", "--variant", "madrid:municipality=madrid", "-f", "csv")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header, base and one variant, got %d lines", len(lines))
	}
	if lines[2] != "madrid,alternative,ivtm,municipality=madrid,68.16,34.08,100.00" {
		t.Errorf("Unexpected variant row %q", lines[2])
	}

	if _, _, err := run(t, "compare", "ivtm", "-s", "measure=11.5"); err == nil {
		t.Error("Expected error without variants")
	}
	if _, _, err := run(t, "compare", "ivtm", "--variant", "broken"); err == nil {
		t.Error("Expected error for malformed variant")
	}
}

func TestValidateCommand(t *testing.T) {
	out, _, err := run(t, "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "embedded defaults are valid") {
		t.Errorf("Unexpected output %q", out)
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("enasarco:\n  rate: -0.17\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "validate", bad); err == nil {
		t.Error("Expected validation error for a negative rate")
	}
}

func TestScaffoldCommands(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	worklist := filepath.Join(dir, "worklist.csv")
	csv := "slug,lang,title,calculator,category,description\nbollo,it,Bollo auto,bollo_auto,veicoli,\ntari,it,TARI,tari,,\n"
	if err := os.WriteFile(worklist, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "scaffold", worklist, "--content", content)
	if err != nil {
		t.Fatalf("scaffold failed: %v", err)
	}
	if !strings.Contains(out, "1 created, 0 skipped, 1 invalid") {
		t.Errorf("Unexpected scaffold summary:\n%s", out)
	}

	out, _, err = run(t, "fix-language", "--content", content)
	if err != nil {
		t.Fatalf("fix-language failed: %v", err)
	}
	if !strings.Contains(out, "1 pages checked, 0 fixed") {
		t.Errorf("Unexpected fix-language summary:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "fiscalgo dev") {
		t.Errorf("Unexpected version output %q", out)
	}
}
