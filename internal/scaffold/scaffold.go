// Package scaffold creates calculator landing pages from a CSV worklist and
// keeps the language of existing pages consistent with their directory.
package scaffold

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed templates/page.md.tmpl
var pageTemplate string

// Columns are the required worklist header names
var Columns = []string{"slug", "lang", "title", "calculator", "category", "description"}

// Languages are the content languages pages may be written in
var Languages = []string{"it", "es", "en"}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Page is one worklist row
type Page struct {
	Slug        string
	Lang        string
	Title       string
	Calculator  string
	Category    string
	Description string

	line int
}

// Path returns the page file path relative to the content root
func (p Page) Path() string {
	return filepath.Join(p.Lang, p.Slug+".md")
}

// FrontMatter is the YAML header written at the top of every page
type FrontMatter struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Lang        string `yaml:"lang"`
	Calculator  string `yaml:"calculator"`
	Category    string `yaml:"category,omitempty"`
	Description string `yaml:"description,omitempty"`
	Date        string `yaml:"date"`
	Draft       bool   `yaml:"draft"`
}

// InvalidRow is a worklist row that could not be used
type InvalidRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Summary reports the outcome of a scaffold run
type Summary struct {
	Created []string     `json:"created"`
	Skipped []string     `json:"skipped"`
	Invalid []InvalidRow `json:"invalid"`
}

// Scaffolder writes pages below ContentDir. Existing files are never
// overwritten.
type Scaffolder struct {
	ContentDir string
	// Known reports whether a calculator exists; nil accepts any name
	Known func(name string) bool
	// DryRun reports what would be created without writing
	DryRun bool

	tmpl *template.Template
	now  func() time.Time
}

// NewScaffolder creates a scaffolder for a content directory
func NewScaffolder(contentDir string, known func(string) bool) *Scaffolder {
	s := &Scaffolder{ContentDir: contentDir, Known: known, now: time.Now}
	s.tmpl = template.Must(template.New("page").Funcs(template.FuncMap{
		"frontMatter": s.frontMatter,
	}).Parse(pageTemplate))
	return s
}

// RunFile runs the scaffolder over a worklist file
func (s *Scaffolder) RunFile(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open worklist: %w", err)
	}
	defer f.Close()
	return s.Run(f)
}

// Run reads a CSV worklist and creates one page per valid row. Rows whose
// file already exists, or that repeat an earlier lang/slug pair, are
// skipped.
func (s *Scaffolder) Run(worklist io.Reader) (*Summary, error) {
	pages, invalid, err := ReadWorklist(worklist)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Created: []string{}, Skipped: []string{}, Invalid: invalid}
	seen := map[string]bool{}
	for _, p := range pages {
		rel := p.Path()
		if seen[rel] {
			summary.Skipped = append(summary.Skipped, rel)
			continue
		}
		seen[rel] = true

		if s.Known != nil && !s.Known(p.Calculator) {
			summary.Invalid = append(summary.Invalid, InvalidRow{Line: p.line, Reason: fmt.Sprintf("unknown calculator %q", p.Calculator)})
			continue
		}

		created, err := s.write(p)
		if err != nil {
			return summary, err
		}
		if created {
			summary.Created = append(summary.Created, rel)
		} else {
			summary.Skipped = append(summary.Skipped, rel)
		}
	}
	return summary, nil
}

// Render returns the page content for a row
func (s *Scaffolder) Render(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", p.Path(), err)
	}
	return buf.Bytes(), nil
}

func (s *Scaffolder) write(p Page) (bool, error) {
	path := filepath.Join(s.ContentDir, p.Path())
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if s.DryRun {
		return true, nil
	}

	content, err := s.Render(p)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, f.Close()
}

func (s *Scaffolder) frontMatter(p Page) (string, error) {
	out, err := yaml.Marshal(FrontMatter{
		Title:       p.Title,
		Slug:        p.Slug,
		Lang:        p.Lang,
		Calculator:  p.Calculator,
		Category:    p.Category,
		Description: p.Description,
		Date:        s.now().Format("2006-01-02"),
		Draft:       true,
	})
	return string(out), err
}

// ReadWorklist parses a CSV worklist. The header row is required and must
// name every column in Columns, in any order. Malformed rows are returned
// as invalid rather than failing the whole file.
func ReadWorklist(r io.Reader) ([]Page, []InvalidRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("worklist is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read worklist header: %w", err)
	}

	index := map[string]int{}
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	missing := lo.Filter(Columns, func(c string, _ int) bool {
		_, ok := index[c]
		return !ok
	})
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("worklist header is missing columns: %s", strings.Join(missing, ", "))
	}

	var pages []Page
	var invalid []InvalidRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, nil, fmt.Errorf("failed to read worklist: %w", err)
			}
			invalid = append(invalid, InvalidRow{Line: perr.StartLine, Reason: perr.Err.Error()})
			continue
		}
		line, _ := reader.FieldPos(0)
		if lo.EveryBy(record, func(v string) bool { return strings.TrimSpace(v) == "" }) {
			continue
		}

		field := func(name string) string {
			i := index[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		p := Page{
			Slug:        strings.ToLower(field("slug")),
			Lang:        strings.ToLower(field("lang")),
			Title:       field("title"),
			Calculator:  strings.ToLower(field("calculator")),
			Category:    field("category"),
			Description: field("description"),
			line:        line,
		}
		if reason := validatePage(p); reason != "" {
			invalid = append(invalid, InvalidRow{Line: line, Reason: reason})
			continue
		}
		pages = append(pages, p)
	}
	return pages, invalid, nil
}

func validatePage(p Page) string {
	switch {
	case !slugPattern.MatchString(p.Slug):
		return fmt.Sprintf("invalid slug %q", p.Slug)
	case !lo.Contains(Languages, p.Lang):
		return fmt.Sprintf("unsupported language %q", p.Lang)
	case p.Title == "":
		return "title is required"
	case p.Calculator == "":
		return "calculator is required"
	}
	return ""
}
