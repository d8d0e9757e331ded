package scaffold

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// stopWords are frequent words that occur in one content language only
var stopWords = map[string][]string{
	"it": {"il", "gli", "di", "che", "è", "per", "non", "della", "sono", "nel", "alla", "anche", "più", "come", "dei", "si", "ed"},
	"es": {"el", "los", "las", "de", "que", "es", "por", "para", "se", "más", "como", "está", "son", "y", "pero", "al"},
	"en": {"the", "of", "and", "to", "is", "for", "that", "with", "are", "this", "on", "not", "be", "by", "you", "it"},
}

// minStopWords is the least evidence DetectLanguage accepts
const minStopWords = 3

// DetectLanguage guesses the language of a markdown body by counting stop
// words in its prose. Code is ignored. It returns "" when the evidence is
// too thin or ambiguous.
func DetectLanguage(markdown string) string {
	counts := map[string]int{}
	for _, w := range words(plainText([]byte(markdown))) {
		for lang, list := range stopWords {
			if lo.Contains(list, w) {
				counts[lang]++
			}
		}
	}

	langs := lo.Keys(counts)
	sort.Slice(langs, func(i, j int) bool { return counts[langs[i]] > counts[langs[j]] })
	if len(langs) == 0 || counts[langs[0]] < minStopWords {
		return ""
	}
	if len(langs) > 1 && counts[langs[1]] == counts[langs[0]] {
		return ""
	}
	return langs[0]
}

// plainText returns the prose of a markdown document
func plainText(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeSpan, ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock, ast.KindRawHTML:
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			buf.Write(n.(*ast.Text).Segment.Value(src))
			buf.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// LanguageReport is the outcome of checking one page
type LanguageReport struct {
	Path            string `json:"path"`
	DirLang         string `json:"dirLang"`
	FrontMatterLang string `json:"frontMatterLang"`
	DetectedLang    string `json:"detectedLang,omitempty"`
	Fixed           bool   `json:"fixed"`
	// BodyMismatch is set when the prose looks like another language;
	// it needs a human and is never fixed automatically
	BodyMismatch bool   `json:"bodyMismatch"`
	Error        string `json:"error,omitempty"`
}

// FixLanguage walks <root>/<lang>/**/*.md and sets the front matter lang
// key to the directory language wherever they disagree. With dryRun no file
// is written. Unreadable pages are reported, not fatal.
func FixLanguage(root string, dryRun bool) ([]LanguageReport, error) {
	var reports []LanguageReport
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		dirLang := strings.Split(filepath.ToSlash(rel), "/")[0]
		if !lo.Contains(Languages, dirLang) {
			return nil
		}
		reports = append(reports, fixFile(path, rel, dirLang, dryRun))
		return nil
	})
	if err != nil {
		return reports, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return reports, nil
}

func fixFile(path, rel, dirLang string, dryRun bool) LanguageReport {
	report := LanguageReport{Path: rel, DirLang: dirLang}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	doc, body, err := splitFrontMatter(data)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.FrontMatterLang = frontMatterValue(doc, "lang")
	report.DetectedLang = DetectLanguage(body)
	report.BodyMismatch = report.DetectedLang != "" && report.DetectedLang != dirLang

	if report.FrontMatterLang == dirLang {
		return report
	}
	setFrontMatterValue(doc, "lang", dirLang)
	if dryRun {
		report.Fixed = true
		return report
	}

	out, err := joinFrontMatter(doc, body)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		report.Error = err.Error()
		return report
	}
	report.Fixed = true
	return report
}

// splitFrontMatter separates the YAML header from the body. Key order and
// comments survive because the header is kept as a node tree.
func splitFrontMatter(data []byte) (*yaml.Node, string, error) {
	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return nil, "", fmt.Errorf("missing front matter")
	}
	header, body, ok := strings.Cut(content[len("---\n"):], "\n---\n")
	if !ok {
		header, ok = strings.CutSuffix(content[len("---\n"):], "\n---")
		if !ok {
			return nil, "", fmt.Errorf("unterminated front matter")
		}
		body = ""
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
		return nil, "", fmt.Errorf("invalid front matter: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, "", fmt.Errorf("front matter is not a mapping")
	}
	return &doc, body, nil
}

func joinFrontMatter(doc *yaml.Node, body string) ([]byte, error) {
	header, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

func frontMatterValue(doc *yaml.Node, key string) string {
	m := doc.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1].Value
		}
	}
	return ""
}

func setFrontMatterValue(doc *yaml.Node, key, value string) {
	m := doc.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1].Kind = yaml.ScalarNode
			m.Content[i+1].Tag = "!!str"
			m.Content[i+1].Value = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}
