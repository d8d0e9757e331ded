package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  func(nf *NumberFormatter, d decimal.Decimal) string { return nf.Currency(d) },
	"value": func(nf *NumberFormatter, v domain.NamedValue) string { return nf.Value(v) },
	"date":  func(r *Report) string { return r.GeneratedAt.Format("2006-01-02 15:04") },
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*Report
		Numbers *NumberFormatter
	}{report, NewNumberFormatter(report.Locale)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
