package compare

import (
	"bytes"
	"encoding/json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format generates JSON output for comparison results. Currency symbols and
// markup in labels are written as-is.
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(compSet); err != nil {
		return "", err
	}
	return buf.String(), nil
}
