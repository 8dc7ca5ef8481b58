package explorer

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: false}

// PrettyJSON indents raw when it is valid JSON and returns it unchanged
// otherwise. Key order is preserved.
func PrettyJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !gjson.Valid(trimmed) {
		return raw
	}
	return strings.TrimRight(string(pretty.PrettyOptions([]byte(trimmed), prettyOptions)), "\n")
}

// prettyValue renders a decoded value. Strings that are not JSON are quoted
// like any other JSON value.
func prettyValue(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return PrettyJSON(buf.String())
}
