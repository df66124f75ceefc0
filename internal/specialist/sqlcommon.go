package specialist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// stripCodeFences removes a surrounding markdown code fence from generated
// SQL, with or without a language tag
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.Index(trimmed, "\n"); i >= 0 {
		first := strings.TrimSpace(trimmed[:i])
		if first == "" || strings.EqualFold(first, "sql") {
			trimmed = trimmed[i+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// escapeLike escapes a user-derived value for interpolation inside a quoted
// LIKE pattern
func escapeLike(value string) string {
	v := strings.ReplaceAll(value, `\`, `\\`)
	v = strings.ReplaceAll(v, "'", "''")
	return v
}

// rowFields extracts the named columns from the first result row into a
// string map, matching column names case-insensitively. Missing and null
// columns are omitted.
func rowFields(row map[string]any, wanted map[string]string) map[string]string {
	fields := make(map[string]string)
	if row == nil {
		return fields
	}
	data, err := json.Marshal(row)
	if err != nil {
		return fields
	}
	parsed := gjson.ParseBytes(data)
	for column, fieldName := range wanted {
		parsed.ForEach(func(key, value gjson.Result) bool {
			if strings.EqualFold(key.String(), column) && value.Type != gjson.Null {
				fields[fieldName] = value.String()
				return false
			}
			return true
		})
	}
	return fields
}

// renderRows formats result rows as compact JSON lines for the synthesis
// prompt, capped to keep the prompt bounded
func renderRows(rows []map[string]any, max int) string {
	var b strings.Builder
	for i, row := range rows {
		if i >= max {
			fmt.Fprintf(&b, "... and %d more rows\n", len(rows)-max)
			break
		}
		data, err := json.Marshal(row)
		if err != nil {
			continue
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String()
}
