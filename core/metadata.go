package core

import (
	"encoding/json"
	"strings"
)

// DecodeMetaList decodes a metadata field value that may be a JSON-encoded
// array of strings or of objects carrying a "name" key.
//
// The corpus export is not fully consistent: some fields hold `["a","b"]`,
// some hold `[{"name":"a"},{"name":"b"}]`, and some hold a bare string.
// Malformed JSON must never abort result handling, so any value that does
// not parse as an array degrades to a single-element list (or nil when the
// value is blank).
func DecodeMetaList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if !strings.HasPrefix(value, "[") {
		return []string{value}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}

		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && strings.TrimSpace(obj.Name) != "" {
			out = append(out, strings.TrimSpace(obj.Name))
		}
		// Anything else in the array is skipped, per field, without error.
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
