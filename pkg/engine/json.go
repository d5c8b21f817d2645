package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalJSON encodes v according to flags, without a trailing newline.
func MarshalJSON(v any, flags JSONFlags) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(flags.Has(JSONEscapeHTML))
	if flags.Has(JSONPrettyPrint) {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode json: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
