// internal/writers/json.go
package writers

import (
	"encoding/json"
	"io"
)

// writeJSON writes v as two-space indented JSON followed by a newline.
// Floats keep full precision; HTML characters are not escaped.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
