package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	if err := encode(w, v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope written for a failed command.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes an ErrorResponse. Write failures are ignored since the
// process is about to exit with an error anyway.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	_ = encode(w, ErrorResponse{Error: msg, Code: code, Details: details})
}

// BatchResult is the outcome for one ID of a multi-ID command.
type BatchResult struct {
	ID      string `json:"id"`
	OK      bool   `json:"ok"`
	Logged  bool   `json:"logged,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Warning string `json:"warning,omitempty"`
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
