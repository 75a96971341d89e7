package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const markdownWidth = 80

// Markdown renders task content as terminal markdown. Rendering falls back
// to the raw text if glamour rejects the input.
func Markdown(src string, width int) string {
	style := glamour.WithAutoStyle()
	if !colorEnabled {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return src + "\n"
	}
	out, err := r.Render(src)
	if err != nil {
		return src + "\n"
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
