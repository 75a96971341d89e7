// Package output renders command results as a table, JSON or compact lines.
package output

import (
	"os"
	"strings"
)

// EnvFormat selects the default output format when no flag is given.
const EnvFormat = "TASKTORY_OUTPUT"

// Format is an output rendering.
type Format int

// Output formats. Table is the zero value and the default.
const (
	FormatTable Format = iota
	FormatJSON
	FormatCompact
)

var formatNames = map[string]Format{
	"table":   FormatTable,
	"json":    FormatJSON,
	"compact": FormatCompact,
	"oneline": FormatCompact,
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, bool) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Detect picks the format from flags, then $TASKTORY_OUTPUT, then table.
// --json beats --compact, which beats --table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f, ok := ParseFormat(os.Getenv(EnvFormat)); ok {
		return f
	}
	return FormatTable
}
