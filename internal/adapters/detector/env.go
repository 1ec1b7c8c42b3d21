// Package detector chooses the log format from the terminal and CI environment.
package detector

import (
	"os"

	"go.trai.ch/genpack/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// LogFormat is how log records are rendered.
type LogFormat string

const (
	// FormatAuto picks pretty or plain from the environment.
	FormatAuto LogFormat = "auto"
	// FormatPretty renders colored, human-readable lines.
	FormatPretty LogFormat = "pretty"
	// FormatPlain renders human-readable lines without color.
	FormatPlain LogFormat = "plain"
	// FormatJSON renders one JSON object per record.
	FormatJSON LogFormat = "json"
)

// DetectEnvironment returns pretty when stderr is a terminal outside CI,
// and plain otherwise.
func DetectEnvironment() LogFormat {
	isTTY := term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // fd fits in int

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return FormatPlain
	}
	return FormatPretty
}

// ResolveFormat applies the user's choice to the detected format.
func ResolveFormat(detected LogFormat, flag string) (LogFormat, error) {
	switch f := LogFormat(flag); f {
	case FormatAuto, "":
		return detected, nil
	case FormatPretty, FormatPlain, FormatJSON:
		return f, nil
	default:
		return "", zerr.With(domain.ErrInvalidLogFormat, "log_format", flag)
	}
}
