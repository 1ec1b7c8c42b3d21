// Package output creates termenv outputs with the color profile genpack uses.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile returns Ascii when NO_COLOR is set or color is disabled, and
// the terminal's own profile otherwise.
func ColorProfile(color bool) termenv.Profile {
	if !color || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates an output writing to w, or to stderr when w is nil.
func New(w io.Writer, color bool) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(ColorProfile(color)), termenv.WithTTY(color))
}
