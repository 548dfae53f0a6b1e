package printer

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var colorEnabled bool

// InitColorState decides whether output to writer is colored, in order:
// the explicit setting when given, NO_COLOR, then terminal detection.
// Unknown writers get no color.
func InitColorState(explicitSetting *bool, writer io.Writer) {
	switch {
	case explicitSetting != nil:
		colorEnabled = *explicitSetting
	case os.Getenv("NO_COLOR") != "":
		colorEnabled = false
	default:
		f, ok := writer.(*os.File)
		colorEnabled = ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
	color.NoColor = !colorEnabled
}

// IsColorEnabled returns whether color output is currently enabled.
func IsColorEnabled() bool {
	return colorEnabled
}
