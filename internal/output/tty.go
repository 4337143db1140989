package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// colorOffEnv are environment variables whose presence disables color:
// the NO_COLOR convention and common CI markers.
var colorOffEnv = []string{"NO_COLOR", "CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// UseColor reports whether styled output should be written to w.
func UseColor(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	for _, name := range colorOffEnv {
		if _, set := os.LookupEnv(name); set {
			return false
		}
	}
	return IsTTY(w)
}
