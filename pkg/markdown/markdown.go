package markdown

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Render writes content to w, styled when w is a terminal.
func Render(w io.Writer, content string) {
	if !isTerminal(w) {
		fmt.Fprintln(w, content)
		return
	}

	md, err := glamour.Render(content, "auto")

	if err != nil {
		fmt.Fprintln(w, content)
		return
	}

	fmt.Fprintln(w, md)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
