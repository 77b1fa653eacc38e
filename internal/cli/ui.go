package cli

import (
	"fmt"
	"io"
)

// PlainUI writes diagnostics to stderr. CSV output never goes through it.
type PlainUI struct {
	errOut io.Writer
	debug  bool
}

func NewPlainUI(errOut io.Writer, debug bool) PlainUI { return PlainUI{errOut, debug} }

func (ui PlainUI) Debugf(str string, args ...interface{}) {
	if ui.debug {
		fmt.Fprintf(ui.errOut, str, args...)
	}
}

func (ui PlainUI) Warnf(str string, args ...interface{}) {
	fmt.Fprintf(ui.errOut, str, args...)
}
