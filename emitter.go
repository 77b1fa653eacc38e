package mysqlxml2csv

import (
	"bufio"
	"io"
)

// readBufferSize is the chunk size used for both input reads and output buffering
const readBufferSize = 64 << 10

// quoteChar is the only quote character the emitter knows about
const quoteChar = '"'

// csvEmitter writes quoted CSV values. Every value is wrapped in double quotes,
// so only the quote character itself needs escaping.
type csvEmitter struct {
	dst       *bufio.Writer
	separator string
	err       error
}

// newCSVEmitter creates an emitter that buffers writes to w.
func newCSVEmitter(w io.Writer, separator string) *csvEmitter {
	return &csvEmitter{
		dst:       bufio.NewWriterSize(w, readBufferSize),
		separator: separator,
	}
}

// emitRow writes values as one complete CSV line.
func (e *csvEmitter) emitRow(values []string) error {
	for i, v := range values {
		if i > 0 {
			if err := e.emitSeparator(); err != nil {
				return err
			}
		}
		if err := e.emitQuote(); err != nil {
			return err
		}
		if err := e.emitText(v); err != nil {
			return err
		}
		if err := e.emitQuote(); err != nil {
			return err
		}
	}
	return e.emitNewline()
}

// emitText writes s with every '"' doubled and nothing else changed.
func (e *csvEmitter) emitText(s string) error {
	if e.err != nil {
		return e.err
	}
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != quoteChar {
			continue
		}
		// write through the quote, then write it once more
		if _, err := e.dst.WriteString(s[start : i+1]); err != nil {
			e.err = err
			return err
		}
		if err := e.dst.WriteByte(quoteChar); err != nil {
			e.err = err
			return err
		}
		start = i + 1
	}
	if start < len(s) {
		if _, err := e.dst.WriteString(s[start:]); err != nil {
			e.err = err
			return err
		}
	}
	return nil
}

// emitLine writes s unquoted followed by a newline.
func (e *csvEmitter) emitLine(s string) error {
	if err := e.writeString(s); err != nil {
		return err
	}
	return e.emitNewline()
}

func (e *csvEmitter) emitSeparator() error {
	return e.writeString(e.separator)
}

func (e *csvEmitter) emitQuote() error {
	return e.writeByte(quoteChar)
}

func (e *csvEmitter) emitNewline() error {
	return e.writeByte('\n')
}

func (e *csvEmitter) writeString(s string) error {
	if e.err != nil {
		return e.err
	}
	if _, err := e.dst.WriteString(s); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *csvEmitter) writeByte(b byte) error {
	if e.err != nil {
		return e.err
	}
	if err := e.dst.WriteByte(b); err != nil {
		e.err = err
		return err
	}
	return nil
}

// flush pushes buffered output to the underlying writer.
func (e *csvEmitter) flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.dst.Flush(); err != nil {
		e.err = err
		return err
	}
	return nil
}
