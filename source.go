package mysqlxml2csv

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// xsiNamespace is the namespace bound to the xsi prefix in MySQL exports
const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Attr is an attribute of a start element.
// Space holds the namespace URI when the prefix is declared, or the raw prefix when it is not.
type Attr struct {
	Space string
	Local string
	Value string
}

// EventHandler receives XML events in document order.
// Text passed to CharData is only valid for the duration of the call.
type EventHandler interface {
	StartElement(name string, attrs []Attr) error
	CharData(text []byte) error
	EndElement(name string) error
}

// EventSource delivers the events of one document to a handler.
// Stream returns after the last event, or with the first error from the
// parser or the handler.
type EventSource interface {
	Stream(ctx context.Context, h EventHandler) error
}

// xmlEventSource tokenizes an XML document with encoding/xml.
type xmlEventSource struct {
	r io.Reader
}

// NewXMLEventSource creates an EventSource reading XML from r.
// Documents declaring a non UTF-8 encoding are transcoded to UTF-8.
func NewXMLEventSource(r io.Reader) EventSource {
	return &xmlEventSource{r: r}
}

// Stream implements EventSource.
func (s *xmlEventSource) Stream(ctx context.Context, h EventHandler) error {
	if _, ok := s.r.(*bufio.Reader); !ok {
		s.r = bufio.NewReaderSize(s.r, readBufferSize)
	}
	dec := xml.NewDecoder(s.r)
	dec.CharsetReader = charset.NewReaderLabel

	depth := 0
	rootClosed := false
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if !rootClosed {
					line, _ := dec.InputPos()
					return &SyntaxError{Line: line, Msg: "no element found"}
				}
				return nil
			}
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return &SyntaxError{Line: syntaxErr.Line, Msg: syntaxErr.Msg}
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return junkAfterRoot(dec)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			depth++
			if err := h.StartElement(t.Name.Local, convertAttrs(t.Attr)); err != nil {
				return err
			}
		case xml.CharData:
			if rootClosed {
				if !isXMLSpace(t) {
					return junkAfterRoot(dec)
				}
				continue
			}
			if err := h.CharData(t); err != nil {
				return err
			}
		case xml.EndElement:
			if err := h.EndElement(t.Name.Local); err != nil {
				return err
			}
			depth--
			rootClosed = depth == 0
		}
	}
}

// junkAfterRoot reports content following the closing tag of the document element.
// encoding/xml reads such input without complaint.
func junkAfterRoot(dec *xml.Decoder) error {
	line, _ := dec.InputPos()
	return &SyntaxError{Line: line, Msg: "junk after document element"}
}

func isXMLSpace(text []byte) bool {
	return len(bytes.Trim(text, " \t\r\n")) == 0
}

func convertAttrs(attrs []xml.Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(attrs))
	for i, a := range attrs {
		out[i] = Attr{Space: a.Name.Space, Local: a.Name.Local, Value: a.Value}
	}
	return out
}

// findAttr returns the value of the unqualified attribute local.
func findAttr(attrs []Attr, local string) (string, bool) {
	for _, a := range attrs {
		if a.Space == "" && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// findNilAttr returns the value of xsi:nil, bound or unbound.
func findNilAttr(attrs []Attr) (string, bool) {
	for _, a := range attrs {
		if a.Local == "nil" && (a.Space == xsiNamespace || a.Space == "xsi") {
			return a.Value, true
		}
	}
	return "", false
}
