package mysqlxml2csv

// Element and attribute names of the MySQL XML result format
const (
	elemRow     = "row"
	elemField   = "field"
	attrName    = "name"
	nilAttrTrue = "true"
)

// parseState holds everything one conversion run mutates.
// It implements EventHandler.
type parseState struct {
	opts Options
	out  *csvEmitter

	// headerPending is true until the first row has been written out as two lines
	headerPending bool
	// columnNames and firstRowValues buffer the first row while headerPending
	columnNames    []string
	firstRowValues []string
	// fieldText accumulates the open field's text while headerPending
	fieldText []byte

	firstColumn bool
	fieldNull   bool
	inField     bool
	rows        int
}

var _ EventHandler = (*parseState)(nil)

func newParseState(opts Options, out *csvEmitter) *parseState {
	return &parseState{
		opts:          opts,
		out:           out,
		headerPending: opts.EmitHeader,
	}
}

// StartElement implements EventHandler.
func (s *parseState) StartElement(name string, attrs []Attr) error {
	switch name {
	case elemRow:
		s.firstColumn = true
		s.rows++
	case elemField:
		if s.headerPending {
			column, ok := findAttr(attrs, attrName)
			if !ok {
				return &MissingAttributeError{Row: s.rows, Element: elemField, Attribute: attrName}
			}
			s.columnNames = append(s.columnNames, column)
		} else {
			if !s.firstColumn {
				if err := s.out.emitSeparator(); err != nil {
					return err
				}
			}
			if err := s.out.emitQuote(); err != nil {
				return err
			}
		}
		nilValue, ok := findNilAttr(attrs)
		s.fieldNull = ok && nilValue == nilAttrTrue
		s.inField = true
	}
	return nil
}

// CharData implements EventHandler.
func (s *parseState) CharData(text []byte) error {
	if !s.inField || s.fieldNull {
		// text of a null field is ignored, the substitute is written at field end
		return nil
	}
	if s.headerPending {
		s.fieldText = append(s.fieldText, text...)
		return nil
	}
	return s.out.emitText(string(text))
}

// EndElement implements EventHandler.
func (s *parseState) EndElement(name string) error {
	switch name {
	case elemRow:
		return s.endRow()
	case elemField:
		return s.endField()
	}
	return nil
}

func (s *parseState) endField() error {
	if substitute, ok := s.opts.nullSubstitute(); ok && s.fieldNull {
		s.fieldNull = false
		if err := s.CharData([]byte(substitute)); err != nil {
			return err
		}
	}
	if s.headerPending {
		s.firstRowValues = append(s.firstRowValues, string(s.fieldText))
		s.fieldText = s.fieldText[:0]
	} else if err := s.out.emitQuote(); err != nil {
		return err
	}
	s.fieldNull = false
	s.firstColumn = false
	s.inField = false
	return nil
}

func (s *parseState) endRow() error {
	if !s.headerPending {
		return s.out.emitNewline()
	}
	if err := s.out.emitRow(s.columnNames); err != nil {
		return err
	}
	if err := s.out.emitRow(s.firstRowValues); err != nil {
		return err
	}
	s.columnNames = nil
	s.firstRowValues = nil
	s.fieldText = nil
	s.headerPending = false
	return nil
}

// finish runs the end of document step.
func (s *parseState) finish() error {
	if s.rows == 0 && s.opts.EmptyResultLine != nil {
		return s.out.emitLine(*s.opts.EmptyResultLine)
	}
	return nil
}
