package mysqlxml2csv

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// event is one synthetic XML event
type event func(h EventHandler) error

func start(name string, attrs ...Attr) event {
	return func(h EventHandler) error { return h.StartElement(name, attrs) }
}

func text(s string) event {
	return func(h EventHandler) error { return h.CharData([]byte(s)) }
}

func end(name string) event {
	return func(h EventHandler) error { return h.EndElement(name) }
}

func named(column string) Attr {
	return Attr{Local: "name", Value: column}
}

func xsiNil(value string) Attr {
	return Attr{Space: "xsi", Local: "nil", Value: value}
}

// field expands to the events of one <field> element
func field(column, value string, extra ...Attr) []event {
	attrs := append([]Attr{named(column)}, extra...)
	events := []event{start(elemField, attrs...)}
	if value != "" {
		events = append(events, text(value))
	}
	return append(events, end(elemField))
}

// row expands to the events of one <row> element
func row(fields ...[]event) []event {
	events := []event{start(elemRow)}
	for _, f := range fields {
		events = append(events, f...)
	}
	return append(events, end(elemRow))
}

// sliceSource replays a fixed list of events
type sliceSource struct {
	events []event
}

func newSliceSource(parts ...[]event) *sliceSource {
	src := &sliceSource{}
	src.events = append(src.events, start("resultset"))
	for _, p := range parts {
		src.events = append(src.events, p...)
	}
	src.events = append(src.events, end("resultset"))
	return src
}

func (s *sliceSource) Stream(_ context.Context, h EventHandler) error {
	for _, e := range s.events {
		if err := e(h); err != nil {
			return err
		}
	}
	return nil
}

func convertEvents(t *testing.T, opts Options, src EventSource) (string, Stats, error) {
	t.Helper()

	conv, err := NewConverter(opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	stats, err := conv.ConvertEvents(context.Background(), src, &buf)
	return buf.String(), stats, err
}

func TestParseStateEvents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		src  *sliceSource
		want string
	}{
		{
			name: "header and first row",
			opts: NewOptions(),
			src: newSliceSource(
				row(field("id", "1"), field("name", "", xsiNil("true"))),
			),
			want: "\"id\",\"name\"\n\"1\",\"\"\n",
		},
		{
			name: "null substitute in first row",
			opts: NewOptions().WithNullValue("N/A"),
			src: newSliceSource(
				row(field("id", "1"), field("name", "", xsiNil("true"))),
			),
			want: "\"id\",\"name\"\n\"1\",\"N/A\"\n",
		},
		{
			name: "later rows stream",
			opts: NewOptions(),
			src: newSliceSource(
				row(field("a", "1"), field("b", "2")),
				row(field("a", "3"), field("b", "4")),
				row(field("a", "5"), field("b", "6")),
			),
			want: "\"a\",\"b\"\n\"1\",\"2\"\n\"3\",\"4\"\n\"5\",\"6\"\n",
		},
		{
			name: "null substitute in streamed row",
			opts: NewOptions().WithNullValue("NULL"),
			src: newSliceSource(
				row(field("a", "1"), field("b", "2")),
				row(field("a", "", xsiNil("true")), field("b", "4")),
			),
			want: "\"a\",\"b\"\n\"1\",\"2\"\n\"NULL\",\"4\"\n",
		},
		{
			name: "null substitute is escaped",
			opts: NewOptions().WithNullValue(`N"A`),
			src: newSliceSource(
				row(field("a", "", xsiNil("true"))),
				row(field("a", "", xsiNil("true"))),
			),
			want: "\"a\"\n\"N\"\"A\"\n\"N\"\"A\"\n",
		},
		{
			name: "text of a null field is discarded",
			opts: NewOptions(),
			src: newSliceSource(
				row(field("a", "junk", xsiNil("true"))),
				row(field("a", "junk", xsiNil("true"))),
			),
			want: "\"a\"\n\"\"\n\"\"\n",
		},
		{
			name: "text of a null field is replaced by the substitute",
			opts: NewOptions().WithNullValue("NULL"),
			src: newSliceSource(
				row(field("a", "junk", xsiNil("true"))),
				row(field("a", "junk", xsiNil("true"))),
			),
			want: "\"a\"\n\"NULL\"\n\"NULL\"\n",
		},
		{
			name: "nil other than true is not null",
			opts: NewOptions().WithNullValue("NULL"),
			src: newSliceSource(
				row(field("a", "x", xsiNil("false"))),
				row(field("a", "y", xsiNil("TRUE"))),
			),
			want: "\"a\"\n\"x\"\n\"y\"\n",
		},
		{
			name: "without header",
			opts: NewOptions().WithoutHeader(),
			src: newSliceSource(
				row(field("a", "1"), field("b", "2")),
				row(field("a", "3"), field("b", "4")),
			),
			want: "\"1\",\"2\"\n\"3\",\"4\"\n",
		},
		{
			name: "separator only changes the delimiter",
			opts: NewOptions().WithSeparator(";"),
			src: newSliceSource(
				row(field("a", `x;"y"`), field("b", "2")),
				row(field("a", `x;"y"`), field("b", "4")),
			),
			want: "\"a\";\"b\"\n\"x;\"\"y\"\"\";\"2\"\n\"x;\"\"y\"\"\";\"4\"\n",
		},
		{
			name: "empty first row",
			opts: NewOptions(),
			src: newSliceSource(
				row(),
				row(field("a", "1")),
			),
			want: "\n\n\"1\"\n",
		},
		{
			name: "empty streamed row",
			opts: NewOptions().WithoutHeader(),
			src:  newSliceSource(row()),
			want: "\n",
		},
		{
			name: "zero rows without empty line",
			opts: NewOptions(),
			src:  newSliceSource(),
			want: "",
		},
		{
			name: "zero rows with empty line",
			opts: NewOptions().WithEmptyResultLine("NO DATA"),
			src:  newSliceSource(),
			want: "NO DATA\n",
		},
		{
			name: "empty line ignored when rows exist",
			opts: NewOptions().WithEmptyResultLine("NO DATA"),
			src:  newSliceSource(row(field("a", "1"))),
			want: "\"a\"\n\"1\"\n",
		},
		{
			name: "unknown elements and attributes are ignored",
			opts: NewOptions(),
			src: newSliceSource(
				[]event{start("comment", Attr{Local: "lang", Value: "en"}), text("ignored"), end("comment")},
				row(field("a", "1", Attr{Local: "type", Value: "int"})),
			),
			want: "\"a\"\n\"1\"\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, _, err := convertEvents(t, tt.opts, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStateFragmentedText(t *testing.T) {
	t.Parallel()

	fragmented := func(column string, parts ...string) []event {
		events := []event{start(elemField, named(column))}
		for _, p := range parts {
			events = append(events, text(p))
		}
		return append(events, end(elemField))
	}

	src := newSliceSource(
		row(fragmented("greeting", "He said ", `"`, "hi", `"`)),
		row(fragmented("greeting", "He ", "said ", `"hi"`)),
	)

	got, _, err := convertEvents(t, NewOptions(), src)
	require.NoError(t, err)
	assert.Equal(t, "\"greeting\"\n\"He said \"\"hi\"\"\"\n\"He said \"\"hi\"\"\"\n", got)
}

func TestParseStateWhitespaceOutsideFields(t *testing.T) {
	t.Parallel()

	src := newSliceSource(
		[]event{text("\n  ")},
		[]event{start(elemRow), text("\n    ")},
		field("a", "1"),
		[]event{text("\n    ")},
		field("b", "2"),
		[]event{text("\n  "), end(elemRow), text("\n  ")},
		[]event{start(elemRow), text("\n    ")},
		field("a", "3"),
		[]event{text("\n    ")},
		field("b", "4"),
		[]event{text("\n  "), end(elemRow), text("\n")},
	)

	got, _, err := convertEvents(t, NewOptions(), src)
	require.NoError(t, err)
	assert.Equal(t, "\"a\",\"b\"\n\"1\",\"2\"\n\"3\",\"4\"\n", got)
}

func TestParseStateRowCount(t *testing.T) {
	t.Parallel()

	_, stats, err := convertEvents(t, NewOptions(), newSliceSource(
		row(field("a", "1")),
		row(field("a", "2")),
		row(),
	))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Rows)
}

func TestParseStateMissingName(t *testing.T) {
	t.Parallel()

	t.Run("first row with header", func(t *testing.T) {
		t.Parallel()

		src := newSliceSource(row(
			field("a", "1"),
			[]event{start(elemField), text("2"), end(elemField)},
		))
		got, _, err := convertEvents(t, NewOptions(), src)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingAttribute)

		var missing *MissingAttributeError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, 1, missing.Row)
		assert.Equal(t, `row 1: "field" element is missing "name" attribute`, err.Error())
		assert.Empty(t, got, "nothing is written before the first row closes")
	})

	t.Run("without header", func(t *testing.T) {
		t.Parallel()

		src := newSliceSource(row([]event{start(elemField), text("1"), end(elemField)}))
		got, _, err := convertEvents(t, NewOptions().WithoutHeader(), src)
		require.NoError(t, err)
		assert.Equal(t, "\"1\"\n", got)
	})

	t.Run("after the header is written", func(t *testing.T) {
		t.Parallel()

		src := newSliceSource(
			row(field("a", "1")),
			row([]event{start(elemField), text("2"), end(elemField)}),
		)
		got, _, err := convertEvents(t, NewOptions(), src)
		require.NoError(t, err)
		assert.Equal(t, "\"a\"\n\"1\"\n\"2\"\n", got)
	})
}

func TestParseStateReleasesFirstRow(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	state := newParseState(NewOptions(), newCSVEmitter(&buf, ","))
	src := newSliceSource(row(field("a", "1"), field("b", "2")))
	require.NoError(t, src.Stream(context.Background(), state))

	assert.False(t, state.headerPending)
	assert.Nil(t, state.columnNames)
	assert.Nil(t, state.firstRowValues)
	assert.Empty(t, state.fieldText)
}

func TestParseStateHandlerError(t *testing.T) {
	t.Parallel()

	errStop := errors.New("stop")
	src := &sliceSource{events: []event{
		start("resultset"),
		func(EventHandler) error { return errStop },
	}}
	_, _, err := convertEvents(t, NewOptions(), src)
	assert.ErrorIs(t, err, errStop)
}
