package mysqlxml2csv

import (
	"context"
	"fmt"
	"io"
)

// Stats summarizes one conversion run.
type Stats struct {
	// Rows is the number of <row> elements seen
	Rows int
	// Compression is the compression detected on the input
	Compression CompressionType
}

// Converter renders MySQL XML result sets as CSV.
// A Converter holds only validated options and can be reused for any number of documents.
type Converter struct {
	opts    Options
	factory *CompressionFactory
}

// NewConverter validates opts and returns a Converter.
func NewConverter(opts Options) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Converter{
		opts:    opts,
		factory: NewCompressionFactory(),
	}, nil
}

// Options returns the options the converter was built with.
func (c *Converter) Options() Options {
	return c.opts
}

// Convert reads an XML document from r and writes CSV to w.
// Compressed input is recognized by its magic number.
// Lines written before an error are left in w.
func (c *Converter) Convert(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	reader, compressionType, cleanup, err := c.factory.CreateSniffingReader(r)
	if err != nil {
		return Stats{}, err
	}
	defer func() { _ = cleanup() }()

	stats, err := c.ConvertEvents(ctx, NewXMLEventSource(reader), w)
	stats.Compression = compressionType
	return stats, err
}

// ConvertFile converts the XML document stored at path, decompressing it by file extension.
func (c *Converter) ConvertFile(ctx context.Context, path string, w io.Writer) (Stats, error) {
	errCtx := NewErrorContext("convert", path)
	if err := newValidator().validatePath(path); err != nil {
		return Stats{}, errCtx.Error(err)
	}

	reader, cleanup, err := c.factory.CreateReaderForFile(path)
	if err != nil {
		return Stats{}, errCtx.Error(err)
	}
	defer func() { _ = cleanup() }()

	stats, err := c.ConvertEvents(ctx, NewXMLEventSource(reader), w)
	stats.Compression = c.factory.DetectCompressionType(path)
	if err != nil {
		return stats, errCtx.Error(err)
	}
	return stats, nil
}

// ConvertEvents drives a conversion from an arbitrary event source.
func (c *Converter) ConvertEvents(ctx context.Context, src EventSource, w io.Writer) (Stats, error) {
	out := newCSVEmitter(w, c.opts.Separator)
	state := newParseState(c.opts, out)

	err := src.Stream(ctx, state)
	if err == nil {
		err = state.finish()
	}
	// completed lines reach w on failure too
	if flushErr := out.flush(); flushErr != nil && err == nil {
		err = fmt.Errorf("failed to write output: %w", flushErr)
	}
	return Stats{Rows: state.rows}, err
}
