package mysqlxml2csv

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CompressionType represents the compression type
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// sniffSize is the number of bytes needed to recognize every supported magic number
const sniffSize = 6

func nopClose() error { return nil }

// codec describes one compression format. A nil newWriter means the format is read-only.
type codec struct {
	name      string
	ext       string
	magic     []byte
	newReader func(io.Reader) (io.Reader, func() error, error)
	newWriter func(io.Writer) (io.Writer, func() error, error)
}

// codecs is ordered by CompressionType; detection walks it in that order.
var codecs = [...]codec{
	CompressionNone: {
		name:      "none",
		newReader: func(r io.Reader) (io.Reader, func() error, error) { return r, nopClose, nil },
		newWriter: func(w io.Writer) (io.Writer, func() error, error) { return w, nopClose, nil },
	},
	CompressionGZ: {
		name:  "gz",
		ext:   ".gz",
		magic: []byte{0x1f, 0x8b},
		newReader: func(r io.Reader) (io.Reader, func() error, error) {
			gr, err := gzip.NewReader(r)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
			}
			return gr, gr.Close, nil
		},
		newWriter: func(w io.Writer) (io.Writer, func() error, error) {
			gw := gzip.NewWriter(w)
			return gw, gw.Close, nil
		},
	},
	CompressionBZ2: {
		name:  "bz2",
		ext:   ".bz2",
		magic: []byte("BZh"),
		newReader: func(r io.Reader) (io.Reader, func() error, error) {
			return bzip2.NewReader(r), nopClose, nil
		},
	},
	CompressionXZ: {
		name:  "xz",
		ext:   ".xz",
		magic: []byte{0xfd, '7', 'z', 'X', 'Z', 0x00},
		newReader: func(r io.Reader) (io.Reader, func() error, error) {
			xr, err := xz.NewReader(r)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
			}
			return xr, nopClose, nil
		},
		newWriter: func(w io.Writer) (io.Writer, func() error, error) {
			xw, err := xz.NewWriter(w)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create xz writer: %w", err)
			}
			return xw, xw.Close, nil
		},
	},
	CompressionZSTD: {
		name:  "zstd",
		ext:   ".zst",
		magic: []byte{0x28, 0xb5, 0x2f, 0xfd},
		newReader: func(r io.Reader) (io.Reader, func() error, error) {
			zr, err := zstd.NewReader(r)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
			}
			return zr, func() error {
				zr.Close()
				return nil
			}, nil
		},
		newWriter: func(w io.Writer) (io.Writer, func() error, error) {
			zw, err := zstd.NewWriter(w)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
			}
			return zw, zw.Close, nil
		},
	},
}

func (c CompressionType) codec() (codec, bool) {
	if c < 0 || int(c) >= len(codecs) {
		return codec{}, false
	}
	return codecs[c], true
}

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	if cd, ok := c.codec(); ok {
		return cd.name
	}
	return "none"
}

// Extension returns the file extension for the compression type
func (c CompressionType) Extension() string {
	cd, _ := c.codec()
	return cd.ext
}

// writerFactory returns the compressing writer constructor for c.
func (c CompressionType) writerFactory() (func(io.Writer) (io.Writer, func() error, error), error) {
	cd, ok := c.codec()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, int(c))
	}
	if cd.newWriter == nil {
		return nil, fmt.Errorf("%w: %s is not supported for writing", ErrUnsupportedCompression, cd.name)
	}
	return cd.newWriter, nil
}

// CompressionHandler wraps readers and writers for one compression type
type CompressionHandler interface {
	// CreateReader wraps an io.Reader with a decompression reader if needed
	CreateReader(reader io.Reader) (io.Reader, func() error, error)
	// CreateWriter wraps an io.Writer with a compression writer if needed
	CreateWriter(writer io.Writer) (io.Writer, func() error, error)
	// Extension returns the file extension for this compression type (e.g., ".gz")
	Extension() string
}

type compressionHandler struct {
	compressionType CompressionType
}

// NewCompressionHandler creates a new compression handler for the given compression type
func NewCompressionHandler(compressionType CompressionType) CompressionHandler {
	return compressionHandler{compressionType: compressionType}
}

func (h compressionHandler) CreateReader(reader io.Reader) (io.Reader, func() error, error) {
	cd, ok := h.compressionType.codec()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, int(h.compressionType))
	}
	return cd.newReader(reader)
}

func (h compressionHandler) CreateWriter(writer io.Writer) (io.Writer, func() error, error) {
	newWriter, err := h.compressionType.writerFactory()
	if err != nil {
		return nil, nil, err
	}
	return newWriter(writer)
}

func (h compressionHandler) Extension() string {
	return h.compressionType.Extension()
}

// CompressionFactory picks compression handlers from file names or stream headers
type CompressionFactory struct{}

// NewCompressionFactory creates a new compression factory
func NewCompressionFactory() *CompressionFactory {
	return &CompressionFactory{}
}

// DetectCompressionType detects the compression type from a file path
func (f *CompressionFactory) DetectCompressionType(path string) CompressionType {
	path = strings.ToLower(path)
	for i, cd := range codecs {
		if cd.ext != "" && strings.HasSuffix(path, cd.ext) {
			return CompressionType(i)
		}
	}
	return CompressionNone
}

// DetectCompressionFromHeader detects the compression type from the leading bytes of a stream
func (f *CompressionFactory) DetectCompressionFromHeader(header []byte) CompressionType {
	for i, cd := range codecs {
		if cd.magic != nil && bytes.HasPrefix(header, cd.magic) {
			return CompressionType(i)
		}
	}
	return CompressionNone
}

// CreateHandlerForFile creates an appropriate compression handler for a given file path
func (f *CompressionFactory) CreateHandlerForFile(path string) CompressionHandler {
	return NewCompressionHandler(f.DetectCompressionType(path))
}

// CreateSniffingReader peeks at the start of reader and wraps it with a decompression
// reader when a known magic number is found. Used for stdin where no file name exists.
func (f *CompressionFactory) CreateSniffingReader(reader io.Reader) (io.Reader, CompressionType, func() error, error) {
	br := bufio.NewReaderSize(reader, readBufferSize)
	header, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, CompressionNone, nil, fmt.Errorf("failed to read input header: %w", err)
	}

	compressionType := f.DetectCompressionFromHeader(header)
	decompressed, cleanup, err := NewCompressionHandler(compressionType).CreateReader(br)
	if err != nil {
		return nil, compressionType, nil, err
	}
	return decompressed, compressionType, cleanup, nil
}

// CreateReaderForFile opens a file and returns a reader that handles decompression
func (f *CompressionFactory) CreateReaderForFile(path string) (io.Reader, func() error, error) {
	file, err := os.Open(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, cleanup, err := f.CreateHandlerForFile(path).CreateReader(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return reader, chainClose(cleanup, file.Close), nil
}

// CreateWriterForFile creates a file and returns a writer that compresses according to the file extension.
// The returned close function flushes the compressor, syncs and closes the file.
func (f *CompressionFactory) CreateWriterForFile(path string) (io.Writer, func() error, error) {
	if err := newValidator().validateOutputPath(path); err != nil {
		return nil, nil, err
	}

	// resolved before os.Create so an unwritable format leaves an existing file alone
	newWriter, err := f.DetectCompressionType(path).writerFactory()
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Create(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file: %w", err)
	}

	writer, cleanup, err := newWriter(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return writer, chainClose(cleanup, file.Sync, file.Close), nil
}

// chainClose runs every step in order and returns the first error.
func chainClose(steps ...func() error) func() error {
	return func() error {
		var first error
		for _, step := range steps {
			if err := step(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
}
