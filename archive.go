package hgi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// Magic opens every archive, stored little-endian.
const Magic uint32 = 0xBAADA555

// Archive pairs a pyramid with the metadata needed to decode it.
//
// Layout: u32 magic, metadata (u32 quantization, u32 interpolation, u32 width,
// u32 height, u64 scale level), then the DEFLATE-compressed pyramid
// (u64 level count, and per level a u64 length followed by the bytes).
// All integers are little-endian.
type Archive struct {
	Metadata Metadata
	Pyramid  Pyramid
}

// WriteTo serializes the archive. The pyramid must match the metadata.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	if err := a.Pyramid.Check(a.Metadata); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], Magic)
	if _, err := cw.Write(magic[:]); err != nil {
		return cw.n, err
	}
	if err := writeMetadata(cw, a.Metadata); err != nil {
		return cw.n, err
	}

	fw := flateWriterPool.Get().(*flate.Writer)
	defer flateWriterPool.Put(fw)
	fw.Reset(cw)

	if err := writePyramid(fw, a.Pyramid); err != nil {
		return cw.n, fmt.Errorf("deflate pyramid: %w", err)
	}
	if err := fw.Close(); err != nil {
		return cw.n, fmt.Errorf("deflate pyramid: %w", err)
	}
	return cw.n, nil
}

// MarshalBinary returns the serialized archive.
func (a *Archive) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(4 + metadataSize + a.Pyramid.Size()/2)
	if _, err := a.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces a with the archive in data.
func (a *Archive) UnmarshalBinary(data []byte) error {
	got, err := ReadArchive(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*a = *got
	return nil
}

// ReadArchive parses an archive written by WriteTo. The reader may be read
// past the end of the compressed stream.
func ReadArchive(r io.Reader) (*Archive, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, truncated("magic", err)
	}
	if got := binary.LittleEndian.Uint32(magic[:]); got != Magic {
		return nil, fmt.Errorf("%w: %#08x", ErrInvalidMagic, got)
	}

	m, err := readMetadata(r)
	if err != nil {
		return nil, err
	}

	fr := flateReaderPool.Get().(io.ReadCloser)
	defer flateReaderPool.Put(fr)
	if err := fr.(flate.Resetter).Reset(r, nil); err != nil {
		return nil, fmt.Errorf("inflate pyramid: %w", err)
	}

	p, err := readPyramid(fr, m.Traversal())
	if err != nil {
		var corrupt flate.CorruptInputError
		if errors.As(err, &corrupt) {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return nil, err
	}
	return &Archive{Metadata: m, Pyramid: p}, nil
}

// Image decodes the pyramid with the interpolator recorded in the metadata.
func (a *Archive) Image() (*image.Gray, error) {
	d, err := NewDecoderFor(a.Metadata)
	if err != nil {
		return nil, err
	}
	return d.Decode(a.Metadata, a.Pyramid)
}

var flateWriterPool = sync.Pool{
	New: func() any {
		return mustNewFlateWriter()
	},
}

var flateReaderPool = sync.Pool{
	New: func() any {
		return flate.NewReader(bytes.NewReader(nil))
	},
}

func mustNewFlateWriter() *flate.Writer {
	fw, err := flate.NewWriter(io.Discard, flate.BestCompression)
	if err != nil {
		panic(err)
	}
	return fw
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
