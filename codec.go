// Package hgi implements a hierarchical grayscale image codec.
//
// The image is stored as a pyramid: a coarse grid of raw samples followed by
// levels of residuals, each predicting the pixels halfway between the samples
// of the previous level by averaging the corners of their cell. Residuals are
// optionally quantized with a bounded per-pixel error, and the pyramid is
// framed with its metadata and DEFLATE-compressed.
package hgi

import (
	"bytes"
	"fmt"
	"image"
	"io"
)

// Options configures the one-call helpers.
type Options struct {
	Quantization QuantizationLevel
	// ScaleLevel is the number of refinement levels; the base grid has
	// spacing 2^ScaleLevel.
	ScaleLevel int
	// Parallel enables per-level goroutines in the encoder.
	Parallel bool
}

// DefaultOptions returns medium quantization over four levels.
func DefaultOptions() Options {
	return Options{Quantization: Medium, ScaleLevel: 4}
}

// MetadataFor describes img encoded with opts.
func MetadataFor(img image.Image, opts Options) Metadata {
	b := img.Bounds()
	return Metadata{
		QuantizationLevel: opts.Quantization,
		Interpolation:     Crossed,
		Width:             uint32(b.Dx()),
		Height:            uint32(b.Dy()),
		ScaleLevel:        opts.ScaleLevel,
	}
}

// EncodeArchive encodes img (converted to 8-bit gray) into an in-memory archive.
func EncodeArchive(img image.Image, opts Options) (*Archive, error) {
	m := MetadataFor(img, opts)
	enc, err := NewEncoderFor(m)
	if err != nil {
		return nil, err
	}
	enc.Parallel = opts.Parallel

	p, err := enc.Encode(m, img)
	if err != nil {
		return nil, err
	}
	return &Archive{Metadata: m, Pyramid: p}, nil
}

// Encode returns the serialized archive for img.
func Encode(img image.Image, opts Options) ([]byte, error) {
	a, err := EncodeArchive(img, opts)
	if err != nil {
		return nil, err
	}
	return a.MarshalBinary()
}

// EncodeTo writes the archive for img to w.
func EncodeTo(w io.Writer, img image.Image, opts Options) error {
	a, err := EncodeArchive(img, opts)
	if err != nil {
		return err
	}
	_, err = a.WriteTo(w)
	return err
}

// Decode decodes data produced by Encode.
func Decode(data []byte) (*image.Gray, error) {
	return DecodeFrom(bytes.NewReader(data))
}

// DecodeFrom reads a whole archive from r and decodes it.
func DecodeFrom(r io.Reader) (*image.Gray, error) {
	a, err := ReadArchive(r)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return a.Image()
}
