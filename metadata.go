package hgi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxScaleLevel bounds Metadata.ScaleLevel so that every step size fits in an int.
const MaxScaleLevel = 30

// metadataSize is the encoded size: four u32 fields and a u64 scale level.
const metadataSize = 4*4 + 8

// Metadata carries everything the decoder needs besides the residuals.
type Metadata struct {
	QuantizationLevel QuantizationLevel
	Interpolation     Interpolation
	Width             uint32
	Height            uint32
	ScaleLevel        int
}

// Validate checks the dimension and level invariants.
func (m Metadata) Validate() error {
	switch {
	case m.Width == 0 || m.Height == 0:
		return fmt.Errorf("%w: empty image %dx%d", ErrContract, m.Width, m.Height)
	case m.ScaleLevel < 1 || m.ScaleLevel > MaxScaleLevel:
		return fmt.Errorf("%w: scale level %d out of range [1, %d]", ErrContract, m.ScaleLevel, MaxScaleLevel)
	case !m.QuantizationLevel.valid():
		return fmt.Errorf("%w: %s", ErrContract, m.QuantizationLevel)
	case !m.Interpolation.valid():
		return fmt.Errorf("%w: %s", ErrContract, m.Interpolation)
	}
	return nil
}

// Traversal returns the storage order for images described by m.
func (m Metadata) Traversal() Traversal {
	return NewTraversal(int(m.Width), int(m.Height), m.ScaleLevel)
}

func writeMetadata(w io.Writer, m Metadata) error {
	var buf [metadataSize]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(m.QuantizationLevel))
	binary.LittleEndian.PutUint32(buf[4:], uint32(m.Interpolation))
	binary.LittleEndian.PutUint32(buf[8:], m.Width)
	binary.LittleEndian.PutUint32(buf[12:], m.Height)
	binary.LittleEndian.PutUint64(buf[16:], uint64(m.ScaleLevel))
	_, err := w.Write(buf[:])
	return err
}

func readMetadata(r io.Reader) (Metadata, error) {
	var buf [metadataSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Metadata{}, truncated("metadata", err)
	}

	scale := binary.LittleEndian.Uint64(buf[16:])
	if scale > MaxScaleLevel {
		return Metadata{}, fmt.Errorf("%w: scale level %d", ErrMalformed, scale)
	}
	m := Metadata{
		QuantizationLevel: QuantizationLevel(binary.LittleEndian.Uint32(buf[0:])),
		Interpolation:     Interpolation(binary.LittleEndian.Uint32(buf[4:])),
		Width:             binary.LittleEndian.Uint32(buf[8:]),
		Height:            binary.LittleEndian.Uint32(buf[12:]),
		ScaleLevel:        int(scale),
	}
	if err := m.Validate(); err != nil {
		return Metadata{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return m, nil
}

// truncated maps short reads onto ErrMalformed and keeps other I/O errors as they are.
func truncated(label string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated while reading %s", ErrMalformed, label)
	}
	return fmt.Errorf("read %s: %w", label, err)
}
