package hgi

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"slices"
)

// Pyramid is the encoded payload: level 0 holds the base grid samples and
// level i+1 the residuals of refinement step i, each in Traversal order.
type Pyramid [][]byte

// newPyramid allocates every level at its exact length.
func newPyramid(t Traversal) Pyramid {
	p := make(Pyramid, t.Levels+1)
	for level := range p {
		p[level] = make([]byte, t.Len(level))
	}
	return p
}

// Levels is the number of refinement steps, len(p)-1.
func (p Pyramid) Levels() int {
	return len(p) - 1
}

// Size is the total number of stored bytes.
func (p Pyramid) Size() int {
	n := 0
	for _, level := range p {
		n += len(level)
	}
	return n
}

// Check verifies that p has the shape m prescribes.
func (p Pyramid) Check(m Metadata) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if p.Levels() != m.ScaleLevel {
		return fmt.Errorf("%w: pyramid has %d levels, metadata scale level is %d", ErrContract, p.Levels(), m.ScaleLevel)
	}
	t := m.Traversal()
	for level, data := range p {
		if want := t.Len(level); len(data) != want {
			return fmt.Errorf("%w: level %d holds %d samples, want %d", ErrContract, level, len(data), want)
		}
	}
	return nil
}

// writePyramid emits a u64 level count followed by length-prefixed levels.
func writePyramid(w io.Writer, p Pyramid) error {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
	if _, err := w.Write(n[:]); err != nil {
		return err
	}
	for _, level := range p {
		binary.LittleEndian.PutUint64(n[:], uint64(len(level)))
		if _, err := w.Write(n[:]); err != nil {
			return err
		}
		if _, err := w.Write(level); err != nil {
			return err
		}
	}
	return nil
}

// readChunk bounds how much readLevel allocates ahead of the data it has
// actually received.
const readChunk = 1 << 20

// readPyramid is the inverse of writePyramid. The level count and every level
// length must match t exactly.
func readPyramid(r io.Reader, t Traversal) (Pyramid, error) {
	var n [8]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return nil, truncated("level count", err)
	}
	count := binary.LittleEndian.Uint64(n[:])
	if count != uint64(t.Levels)+1 {
		return nil, fmt.Errorf("%w: %d pyramid levels, scale level is %d", ErrMalformed, count, t.Levels)
	}

	p := make(Pyramid, count)
	for i := range p {
		if _, err := io.ReadFull(r, n[:]); err != nil {
			return nil, truncated(fmt.Sprintf("level %d length", i), err)
		}
		size := binary.LittleEndian.Uint64(n[:])
		if want := t.size(i); size != want || size > math.MaxInt {
			return nil, fmt.Errorf("%w: level %d claims %d bytes, want %d", ErrMalformed, i, size, want)
		}
		level, err := readLevel(r, int(size))
		if err != nil {
			return nil, truncated(fmt.Sprintf("level %d", i), err)
		}
		p[i] = level
	}
	return p, nil
}

// readLevel reads size bytes, growing the buffer as data arrives so a short
// stream never costs more than one chunk beyond what it holds.
func readLevel(r io.Reader, size int) ([]byte, error) {
	buf := make([]byte, 0, min(size, readChunk))
	for len(buf) < size {
		k := min(size-len(buf), readChunk)
		buf = slices.Grow(buf, k)
		if _, err := io.ReadFull(r, buf[len(buf):len(buf)+k]); err != nil {
			return nil, err
		}
		buf = buf[:len(buf)+k]
	}
	return buf, nil
}
