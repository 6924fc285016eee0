package hgi

import (
	"fmt"
	"strings"
)

// QuantizationLevel names the maximum per-pixel reconstruction error.
// The numeric values are part of the archive format.
type QuantizationLevel uint32

const (
	Lossless QuantizationLevel = iota
	Low
	Medium
	High
)

var quantizationNames = [...]string{
	Lossless: "lossless",
	Low:      "low",
	Medium:   "medium",
	High:     "high",
}

func (q QuantizationLevel) String() string {
	if q.valid() {
		return quantizationNames[q]
	}
	return fmt.Sprintf("QuantizationLevel(%d)", uint32(q))
}

func (q QuantizationLevel) valid() bool {
	return q <= High
}

// MaxError returns the largest absolute difference between an original pixel
// and its reconstruction at this level.
func (q QuantizationLevel) MaxError() int {
	switch q {
	case Low:
		return 10
	case Medium:
		return 20
	case High:
		return 30
	default:
		return 0
	}
}

// ParseQuantizationLevel accepts the level names case-insensitively.
func ParseQuantizationLevel(s string) (QuantizationLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range quantizationNames {
		if n == name {
			return QuantizationLevel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown quantization level %q (want one of %s)", s, strings.Join(quantizationNames[:], ", "))
}

// Quantizer maps a residual byte to the value actually stored.
// |x - Quantize(x)| never exceeds ErrorBound().
type Quantizer interface {
	Quantize(value byte) byte
	ErrorBound() byte
}

// NoOp stores residuals unchanged.
type NoOp struct{}

func (NoOp) Quantize(value byte) byte { return value }
func (NoOp) ErrorBound() byte         { return 0 }

// Linear snaps residuals to the centres of buckets 2e+1 wide, so every value
// lands within e of its bucket centre. A bound of 0 is an exact pass-through.
type Linear struct {
	table [256]byte
	bound byte
}

// NewLinear builds the lookup table for the given level.
func NewLinear(level QuantizationLevel) *Linear {
	l := &Linear{bound: byte(level.MaxError())}

	e := int(l.bound)
	scale := 2*e + 1
	for x := range l.table {
		l.table[x] = byte(((x + e) / scale) * scale % 256)
	}
	return l
}

func (l *Linear) Quantize(value byte) byte {
	return l.table[value]
}

func (l *Linear) ErrorBound() byte {
	return l.bound
}
