package hgi

import (
	"fmt"
	"image"
)

// Interpolation selects the predictor. The numeric values are part of the
// archive format; only Crossed is implemented.
type Interpolation uint32

const (
	Crossed Interpolation = iota
	Line
	Previous
)

func (i Interpolation) String() string {
	switch i {
	case Crossed:
		return "crossed"
	case Line:
		return "line"
	case Previous:
		return "previous"
	default:
		return fmt.Sprintf("Interpolation(%d)", uint32(i))
	}
}

func (i Interpolation) valid() bool {
	return i <= Previous
}

// Interpolator predicts the value at (x, y) of pyramid level `level` from the
// reconstructed values of the coarser levels already present in surface.
// surface must have its bounds anchored at (0, 0).
type Interpolator interface {
	Interpolate(levels, level, x, y int, surface *image.Gray) uint8
}

// NewInterpolator returns the predictor for i.
func NewInterpolator(i Interpolation) (Interpolator, error) {
	switch i {
	case Crossed:
		return CrossedInterpolator{}, nil
	case Line, Previous:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInterpolation, i)
	default:
		return nil, fmt.Errorf("%w: %s", ErrContract, i)
	}
}

// CrossedInterpolator averages the four corners of the enclosing cell of the
// previous level, first pairwise along each edge and then across the edges.
// Corners outside the image count as 0.
type CrossedInterpolator struct{}

func (CrossedInterpolator) Interpolate(levels, level, x, y int, surface *image.Gray) uint8 {
	step := 1 << (levels - level + 1)
	mask := step - 1

	xTop := x &^ mask
	yLeft := y &^ mask
	xBot := xTop + step
	yRight := yLeft + step

	return crossedPrediction(
		cornerAt(surface, xTop, yLeft),
		cornerAt(surface, xTop, yRight),
		cornerAt(surface, xBot, yLeft),
		cornerAt(surface, xBot, yRight),
	)
}

// crossedPrediction is the rounding contract shared by encoder and decoder.
func crossedPrediction(leftTop, rightTop, leftBot, rightBot uint8) uint8 {
	avg := func(a, b uint8) uint {
		return (uint(a) + uint(b) + 1) >> 1
	}

	left := avg(leftTop, leftBot)
	right := avg(rightBot, rightTop)
	top := avg(rightTop, leftTop)
	bot := avg(rightBot, leftBot)

	return uint8((left + right + top + bot + 1) >> 2)
}

func cornerAt(s *image.Gray, x, y int) uint8 {
	if x < 0 || y < 0 || x >= s.Rect.Max.X || y >= s.Rect.Max.Y {
		return 0
	}
	return s.Pix[y*s.Stride+x]
}
