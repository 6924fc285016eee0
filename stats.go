package hgi

import (
	"fmt"
	"image"
	"math"
)

// Stats summarizes the distortion between an image and its reconstruction.
type Stats struct {
	MaxError    int
	MeanSquared float64
	RMSE        float64
}

// Compare measures after against before. Both images must have the same size.
func Compare(before, after *image.Gray) (Stats, error) {
	bb, ab := before.Bounds(), after.Bounds()
	if bb.Dx() != ab.Dx() || bb.Dy() != ab.Dy() {
		return Stats{}, fmt.Errorf("%w: comparing %dx%d with %dx%d", ErrContract, bb.Dx(), bb.Dy(), ab.Dx(), ab.Dy())
	}

	var st Stats
	var sum int64
	for y := 0; y < bb.Dy(); y++ {
		for x := 0; x < bb.Dx(); x++ {
			d := int(before.GrayAt(bb.Min.X+x, bb.Min.Y+y).Y) - int(after.GrayAt(ab.Min.X+x, ab.Min.Y+y).Y)
			st.MaxError = max(st.MaxError, abs(d))
			sum += int64(d * d)
		}
	}

	if n := bb.Dx() * bb.Dy(); n > 0 {
		st.MeanSquared = float64(sum) / float64(n)
		st.RMSE = math.Sqrt(st.MeanSquared)
	}
	return st, nil
}

// Ratio is the compression ratio raw/compressed, 0 when compressed is empty.
func Ratio(raw, compressed int) float64 {
	if compressed == 0 {
		return 0
	}
	return float64(raw) / float64(compressed)
}
