package hgi

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCrossedPrediction(t *testing.T) {
	for _, tc := range []struct {
		lt, rt, lb, rb uint8
		want           uint8
	}{
		{0, 0, 0, 0, 0},
		{255, 255, 255, 255, 255},
		{7, 7, 7, 7, 7},
		{0, 0, 0, 255, 64},
		{1, 2, 3, 4, 3},
		{10, 20, 30, 40, 25},
	} {
		require.Equal(t, tc.want, crossedPrediction(tc.lt, tc.rt, tc.lb, tc.rb), "%+v", tc)
	}
}

func TestCrossedInterpolator_Corners(t *testing.T) {
	s := image.NewGray(image.Rect(0, 0, 3, 3))
	s.SetGray(0, 0, color.Gray{Y: 10})
	s.SetGray(0, 2, color.Gray{Y: 20})
	s.SetGray(2, 0, color.Gray{Y: 30})
	s.SetGray(2, 2, color.Gray{Y: 40})
	// Pixels off the coarse grid must not influence the prediction.
	s.SetGray(1, 1, color.Gray{Y: 200})
	s.SetGray(1, 0, color.Gray{Y: 200})

	ip := CrossedInterpolator{}
	require.Equal(t, uint8(25), ip.Interpolate(1, 1, 1, 1, s))
	require.Equal(t, uint8(25), ip.Interpolate(1, 1, 1, 0, s))
}

func TestCrossedInterpolator_OutOfBoundsCornersAreZero(t *testing.T) {
	s := image.NewGray(image.Rect(0, 0, 2, 2))
	s.SetGray(0, 0, color.Gray{Y: 100})
	s.SetGray(1, 1, color.Gray{Y: 255})

	require.Equal(t, uint8(25), CrossedInterpolator{}.Interpolate(1, 1, 1, 1, s))
}

func TestNewInterpolator(t *testing.T) {
	ip, err := NewInterpolator(Crossed)
	require.NoError(t, err)
	require.IsType(t, CrossedInterpolator{}, ip)

	for _, i := range []Interpolation{Line, Previous} {
		_, err := NewInterpolator(i)
		require.ErrorIs(t, err, ErrUnsupportedInterpolation)
	}

	_, err = NewInterpolator(Interpolation(42))
	require.ErrorIs(t, err, ErrContract)
}
