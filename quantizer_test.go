package hgi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allLevels = []QuantizationLevel{Lossless, Low, Medium, High}

func TestLinear_ErrorBound(t *testing.T) {
	for _, level := range allLevels {
		t.Run(level.String(), func(t *testing.T) {
			q := NewLinear(level)
			require.Equal(t, byte(level.MaxError()), q.ErrorBound())

			for x := 0; x < 256; x++ {
				got := int(q.Quantize(byte(x)))
				require.LessOrEqual(t, abs(got-x), level.MaxError(), "x=%d quantized to %d", x, got)
			}
		})
	}
}

func TestLinear_LosslessIsIdentity(t *testing.T) {
	q := NewLinear(Lossless)
	for x := 0; x < 256; x++ {
		require.Equal(t, byte(x), q.Quantize(byte(x)))
	}
}

func TestLinear_Table(t *testing.T) {
	for _, tc := range []struct {
		level QuantizationLevel
		in    byte
		want  byte
	}{
		{Low, 0, 0},
		{Low, 10, 0},
		{Low, 11, 21},
		{Low, 255, 252},
		{Medium, 20, 0},
		{Medium, 21, 41},
		{Medium, 255, 246},
		{High, 30, 0},
		{High, 31, 61},
		{High, 255, 244},
	} {
		require.Equal(t, tc.want, NewLinear(tc.level).Quantize(tc.in), "%s(%d)", tc.level, tc.in)
	}
}

func TestNoOp(t *testing.T) {
	var q Quantizer = NoOp{}
	require.Zero(t, q.ErrorBound())
	for x := 0; x < 256; x++ {
		require.Equal(t, byte(x), q.Quantize(byte(x)))
	}
}

func TestParseQuantizationLevel(t *testing.T) {
	for _, level := range allLevels {
		got, err := ParseQuantizationLevel(level.String())
		require.NoError(t, err)
		require.Equal(t, level, got)
	}

	got, err := ParseQuantizationLevel(" Medium ")
	require.NoError(t, err)
	require.Equal(t, Medium, got)

	_, err = ParseQuantizationLevel("extreme")
	require.Error(t, err)
	require.Equal(t, "QuantizationLevel(9)", QuantizationLevel(9).String())
}
