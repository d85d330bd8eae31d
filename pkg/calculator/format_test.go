package calculator

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{10, "10"},
		{-3.5, "-3.5"},
		{0.04, "0.04"},
		{1e-6, "0.000001"},
		{1e-7, "1e-7"},
		{1.5e-8, "1.5e-8"},
		{123456789, "123456789"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{-2.5e22, "-2.5e+22"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestRound(t *testing.T) {
	assert.InDelta(t, 0.3, Round(0.1+0.2), 0)
	assert.InDelta(t, 0.33333333, Round(1.0/3), 0)
	assert.InDelta(t, 0.66666667, Round(2.0/3), 0)
	assert.InDelta(t, 1e300, Round(1e300), 0)
	assert.Zero(t, Round(1e-9))
}

func TestFormatResult(t *testing.T) {
	assert.Equal(t, "0.3", FormatResult(0.1+0.2))
	assert.Equal(t, "0", FormatResult(math.Sin(math.Pi)))
	assert.Equal(t, "3.14159265", FormatResult(math.Pi))
	assert.Equal(t, "1e-8", FormatResult(1e-8))
}

func TestFormatResult_RoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 0.1 + 0.2, 1.0 / 3, math.Pi, 12345.678901234, 1e-8, 3e21, -7.25e-7}

	for _, v := range values {
		s := FormatResult(v)

		got, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err, s)
		assert.Equal(t, Round(v), got, s)

		evaluated, err := Eval(s)
		require.NoError(t, err, s)
		assert.Equal(t, got, evaluated, s)
	}
}
