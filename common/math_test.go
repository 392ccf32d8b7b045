package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFalloff(t *testing.T) {
	cases := []struct {
		name string
		d, r float64
		want float64
	}{
		{"centre", 0, 100, 1},
		{"half", 50, 100, 0.5},
		{"edge", 100, 100, 0},
		{"outside", 250, 100, 0},
		{"zero_radius", 0, 0, 0},
		{"negative_radius", 10, -5, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, Falloff(c.d, c.r), 1e-12)
		})
	}
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(0, 1, -3.5))
	assert.False(t, Finite(1, math.NaN()))
	assert.False(t, Finite(math.Inf(-1)))
}
