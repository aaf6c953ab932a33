package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJavaRandom(t *testing.T) {
	testCases := []struct {
		name  string
		seed  int64
		bound int32
		want  []int32
	}{
		{
			name:  "seed 37, bound not a power of two",
			seed:  37,
			bound: 10,
			want:  []int32{5, 3, 0, 8, 0},
		},
		{
			name:  "seed 37, power of two bound",
			seed:  37,
			bound: 16,
			want:  []int32{11, 12, 8, 3, 11},
		},
		{
			name:  "seed 0",
			seed:  0,
			bound: 100,
			want:  []int32{60, 48, 29, 47, 15},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			r := NewJavaRandom(tt.seed)
			got := make([]int32, 0, len(tt.want))
			for range tt.want {
				got = append(got, r.NextIntn(tt.bound))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJavaRandomNextInt(t *testing.T) {
	r := NewJavaRandom(42)
	assert.Equal(t, int32(-1170105035), r.NextInt())
}

func TestJavaRandomPanicsOnNonPositiveBound(t *testing.T) {
	r := NewJavaRandom(1)
	assert.Panics(t, func() { r.NextIntn(0) })
}
