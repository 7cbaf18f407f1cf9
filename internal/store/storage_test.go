package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAverage(t *testing.T) {
	tests := []struct {
		name        string
		ratingSum   int64
		reviewCount int64
		want        float64
	}{
		{"no reviews", 0, 0, 0},
		{"single five star", 5, 1, 5},
		{"non-terminating mean stays exact", 13, 3, 13.0 / 3.0},
		{"another repeating mean", 14, 3, 14.0 / 3.0},
		{"all ones", 4, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, deriveAverage(tt.ratingSum, tt.reviewCount), 1e-9)
		})
	}
}

func TestClampWeight(t *testing.T) {
	assert.Equal(t, 1, ClampWeight(-3))
	assert.Equal(t, 1, ClampWeight(0))
	assert.Equal(t, 1, ClampWeight(1))
	assert.Equal(t, 7, ClampWeight(7))
	assert.Equal(t, 10, ClampWeight(10))
	assert.Equal(t, 10, ClampWeight(999))
}

func TestPasswordSetAndCompare(t *testing.T) {
	var p password

	assert.False(t, p.IsSet())
	assert.Error(t, p.Compare("anything"))

	err := p.Set("salteña123")
	assert.NoError(t, err)
	assert.True(t, p.IsSet())

	assert.NoError(t, p.Compare("salteña123"))
	assert.Error(t, p.Compare("wrong"))
}

func TestPlaceAverage(t *testing.T) {
	p := Place{RatingSum: 9, ReviewCount: 2}
	assert.Equal(t, 4.5, p.Average())

	empty := Place{}
	assert.Equal(t, float64(0), empty.Average())
}
