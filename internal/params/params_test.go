package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		size       int
		wantNumber int
		wantOffset int
	}{
		{"default", "", 10, 1, 0},
		{"explicit page", "page=3", 10, 3, 20},
		{"zero page falls back", "page=0", 10, 1, 0},
		{"negative page falls back", "page=-2", 10, 1, 0},
		{"garbage falls back", "page=abc", 10, 1, 0},
		{"review page size", "page=2", 5, 2, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			assert.NoError(t, err)

			p := ParsePage(q, tc.size)
			assert.Equal(t, tc.wantNumber, p.Number)
			assert.Equal(t, tc.wantOffset, p.Offset)
			assert.Equal(t, tc.size, p.Size)
		})
	}
}

func TestComputeMeta(t *testing.T) {
	p := ParsePage(url.Values{}, 10)

	p.ComputeMeta(0)
	assert.Equal(t, 0, p.TotalPages)

	p.ComputeMeta(10)
	assert.Equal(t, 1, p.TotalPages)

	p.ComputeMeta(11)
	assert.Equal(t, 2, p.TotalPages)

	p.ComputeMeta(95)
	assert.Equal(t, 10, p.TotalPages)
}
