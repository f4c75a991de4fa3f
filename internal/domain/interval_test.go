package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a        Interval
		b        Interval
		expected bool
	}{
		{
			name:     "identical windows overlap",
			a:        NewInterval(ts(9, 0), ts(10, 0)),
			b:        NewInterval(ts(9, 0), ts(10, 0)),
			expected: true,
		},
		{
			name:     "partial overlap",
			a:        NewInterval(ts(9, 0), ts(11, 0)),
			b:        NewInterval(ts(10, 0), ts(12, 0)),
			expected: true,
		},
		{
			name:     "containment",
			a:        NewInterval(ts(9, 0), ts(12, 0)),
			b:        NewInterval(ts(10, 0), ts(11, 0)),
			expected: true,
		},
		{
			name:     "touching boundaries do not overlap",
			a:        NewInterval(ts(9, 0), ts(10, 0)),
			b:        NewInterval(ts(10, 0), ts(11, 0)),
			expected: false,
		},
		{
			name:     "disjoint windows",
			a:        NewInterval(ts(9, 0), ts(10, 0)),
			b:        NewInterval(ts(14, 0), ts(15, 0)),
			expected: false,
		},
		{
			name:     "one minute overlap past the boundary",
			a:        NewInterval(ts(9, 0), ts(10, 1)),
			b:        NewInterval(ts(10, 0), ts(11, 0)),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Overlaps(tt.b))
			// Пересечение симметрично
			assert.Equal(t, tt.expected, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_IsValid(t *testing.T) {
	assert.True(t, NewInterval(ts(9, 0), ts(10, 0)).IsValid())

	// Пустое окно невалидно: [t, t) ничего не содержит
	assert.False(t, NewInterval(ts(9, 0), ts(9, 0)).IsValid())

	assert.False(t, NewInterval(ts(10, 0), ts(9, 0)).IsValid())
}

func TestInterval_Contains(t *testing.T) {
	window := NewInterval(ts(9, 0), ts(10, 0))

	assert.True(t, window.Contains(ts(9, 0)), "start is included")
	assert.True(t, window.Contains(ts(9, 30)))
	assert.False(t, window.Contains(ts(10, 0)), "end is excluded")
	assert.False(t, window.Contains(ts(8, 59)))
}

func TestInterval_Duration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, NewInterval(ts(9, 0), ts(10, 30)).Duration())
}
