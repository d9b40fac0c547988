package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleScale() *GradingScale {
	// Bands given out of order; construction sorts them.
	return NewGradingScale([]ScaleBand{
		{Letter: "C", MinScore: 50, MaxScore: 59, Point: 2},
		{Letter: "A", MinScore: 70, MaxScore: 100, Point: 4},
		{Letter: "F", MinScore: 0, MaxScore: 44, Point: 0},
		{Letter: "B", MinScore: 60, MaxScore: 69, Point: 3},
		{Letter: "D", MinScore: 45, MaxScore: 49, Point: 1},
	})
}

func TestGradingScaleResolve(t *testing.T) {
	scale := sampleScale()

	tests := []struct {
		score      float64
		wantLetter string
		wantOK     bool
	}{
		{95, "A", true},
		{70, "A", true},
		{69.9, "B", true},
		{50, "C", true},
		{45, "D", true},
		{44.9, "F", true},
		{0, "F", true},
		{-1, "", false},
	}

	for _, tt := range tests {
		band, ok := scale.Resolve(tt.score)
		assert.Equal(t, tt.wantOK, ok, "score %v", tt.score)
		assert.Equal(t, tt.wantLetter, band.Letter, "score %v", tt.score)
	}
}

func TestGradingScalePointFor(t *testing.T) {
	scale := sampleScale()

	point, ok := scale.PointFor("A")
	assert.True(t, ok)
	assert.Equal(t, 4.0, point)

	// Lookup normalizes case and whitespace.
	point, ok = scale.PointFor(" b ")
	assert.True(t, ok)
	assert.Equal(t, 3.0, point)

	_, ok = scale.PointFor("Z")
	assert.False(t, ok)
	_, ok = scale.PointFor("")
	assert.False(t, ok)
}

func TestGradingScale_NilSafe(t *testing.T) {
	var scale *GradingScale

	_, ok := scale.Resolve(80)
	assert.False(t, ok)
	_, ok = scale.PointFor("A")
	assert.False(t, ok)
	assert.Equal(t, 0, scale.Len())
	assert.Equal(t, 0.0, scale.MaxPoint())
}

func TestGradingScaleMaxPoint(t *testing.T) {
	assert.Equal(t, 4.0, sampleScale().MaxPoint())
	assert.Equal(t, 0.0, NewGradingScale(nil).MaxPoint())
}

func TestGradingScaleBandsOrderedDescending(t *testing.T) {
	bands := sampleScale().Bands()

	for i := 1; i < len(bands); i++ {
		assert.GreaterOrEqual(t, bands[i-1].MinScore, bands[i].MinScore)
	}
}
