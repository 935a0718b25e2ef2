package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRainfall(t *testing.T) {
	tests := []struct {
		mm   float64
		want RainfallCategory
		code string
	}{
		{math.NaN(), RainfallNoData, "*"},
		{-5, RainfallNoData, "*"},
		{0, RainfallNoData, "*"},
		{0.1, RainfallLowDeficient, "LD"},
		{400, RainfallLowDeficient, "LD"},
		{400.5, RainfallDeficient, "D"},
		{700, RainfallDeficient, "D"},
		{701, RainfallNormal, "N"},
		{1000, RainfallNormal, "N"},
		{1001, RainfallHigh, "E"},
		{1500, RainfallHigh, "E"},
		{1500.01, RainfallVeryHigh, "LE"},
		{4000, RainfallVeryHigh, "LE"},
	}
	for _, tt := range tests {
		got := ClassifyRainfall(tt.mm)
		assert.Equal(t, tt.want, got, "mm=%v", tt.mm)
		assert.Equal(t, tt.code, got.Code(), "mm=%v", tt.mm)
	}
}

func TestClassifyRainfall_Monotonic(t *testing.T) {
	prev := ClassifyRainfall(0.5)
	for mm := 1.0; mm <= 3000; mm += 0.5 {
		cur := ClassifyRainfall(mm)
		require.GreaterOrEqual(t, int(cur), int(prev), "category dropped at %v mm", mm)
		prev = cur
	}
}

func TestParseRainfall(t *testing.T) {
	assert.InDelta(t, 1017.5, ParseRainfall(" 1017.5 "), 1e-9)
	assert.True(t, math.IsNaN(ParseRainfall("")))
	assert.True(t, math.IsNaN(ParseRainfall("n/a")))
}

func TestParseDepthRange(t *testing.T) {
	tests := []struct {
		raw      string
		want     DepthRange
		depth    float64
		midpoint float64
	}{
		{"5 to 10", DepthRange{Low: 5, High: 10}, 10, 7.5},
		{" 0 to 2 ", DepthRange{Low: 0, High: 2}, 2, 1},
		{">40", DepthRange{Low: 40, High: 40, Open: true}, 40, 45},
		{"> 20", DepthRange{Low: 20, High: 20, Open: true}, 20, 25},
		{"3.5", DepthRange{Low: 3.5, High: 3.5}, 3.5, 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDepthRange(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.InDelta(t, tt.depth, got.Depth(), 1e-9)
			assert.InDelta(t, tt.midpoint, got.Midpoint(), 1e-9)
		})
	}
}

func TestParseDepthRange_Fallback(t *testing.T) {
	for _, raw := range []string{"deep", "N.A.", "", "5 to x"} {
		got, err := ParseDepthRange(raw)
		var pe *ParseError
		require.ErrorAs(t, err, &pe, "raw=%q", raw)
		assert.Equal(t, raw, pe.Value)
		assert.Equal(t, DepthRange{Low: 6, High: 8}, got)
		assert.InDelta(t, 8.0, got.Depth(), 1e-9)
	}
}

func TestClassifyGroundwaterDepth(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0 to 2", "0 to 2"},
		{"2 to 5", "2 to 5"},
		{"5 to 10", "5 to 10"},
		{"10 to 20", "10 to 20"},
		{"20 to 40", "20 to 40"},
		{">40", ">40"},
		{"2", "0 to 2"},
		{"12", "10 to 20"},
		{"N.A.", "NoData"},
		{"  ", "NoData"},
		{"garbled", "5 to 10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyGroundwaterDepth(tt.raw).String(), "raw=%q", tt.raw)
	}
}

func TestIsMissingDepth(t *testing.T) {
	assert.True(t, IsMissingDepth("N.A."))
	assert.True(t, IsMissingDepth(" n.a. "))
	assert.True(t, IsMissingDepth(""))
	assert.False(t, IsMissingDepth("2"))
}
