package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPctChange(t *testing.T) {
	tests := []struct {
		name   string
		input  []float64
		expect []float64
	}{
		{
			name:   "simple series",
			input:  []float64{100, 110, 99},
			expect: []float64{math.NaN(), 0.1, -0.1},
		},
		{
			name:   "zero previous value yields NaN",
			input:  []float64{0, 5},
			expect: []float64{math.NaN(), math.NaN()},
		},
		{
			name:   "NaN propagates to neighbours",
			input:  []float64{100, math.NaN(), 120},
			expect: []float64{math.NaN(), math.NaN(), math.NaN()},
		},
		{
			name:   "single element",
			input:  []float64{42},
			expect: []float64{math.NaN()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PctChange(tt.input)
			require.Len(t, got, len(tt.expect))
			for i := range tt.expect {
				if math.IsNaN(tt.expect[i]) {
					assert.True(t, math.IsNaN(got[i]), "index %d", i)
				} else {
					assert.InDelta(t, tt.expect[i], got[i], 1e-12, "index %d", i)
				}
			}
		})
	}
}

func TestRollingMean(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	got := RollingMean(values, 3)

	require.Len(t, got, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-12)
	assert.InDelta(t, 3.0, got[3], 1e-12)
	assert.InDelta(t, 4.0, got[4], 1e-12)
}

func TestRollingMeanNaNWindow(t *testing.T) {
	values := []float64{1, math.NaN(), 3, 4, 5}
	got := RollingMean(values, 3)

	assert.True(t, math.IsNaN(got[2]), "window containing NaN stays NaN")
	assert.True(t, math.IsNaN(got[3]), "window containing NaN stays NaN")
	assert.InDelta(t, 4.0, got[4], 1e-12, "first clean window")
}

func TestRollingStd(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := RollingStd(values, 8)

	for i := 0; i < 7; i++ {
		assert.True(t, math.IsNaN(got[i]), "index %d", i)
	}
	// Sample standard deviation of the whole series.
	assert.InDelta(t, 2.138089935299395, got[7], 1e-12)
}

func TestWinsorizeInt64(t *testing.T) {
	t.Run("clips one value per tail", func(t *testing.T) {
		// 100 values, limit 0.01, so k=1: min raised, max lowered.
		values := make([]int64, 100)
		for i := range values {
			values[i] = int64(i + 1)
		}
		got := WinsorizeInt64(values, 0.01)

		assert.Equal(t, int64(2), got[0], "smallest value pulled up")
		assert.Equal(t, int64(99), got[99], "largest value pulled down")
		assert.Equal(t, int64(50), got[49], "middle untouched")
	})

	t.Run("small input unchanged", func(t *testing.T) {
		// k = floor(10*0.01) = 0, nothing to clip.
		values := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 1000000}
		got := WinsorizeInt64(values, 0.01)
		assert.Equal(t, values, got)
	})

	t.Run("does not modify input", func(t *testing.T) {
		values := make([]int64, 200)
		for i := range values {
			values[i] = int64(i)
		}
		WinsorizeInt64(values, 0.01)
		assert.Equal(t, int64(0), values[0])
		assert.Equal(t, int64(199), values[199])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, WinsorizeInt64(nil, 0.01))
	})
}

func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.0, Quantile(values, 0), 1e-12)
	assert.InDelta(t, 1.75, Quantile(values, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(values, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Quantile(values, 0.75), 1e-12)
	assert.InDelta(t, 4.0, Quantile(values, 1), 1e-12)
}

func TestQuantileSkipsNaN(t *testing.T) {
	values := []float64{math.NaN(), 1, 2, 3, math.NaN()}
	assert.InDelta(t, 2.0, Quantile(values, 0.5), 1e-12)
	assert.True(t, math.IsNaN(Quantile([]float64{math.NaN()}, 0.5)))
}

func TestMeanStdMinMaxCount(t *testing.T) {
	values := []float64{math.NaN(), 2, 4, 6, math.NaN()}

	assert.InDelta(t, 4.0, Mean(values), 1e-12)
	assert.InDelta(t, 2.0, Std(values), 1e-12)
	assert.InDelta(t, 2.0, Min(values), 1e-12)
	assert.InDelta(t, 6.0, Max(values), 1e-12)
	assert.Equal(t, 3, Count(values))

	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Std([]float64{5})), "std needs two values")
	assert.True(t, math.IsNaN(Min(nil)))
	assert.True(t, math.IsNaN(Max(nil)))
	assert.Equal(t, 0, Count(nil))
}

func TestPearson(t *testing.T) {
	t.Run("perfect positive", func(t *testing.T) {
		x := []float64{1, 2, 3, 4}
		y := []float64{2, 4, 6, 8}
		assert.InDelta(t, 1.0, Pearson(x, y), 1e-12)
	})

	t.Run("perfect negative", func(t *testing.T) {
		x := []float64{1, 2, 3, 4}
		y := []float64{8, 6, 4, 2}
		assert.InDelta(t, -1.0, Pearson(x, y), 1e-12)
	})

	t.Run("pairwise complete observations", func(t *testing.T) {
		x := []float64{1, math.NaN(), 3, 4}
		y := []float64{2, 100, 6, 8}
		// The NaN pair is excluded, leaving a perfect correlation.
		assert.InDelta(t, 1.0, Pearson(x, y), 1e-12)
	})

	t.Run("constant series undefined", func(t *testing.T) {
		x := []float64{5, 5, 5}
		y := []float64{1, 2, 3}
		assert.True(t, math.IsNaN(Pearson(x, y)))
	})

	t.Run("too few pairs undefined", func(t *testing.T) {
		assert.True(t, math.IsNaN(Pearson([]float64{1}, []float64{2})))
	})
}

func TestHistogramBins(t *testing.T) {
	t.Run("uniform values", func(t *testing.T) {
		values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		edges, counts := HistogramBins(values, 5)

		require.Len(t, edges, 6)
		require.Len(t, counts, 5)
		assert.InDelta(t, 0.0, edges[0], 1e-12)
		assert.InDelta(t, 9.0, edges[5], 1e-12)

		total := 0
		for _, c := range counts {
			total += c
		}
		assert.Equal(t, len(values), total, "every value lands in a bin")
	})

	t.Run("maximum lands in last bin", func(t *testing.T) {
		_, counts := HistogramBins([]float64{0, 10}, 2)
		assert.Equal(t, []int{1, 1}, counts)
	})

	t.Run("degenerate range", func(t *testing.T) {
		edges, counts := HistogramBins([]float64{3, 3, 3}, 30)
		assert.Equal(t, []float64{3, 3}, edges)
		assert.Equal(t, []int{3}, counts)
	})

	t.Run("all NaN", func(t *testing.T) {
		edges, counts := HistogramBins([]float64{math.NaN()}, 10)
		assert.Nil(t, edges)
		assert.Nil(t, counts)
	})
}
