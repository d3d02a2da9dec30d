package dataprocessing

import (
	"math"
	"sort"
)

// PctChange computes the fractional change of each value relative to the
// previous one. The first element is NaN. A zero previous value also yields
// NaN rather than an infinity.
func PctChange(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i == 0 || values[i-1] == 0 || math.IsNaN(values[i-1]) || math.IsNaN(values[i]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i]/values[i-1] - 1
	}
	return out
}

// RollingMean computes the trailing simple moving average with the given
// window. The first window-1 elements are NaN, as is any position whose
// window contains a NaN.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = mean(values[i-window+1 : i+1])
	}
	return out
}

// RollingStd computes the trailing sample standard deviation (ddof=1) with
// the given window. The first window-1 elements are NaN, as is any position
// whose window contains a NaN.
func RollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sampleStd(values[i-window+1 : i+1])
	}
	return out
}

// WinsorizeInt64 clips the fraction of smallest and largest values given by
// limit on each tail, pulling them in to the nearest surviving order
// statistic. With n values and k = floor(n*limit), the k smallest values are
// raised to the k-th sorted value and the k largest lowered to the
// (n-1-k)-th. The input slice is not modified.
func WinsorizeInt64(values []int64, limit float64) []int64 {
	n := len(values)
	out := make([]int64, n)
	copy(out, values)
	if n == 0 || limit <= 0 {
		return out
	}

	sorted := make([]int64, n)
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	k := int(math.Floor(float64(n) * limit))
	if k == 0 {
		return out
	}
	lo := sorted[k]
	hi := sorted[n-1-k]

	for i, v := range out {
		if v < lo {
			out[i] = lo
		} else if v > hi {
			out[i] = hi
		}
	}
	return out
}

// Quantile computes the q-quantile (0 <= q <= 1) of the defined values using
// linear interpolation between order statistics. NaN values are skipped.
// Returns NaN when no defined values exist.
func Quantile(values []float64, q float64) float64 {
	defined := dropNaN(values)
	if len(defined) == 0 {
		return math.NaN()
	}
	sort.Float64s(defined)

	pos := q * float64(len(defined)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return defined[lower]
	}
	frac := pos - float64(lower)
	return defined[lower]*(1-frac) + defined[upper]*frac
}

// Mean computes the arithmetic mean of the defined values, skipping NaN.
// Returns NaN when no defined values exist.
func Mean(values []float64) float64 {
	return mean(dropNaN(values))
}

// Std computes the sample standard deviation (ddof=1) of the defined
// values, skipping NaN. Returns NaN with fewer than two defined values.
func Std(values []float64) float64 {
	return sampleStd(dropNaN(values))
}

// Min returns the smallest defined value, or NaN when none exist.
func Min(values []float64) float64 {
	defined := dropNaN(values)
	if len(defined) == 0 {
		return math.NaN()
	}
	m := defined[0]
	for _, v := range defined[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest defined value, or NaN when none exist.
func Max(values []float64) float64 {
	defined := dropNaN(values)
	if len(defined) == 0 {
		return math.NaN()
	}
	m := defined[0]
	for _, v := range defined[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Count returns the number of defined values.
func Count(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Pearson computes the Pearson correlation coefficient over pairwise
// complete observations: rows where either series is NaN are excluded.
// Returns NaN when fewer than two complete pairs exist or either series is
// constant.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}

	var xs, ys []float64
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	mx := mean(xs)
	my := mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(vx*vy)
}

// HistogramBins bins the defined values into the given number of
// equal-width bins spanning [min, max]. Returns bin edges (bins+1 values)
// and per-bin counts. A degenerate range (all values equal) produces a
// single bin holding every value.
func HistogramBins(values []float64, bins int) (edges []float64, counts []int) {
	defined := dropNaN(values)
	if len(defined) == 0 || bins <= 0 {
		return nil, nil
	}

	lo, hi := defined[0], defined[0]
	for _, v := range defined[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []float64{lo, hi}, []int{len(defined)}
	}

	edges = make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	counts = make([]int, bins)
	for _, v := range defined {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return edges, counts
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN()
		}
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := mean(values)
	if math.IsNaN(m) {
		return math.NaN()
	}
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
