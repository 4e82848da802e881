package echolab

import (
	"math"

	"github.com/samber/lo"
)

// ResampleTarget selects how the Resampler picks its common target sample
// interval T, per §4.3 step 5. RESAMPLE_SHORTEST/RESAMPLE_LONGEST are
// sentinel values distinguishable from any real sample interval (which is
// always a small positive number of seconds, never exactly 0 or 1); any
// other positive value requests that exact interval.
type ResampleTarget float64

const (
	ResampleShortest ResampleTarget = 0
	ResampleLongest  ResampleTarget = 1
)

const ratioTolerance = 1e-6

// resolveTargetInterval implements §4.3 step 5: choosing T from the set of
// unique, non-NaN sample intervals present in the selected rows.
func resolveTargetInterval(target ResampleTarget, uniqueIntervals []float64) (float64, error) {
	switch target {
	case ResampleShortest:
		return lo.Min(uniqueIntervals), nil
	case ResampleLongest:
		return lo.Max(uniqueIntervals), nil
	default:
		t := float64(target)
		for _, si := range uniqueIntervals {
			if _, _, ok := computeRatio(t, si); !ok {
				return 0, ErrInvalidResampleRate
			}
		}
		return t, nil
	}
}

// computeRatio determines the integer up/down-sampling ratio between a
// row's native sample interval si and the target T, per §4.3 step 4.
// upsample reports whether each input sample is repeated (T < si) rather
// than pooled (T > si, or T == si meaning ratio 1 and a pass-through).
func computeRatio(T, si float64) (ratio int, upsample bool, ok bool) {
	if si <= 0 || T <= 0 {
		return 0, false, false
	}
	if math.Abs(T-si) <= ratioTolerance*math.Max(T, si) {
		return 1, false, true
	}
	if T > si {
		r := T / si
		ri := math.Round(r)
		if math.Abs(r-ri) > ratioTolerance*r {
			return 0, false, false
		}
		return int(ri), false, true
	}
	r := si / T
	ri := math.Round(r)
	if math.Abs(r-ri) > ratioTolerance*r {
		return 0, false, false
	}
	return int(ri), true, true
}

// resampleRow rescales one row to the target interval. isPower selects
// linear-domain pooling (convert dB -> linear -> pool -> back to dB) versus
// plain averaging/repetition for angle data, per §4.3 step 4.
func resampleRow(row []float64, ratio int, upsample, isPower bool) []float64 {
	if ratio <= 1 {
		out := make([]float64, len(row))
		copy(out, row)
		return out
	}

	if upsample {
		out := make([]float64, len(row)*ratio)
		for i, v := range row {
			for j := 0; j < ratio; j++ {
				out[i*ratio+j] = v
			}
		}
		return out
	}

	n := len(row) / ratio
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		count := 0
		for j := 0; j < ratio; j++ {
			v := row[i*ratio+j]
			if math.IsNaN(v) {
				continue
			}
			if isPower {
				sum += math.Pow(10, v/10)
			} else {
				sum += v
			}
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		mean := sum / float64(count)
		if isPower {
			out[i] = 10 * math.Log10(mean)
		} else {
			out[i] = mean
		}
	}
	return out
}

// interpolateLinear performs a 1-D linear interpolation of row (sampled at
// srcRange) onto dstRange, NaN outside the source's covered extent. Used
// for the sound-speed regridding step (§4.3 step 6); bottom-depth
// sound-speed reprojection is handled separately via simple scaling
// (§4.4's get_bottom).
func interpolateLinear(srcRange, row, dstRange []float64) []float64 {
	out := make([]float64, len(dstRange))
	n := len(srcRange)
	if n == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	j := 0
	for i, x := range dstRange {
		if x < srcRange[0] || x > srcRange[n-1] || n == 1 {
			out[i] = math.NaN()
			continue
		}
		for j < n-2 && srcRange[j+1] < x {
			j++
		}
		x0, x1 := srcRange[j], srcRange[j+1]
		y0, y1 := row[j], row[j+1]
		if x1 == x0 {
			out[i] = y0
			continue
		}
		frac := (x - x0) / (x1 - x0)
		out[i] = y0 + frac*(y1-y0)
	}
	return out
}

// uniqueNonNaN returns the distinct, non-NaN values in v in first-seen order,
// grounded on the teacher's use of samber/lo for set-style helpers
// throughout qa.go/nulls.go.
func uniqueNonNaN(v []float64) []float64 {
	filtered := lo.Filter(v, func(x float64, _ int) bool { return !math.IsNaN(x) })
	return lo.Uniq(filtered)
}
