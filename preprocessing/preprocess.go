// Package preprocessing converts a raw (x, y) column/target pair into the
// pair actually scored by the transformation search: positive-rate bucketing
// for binary labels, optional target transforms (odds, log-odds or custom),
// and missing-value elimination. The step order is fixed: bucketing first,
// then the target transform, then NA elimination. Reversing it changes
// results and is not supported.
package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/linearize/pkg/errors"
)

// clampEps bounds probabilities away from 0 and 1 before odds are taken.
const clampEps = 1e-15

// IntervalValue selects the representative value of an equal-width bucket.
type IntervalValue string

const (
	// IntervalLeft represents a bucket by its left edge.
	IntervalLeft IntervalValue = "left"
	// IntervalRight represents a bucket by its right edge.
	IntervalRight IntervalValue = "right"
	// IntervalMean represents a bucket by its midpoint.
	IntervalMean IntervalValue = "mean"
)

// According selects which sequence drives missing-value elimination.
type According string

const (
	// AccordingX drops positions where x is NaN.
	AccordingX According = "x"
	// AccordingY drops positions where y is NaN.
	AccordingY According = "y"
	// AccordingBoth drops positions where either x or y is NaN.
	AccordingBoth According = "both"
)

// TargetTransform is a one-argument transform applied to the target
// sequence. It must return a slice of the same length.
type TargetTransform func(y []float64) []float64

// Built-in target transform names.
const (
	TransformOdds    = "odds"
	TransformLogOdds = "logodds"
)

// Odds maps probabilities to odds p/(1-p), clamping p into
// [clampEps, 1-clampEps] first.
func Odds(p []float64) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		v = errors.ClipValue(v, clampEps, 1-clampEps)
		out[i] = v / (1 - v)
	}
	return out
}

// LogOdds maps probabilities to the natural log of their odds.
func LogOdds(p []float64) []float64 {
	odds := Odds(p)
	for i, v := range odds {
		odds[i] = math.Log(v)
	}
	return odds
}

// ResolveTargetTransform maps a target transform name to its implementation.
// Unknown names are a ValidationError listing the supported transforms.
func ResolveTargetTransform(name string) (TargetTransform, error) {
	switch name {
	case TransformOdds:
		return Odds, nil
	case TransformLogOdds:
		return LogOdds, nil
	default:
		return nil, errors.NewValidationError("transform_y",
			"only supports the following target transforms: [odds logodds]", name)
	}
}

// DropNA removes positions where the selected sequence carries NaN, keeping
// x and y pairwise aligned. The returned slices are freshly allocated.
//
//	DropNA([1, 2, NaN], [1, 2, 3], AccordingX) => [1, 2], [1, 2]
func DropNA(x, y []float64, according According) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, errors.NewDimensionError("DropNA", len(x), len(y), 0)
	}
	var keep func(i int) bool
	switch according {
	case AccordingX:
		keep = func(i int) bool { return !math.IsNaN(x[i]) }
	case AccordingY:
		keep = func(i int) bool { return !math.IsNaN(y[i]) }
	case AccordingBoth:
		keep = func(i int) bool { return !math.IsNaN(x[i]) && !math.IsNaN(y[i]) }
	default:
		return nil, nil, errors.NewValidationError("according",
			"must be one of [x y both]", string(according))
	}

	xOut := make([]float64, 0, len(x))
	yOut := make([]float64, 0, len(y))
	for i := range x {
		if keep(i) {
			xOut = append(xOut, x[i])
			yOut = append(yOut, y[i])
		}
	}
	return xOut, yOut, nil
}

// AsPositiveRate reduces a binary-label pair to one point per bucket: the
// bucket's representative x value against the mean of y within the bucket.
//
// When the number of distinct x values does not exceed bins, every distinct
// value forms its own bucket and represents itself. Otherwise the x range is
// partitioned into bins equal-width intervals, represented by their left
// edge, right edge or midpoint per interval; empty intervals are skipped.
// An explicit cutoff sequence may be passed instead of a count via
// AsPositiveRateCutoffs.
//
// y must be strictly {0,1}-valued.
func AsPositiveRate(x, y []float64, bins int, interval IntervalValue) ([]float64, []float64, error) {
	if err := validateBinaryPair(x, y); err != nil {
		return nil, nil, err
	}

	// NA elimination runs after bucketing, so non-finite x may still be
	// present here; such positions cannot be assigned a bucket and are
	// excluded.
	x, y = filterFiniteX(x, y)
	if len(x) == 0 {
		return nil, nil, errors.NewValueError("AsPositiveRate", "no finite x values")
	}

	distinct := distinctSorted(x)
	if len(distinct) <= bins {
		return ratePerDistinct(x, y, distinct)
	}
	if bins < 1 {
		return nil, nil, errors.NewValidationError("bins",
			"must be a positive bucket count", bins)
	}

	lo := floats.Min(x)
	hi := floats.Max(x)
	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)
	return ratePerInterval(x, y, edges, interval)
}

// AsPositiveRateCutoffs is AsPositiveRate with explicit interval edges
// instead of an equal-width bucket count.
func AsPositiveRateCutoffs(x, y, cutoffs []float64, interval IntervalValue) ([]float64, []float64, error) {
	if err := validateBinaryPair(x, y); err != nil {
		return nil, nil, err
	}
	if len(cutoffs) < 2 {
		return nil, nil, errors.NewValidationError("bins",
			"cutoff sequence needs at least two edges", cutoffs)
	}
	if !sort.Float64sAreSorted(cutoffs) {
		return nil, nil, errors.NewValidationError("bins",
			"cutoff sequence must be sorted ascending", cutoffs)
	}
	return ratePerInterval(x, y, cutoffs, interval)
}

func validateBinaryPair(x, y []float64) error {
	if len(x) != len(y) {
		return errors.NewDimensionError("AsPositiveRate", len(x), len(y), 0)
	}
	if len(x) == 0 {
		return errors.NewValueError("AsPositiveRate", "empty data")
	}
	for _, v := range y {
		if v != 0 && v != 1 {
			return errors.NewValidationError("binary_label",
				"invalid binary label: y must contain only 0 and 1", v)
		}
	}
	return nil
}

func filterFiniteX(x, y []float64) ([]float64, []float64) {
	xOut := make([]float64, 0, len(x))
	yOut := make([]float64, 0, len(y))
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xOut = append(xOut, v)
		yOut = append(yOut, y[i])
	}
	return xOut, yOut
}

func distinctSorted(x []float64) []float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	distinct := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}
	return distinct
}

// ratePerDistinct treats each distinct x value as its own bucket.
func ratePerDistinct(x, y, distinct []float64) ([]float64, []float64, error) {
	sums := make(map[float64]float64, len(distinct))
	counts := make(map[float64]float64, len(distinct))
	for i, v := range x {
		sums[v] += y[i]
		counts[v]++
	}

	xOut := make([]float64, len(distinct))
	yOut := make([]float64, len(distinct))
	for i, v := range distinct {
		xOut[i] = v
		yOut[i] = sums[v] / counts[v]
	}
	return xOut, yOut, nil
}

// ratePerInterval buckets x by the half-open intervals [edge_i, edge_i+1)
// with the final interval closed on the right.
func ratePerInterval(x, y, edges []float64, interval IntervalValue) ([]float64, []float64, error) {
	if interval != IntervalLeft && interval != IntervalRight && interval != IntervalMean {
		return nil, nil, errors.NewValidationError("interval_value",
			"must be one of [left right mean]", string(interval))
	}

	nBuckets := len(edges) - 1
	sums := make([]float64, nBuckets)
	counts := make([]float64, nBuckets)
	for i, v := range x {
		b := bucketIndex(v, edges)
		if b < 0 {
			continue // outside the cutoff range
		}
		sums[b] += y[i]
		counts[b]++
	}

	xOut := make([]float64, 0, nBuckets)
	yOut := make([]float64, 0, nBuckets)
	for b := 0; b < nBuckets; b++ {
		if counts[b] == 0 {
			continue
		}
		var rep float64
		switch interval {
		case IntervalLeft:
			rep = edges[b]
		case IntervalRight:
			rep = edges[b+1]
		case IntervalMean:
			rep = (edges[b] + edges[b+1]) / 2
		}
		xOut = append(xOut, rep)
		yOut = append(yOut, sums[b]/counts[b])
	}
	return xOut, yOut, nil
}

func bucketIndex(v float64, edges []float64) int {
	if math.IsNaN(v) || v < edges[0] || v > edges[len(edges)-1] {
		return -1
	}
	// First edge strictly greater than v; the bucket is the interval to its
	// left. The top edge folds into the last interval.
	i := sort.Search(len(edges), func(j int) bool { return edges[j] > v })
	if i == len(edges) {
		return len(edges) - 2
	}
	return i - 1
}

// Options configures Preprocess. The zero value applies no step.
type Options struct {
	// BinaryLabel enables positive-rate bucketing of (x, y).
	BinaryLabel bool
	// Bins is the equal-width bucket count used when BinaryLabel is set.
	Bins int
	// Cutoffs, when non-nil, replaces Bins with explicit interval edges.
	Cutoffs []float64
	// IntervalValue selects the bucket representative (default midpoint).
	IntervalValue IntervalValue
	// TransformY names a built-in target transform ("odds", "logodds").
	TransformY string
	// TransformYFunc is a custom target transform; it takes precedence over
	// TransformY.
	TransformYFunc TargetTransform
	// IgnoreNA drops NaN-carrying positions after the other steps.
	IgnoreNA bool
	// According selects the sequence driving NA elimination (default x).
	According According
}

// Preprocess runs the fixed pipeline over a defensive copy of (x, y):
// bucketing, then target transform, then NA elimination. Configuration
// errors (unknown names, invalid interval values, non-binary labels) are
// returned before any fitting-related work happens downstream.
func Preprocess(x, y []float64, opts Options) (xOut, yOut []float64, err error) {
	defer errors.Recover(&err, "Preprocess")

	if len(x) != len(y) {
		return nil, nil, errors.NewDimensionError("Preprocess", len(x), len(y), 0)
	}

	xOut = append([]float64(nil), x...)
	yOut = append([]float64(nil), y...)

	if opts.BinaryLabel {
		interval := opts.IntervalValue
		if interval == "" {
			interval = IntervalMean
		}
		if opts.Cutoffs != nil {
			xOut, yOut, err = AsPositiveRateCutoffs(xOut, yOut, opts.Cutoffs, interval)
		} else {
			xOut, yOut, err = AsPositiveRate(xOut, yOut, opts.Bins, interval)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	switch {
	case opts.TransformYFunc != nil:
		yOut = opts.TransformYFunc(yOut)
		if len(yOut) != len(xOut) {
			return nil, nil, errors.NewDimensionError("Preprocess.transform_y", len(xOut), len(yOut), 0)
		}
	case opts.TransformY != "":
		fn, err := ResolveTargetTransform(opts.TransformY)
		if err != nil {
			return nil, nil, err
		}
		yOut = fn(yOut)
	}

	if opts.IgnoreNA {
		according := opts.According
		if according == "" {
			according = AccordingX
		}
		xOut, yOut, err = DropNA(xOut, yOut, according)
		if err != nil {
			return nil, nil, err
		}
	}

	return xOut, yOut, nil
}
