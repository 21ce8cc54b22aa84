package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/linearize/pkg/errors"
)

func TestDropNA(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name      string
		x, y      []float64
		according According
		wantX     []float64
		wantY     []float64
	}{
		{
			name: "according x", x: []float64{1, 2, nan}, y: []float64{1, 2, 3},
			according: AccordingX, wantX: []float64{1, 2}, wantY: []float64{1, 2},
		},
		{
			name: "according y", x: []float64{1, 2, 3}, y: []float64{nan, 2, 3},
			according: AccordingY, wantX: []float64{2, 3}, wantY: []float64{2, 3},
		},
		{
			name: "according both", x: []float64{nan, 2, 3}, y: []float64{1, nan, 3},
			according: AccordingBoth, wantX: []float64{3}, wantY: []float64{3},
		},
		{
			name: "nothing to drop", x: []float64{1, 2}, y: []float64{3, 4},
			according: AccordingX, wantX: []float64{1, 2}, wantY: []float64{3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY, err := DropNA(tt.x, tt.y, tt.according)
			require.NoError(t, err)
			assert.Equal(t, tt.wantX, gotX)
			assert.Equal(t, tt.wantY, gotY)
		})
	}
}

func TestDropNAErrors(t *testing.T) {
	_, _, err := DropNA([]float64{1}, []float64{1, 2}, AccordingX)
	assert.Error(t, err, "length mismatch should fail")

	_, _, err = DropNA([]float64{1}, []float64{1}, According("rows"))
	var validation *errors.ValidationError
	require.True(t, errors.As(err, &validation), "unknown selector should be a ValidationError")
}

func TestOdds(t *testing.T) {
	got := Odds([]float64{0.5})
	require.Len(t, got, 1)
	assert.InDelta(t, 1.0, got[0], 1e-12)

	got = Odds([]float64{0.8})
	assert.InDelta(t, 4.0, got[0], 1e-12)

	// Clamping keeps the endpoints finite.
	got = Odds([]float64{0, 1})
	assert.False(t, math.IsInf(got[0], 0) || math.IsNaN(got[0]))
	assert.False(t, math.IsInf(got[1], 0) || math.IsNaN(got[1]))
}

func TestLogOdds(t *testing.T) {
	got := LogOdds([]float64{0.5})
	require.Len(t, got, 1)
	assert.InDelta(t, 0.0, got[0], 1e-12)

	got = LogOdds([]float64{0.25, 0.75})
	assert.InDelta(t, got[0], -got[1], 1e-9, "log-odds should be antisymmetric around 0.5")
}

func TestResolveTargetTransform(t *testing.T) {
	for _, name := range []string{TransformOdds, TransformLogOdds} {
		fn, err := ResolveTargetTransform(name)
		require.NoError(t, err)
		require.NotNil(t, fn)
	}

	_, err := ResolveTargetTransform("probit")
	var validation *errors.ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestAsPositiveRateDistinctValues(t *testing.T) {
	x := []float64{1, 1, 2, 2, 3, 3}
	y := []float64{0, 1, 0, 1, 1, 1}

	gotX, gotY, err := AsPositiveRate(x, y, 30, IntervalMean)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, gotX)
	assert.Equal(t, []float64{0.5, 0.5, 1.0}, gotY)
}

func TestAsPositiveRateEqualWidth(t *testing.T) {
	// Ten distinct values, two buckets: [0, 4.5) and [4.5, 9].
	x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	y := []float64{0, 0, 0, 0, 1, 1, 1, 1, 1, 1}

	gotX, gotY, err := AsPositiveRate(x, y, 2, IntervalMean)
	require.NoError(t, err)
	require.Len(t, gotX, 2)
	assert.InDelta(t, 2.25, gotX[0], 1e-12)
	assert.InDelta(t, 6.75, gotX[1], 1e-12)
	assert.InDelta(t, 0.2, gotY[0], 1e-12) // one positive among [0..4]
	assert.InDelta(t, 1.0, gotY[1], 1e-12)

	gotX, _, err = AsPositiveRate(x, y, 2, IntervalLeft)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, gotX[0], 1e-12)
	assert.InDelta(t, 4.5, gotX[1], 1e-12)

	gotX, _, err = AsPositiveRate(x, y, 2, IntervalRight)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, gotX[0], 1e-12)
	assert.InDelta(t, 9.0, gotX[1], 1e-12)
}

func TestAsPositiveRateSkipsEmptyBuckets(t *testing.T) {
	x := []float64{0, 0.1, 0.2, 9.8, 9.9, 10}
	y := []float64{0, 0, 1, 1, 1, 1}

	gotX, gotY, err := AsPositiveRate(x, y, 5, IntervalMean)
	require.NoError(t, err)
	require.Len(t, gotX, 2, "middle buckets are empty and skipped")
	assert.InDelta(t, 1.0/3.0, gotY[0], 1e-12)
	assert.InDelta(t, 1.0, gotY[1], 1e-12)
}

func TestAsPositiveRateErrors(t *testing.T) {
	_, _, err := AsPositiveRate([]float64{1, 2}, []float64{0, 0.5}, 10, IntervalMean)
	var validation *errors.ValidationError
	require.True(t, errors.As(err, &validation), "non-binary label should be a ValidationError")
	assert.Contains(t, err.Error(), "binary")

	_, _, err = AsPositiveRate([]float64{1, 2, 3}, []float64{0, 1, 0}, 2, IntervalValue("center"))
	require.True(t, errors.As(err, &validation), "bad interval_value should be a ValidationError")

	_, _, err = AsPositiveRate([]float64{1}, []float64{0, 1}, 10, IntervalMean)
	assert.Error(t, err, "length mismatch should fail")

	_, _, err = AsPositiveRate(nil, nil, 10, IntervalMean)
	assert.Error(t, err, "empty input should fail")
}

func TestAsPositiveRateCutoffs(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{0, 0, 1, 1, 1, 1}

	gotX, gotY, err := AsPositiveRateCutoffs(x, y, []float64{0, 3, 6}, IntervalMean)
	require.NoError(t, err)
	require.Len(t, gotX, 2)
	assert.InDelta(t, 1.5, gotX[0], 1e-12)
	assert.InDelta(t, 4.5, gotX[1], 1e-12)
	assert.InDelta(t, 0.0, gotY[0], 1e-12) // x in {1,2}
	assert.InDelta(t, 1.0, gotY[1], 1e-12) // x in {3,4,5,6}

	_, _, err = AsPositiveRateCutoffs(x, y, []float64{3}, IntervalMean)
	assert.Error(t, err, "single edge should fail")

	_, _, err = AsPositiveRateCutoffs(x, y, []float64{6, 0}, IntervalMean)
	assert.Error(t, err, "unsorted edges should fail")
}

func TestPreprocessPipeline(t *testing.T) {
	x := []float64{1, 1, 2, 2, 3, 3}
	y := []float64{0, 1, 0, 1, 1, 1}

	gotX, gotY, err := Preprocess(x, y, Options{
		BinaryLabel: true,
		Bins:        30,
		TransformY:  TransformOdds,
		IgnoreNA:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, gotX)
	// Rates {0.5, 0.5, 1.0} through odds; the clamped 1.0 becomes a huge
	// finite value.
	assert.InDelta(t, 1.0, gotY[0], 1e-12)
	assert.InDelta(t, 1.0, gotY[1], 1e-12)
	assert.False(t, math.IsInf(gotY[2], 0))
	assert.Greater(t, gotY[2], 1e10)
}

func TestPreprocessDefensiveCopy(t *testing.T) {
	nan := math.NaN()
	x := []float64{1, 2, nan}
	y := []float64{1, 2, 3}

	gotX, _, err := Preprocess(x, y, Options{IgnoreNA: true})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, gotX)

	// Inputs are untouched.
	assert.True(t, math.IsNaN(x[2]))
	assert.Equal(t, []float64{1, 2, 3}, y)
}

func TestPreprocessCustomTransformY(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{1, 2, 3}

	gotX, gotY, err := Preprocess(x, y, Options{
		TransformYFunc: func(y []float64) []float64 {
			out := make([]float64, len(y))
			for i, v := range y {
				out[i] = v * 10
			}
			return out
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, gotX)
	assert.Equal(t, []float64{10, 20, 30}, gotY)
}

func TestPreprocessConfigErrors(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{0, 1, 0}

	_, _, err := Preprocess(x, y, Options{TransformY: "probit"})
	assert.Error(t, err, "unknown target transform should fail")

	_, _, err = Preprocess(x, y, Options{BinaryLabel: true, Bins: 2, IntervalValue: "center"})
	assert.Error(t, err, "bad interval_value should fail")

	_, _, err = Preprocess([]float64{1}, []float64{1, 2}, Options{})
	assert.Error(t, err, "length mismatch should fail")
}

// The pipeline order is fixed: bucketing runs before NA elimination. With
// missing labels concentrated in one bucket the two orders disagree, so the
// order is load-bearing: bucketing first rejects the NaN label outright,
// while dropping NA first silently shrinks that bucket's sample.
func TestPreprocessOrderIsFixed(t *testing.T) {
	nan := math.NaN()
	x := []float64{1, 1, 2, 2, 3, 3}
	y := []float64{0, 1, 0, 1, 1, nan}

	// Fixed order: the NaN still counts as a label when bucketing runs, and
	// a NaN label is not binary.
	_, _, err := Preprocess(x, y, Options{
		BinaryLabel: true,
		Bins:        30,
		IgnoreNA:    true,
		According:   AccordingY,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binary")

	// Reversed order (NA elimination first) would have produced a different,
	// quietly biased result for the bucket at x=3.
	xd, yd, err := DropNA(x, y, AccordingY)
	require.NoError(t, err)
	gotX, gotY, err := AsPositiveRate(xd, yd, 30, IntervalMean)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, gotX)
	assert.Equal(t, []float64{0.5, 0.5, 1.0}, gotY)
}
