package linearize

import (
	"github.com/YuminosukeSato/linearize/metrics"
	"github.com/YuminosukeSato/linearize/preprocessing"
	"github.com/YuminosukeSato/linearize/transform"
)

// Option is a function that configures a Linearizer.
type Option func(*Linearizer)

// WithCols restricts fitting to the named columns. Default is all columns.
func WithCols(cols ...string) Option {
	return func(l *Linearizer) {
		l.cols = append([]string(nil), cols...)
	}
}

// WithBinaryLabel sets whether the target is a binary {0,1} label, enabling
// positive-rate bucketing during preprocessing. Default true.
func WithBinaryLabel(binary bool) Option {
	return func(l *Linearizer) {
		l.binaryLabel = binary
	}
}

// WithBins sets the bucket count for positive-rate bucketing. Default 30.
func WithBins(bins int) Option {
	return func(l *Linearizer) {
		l.bins = bins
	}
}

// WithCutoffs replaces the equal-width bucket count with explicit interval
// edges.
func WithCutoffs(cutoffs []float64) Option {
	return func(l *Linearizer) {
		l.cutoffs = append([]float64(nil), cutoffs...)
	}
}

// WithIntervalValue selects the bucket representative value. Default
// midpoint.
func WithIntervalValue(interval preprocessing.IntervalValue) Option {
	return func(l *Linearizer) {
		l.intervalValue = interval
	}
}

// WithTransformY applies a named target transform ("odds" or "logodds")
// during preprocessing.
func WithTransformY(name string) Option {
	return func(l *Linearizer) {
		l.transformY = name
	}
}

// WithTransformYFunc applies a custom target transform during preprocessing.
// Takes precedence over WithTransformY.
func WithTransformYFunc(fn preprocessing.TargetTransform) Option {
	return func(l *Linearizer) {
		l.transformYFunc = fn
	}
}

// WithTransformations sets the candidate shape catalog. Default
// transform.DefaultCatalog.
func WithTransformations(shapes []transform.Shape) Option {
	return func(l *Linearizer) {
		l.catalog = append([]transform.Shape(nil), shapes...)
	}
}

// WithMetric selects a built-in metric by name ("corr" or "r2"). Default
// "corr".
func WithMetric(name string) Option {
	return func(l *Linearizer) {
		l.metricName = name
	}
}

// WithMetricFunc supplies a custom metric. Takes precedence over WithMetric.
func WithMetricFunc(fn metrics.Metric) Option {
	return func(l *Linearizer) {
		l.metricFunc = fn
	}
}

// WithMinDelta sets the minimum metric improvement over baseline a candidate
// transform must achieve. Default 0.2.
func WithMinDelta(delta float64) Option {
	return func(l *Linearizer) {
		l.minDelta = delta
	}
}

// WithIgnoreNA sets whether NaN-carrying rows are dropped before fitting.
// Default true.
func WithIgnoreNA(ignore bool) Option {
	return func(l *Linearizer) {
		l.ignoreNA = ignore
	}
}

// WithAccording selects which sequence drives NA elimination. Default x.
func WithAccording(according preprocessing.According) Option {
	return func(l *Linearizer) {
		l.according = according
	}
}

// WithSuppressWarning sets whether numeric-fit warnings are silenced during
// Fit. Default true. Suppression is scoped to the fit calls themselves, not
// global warning handling.
func WithSuppressWarning(suppress bool) Option {
	return func(l *Linearizer) {
		l.suppressWarning = suppress
	}
}

// WithCopy sets whether Transform returns a new table rather than mutating
// its input in place. Default true.
func WithCopy(copyTable bool) Option {
	return func(l *Linearizer) {
		l.copyTable = copyTable
	}
}
