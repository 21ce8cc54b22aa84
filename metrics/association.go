// Package metrics provides the scalar association metrics used to score how
// linear the relationship between a feature and the target is. A metric
// compares two equal-length sequences and returns a scalar where larger is
// better.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/linearize/pkg/errors"
)

// Metric scores the association between two equal-length sequences.
// Implementations must not panic on degenerate input such as a constant
// sequence; they return the underlying statistic's own degenerate value
// (typically NaN) instead.
type Metric func(x, y []float64) float64

// Built-in metric names.
const (
	MetricCorr = "corr"
	MetricR2   = "r2"
)

// builtins maps metric names to implementations. Iteration order is not
// relied on; supportedNames keeps the user-facing listing stable.
var builtins = map[string]Metric{
	MetricCorr: Correlation,
	MetricR2:   RSquared,
}

var supportedNames = []string{MetricCorr, MetricR2}

// Correlation returns the absolute Pearson correlation coefficient between
// x and y. A constant sequence yields NaN.
func Correlation(x, y []float64) float64 {
	return math.Abs(stat.Correlation(x, y, nil))
}

// RSquared returns the coefficient of determination of a simple ordinary
// least-squares regression of y on x. For simple regression this equals the
// squared Pearson correlation. A constant sequence yields NaN.
func RSquared(x, y []float64) float64 {
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return stat.RSquared(x, y, nil, alpha, beta)
}

// Resolve maps a metric name to its implementation. Unknown names are a
// ValidationError listing the supported metrics.
func Resolve(name string) (Metric, error) {
	if m, ok := builtins[name]; ok {
		return m, nil
	}
	return nil, errors.NewValidationError("metric",
		fmt.Sprintf("only supports the following metrics: %v", supportedNames), name)
}

// WarnIfUndefined raises an UndefinedMetricWarning when a computed score is
// NaN, which happens when either sequence is constant. The score is passed
// through unchanged; degenerate scores simply never beat a finite baseline.
func WarnIfUndefined(name string, score float64) float64 {
	if math.IsNaN(score) {
		errors.Warn(errors.NewUndefinedMetricWarning(name, "zero variance input", score))
	}
	return score
}
