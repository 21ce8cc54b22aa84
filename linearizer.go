package linearize

import (
	"fmt"

	"github.com/YuminosukeSato/linearize/core/model"
	"github.com/YuminosukeSato/linearize/metrics"
	"github.com/YuminosukeSato/linearize/pkg/errors"
	"github.com/YuminosukeSato/linearize/pkg/log"
	"github.com/YuminosukeSato/linearize/preprocessing"
	"github.com/YuminosukeSato/linearize/transform"
)

// Linearizer finds and applies a per-column linearizing transformation. It
// follows the fit/transform estimator convention: Fit learns the best
// transformation for every declared column, Transform applies the stored
// transformations to new data. Transform before Fit is a NotFittedError.
//
// At inference time only the fitted transformations run; the preprocessing
// used during fitting (bucketing, target transforms, NA dropping) depends on
// batch statistics and is never replayed on new data.
type Linearizer struct {
	state *model.StateManager

	// Configuration (set at construction, read-only afterward).
	cols            []string
	binaryLabel     bool
	bins            int
	cutoffs         []float64
	intervalValue   preprocessing.IntervalValue
	transformY      string
	transformYFunc  preprocessing.TargetTransform
	catalog         []transform.Shape
	metricName      string
	metricFunc      metrics.Metric
	minDelta        float64
	ignoreNA        bool
	according       preprocessing.According
	suppressWarning bool
	copyTable       bool

	// Fitted state: column name to its winning transform, or nil for the
	// explicit "no transformation needed" outcome. Populated by one Fit
	// pass, never mutated by Transform.
	transformations map[string]*transform.Transform
	fittedCols      []string
}

// NewLinearizer creates a Linearizer. Defaults: all columns, binary label
// with 30 midpoint-represented buckets, no target transform, default shape
// catalog, "corr" metric with a 0.2 minimum improvement, NaN rows dropped
// according to x, fit warnings suppressed, and copy-on-transform.
func NewLinearizer(opts ...Option) *Linearizer {
	l := &Linearizer{
		state:           model.NewStateManager(),
		binaryLabel:     true,
		bins:            30,
		intervalValue:   preprocessing.IntervalMean,
		metricName:      metrics.MetricCorr,
		minDelta:        0.2,
		ignoreNA:        true,
		according:       preprocessing.AccordingX,
		suppressWarning: true,
		copyTable:       true,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Fit learns, for every declared column of the table, the transformation
// that best linearizes its relationship with y, or records that none is
// needed. Configuration errors (unknown metric or target-transform names,
// invalid bucketing settings, a non-binary label when binary_label is set)
// surface immediately; per-candidate fit failures never do.
func (l *Linearizer) Fit(table *Table, y []float64) error {
	if table == nil || table.NumCols() == 0 {
		return errors.NewValueError("Linearizer.Fit", "empty table")
	}
	if table.NumRows() != len(y) {
		return errors.NewDimensionError("Linearizer.Fit", table.NumRows(), len(y), 0)
	}

	cols := l.cols
	if len(cols) == 0 {
		cols = table.Columns()
	}

	logger := log.Logger()
	transformations := make(map[string]*transform.Transform, len(cols))
	for _, col := range cols {
		if !table.HasColumn(col) {
			return errors.NewValueError("Linearizer.Fit",
				fmt.Sprintf("no column %q", col))
		}

		x, yCol, err := preprocessing.Preprocess(table.column(col), y, preprocessing.Options{
			BinaryLabel:    l.binaryLabel,
			Bins:           l.bins,
			Cutoffs:        l.cutoffs,
			IntervalValue:  l.intervalValue,
			TransformY:     l.transformY,
			TransformYFunc: l.transformYFunc,
			IgnoreNA:       l.ignoreNA,
			According:      l.according,
		})
		if err != nil {
			return errors.Wrapf(err, "preprocessing column %q", col)
		}

		cand, err := FindBestTransformation(x, yCol, &SearchConfig{
			Catalog:      l.catalog,
			Metric:       l.metricName,
			MetricFunc:   l.metricFunc,
			MinDelta:     l.minDelta,
			EmitWarnings: !l.suppressWarning,
		})
		if err != nil {
			return errors.Wrapf(err, "searching transformations for column %q", col)
		}

		if cand != nil {
			transformations[col] = cand.Transform
			logger.Debug().
				Str("column", col).
				Stringer("transform", cand.Transform).
				Float64("score", cand.Score).
				Msg("column fitted")
		} else {
			transformations[col] = nil
			logger.Debug().Str("column", col).Msg("column unchanged")
		}
	}

	l.transformations = transformations
	l.fittedCols = append([]string(nil), cols...)
	l.state.SetDimensions(len(cols), table.NumRows())
	l.state.SetFitted()
	return nil
}

// Transform applies the fitted transformations to the raw column values of
// the table. Columns mapped to "no transformation needed" pass through
// unchanged. With copy enabled (the default) the input table is left intact
// and a new table is returned; otherwise the input is mutated and returned.
func (l *Linearizer) Transform(table *Table) (*Table, error) {
	if err := l.state.RequireFitted("Linearizer", "Transform"); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, errors.NewValueError("Linearizer.Transform", "nil table")
	}

	out := table
	if l.copyTable {
		out = table.Clone()
	}

	for _, col := range l.fittedCols {
		trf := l.transformations[col]
		if trf == nil {
			continue
		}
		if !out.HasColumn(col) {
			return nil, errors.NewValueError("Linearizer.Transform",
				fmt.Sprintf("no column %q", col))
		}
		values, err := trf.Apply(out.column(col))
		if err != nil {
			return nil, errors.Wrapf(err, "applying %s to column %q", trf, col)
		}
		if err := out.SetColumn(col, values); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// FitTransform fits the linearizer and transforms the same table.
func (l *Linearizer) FitTransform(table *Table, y []float64) (*Table, error) {
	if err := l.Fit(table, y); err != nil {
		return nil, err
	}
	return l.Transform(table)
}

// IsFitted returns whether Fit has completed.
func (l *Linearizer) IsFitted() bool {
	return l.state.IsFitted()
}

// Transformation returns the fitted transform for a column. The transform is
// nil when the column was fitted but needs no transformation; ok is false
// when the column was not part of the fit (or Fit has not run).
func (l *Linearizer) Transformation(col string) (trf *transform.Transform, ok bool) {
	trf, ok = l.transformations[col]
	return trf, ok
}

// Transformations returns a snapshot of the per-column mapping. Nil values
// mark columns that need no transformation.
func (l *Linearizer) Transformations() map[string]*transform.Transform {
	out := make(map[string]*transform.Transform, len(l.transformations))
	for col, trf := range l.transformations {
		out[col] = trf
	}
	return out
}

// String summarizes the configuration and fit state.
func (l *Linearizer) String() string {
	if !l.IsFitted() {
		return fmt.Sprintf("Linearizer(metric=%s, min_delta=%g, bins=%d)",
			l.metricName, l.minDelta, l.bins)
	}
	return fmt.Sprintf("Linearizer(metric=%s, min_delta=%g, bins=%d, n_columns=%d)",
		l.metricName, l.minDelta, l.bins, len(l.fittedCols))
}
