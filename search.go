package linearize

import (
	"github.com/YuminosukeSato/linearize/metrics"
	"github.com/YuminosukeSato/linearize/pkg/errors"
	"github.com/YuminosukeSato/linearize/pkg/log"
	"github.com/YuminosukeSato/linearize/transform"
)

// Candidate pairs a fitted transform with the metric score it achieved on
// the transformed data. Candidates exist only within one search invocation;
// the winning transform is what callers keep.
type Candidate struct {
	Score     float64
	Transform *transform.Transform
}

// SearchConfig configures FindBestTransformation. The zero value searches
// the default catalog with the "corr" metric, no minimum improvement, and
// fit warnings suppressed.
type SearchConfig struct {
	// Catalog lists the candidate shapes; nil means transform.DefaultCatalog.
	Catalog []transform.Shape

	// Metric names a built-in metric ("corr", "r2"). Empty means "corr".
	// Ignored when MetricFunc is set.
	Metric string

	// MetricFunc is a custom metric; it takes precedence over Metric.
	MetricFunc metrics.Metric

	// MinDelta is the minimum metric improvement over the untransformed
	// baseline a candidate must achieve to qualify.
	MinDelta float64

	// EmitWarnings surfaces per-candidate fit diagnostics (convergence
	// failures, ill-defined metrics) through the pkg/errors warning system.
	// Suppressed by default; the flag scopes emission to this search call
	// only, never globally.
	EmitWarnings bool
}

// FindBestTransformation fits every catalog shape to (x, y) by nonlinear
// least squares, scores each fitted transform with the metric, and returns
// the best candidate whose score exceeds baseline + MinDelta. Ties are
// broken by catalog declaration order (the earlier shape wins).
//
// A nil Candidate with a nil error means no transformation is needed: the
// baseline association was never beaten by the required margin. Candidates
// whose fit fails to converge or whose input fails domain validation are
// dropped silently; only configuration errors (an unknown metric name,
// mismatched sequence lengths) are returned as errors.
func FindBestTransformation(x, y []float64, cfg *SearchConfig) (best *Candidate, err error) {
	defer errors.Recover(&err, "FindBestTransformation")

	if cfg == nil {
		cfg = &SearchConfig{}
	}

	if len(x) != len(y) {
		return nil, errors.NewDimensionError("FindBestTransformation", len(x), len(y), 0)
	}
	if len(x) == 0 {
		return nil, errors.NewValueError("FindBestTransformation", "empty data")
	}

	metricName := cfg.Metric
	if metricName == "" {
		metricName = metrics.MetricCorr
	}
	metricFn := cfg.MetricFunc
	if metricFn == nil {
		metricFn, err = metrics.Resolve(metricName)
		if err != nil {
			return nil, err
		}
	} else {
		metricName = "custom"
	}

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = transform.DefaultCatalog()
	}

	// The baseline is the metric under no transformation.
	baseline := metricFn(x, y)
	if cfg.EmitWarnings {
		metrics.WarnIfUndefined(metricName, baseline)
	}

	logger := log.Logger()
	logger.Debug().
		Str("metric", metricName).
		Float64("baseline", baseline).
		Float64("min_delta", cfg.MinDelta).
		Int("catalog_size", len(catalog)).
		Msg("transformation search started")

	for _, shape := range catalog {
		if !shape.Validate(x) {
			logger.Debug().Str("shape", shape.Name).Msg("candidate rejected by domain validation")
			continue
		}

		outcome, fitErr := curveFit(shape, x, y)
		if fitErr != nil {
			// A terrible fit is data, not an error; drop the candidate and
			// keep scanning.
			if cfg.EmitWarnings {
				errors.Warn(fitErr)
			}
			logger.Debug().Str("shape", shape.Name).Err(fitErr).Msg("candidate dropped")
			continue
		}

		// Fresh instance per search, so fitted state never leaks across
		// columns or calls.
		cand := shape.New()
		if err := cand.SetParamVector([]float64{outcome.a, outcome.b}); err != nil {
			return nil, err
		}

		yHat, err := cand.Apply(x)
		if err != nil {
			return nil, err
		}

		score := metricFn(yHat, y)
		logger.Debug().
			Str("shape", shape.Name).
			Float64("score", score).
			Int("iterations", outcome.iterations).
			Msg("candidate fitted")

		if score > baseline+cfg.MinDelta {
			if best == nil || score > best.Score {
				best = &Candidate{Score: score, Transform: cand}
			}
		}
	}

	if best == nil {
		logger.Debug().Msg("no transformation needed")
	}
	return best, nil
}
