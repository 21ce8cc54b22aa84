package linearize

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/linearize/pkg/errors"
	"github.com/YuminosukeSato/linearize/transform"
)

const (
	// fitMaxIterations caps the Nelder-Mead iterations per candidate so one
	// badly conditioned shape cannot stall the whole catalog scan.
	fitMaxIterations = 500

	// fitCostCap is a large finite stand-in for non-finite residual sums, so
	// the simplex can move away from invalid regions (log of a negative
	// argument, exp overflow) instead of aborting on NaN.
	fitCostCap = 1e300
)

// fitOutcome is the solution of one nonlinear least-squares fit.
type fitOutcome struct {
	a, b       float64
	residual   float64
	iterations int
}

// curveFit estimates (a, b) for the shape by minimizing the residual sum of
// squares between shape.Eval(x, a, b) and y. The search starts from (1, 1)
// with no shape-specific initial guess. A fit that does not converge within
// the iteration caps, or that lands on non-finite parameters, is returned as
// an error; the caller treats that as candidate rejection, not failure.
func curveFit(shape transform.Shape, x, y []float64) (fitOutcome, error) {
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			var sse float64
			for i := range x {
				r := shape.Eval(x[i], p[0], p[1]) - y[i]
				sse += r * r
			}
			if math.IsNaN(sse) || math.IsInf(sse, 0) || sse > fitCostCap {
				return fitCostCap
			}
			return sse
		},
	}

	settings := &optimize.Settings{
		MajorIterations: fitMaxIterations,
		FuncEvaluations: 4 * fitMaxIterations,
	}

	result, err := optimize.Minimize(problem, []float64{1, 1}, settings, &optimize.NelderMead{})
	if err != nil {
		return fitOutcome{}, errors.Wrapf(err, "curve fit for %s", shape.Name)
	}

	switch result.Status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit, optimize.Failure:
		return fitOutcome{}, errors.WithStack(errors.NewConvergenceWarning(
			"NelderMead", result.Stats.MajorIterations, "curve fit for "+shape.Name))
	}

	if result.F >= fitCostCap {
		// The simplex never left the invalid region.
		return fitOutcome{}, errors.NewNumericalInstabilityError(
			"curve fit for "+shape.Name, []float64{result.F})
	}
	if err := errors.CheckNumericalStability("curve fit for "+shape.Name, result.X); err != nil {
		return fitOutcome{}, err
	}

	return fitOutcome{
		a:          result.X[0],
		b:          result.X[1],
		residual:   result.F,
		iterations: result.Stats.MajorIterations,
	}, nil
}
