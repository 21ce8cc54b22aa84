// Package transform provides the catalog of parametric single-variable
// transformations used to linearize the relationship between a feature and a
// target. Every shape evaluates f(a*x + b) for two free parameters a (scale)
// and b (shift); the shape family is a closed tagged variant dispatched in
// one place rather than an open class hierarchy.
package transform

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/linearize/pkg/errors"
)

// epsilon guards reciprocal-power shapes against division by exact zero.
const epsilon = 1e-15

// Kind enumerates the transformation families in the catalog.
type Kind int

const (
	// KindAbs is |a*x + b|.
	KindAbs Kind = iota
	// KindLog is log_base(a*x + b).
	KindLog
	// KindExp is exp(a*x + b).
	KindExp
	// KindPower is (a*x + b)^n, or 1/((a*x+b)^-n + eps) for n <= 0.
	KindPower
)

// Shape describes one transformation in the catalog: a family tag plus the
// constant that specializes it (log base or power exponent). Shapes are
// immutable values; fitted parameters live on Transform.
type Shape struct {
	Name     string
	Kind     Kind
	Base     float64 // log base, KindLog only
	Exponent float64 // power exponent, KindPower only
}

// Built-in shapes. Log2, Log10 and Power4 are available but not part of the
// default catalog.
var (
	Abs       = Shape{Name: "Abs", Kind: KindAbs}
	Loge      = Shape{Name: "Loge", Kind: KindLog, Base: math.E}
	Log2      = Shape{Name: "Log2", Kind: KindLog, Base: 2}
	Log10     = Shape{Name: "Log10", Kind: KindLog, Base: 10}
	Exp       = Shape{Name: "Exp", Kind: KindExp}
	Power2    = Shape{Name: "Power2", Kind: KindPower, Exponent: 2}
	Power3    = Shape{Name: "Power3", Kind: KindPower, Exponent: 3}
	Power4    = Shape{Name: "Power4", Kind: KindPower, Exponent: 4}
	Sqrt      = Shape{Name: "Sqrt", Kind: KindPower, Exponent: 0.5}
	Inv       = Shape{Name: "Inv", Kind: KindPower, Exponent: -1}
	InvPower2 = Shape{Name: "InvPower2", Kind: KindPower, Exponent: -2}
)

// DefaultCatalog returns the default candidate shapes in declaration order.
// The slice is freshly allocated on every call so callers can reorder or
// trim it without affecting other searches.
func DefaultCatalog() []Shape {
	return []Shape{Abs, Loge, Exp, Power2, Power3, Sqrt, Inv, InvPower2}
}

// Eval evaluates the shape at x with parameters a and b.
func (s Shape) Eval(x, a, b float64) float64 {
	u := a*x + b
	switch s.Kind {
	case KindAbs:
		return math.Abs(u)
	case KindLog:
		return math.Log(u) / math.Log(s.Base)
	case KindExp:
		return math.Exp(u)
	case KindPower:
		if s.Exponent > 0 {
			return math.Pow(u, s.Exponent)
		}
		return 1 / (math.Pow(u, -s.Exponent) + epsilon)
	default:
		return math.NaN()
	}
}

// Validate reports whether x is acceptable input for fitting this shape.
// Every element must be finite.
func (s Shape) Validate(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ParamNames returns the names of the free parameters, in the order the
// fitting routine produces them. The parameter set is fixed and small, so it
// is declared statically instead of discovered by reflection.
func (s Shape) ParamNames() []string {
	return []string{"a", "b"}
}

// New returns a fresh unfitted Transform of this shape.
func (s Shape) New() *Transform {
	return &Transform{shape: s}
}

// Transform is a catalog shape together with its fitted parameters. A fresh
// instance is created per search attempt; the search engine assigns
// parameters exactly once on successful convergence, and the instance is
// read-only afterward.
type Transform struct {
	shape  Shape
	a, b   float64
	fitted bool
}

// Shape returns the underlying shape descriptor.
func (t *Transform) Shape() Shape {
	return t.shape
}

// Name returns the shape name, e.g. "Loge".
func (t *Transform) Name() string {
	return t.shape.Name
}

// SetParams binds fitted parameter values by name. Missing parameter names
// are a ValidationError.
func (t *Transform) SetParams(params map[string]float64) error {
	a, okA := params["a"]
	b, okB := params["b"]
	if !okA || !okB {
		return errors.NewValidationError("params",
			fmt.Sprintf("expected parameters %v", t.shape.ParamNames()), params)
	}
	t.setParams(a, b)
	return nil
}

// SetParamVector binds a raw fitted coefficient vector, mapping values to
// parameters in ParamNames order. This is how the search engine hands the
// least-squares solution back to the transform.
func (t *Transform) SetParamVector(values []float64) error {
	names := t.shape.ParamNames()
	if len(values) != len(names) {
		return errors.NewDimensionError(t.String()+".SetParamVector", len(names), len(values), 1)
	}
	params := make(map[string]float64, len(names))
	for i, name := range names {
		params[name] = values[i]
	}
	return t.SetParams(params)
}

// setParams binds the fitted coefficient vector directly.
func (t *Transform) setParams(a, b float64) {
	t.a = a
	t.b = b
	t.fitted = true
}

// IsFitted returns whether parameters have been set.
func (t *Transform) IsFitted() bool {
	return t.fitted
}

// Params returns the fitted parameters keyed by name.
func (t *Transform) Params() (map[string]float64, error) {
	if !t.fitted {
		return nil, errors.NewNotFittedError(t.String(), "Params")
	}
	return map[string]float64{"a": t.a, "b": t.b}, nil
}

// Apply evaluates the transform over x with the stored parameters. It is a
// pure function of x and the parameters and returns a new slice. Calling
// Apply before SetParams is a NotFittedError.
func (t *Transform) Apply(x []float64) ([]float64, error) {
	if !t.fitted {
		return nil, errors.NewNotFittedError(t.String(), "Apply")
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = t.shape.Eval(v, t.a, t.b)
	}
	return out, nil
}

// String returns a repr-style description, e.g. "Transform<Loge>".
func (t *Transform) String() string {
	return fmt.Sprintf("Transform<%s>", t.shape.Name)
}
