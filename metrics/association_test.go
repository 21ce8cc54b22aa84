package metrics

import (
	"math"
	"strings"
	"testing"

	"github.com/YuminosukeSato/linearize/pkg/errors"
)

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name      string
		x, y      []float64
		want      float64
		tolerance float64
	}{
		{
			name:      "perfect positive",
			x:         []float64{1, 2, 3, 4, 5},
			y:         []float64{2, 4, 6, 8, 10},
			want:      1.0,
			tolerance: 1e-12,
		},
		{
			name:      "perfect negative is absolute",
			x:         []float64{1, 2, 3, 4, 5},
			y:         []float64{10, 8, 6, 4, 2},
			want:      1.0,
			tolerance: 1e-12,
		},
		{
			name:      "partial association",
			x:         []float64{1, 2, 3},
			y:         []float64{1, 3, 2},
			want:      0.5,
			tolerance: 1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Correlation(tt.x, tt.y)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Correlation = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestRSquared(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{3, 5, 7, 9} // y = 2x + 1
	if got := RSquared(x, y); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("RSquared on exact line = %g, want 1", got)
	}

	// For simple OLS, r2 equals the squared Pearson correlation.
	x = []float64{1, 2, 3}
	y = []float64{1, 3, 2}
	if got := RSquared(x, y); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("RSquared = %g, want 0.25", got)
	}
}

// Degenerate input degrades to the statistic's own undefined value instead
// of panicking.
func TestDegenerateInput(t *testing.T) {
	constant := []float64{3, 3, 3, 3}
	varying := []float64{1, 2, 3, 4}

	if got := Correlation(constant, varying); !math.IsNaN(got) {
		t.Errorf("Correlation on constant x = %g, want NaN", got)
	}
	if got := RSquared(varying, constant); !math.IsNaN(got) {
		t.Errorf("RSquared on constant y = %g, want NaN", got)
	}
}

func TestResolve(t *testing.T) {
	for _, name := range []string{MetricCorr, MetricR2} {
		if _, err := Resolve(name); err != nil {
			t.Errorf("Resolve(%q) failed: %v", name, err)
		}
	}

	_, err := Resolve("mse")
	if err == nil {
		t.Fatal("Resolve of unknown metric should fail")
	}
	var validation *errors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "corr") || !strings.Contains(err.Error(), "r2") {
		t.Errorf("error should list supported metrics, got %q", err.Error())
	}
}

func TestWarnIfUndefined(t *testing.T) {
	var captured error
	errors.SetWarningHandler(func(w error) { captured = w })
	defer errors.SetWarningHandler(nil)

	score := WarnIfUndefined("corr", math.NaN())
	if !math.IsNaN(score) {
		t.Errorf("score should pass through unchanged, got %g", score)
	}
	var undefined *errors.UndefinedMetricWarning
	if captured == nil || !errors.As(captured, &undefined) {
		t.Errorf("expected UndefinedMetricWarning, got %v", captured)
	}

	captured = nil
	WarnIfUndefined("corr", 0.5)
	if captured != nil {
		t.Errorf("finite score should not warn, got %v", captured)
	}
}
