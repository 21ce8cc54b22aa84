// Package linearize discovers, per feature column, a parametric nonlinear
// transformation that maximizes the linear association between that feature
// and a target signal. It is a feature-engineering preprocessing step for
// linear or monotonic scoring models.
//
// # How it works
//
// For every candidate shape in a catalog (log, exp, power, absolute value,
// reciprocal families, each applied as f(a*x + b)), the search engine fits
// the free parameters a and b by nonlinear least squares against the target,
// scores the fitted curve with an association metric (absolute Pearson
// correlation or R²), and keeps the candidate only if it beats the
// untransformed baseline by a configurable margin. When no candidate
// qualifies the column is reported as already linear enough, which is a
// first-class outcome rather than an error.
//
// For binary targets, the preprocessing step buckets the feature and
// regresses against the positive rate per bucket, optionally through an odds
// or log-odds transform.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/linearize"
//	)
//
//	func main() {
//	    table := linearize.NewTable()
//	    _ = table.AddColumn("balance", []float64{120, 340, 560, 780, 910})
//	    y := []float64{0, 0, 1, 1, 1}
//
//	    lin := linearize.NewLinearizer(linearize.WithBins(5))
//	    if err := lin.Fit(table, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    out, err := lin.Transform(table)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(out)
//	}
//
// # Packages
//
//   - transform: the catalog of parametric transformation shapes
//   - metrics: association metrics (corr, r2)
//   - preprocessing: positive-rate bucketing, odds transforms, NA handling
//   - pkg/errors: structured errors and the warning system
//   - pkg/log: zerolog-based structured logging
package linearize
