// Package regularize turns noisy or sparse strokes into smooth, densely
// resampled curves.
//
// In periodic mode (the default) the stroke is treated as a closed loop: an
// interpolating periodic cubic spline is fitted through the points and
// sampled uniformly over one full period, so the output starts and ends at
// the same point. In open mode a natural cubic spline is used instead.
//
// Regularization never fails loudly. Input it cannot handle is returned
// unchanged, with a Reason saying why.
package regularize

import (
	"errors"
	"fmt"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
	"github.com/ironsheep/shape-tools-mcp/internal/logging"
)

// MinPoints is the smallest stroke that is regularized.
const MinPoints = 4

// Status tells whether a curve was regularized.
type Status string

const (
	StatusRegularized Status = "regularized"
	StatusUnchanged   Status = "unchanged"
)

// Reason explains why a curve was left unchanged.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonTooFewPoints        Reason = "too_few_points"
	ReasonWrongDimensionality Reason = "wrong_dimensionality"
	ReasonNonNumeric          Reason = "non_numeric"
	ReasonFitFailed           Reason = "fit_failed"
)

// Result is the outcome of regularizing one stroke.
type Result struct {
	// Curve is the resampled curve, or the input when Status is Unchanged.
	Curve geom.Stroke `json:"curve"`

	Status Status `json:"status"`
	Reason Reason `json:"reason,omitempty"`

	// Message carries detail for fit failures.
	Message string `json:"message,omitempty"`
}

// Changed reports whether the curve was regularized.
func (r Result) Changed() bool {
	return r.Status == StatusRegularized
}

// Regularize fits a spline through s and resamples it to
// cfg.SplineSampleCount points.
//
// The input is returned unchanged (with a Reason) when it has fewer than
// MinPoints points, contains non-finite coordinates, or the fit fails:
// consecutive coincident points, fewer than three distinct knots, or a
// singular system.
func Regularize(s geom.Stroke, cfg config.Config) Result {
	if len(s) < MinPoints {
		return unchanged(s, ReasonTooFewPoints, nil)
	}
	if !s.IsFinite() {
		return unchanged(s, ReasonNonNumeric, nil)
	}

	var (
		curve geom.Stroke
		err   error
	)
	if cfg.SplinePeriodic {
		curve, err = fitPeriodic(s, cfg)
	} else {
		curve, err = fitOpen(s, cfg)
	}
	if err != nil {
		return unchanged(s, ReasonFitFailed, err)
	}
	return Result{Curve: curve, Status: StatusRegularized}
}

// RowsResult is the outcome of regularizing raw numeric rows.
type RowsResult struct {
	Rows    [][]float64 `json:"rows"`
	Status  Status      `json:"status"`
	Reason  Reason      `json:"reason,omitempty"`
	Message string      `json:"message,omitempty"`
}

// RegularizeRows regularizes a table of coordinate rows. Rows must each
// hold exactly two finite numbers; anything else is returned unchanged with
// the matching Reason.
func RegularizeRows(rows [][]float64, cfg config.Config) RowsResult {
	if len(rows) < MinPoints {
		logging.Logger().Warn("rows left unchanged", "reason", ReasonTooFewPoints, "rows", len(rows))
		return rowsUnchanged(rows, ReasonTooFewPoints, "")
	}
	s := make(geom.Stroke, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			msg := fmt.Sprintf("row %d has %d columns, want 2", i, len(row))
			logging.Logger().Warn("rows left unchanged", "reason", ReasonWrongDimensionality, "detail", msg)
			return rowsUnchanged(rows, ReasonWrongDimensionality, msg)
		}
		s[i] = geom.Pt(row[0], row[1])
	}

	res := Regularize(s, cfg)
	if !res.Changed() {
		return rowsUnchanged(rows, res.Reason, res.Message)
	}
	out := make([][]float64, len(res.Curve))
	for i, p := range res.Curve {
		out[i] = []float64{p.X, p.Y}
	}
	return RowsResult{Rows: out, Status: StatusRegularized}
}

func unchanged(s geom.Stroke, reason Reason, err error) Result {
	res := Result{Curve: s, Status: StatusUnchanged, Reason: reason}
	if err != nil {
		res.Message = err.Error()
	}
	logging.Logger().Warn("curve left unchanged", "reason", reason, "points", len(s), "error", err)
	return res
}

func rowsUnchanged(rows [][]float64, reason Reason, msg string) RowsResult {
	return RowsResult{Rows: rows, Status: StatusUnchanged, Reason: reason, Message: msg}
}

var (
	errCoincident   = errors.New("consecutive points coincide")
	errTooFewKnots  = errors.New("fewer than three distinct knots")
	errSingular     = errors.New("spline system is singular")
	errNonFiniteFit = errors.New("spline evaluation produced non-finite values")
)

// Hausdorff returns the symmetric Hausdorff distance between two curves.
func Hausdorff(a, b geom.Stroke) float64 {
	return geom.Hausdorff(a, b)
}
