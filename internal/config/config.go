// Package config holds the tolerances that drive shape classification,
// symmetry detection and curve regularization. Every core call takes a
// Config value explicitly; there is no package-level state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parameterization selects how spline knots are spaced.
type Parameterization string

const (
	// ParamChord spaces knots by cumulative chord length.
	ParamChord Parameterization = "chord"
	// ParamIndex spaces knots uniformly by point index.
	ParamIndex Parameterization = "index"
)

// Range is a closed interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Config carries every tolerance used by the pipeline.
type Config struct {
	// Line
	LineResidualTol float64 `json:"line_residual_tol"`

	// Circle, relative to the mean radius
	CircleRadiusTol float64 `json:"circle_radius_tol"`

	// Ellipse; axis lengths are full lengths, not semi-axes
	EllipseMinAxis     float64 `json:"ellipse_min_axis"`
	EllipseAspectRange Range   `json:"ellipse_aspect_range"`
	EllipseFitTol      float64 `json:"ellipse_fit_tol"`

	// Polygon simplification and quadrilaterals
	SimplifyEpsilonFrac  float64 `json:"simplify_epsilon_frac"`
	RightAngleTolDeg     float64 `json:"right_angle_tol_deg"`
	RectSideTol          float64 `json:"rect_side_tol"`
	RoundedCornerGapFrac float64 `json:"rounded_corner_gap_frac"`

	// Polygon and star
	PolygonVertexCountMin  int     `json:"polygon_vertex_count_min"`
	StarVertexCountMin     int     `json:"star_vertex_count_min"`
	StarRadialTol          float64 `json:"star_radial_tol"`
	StarRequireAlternation bool    `json:"star_require_alternation"`

	// Symmetry grid cell size
	SymmetryRoundTolerance float64 `json:"symmetry_round_tolerance"`

	// Spline
	SplineSampleCount      int              `json:"spline_sample_count"`
	SplinePeriodic         bool             `json:"spline_periodic"`
	SplineParameterization Parameterization `json:"spline_parameterization"`

	// CloseTol is the distance under which first and last points of a
	// stroke count as the same point.
	CloseTol float64 `json:"close_tol"`
}

// Default returns the standard tolerances.
func Default() Config {
	return Config{
		LineResidualTol:        1e-2,
		CircleRadiusTol:        0.05,
		EllipseMinAxis:         15,
		EllipseAspectRange:     Range{Min: 0.5, Max: 2.0},
		EllipseFitTol:          0.05,
		SimplifyEpsilonFrac:    0.02,
		RightAngleTolDeg:       10,
		RectSideTol:            0.1,
		RoundedCornerGapFrac:   0.02,
		PolygonVertexCountMin:  5,
		StarVertexCountMin:     10,
		StarRadialTol:          0.2,
		StarRequireAlternation: true,
		SymmetryRoundTolerance: 1.0,
		SplineSampleCount:      1000,
		SplinePeriodic:         true,
		SplineParameterization: ParamChord,
		CloseTol:               1e-6,
	}
}

// Validate checks that every tolerance is usable.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"line_residual_tol", c.LineResidualTol},
		{"circle_radius_tol", c.CircleRadiusTol},
		{"ellipse_fit_tol", c.EllipseFitTol},
		{"simplify_epsilon_frac", c.SimplifyEpsilonFrac},
		{"right_angle_tol_deg", c.RightAngleTolDeg},
		{"rect_side_tol", c.RectSideTol},
		{"star_radial_tol", c.StarRadialTol},
		{"symmetry_round_tolerance", c.SymmetryRoundTolerance},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			return fmt.Errorf("%s must be positive, got %v", p.name, p.v)
		}
	}

	if c.EllipseMinAxis < 0 {
		return fmt.Errorf("ellipse_min_axis must not be negative, got %v", c.EllipseMinAxis)
	}
	if c.RoundedCornerGapFrac < 0 {
		return fmt.Errorf("rounded_corner_gap_frac must not be negative, got %v", c.RoundedCornerGapFrac)
	}
	if c.CloseTol < 0 {
		return fmt.Errorf("close_tol must not be negative, got %v", c.CloseTol)
	}
	if !(c.EllipseAspectRange.Min > 0) || c.EllipseAspectRange.Min > c.EllipseAspectRange.Max {
		return fmt.Errorf("ellipse_aspect_range must satisfy 0 < min <= max, got [%v, %v]",
			c.EllipseAspectRange.Min, c.EllipseAspectRange.Max)
	}
	if c.PolygonVertexCountMin < 3 {
		return fmt.Errorf("polygon_vertex_count_min must be at least 3, got %d", c.PolygonVertexCountMin)
	}
	if c.StarVertexCountMin < 3 {
		return fmt.Errorf("star_vertex_count_min must be at least 3, got %d", c.StarVertexCountMin)
	}
	if c.SplineSampleCount < 2 {
		return fmt.Errorf("spline_sample_count must be at least 2, got %d", c.SplineSampleCount)
	}
	switch c.SplineParameterization {
	case ParamChord, ParamIndex:
	default:
		return fmt.Errorf("spline_parameterization must be %q or %q, got %q",
			ParamChord, ParamIndex, c.SplineParameterization)
	}
	return nil
}

// Merge returns a copy of c with the fields present in raw overridden.
// An empty or null raw message returns c unchanged.
func (c Config) Merge(raw json.RawMessage) (Config, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return c, nil
	}
	out := c
	if err := json.Unmarshal(raw, &out); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}
	if err := out.Validate(); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}
	return out, nil
}

// LoadFile reads a JSON config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Default().Merge(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
