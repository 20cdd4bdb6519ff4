package detection

import (
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

// Tag names the shape class assigned to a stroke.
type Tag string

// Shape tags, listed in classification priority order.
const (
	TagRoundedRectangle Tag = "rounded_rectangle"
	TagRectangle        Tag = "rectangle"
	TagEllipse          Tag = "ellipse"
	TagCircle           Tag = "circle"
	TagStar             Tag = "star"
	TagPolygon          Tag = "polygon"
	TagLine             Tag = "line"
	TagUnclassified     Tag = "unclassified"
)

// AllTags lists every tag in priority order, Unclassified last.
func AllTags() []Tag {
	return []Tag{
		TagRoundedRectangle,
		TagRectangle,
		TagEllipse,
		TagCircle,
		TagStar,
		TagPolygon,
		TagLine,
		TagUnclassified,
	}
}

// Label returns the plural display name used in summaries.
func (t Tag) Label() string {
	switch t {
	case TagRoundedRectangle:
		return "Rounded Rectangles"
	case TagRectangle:
		return "Rectangles"
	case TagEllipse:
		return "Ellipses"
	case TagCircle:
		return "Circles"
	case TagStar:
		return "Stars"
	case TagPolygon:
		return "Polygons"
	case TagLine:
		return "Lines"
	case TagUnclassified:
		return "Unclassified"
	}
	return string(t)
}

// LineFit describes a straight-line match.
type LineFit struct {
	// Start and End are the extreme projections of the stroke onto the line.
	Start geom.Point `json:"start"`
	End   geom.Point `json:"end"`

	// Length is the distance from Start to End.
	Length float64 `json:"length"`

	// AngleDegrees is the line direction in [0, 180).
	AngleDegrees float64 `json:"angle_degrees"`

	// MaxResidual is the largest point-to-line residual. It is vertical for
	// Method "ols" and perpendicular for Method "pca".
	MaxResidual float64 `json:"max_residual"`

	// Method is "ols" (y on x regression) or "pca" (total least squares).
	Method string `json:"method"`
}

// CircleFit describes a circle match.
type CircleFit struct {
	// Center is the centroid of the stroke.
	Center geom.Point `json:"center"`

	// Radius is the mean distance of the stroke points from Center.
	Radius float64 `json:"radius"`

	// MaxDeviation is the largest |distance - Radius| over the stroke.
	MaxDeviation float64 `json:"max_deviation"`
}

// EllipseFit describes an ellipse match.
type EllipseFit struct {
	Center geom.Point `json:"center"`

	// MajorAxis and MinorAxis are full axis lengths, not semi-axes.
	MajorAxis float64 `json:"major_axis"`
	MinorAxis float64 `json:"minor_axis"`

	// AngleDegrees is the direction of the major axis in [0, 180).
	AngleDegrees float64 `json:"angle_degrees"`

	// Residual is the largest normalized radial error |r - 1| of the
	// stroke points in the ellipse frame.
	Residual float64 `json:"residual"`
}

// QuadFit describes a rectangle or rounded rectangle match.
type QuadFit struct {
	// Corners are the four simplified vertices in stroke order.
	Corners []geom.Point `json:"corners"`

	// Sides[i] is the length from Corners[i] to Corners[i+1].
	Sides []float64 `json:"sides"`

	// Angles[i] is the interior angle at Corners[i] in degrees.
	Angles []float64 `json:"angles"`

	// CornerGaps[i] is the distance from the intersection of the side lines
	// meeting at corner i to the nearest stroke point. Sharp corners have a
	// gap near zero; rounded corners leave a visible gap.
	CornerGaps []float64 `json:"corner_gaps"`

	// Width and Height are the mean lengths of the two pairs of opposite
	// sides.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PolygonFit describes a polygon or star match.
type PolygonFit struct {
	// Vertices are the simplified vertices in stroke order.
	Vertices []geom.Point `json:"vertices"`

	// Centroid is the mean of Vertices.
	Centroid geom.Point `json:"centroid"`

	// MeanRadius is the mean vertex distance from Centroid.
	MeanRadius float64 `json:"mean_radius"`

	// OuterRadius and InnerRadius are the mean radii of the tip and valley
	// vertices. Only set for stars detected in alternation mode.
	OuterRadius float64 `json:"outer_radius,omitempty"`
	InnerRadius float64 `json:"inner_radius,omitempty"`
}

// Fit holds the parameters of whichever predicate matched. Exactly one
// field is set for a classified stroke; none for Unclassified.
type Fit struct {
	Line    *LineFit    `json:"line,omitempty"`
	Circle  *CircleFit  `json:"circle,omitempty"`
	Ellipse *EllipseFit `json:"ellipse,omitempty"`
	Quad    *QuadFit    `json:"quad,omitempty"`
	Polygon *PolygonFit `json:"polygon,omitempty"`
}

// Classification is the outcome of classifying one stroke.
type Classification struct {
	Tag Tag `json:"tag"`
	Fit Fit `json:"fit"`
}
