// Package detection classifies hand-drawn strokes as geometric shapes.
//
// A stroke is an ordered polyline (see package geom). Each stroke is tested
// against a fixed, ordered table of geometric predicates and tagged with the
// first one that matches. Predicates are pure functions of the stroke and an
// explicit [config.Config]; no state is kept between calls.
//
// # Shape Predicates
//
//   - Line: least-squares fit with a small maximum residual
//   - Circle: near-constant distance from the centroid
//   - Ellipse: algebraic conic fit that is a true, non-circular ellipse
//   - Rectangle: four simplified vertices with right angles and equal
//     opposite sides
//   - RoundedRectangle: a rectangle whose corners are cut by arcs
//   - Polygon: five or more simplified vertices that are not a star
//   - Star: many vertices alternating between an outer and an inner radius
//
// # Priority
//
// A stroke gets exactly one tag. The predicates are tried in this order
// and the first match wins:
//
//	RoundedRectangle, Rectangle, Ellipse, Circle, Star, Polygon, Line
//
// Strokes that match nothing are tagged Unclassified. The order lives in
// [Predicates] as data, so callers can inspect it.
//
// # Polygon Simplification
//
// Vertex-based predicates first reduce the closed stroke with
// Douglas-Peucker using an epsilon proportional to the closed perimeter
// (Config.SimplifyEpsilonFrac, 2% by default).
//
// # Coordinate System
//
// Coordinates are plain real numbers. Angles are reported in degrees,
// counter-clockwise from the +X axis in the coordinate frame of the input;
// for image-derived strokes (Y down) they read clockwise on screen.
//
// # Aggregation
//
// [ClassifyDrawing] classifies every stroke of a drawing, buckets the
// results by tag in input order, and can attach symmetry axes and
// regularized curves per stroke. With Options.Workers > 1 the strokes are
// processed by a bounded worker pool; the report order never changes.
//
// # Limitations
//
// Detection is only as good as the tolerances: strokes near a threshold may
// flip between neighbouring tags. Malformed strokes (too few points,
// non-finite coordinates) never cause errors; they simply match nothing.
package detection
