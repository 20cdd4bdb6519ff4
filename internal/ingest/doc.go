// Package ingest turns external data into drawings.
//
// Two sources are supported:
//
//   - Coordinate tables in CSV form, one point per row:
//     path id, sub-path id, x, y. Rows are grouped by path id and then by
//     sub-path id, both in ascending numeric order. Point order inside a
//     group follows the file. Blank lines and lines starting with '#' are
//     skipped.
//
//   - Raster images (PNG, JPEG, GIF, BMP, TIFF, WebP). Dark line art is
//     turned into a binary mask, either by Canny edge detection or by a
//     plain intensity threshold, and the outer boundary of each connected
//     blob of ink is traced into a closed stroke.
//
// # Image Coordinate System
//
// Traced strokes use pixel coordinates: origin (0,0) at the top-left
// corner, X increasing to the right and Y increasing downward. Each traced
// contour is closed by repeating its first point.
//
// # OpenCV
//
// Building with the "gocv" tag replaces the pure Go contour extraction with
// OpenCV (gocv.io/x/gocv). The options and results are the same, but the
// exact boundary pixels may differ slightly between the two.
//
// # Caching
//
// Cache keeps decoded drawings in memory keyed by file path, so repeated
// tool calls on the same file skip parsing and tracing.
package ingest
