// Package server implements the MCP (Model Context Protocol) server for shape analysis tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the stroke
// classification, symmetry and curve regularization pipeline through the MCP
// protocol, so MCP clients can turn line drawings into tagged shapes and
// clean vector output.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Drawings:
//   - drawing_load: Load a CSV or image drawing and get counts and bounds
//   - image_extract_strokes: Trace image contours with custom options
//
// Classification:
//   - shapes_classify: Tag every stroke and bucket the results
//   - shape_check: Run a single shape predicate
//
// Symmetry:
//   - symmetry_detect: Axis symmetry through each stroke's centroid
//   - symmetry_pairs: Nearest-point pairing across any axis
//
// Regularization:
//   - curve_regularize: Periodic spline fit and dense resampling, for inline
//     rows or every path/sub-path group of a CSV file
//
// Export:
//   - drawing_export_svg: Write SVG
//   - drawing_export_png: Write PNG, optionally with a grid
//   - svg_rasterize: Convert an SVG file to PNG
//
// Tools that take a drawing accept either "path" (a file, loaded once and
// cached) or "points" (a single inline stroke of [x, y] pairs). Tools that
// use tolerances accept a "config" object whose fields override the server
// defaults for that call only.
//
// # Drawing Caching
//
// The server keeps every drawing it loads in memory, keyed by path, for the
// lifetime of the process. image_extract_strokes replaces the cached entry
// for its path, so later tools see the strokes traced with its options.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (invalid params),
//     -32601 (unknown method), -32600 (not a JSON-RPC 2.0 request) or
//     -32700 (line is not JSON, answered with a null id)
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Inputs the pipeline cannot interpret are not errors: strokes that match
// no predicate are "unclassified" and curves that cannot be fitted come back
// unchanged with a reason.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
