package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Reusable schema fragments.
var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to a drawing: a CSV of path_id,subpath_id,x,y rows or a raster image",
	}

	pointsProperty = map[string]interface{}{
		"type":        "array",
		"description": "Inline stroke as a list of [x, y] pairs",
		"items": map[string]interface{}{
			"type":     "array",
			"items":    map[string]interface{}{"type": "number"},
			"minItems": 2,
			"maxItems": 2,
		},
	}

	configProperty = map[string]interface{}{
		"type":        "object",
		"description": "Tolerance overrides, e.g. {\"circle_radius_tol\": 0.08, \"spline_sample_count\": 500}. Omitted fields keep the server defaults.",
	}

	paletteProperty = map[string]interface{}{
		"type":        "array",
		"description": "Colours (#RRGGBB) cycled by path index. Defaults to blue, green, red, cyan, magenta, yellow, black.",
		"items":       map[string]interface{}{"type": "string"},
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Drawings
		{
			Name:        "drawing_load",
			Description: "Load a CSV drawing or trace a raster image into strokes, cache it, and return path, stroke and point counts with the bounding box.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_extract_strokes",
			Description: "Trace the contours of a raster image into strokes using edge detection or thresholding. The result replaces any cached drawing for the same path and can be written as CSV.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"edges", "threshold"},
						"description": "edges runs Canny edge detection; threshold treats dark pixels as ink (default: edges)",
					},
					"blur_sigma": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian blur sigma applied before edge detection (default: 1.4)",
					},
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Canny low threshold 0-255 (default: 50)",
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Canny high threshold 0-255 (default: 150)",
					},
					"level": map[string]interface{}{
						"type":        "integer",
						"description": "Threshold mode: intensity below which a pixel is ink (default: 128)",
					},
					"min_contour_points": map[string]interface{}{
						"type":        "integer",
						"description": "Drop contours with fewer boundary points (default: 10)",
					},
					"external_only": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop contours nested inside another contour (default: true)",
					},
					"output_csv": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the strokes as CSV",
					},
					"include_points": map[string]interface{}{
						"type":        "boolean",
						"description": "Return every traced point in the response (default: false)",
					},
				},
				"required": []string{"path"},
			},
		},

		// Classification
		{
			Name:        "shapes_classify",
			Description: "Classify every stroke of a drawing as rounded_rectangle, rectangle, ellipse, circle, star, polygon, line or unclassified. Returns per-stroke fits, tag buckets, counts and a text summary.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty,
					"points": pointsProperty,
					"config": configProperty,
					"symmetry": map[string]interface{}{
						"type":        "boolean",
						"description": "Attach the axis symmetry of every stroke (default: false)",
					},
					"regularize": map[string]interface{}{
						"type":        "boolean",
						"description": "Attach a spline-regularized curve for every stroke (default: false)",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Goroutines classifying strokes (default: number of CPUs)",
					},
					"timeout_ms": map[string]interface{}{
						"type":        "integer",
						"description": "Fail if classification takes longer than this many milliseconds (default: no limit)",
					},
					"tag": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rounded_rectangle", "rectangle", "ellipse", "circle", "star", "polygon", "line", "unclassified"},
						"description": "Also return the items carrying this tag as matches",
					},
				},
			},
		},
		{
			Name:        "shape_check",
			Description: "Test one stroke against a single shape predicate and return whether it matches along with the fitted parameters.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"shape": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rounded_rectangle", "rectangle", "ellipse", "circle", "star", "polygon", "line"},
						"description": "Predicate to run",
					},
					"points": pointsProperty,
					"config": configProperty,
				},
				"required": []string{"shape", "points"},
			},
		},

		// Symmetry
		{
			Name:        "symmetry_detect",
			Description: "Find vertical, horizontal and diagonal reflection axes through the centroid of each stroke.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty,
					"points": pointsProperty,
					"config": configProperty,
				},
			},
		},
		{
			Name:        "symmetry_pairs",
			Description: "Reflect a stroke across an axis and pair every point with its nearest original point. Without an axis, scans angles through the centroid and returns the best one.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsProperty,
					"kind": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"vertical", "horizontal", "diagonal_45", "diagonal_135"},
						"description": "Standard axis through the centroid",
					},
					"axis": map[string]interface{}{
						"type":        "object",
						"description": "Arbitrary axis through (x, y) at angle_deg counter-clockwise from +X; overrides kind",
						"properties": map[string]interface{}{
							"x":         map[string]interface{}{"type": "number"},
							"y":         map[string]interface{}{"type": "number"},
							"angle_deg": map[string]interface{}{"type": "number"},
						},
					},
					"steps": map[string]interface{}{
						"type":        "integer",
						"description": "Angles scanned when no axis is given (default: 180)",
					},
				},
				"required": []string{"points"},
			},
		},

		// Regularization
		{
			Name:        "curve_regularize",
			Description: "Fit a periodic cubic spline through noisy samples, inline or per group of a CSV file, and resample it densely, reporting the Hausdorff deviation from the input. Inputs that cannot be fitted come back unchanged with a reason.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a CSV of path_id,subpath_id,x,y rows; every path/sub-path group is regularized separately. Overrides points.",
					},
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Rows of coordinates; each row must hold exactly two numbers",
						"items": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "number"},
						},
					},
					"config": configProperty,
				},
			},
		},

		// Export
		{
			Name:        "drawing_export_svg",
			Description: "Write a drawing as SVG with one path per stroke, coloured by path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty,
					"points": pointsProperty,
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path of the SVG file to write",
					},
					"regularize": map[string]interface{}{
						"type":        "boolean",
						"description": "Replace every stroke by its regularized curve first (default: false)",
					},
					"fill": map[string]interface{}{
						"type":        "boolean",
						"description": "Fill paths instead of outlining them (default: false)",
					},
					"stroke_width": map[string]interface{}{
						"type":        "number",
						"description": "Outline width in drawing units (default: 2)",
					},
					"palette": paletteProperty,
					"config":  configProperty,
				},
				"required": []string{"output"},
			},
		},
		{
			Name:        "drawing_export_png",
			Description: "Render a drawing to PNG on a white background, scaled up so the short side reaches min_size pixels, with an optional coordinate grid.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty,
					"points": pointsProperty,
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path of the PNG file to write",
					},
					"regularize": map[string]interface{}{
						"type":        "boolean",
						"description": "Replace every stroke by its regularized curve first (default: false)",
					},
					"line_width": map[string]interface{}{
						"type":        "number",
						"description": "Line width in drawing units (default: 2)",
					},
					"min_size": map[string]interface{}{
						"type":        "integer",
						"description": "Target length in pixels of the shorter side; negative disables scaling (default: 1024)",
					},
					"grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Overlay a coordinate grid (default: false)",
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Grid spacing in drawing units (default: 50)",
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color as hex (default: #FF0000)",
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid intersections with drawing coordinates (default: false)",
					},
					"palette": paletteProperty,
					"config":  configProperty,
				},
				"required": []string{"output"},
			},
		},
		{
			Name:        "svg_rasterize",
			Description: "Render an SVG file to PNG on a white background.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the SVG file",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path of the PNG file to write",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Output width in pixels; height keeps the aspect ratio (default: the SVG width)",
					},
				},
				"required": []string{"path", "output"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
