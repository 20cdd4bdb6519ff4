package server

import (
	"encoding/json"
	"fmt"
	"image/png"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/detection"
	"github.com/ironsheep/shape-tools-mcp/internal/export"
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
	"github.com/ironsheep/shape-tools-mcp/internal/ingest"
	"github.com/ironsheep/shape-tools-mcp/internal/logging"
	"github.com/ironsheep/shape-tools-mcp/internal/regularize"
	"github.com/ironsheep/shape-tools-mcp/internal/symmetry"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "drawing_load", "shapes_classify").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logging.Logger().Warn("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	logging.Logger().Debug("tool finished", "tool", params.Name, "elapsed", time.Since(start))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Merges any "config" override onto the server tolerances
//  4. Loads drawings from cache or builds one from inline points
//  5. Calls the appropriate detection/symmetry/regularize/export function
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Drawings
	case "drawing_load":
		return s.handleDrawingLoad(args)
	case "image_extract_strokes":
		return s.handleImageExtractStrokes(args)

	// Classification
	case "shapes_classify":
		return s.handleShapesClassify(args)
	case "shape_check":
		return s.handleShapeCheck(args)

	// Symmetry
	case "symmetry_detect":
		return s.handleSymmetryDetect(args)
	case "symmetry_pairs":
		return s.handleSymmetryPairs(args)

	// Regularization
	case "curve_regularize":
		return s.handleCurveRegularize(args)

	// Export
	case "drawing_export_svg":
		return s.handleDrawingExportSVG(args)
	case "drawing_export_png":
		return s.handleDrawingExportPNG(args)
	case "svg_rasterize":
		return s.handleSVGRasterize(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
// An empty data string is left out of the error.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared argument helpers ===

// config returns the server tolerances with raw merged on top.
func (s *Server) config(raw json.RawMessage) (config.Config, error) {
	return s.cfg.Merge(raw)
}

// toStroke converts inline [x, y] pairs into a stroke.
func toStroke(points [][]float64) (geom.Stroke, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("points must contain at least one [x, y] pair")
	}
	s := make(geom.Stroke, len(points))
	for i, p := range points {
		if len(p) != 2 {
			return nil, fmt.Errorf("point %d has %d coordinates, want 2", i, len(p))
		}
		s[i] = geom.Pt(p[0], p[1])
	}
	return s, nil
}

// drawing resolves the common "path or points" argument pair: a cached
// drawing file when path is set, otherwise a single-stroke drawing.
func (s *Server) drawing(path string, points [][]float64) (geom.Drawing, error) {
	if path != "" {
		return s.cache.Load(path)
	}
	if len(points) == 0 {
		return geom.Drawing{}, fmt.Errorf("either path or points is required")
	}
	stroke, err := toStroke(points)
	if err != nil {
		return geom.Drawing{}, err
	}
	return geom.FromStrokes(stroke), nil
}

func regularized(d geom.Drawing, cfg config.Config) geom.Drawing {
	return d.Map(func(ref geom.StrokeRef) geom.Stroke {
		return regularize.Regularize(ref.Stroke, cfg).Curve
	})
}

// === Drawing Handlers ===

type drawingLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleDrawingLoad(args json.RawMessage) (interface{}, error) {
	var a drawingLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return s.cache.Info(a.Path)
}

type imageExtractStrokesArgs struct {
	Path             string  `json:"path"`
	Mode             string  `json:"mode"`
	BlurSigma        float64 `json:"blur_sigma"`
	ThresholdLow     int     `json:"threshold_low"`
	ThresholdHigh    int     `json:"threshold_high"`
	Level            int     `json:"level"`
	MinContourPoints int     `json:"min_contour_points"`
	ExternalOnly     *bool   `json:"external_only,omitempty"`
	OutputCSV        string  `json:"output_csv"`
	IncludePoints    bool    `json:"include_points"`
}

type imageExtractStrokesResult struct {
	Path      string              `json:"path"`
	Options   ingest.ImageOptions `json:"options"`
	Paths     int                 `json:"paths"`
	Strokes   int                 `json:"strokes"`
	Points    int                 `json:"points"`
	Bounds    geom.Rect           `json:"bounds"`
	OutputCSV string              `json:"output_csv,omitempty"`
	Drawing   *geom.Drawing       `json:"drawing,omitempty"`
}

func (s *Server) handleImageExtractStrokes(args json.RawMessage) (interface{}, error) {
	var a imageExtractStrokesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	opts := ingest.DefaultImageOptions()
	if a.Mode != "" {
		opts.Mode = ingest.Mode(a.Mode)
	}
	if a.BlurSigma != 0 {
		opts.BlurSigma = a.BlurSigma
	}
	if a.ThresholdLow != 0 {
		opts.ThresholdLow = a.ThresholdLow
	}
	if a.ThresholdHigh != 0 {
		opts.ThresholdHigh = a.ThresholdHigh
	}
	if a.Level != 0 {
		if a.Level < 0 || a.Level > 255 {
			return nil, fmt.Errorf("level must be between 0 and 255, got %d", a.Level)
		}
		opts.Level = uint8(a.Level)
	}
	if a.MinContourPoints != 0 {
		opts.MinContourPoints = a.MinContourPoints
	}
	if a.ExternalOnly != nil {
		opts.ExternalOnly = *a.ExternalOnly
	}

	img, err := ingest.LoadImage(a.Path)
	if err != nil {
		return nil, err
	}
	d, err := ingest.ExtractStrokes(img, opts)
	if err != nil {
		return nil, err
	}
	// Later tools given this path see the strokes traced with these options.
	s.cache.Store(a.Path, d)

	if a.OutputCSV != "" {
		if err := writeFile(a.OutputCSV, func(f *os.File) error {
			return ingest.WriteCSV(f, d)
		}); err != nil {
			return nil, err
		}
	}

	res := &imageExtractStrokesResult{
		Path:      a.Path,
		Options:   opts,
		Paths:     len(d.Paths),
		Strokes:   d.NumStrokes(),
		Points:    d.NumPoints(),
		Bounds:    d.Bounds(),
		OutputCSV: a.OutputCSV,
	}
	if a.IncludePoints {
		res.Drawing = &d
	}
	return res, nil
}

// === Classification Handlers ===

type shapesClassifyArgs struct {
	Path       string          `json:"path"`
	Points     [][]float64     `json:"points"`
	Config     json.RawMessage `json:"config,omitempty"`
	Symmetry   bool            `json:"symmetry"`
	Regularize bool            `json:"regularize"`
	Workers    int             `json:"workers"`
	TimeoutMS  int             `json:"timeout_ms"`
	Tag        string          `json:"tag"`
}

type shapesClassifyResult struct {
	Report  *detection.Report `json:"report"`
	Summary string            `json:"summary"`

	// Matches holds the items carrying the requested tag, if one was given.
	Matches []detection.Item `json:"matches,omitempty"`
}

func (s *Server) handleShapesClassify(args json.RawMessage) (interface{}, error) {
	var a shapesClassifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Workers == 0 {
		a.Workers = runtime.NumCPU()
	}
	if a.Tag != "" && !knownTag(detection.Tag(a.Tag)) {
		return nil, fmt.Errorf("unknown tag %q", a.Tag)
	}
	cfg, err := s.config(a.Config)
	if err != nil {
		return nil, err
	}
	d, err := s.drawing(a.Path, a.Points)
	if err != nil {
		return nil, err
	}

	opts := detection.Options{
		Symmetry:   a.Symmetry,
		Regularize: a.Regularize,
		Workers:    a.Workers,
	}

	done := make(chan *detection.Report, 1)
	go func() {
		done <- detection.ClassifyDrawing(d, cfg, opts)
	}()

	var report *detection.Report
	if a.TimeoutMS > 0 {
		select {
		case report = <-done:
		case <-time.After(time.Duration(a.TimeoutMS) * time.Millisecond):
			return nil, fmt.Errorf("classification did not finish within %dms", a.TimeoutMS)
		}
	} else {
		report = <-done
	}

	res := &shapesClassifyResult{Report: report, Summary: report.Summary()}
	if a.Tag != "" {
		res.Matches = report.Bucket(detection.Tag(a.Tag))
	}
	return res, nil
}

func knownTag(tag detection.Tag) bool {
	for _, t := range detection.AllTags() {
		if t == tag {
			return true
		}
	}
	return false
}

type shapeCheckArgs struct {
	Shape  string          `json:"shape"`
	Points [][]float64     `json:"points"`
	Config json.RawMessage `json:"config,omitempty"`
}

type shapeCheckResult struct {
	Shape detection.Tag `json:"shape"`
	Match bool          `json:"match"`
	Fit   detection.Fit `json:"fit"`
}

func (s *Server) handleShapeCheck(args json.RawMessage) (interface{}, error) {
	var a shapeCheckArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pred, ok := detection.PredicateFor(detection.Tag(a.Shape))
	if !ok {
		return nil, fmt.Errorf("unknown shape %q", a.Shape)
	}
	cfg, err := s.config(a.Config)
	if err != nil {
		return nil, err
	}
	stroke, err := toStroke(a.Points)
	if err != nil {
		return nil, err
	}

	fit, match := pred.Match(stroke, cfg)
	return &shapeCheckResult{Shape: pred.Tag, Match: match, Fit: fit}, nil
}

// === Symmetry Handlers ===

type symmetryDetectArgs struct {
	Path   string          `json:"path"`
	Points [][]float64     `json:"points"`
	Config json.RawMessage `json:"config,omitempty"`
}

type strokeSymmetry struct {
	Index     int             `json:"index"`
	PathID    int             `json:"path_id"`
	SubPathID int             `json:"subpath_id"`
	Symmetry  symmetry.Result `json:"symmetry"`
}

type symmetryDetectResult struct {
	Strokes []strokeSymmetry `json:"strokes"`

	// Symmetric counts strokes with at least one axis.
	Symmetric int `json:"symmetric"`
}

func (s *Server) handleSymmetryDetect(args json.RawMessage) (interface{}, error) {
	var a symmetryDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.config(a.Config)
	if err != nil {
		return nil, err
	}
	d, err := s.drawing(a.Path, a.Points)
	if err != nil {
		return nil, err
	}

	res := &symmetryDetectResult{Strokes: []strokeSymmetry{}}
	for i, ref := range d.Refs() {
		sym := symmetry.Detect(ref.Stroke, cfg)
		if len(sym.Axes) > 0 {
			res.Symmetric++
		}
		res.Strokes = append(res.Strokes, strokeSymmetry{
			Index:     i,
			PathID:    ref.PathID,
			SubPathID: ref.SubPathID,
			Symmetry:  sym,
		})
	}
	return res, nil
}

type symmetryPairsArgs struct {
	Points [][]float64 `json:"points"`

	// Kind picks one of the four standard axes through the centroid.
	Kind string `json:"kind"`

	// Axis is an arbitrary line; it wins over Kind.
	Axis *struct {
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		AngleDeg float64 `json:"angle_deg"`
	} `json:"axis,omitempty"`

	// Steps is the number of angles scanned when neither is given.
	Steps int `json:"steps"`
}

func (s *Server) handleSymmetryPairs(args json.RawMessage) (interface{}, error) {
	var a symmetryPairsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Steps == 0 {
		a.Steps = 180
	}
	stroke, err := toStroke(a.Points)
	if err != nil {
		return nil, err
	}

	switch {
	case a.Axis != nil:
		line := symmetry.Line{
			Point: geom.Pt(a.Axis.X, a.Axis.Y),
			Angle: a.Axis.AngleDeg * math.Pi / 180,
		}
		return symmetry.Pairs(stroke, line), nil
	case a.Kind != "":
		if !validKind(symmetry.Kind(a.Kind)) {
			return nil, fmt.Errorf("unknown axis kind %q", a.Kind)
		}
		axis := symmetry.Axis{Kind: symmetry.Kind(a.Kind), Center: stroke.Centroid()}
		return symmetry.Pairs(stroke, axis.Line()), nil
	default:
		return symmetry.BestAxis(stroke, a.Steps), nil
	}
}

func validKind(k symmetry.Kind) bool {
	for _, v := range symmetry.Kinds() {
		if v == k {
			return true
		}
	}
	return false
}

// === Regularization Handlers ===

type curveRegularizeArgs struct {
	Path   string          `json:"path"`
	Points [][]float64     `json:"points"`
	Config json.RawMessage `json:"config,omitempty"`
}

// curveRegularizeResult adds the Hausdorff distance between the input
// samples and the regularized curve.
type curveRegularizeResult struct {
	regularize.RowsResult
	Deviation float64 `json:"deviation,omitempty"`
}

// regularizedGroup is the result for one path/sub-path group of a file.
type regularizedGroup struct {
	PathID    int `json:"path_id"`
	SubPathID int `json:"sub_path_id"`
	curveRegularizeResult
}

type curveRegularizeFileResult struct {
	Path        string             `json:"path"`
	Regularized int                `json:"regularized"`
	Unchanged   int                `json:"unchanged"`
	Groups      []regularizedGroup `json:"groups"`
}

func (s *Server) handleCurveRegularize(args json.RawMessage) (interface{}, error) {
	var a curveRegularizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.config(a.Config)
	if err != nil {
		return nil, err
	}

	if a.Path != "" {
		groups, err := ingest.ReadRowsFile(a.Path)
		if err != nil {
			return nil, err
		}
		res := curveRegularizeFileResult{Path: a.Path, Groups: make([]regularizedGroup, len(groups))}
		for i, g := range groups {
			r := regularizeRows(g.Rows, cfg)
			if r.Status == regularize.StatusRegularized {
				res.Regularized++
			} else {
				res.Unchanged++
			}
			res.Groups[i] = regularizedGroup{PathID: g.PathID, SubPathID: g.SubPathID, curveRegularizeResult: r}
		}
		return res, nil
	}

	if a.Points == nil {
		a.Points = [][]float64{}
	}
	return regularizeRows(a.Points, cfg), nil
}

func regularizeRows(rows [][]float64, cfg config.Config) curveRegularizeResult {
	res := curveRegularizeResult{RowsResult: regularize.RegularizeRows(rows, cfg)}
	if res.Status != regularize.StatusRegularized {
		return res
	}
	// a regularized result implies every input row is an [x, y] pair
	in, err := toStroke(rows)
	if err != nil {
		return res
	}
	out, err := toStroke(res.Rows)
	if err != nil {
		return res
	}
	res.Deviation = regularize.Hausdorff(in, out)
	return res
}

// === Export Handlers ===

type drawingExportSVGArgs struct {
	Path        string          `json:"path"`
	Points      [][]float64     `json:"points"`
	Output      string          `json:"output"`
	Regularize  bool            `json:"regularize"`
	Fill        bool            `json:"fill"`
	StrokeWidth float64         `json:"stroke_width"`
	Palette     []string        `json:"palette"`
	Config      json.RawMessage `json:"config,omitempty"`
}

type exportResult struct {
	Output  string `json:"output"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Strokes int    `json:"strokes"`

	// Scale is the pixel magnification applied to PNG output.
	Scale int `json:"scale,omitempty"`
}

func (s *Server) handleDrawingExportSVG(args json.RawMessage) (interface{}, error) {
	var a drawingExportSVGArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output is required")
	}
	if a.StrokeWidth == 0 {
		a.StrokeWidth = 2
	}
	cfg, err := s.config(a.Config)
	if err != nil {
		return nil, err
	}
	d, err := s.drawing(a.Path, a.Points)
	if err != nil {
		return nil, err
	}
	if a.Regularize {
		d = regularized(d, cfg)
	}

	opts := export.DefaultSVGOptions()
	opts.CloseTol = cfg.CloseTol
	opts.Fill = a.Fill
	opts.StrokeWidth = a.StrokeWidth
	if len(a.Palette) > 0 {
		if opts.Palette, err = export.ParsePalette(a.Palette); err != nil {
			return nil, err
		}
	}

	if err := writeFile(a.Output, func(f *os.File) error {
		return export.WriteSVG(f, d, opts)
	}); err != nil {
		return nil, err
	}

	w, h := export.CanvasSize(d, opts.Padding)
	return &exportResult{Output: a.Output, Width: w, Height: h, Strokes: d.NumStrokes()}, nil
}

type drawingExportPNGArgs struct {
	Path            string          `json:"path"`
	Points          [][]float64     `json:"points"`
	Output          string          `json:"output"`
	Regularize      bool            `json:"regularize"`
	LineWidth       float64         `json:"line_width"`
	MinSize         int             `json:"min_size"`
	Grid            bool            `json:"grid"`
	GridSpacing     int             `json:"grid_spacing"`
	GridColor       string          `json:"grid_color"`
	ShowCoordinates bool            `json:"show_coordinates"`
	Palette         []string        `json:"palette"`
	Config          json.RawMessage `json:"config,omitempty"`
}

func (s *Server) handleDrawingExportPNG(args json.RawMessage) (interface{}, error) {
	var a drawingExportPNGArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output is required")
	}
	if a.LineWidth == 0 {
		a.LineWidth = 2
	}
	if a.MinSize == 0 {
		a.MinSize = 1024
	}
	if a.GridSpacing == 0 {
		a.GridSpacing = 50
	}
	if a.GridColor == "" {
		a.GridColor = "#FF0000"
	}
	cfg, err := s.config(a.Config)
	if err != nil {
		return nil, err
	}
	d, err := s.drawing(a.Path, a.Points)
	if err != nil {
		return nil, err
	}
	if a.Regularize {
		d = regularized(d, cfg)
	}

	opts := export.DefaultRasterOptions()
	opts.CloseTol = cfg.CloseTol
	opts.LineWidth = a.LineWidth
	opts.MinSize = a.MinSize
	opts.Grid = a.Grid
	opts.GridSpacing = a.GridSpacing
	opts.GridColor = a.GridColor
	opts.ShowCoordinates = a.ShowCoordinates
	if len(a.Palette) > 0 {
		if opts.Palette, err = export.ParsePalette(a.Palette); err != nil {
			return nil, err
		}
	}

	if err := writeFile(a.Output, func(f *os.File) error {
		return export.RenderPNG(f, d, opts)
	}); err != nil {
		return nil, err
	}

	w, h := export.CanvasSize(d, opts.Padding)
	scale := export.ScaleFactor(w, h, opts.MinSize)
	return &exportResult{
		Output:  a.Output,
		Width:   w * scale,
		Height:  h * scale,
		Strokes: d.NumStrokes(),
		Scale:   scale,
	}, nil
}

type svgRasterizeArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
	Width  int    `json:"width"`
}

func (s *Server) handleSVGRasterize(args json.RawMessage) (interface{}, error) {
	var a svgRasterizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" || a.Output == "" {
		return nil, fmt.Errorf("path and output are required")
	}

	in, err := os.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open svg: %w", err)
	}
	defer in.Close()

	if err := writeFile(a.Output, func(f *os.File) error {
		return export.RasterizeSVG(in, f, a.Width)
	}); err != nil {
		return nil, err
	}

	out, err := os.Open(a.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen output: %w", err)
	}
	defer out.Close()
	cfg, err := png.DecodeConfig(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read output: %w", err)
	}
	return &exportResult{Output: a.Output, Width: cfg.Width, Height: cfg.Height}, nil
}

// writeFile creates path and hands it to fn, removing the file again if
// fn fails.
func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}
