package server

import (
	"testing"

	"github.com/ironsheep/shape-tools-mcp/internal/detection"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"drawing_load",
		"image_extract_strokes",
		"shapes_classify",
		"shape_check",
		"symmetry_detect",
		"symmetry_pairs",
		"curve_regularize",
		"drawing_export_svg",
		"drawing_export_png",
		"svg_rasterize",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	// Check all expected tools exist
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			// Name should not be empty
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}

			// Description should not be empty
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}

			// InputSchema should exist
			if tool.InputSchema == nil {
				t.Error("Tool InputSchema is nil")
			}

			// InputSchema should be an object type
			schemaType, ok := tool.InputSchema["type"]
			if !ok {
				t.Error("InputSchema missing 'type' field")
			}
			if schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			// InputSchema should have properties
			props, ok := tool.InputSchema["properties"]
			if !ok {
				t.Error("InputSchema missing 'properties' field")
			}
			if props == nil {
				t.Error("InputSchema properties is nil")
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := []struct {
		tool     string
		required []string
	}{
		{"drawing_load", []string{"path"}},
		{"image_extract_strokes", []string{"path"}},
		{"shape_check", []string{"shape", "points"}},
		{"symmetry_pairs", []string{"points"}},
		{"drawing_export_svg", []string{"output"}},
		{"drawing_export_png", []string{"output"}},
		{"svg_rasterize", []string{"path", "output"}},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			tool, ok := toolMap[tt.tool]
			if !ok {
				t.Fatalf("tool %s not found", tt.tool)
			}
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			if len(required) != len(tt.required) {
				t.Fatalf("required: got %v, want %v", required, tt.required)
			}
			for i := range required {
				if required[i] != tt.required[i] {
					t.Errorf("required[%d]: got %s, want %s", i, required[i], tt.required[i])
				}
			}
		})
	}
}

// Tools that accept a drawing take either a file or inline points, so
// neither can be required.
func TestToolDefinitions_PathOrPoints(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		props := tool.InputSchema["properties"].(map[string]interface{})
		_, hasPath := props["path"]
		_, hasPoints := props["points"]
		if !hasPath || !hasPoints {
			continue
		}

		t.Run(tool.Name, func(t *testing.T) {
			required, _ := tool.InputSchema["required"].([]string)
			for _, r := range required {
				if r == "path" || r == "points" {
					t.Errorf("%s should not require %s", tool.Name, r)
				}
			}
		})
	}
}

func TestToolDefinitions_ShapeCheckEnum(t *testing.T) {
	var tool Tool
	for _, tt := range GetToolDefinitions() {
		if tt.Name == "shape_check" {
			tool = tt
			break
		}
	}
	if tool.Name == "" {
		t.Fatal("shape_check tool not found")
	}

	props := tool.InputSchema["properties"].(map[string]interface{})
	shapeProp, ok := props["shape"].(map[string]interface{})
	if !ok {
		t.Fatal("shape property should exist and be a map")
	}
	enum, ok := shapeProp["enum"].([]string)
	if !ok {
		t.Fatal("shape should have enum")
	}

	// every predicate is reachable, and nothing else
	enumMap := make(map[string]bool)
	for _, e := range enum {
		enumMap[e] = true
	}
	for _, p := range detection.Predicates() {
		if !enumMap[string(p.Tag)] {
			t.Errorf("predicate %s not in enum", p.Tag)
		}
	}
	if len(enum) != len(detection.Predicates()) {
		t.Errorf("enum has %d entries, want %d", len(enum), len(detection.Predicates()))
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	tools, ok := result["tools"]
	if !ok {
		t.Fatal("Result should contain 'tools' key")
	}

	toolsList, ok := tools.([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	// Should match GetToolDefinitions
	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}

func TestToolStruct(t *testing.T) {
	tool := Tool{
		Name:        "test_tool",
		Description: "A test tool",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"param1": map[string]interface{}{
					"type":        "string",
					"description": "A test parameter",
				},
			},
			"required": []string{"param1"},
		},
	}

	if tool.Name != "test_tool" {
		t.Errorf("Name: got %s, want test_tool", tool.Name)
	}
	if tool.Description != "A test tool" {
		t.Errorf("Description: got %s, want 'A test tool'", tool.Description)
	}
	if tool.InputSchema == nil {
		t.Error("InputSchema should not be nil")
	}
}
