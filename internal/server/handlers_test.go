package server

import (
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/image-ops-mcp/internal/config"
	"github.com/ironsheep/image-ops-mcp/internal/geometry"
	"github.com/ironsheep/image-ops-mcp/internal/imaging"
	"github.com/ironsheep/image-ops-mcp/internal/logging"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.CreateTemp(t.TempDir(), "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	return f.Name()
}

// callTool runs a tools/call request through handleRequest
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{"name": name, "arguments": args}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unmarshals the text content of a successful tool call
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content should hold one entry, got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

// decodeImage decodes an inline ImageResult payload
func decodeImage(t *testing.T, r imaging.ImageResult) *imaging.Image {
	t.Helper()

	data, err := base64.StdEncoding.DecodeString(r.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := imaging.Decode(data)
	if err != nil {
		t.Fatalf("failed to decode image: %v", err)
	}
	return img
}

func expectError(t *testing.T, resp *MCPResponse, code int) {
	t.Helper()
	if resp.Error == nil {
		t.Fatalf("expected error %d, got result %v", code, resp.Result)
	}
	if resp.Error.Code != code {
		t.Errorf("Error code: got %d, want %d (%v)", resp.Error.Code, code, resp.Error.Data)
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info imaging.ImageInfo
	decodeToolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	var dims imaging.DimensionsResult
	decodeToolResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}), &dims)

	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

type resizeResponse struct {
	Output imaging.ImageResult `json:"output"`
	Plan   *struct {
		Src struct {
			X, Y, Width, Height int
		} `json:"src"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"plan"`
	NoOp bool `json:"no_op"`
}

func TestHandleToolsCall_ImageResize(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 200, 100, color.White)

	tests := []struct {
		name          string
		args          map[string]interface{}
		width, height int
		noOp          bool
	}{
		{"width only", map[string]interface{}{"width": 100}, 100, 50, false},
		{"contain", map[string]interface{}{"width": 100, "height": 100}, 100, 50, false},
		{"cover", map[string]interface{}{"width": 100, "height": 100, "mode": "cover"}, 100, 100, false},
		{"exact", map[string]interface{}{"width": 10, "height": 10, "mode": "exact", "filter": "nearest"}, 10, 10, false},
		{"no increase", map[string]interface{}{"width": 400}, 200, 100, true},
		{"increase", map[string]interface{}{"width": 400, "allow_increase": true}, 400, 200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = imgPath

			var r resizeResponse
			decodeToolResult(t, callTool(t, s, "image_resize", tt.args), &r)

			if r.Output.Width != tt.width || r.Output.Height != tt.height {
				t.Errorf("dimensions: got %dx%d, want %dx%d", r.Output.Width, r.Output.Height, tt.width, tt.height)
			}
			if r.NoOp != tt.noOp {
				t.Errorf("NoOp: got %v, want %v", r.NoOp, tt.noOp)
			}
			img := decodeImage(t, r.Output)
			if img.Width() != tt.width || img.Height() != tt.height {
				t.Errorf("decoded dimensions: got %dx%d", img.Width(), img.Height())
			}
		})
	}
}

func TestHandleToolsCall_ImageResize_CoverPlan(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 200, 100, color.White)

	var r resizeResponse
	decodeToolResult(t, callTool(t, s, "image_resize", map[string]interface{}{
		"path": imgPath, "width": 100, "height": 100, "mode": "cover", "align_x": 0,
	}), &r)

	if r.Plan == nil {
		t.Fatal("expected a plan")
	}
	// align_x 0 overrides the configured 0.5
	if r.Plan.Src.X != 0 || r.Plan.Src.Width != 100 {
		t.Errorf("plan source: got %+v, want x=0 width=100", r.Plan.Src)
	}
}

func TestHandleToolsCall_ImageResize_ConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Resize.Mode = geometry.Cover
	s := New(cfg, logging.NewNoop())
	imgPath := createTestImageFile(t, 200, 100, color.White)

	var r resizeResponse
	decodeToolResult(t, callTool(t, s, "image_resize", map[string]interface{}{
		"path": imgPath, "width": 50, "height": 50,
	}), &r)

	if r.Output.Width != 50 || r.Output.Height != 50 {
		t.Errorf("configured cover mode should fill the box, got %dx%d", r.Output.Width, r.Output.Height)
	}
}

func TestHandleToolsCall_ImageResize_Invalid(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 20, 20, color.White)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"no dimensions", map[string]interface{}{"path": imgPath}},
		{"bad mode", map[string]interface{}{"path": imgPath, "width": 5, "mode": "stretch"}},
		{"bad filter", map[string]interface{}{"path": imgPath, "width": 5, "filter": "box"}},
		{"bad align", map[string]interface{}{"path": imgPath, "width": 5, "height": 5, "mode": "cover", "align_y": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, callTool(t, s, "image_resize", tt.args), -32000)
		})
	}
}

func TestHandleToolsCall_ImageCrop(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{0, 0, 255, 255})

	var r imaging.ImageResult
	decodeToolResult(t, callTool(t, s, "image_crop", map[string]interface{}{
		"path": imgPath, "x": 10, "y": 20, "width": 30, "height": 40,
	}), &r)

	if r.Width != 30 || r.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 30x40", r.Width, r.Height)
	}
	if r.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", r.MimeType)
	}
}

func TestHandleToolsCall_ImageCrop_OutOfBounds(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 50, 50, color.White)

	resp := callTool(t, s, "image_crop", map[string]interface{}{
		"path": imgPath, "x": 40, "y": 40, "width": 20, "height": 20,
	})
	expectError(t, resp, -32000)
}

func TestHandleToolsCall_ImageCropRegion(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 100, 60, color.White)

	var r imaging.ImageResult
	decodeToolResult(t, callTool(t, s, "image_crop_region", map[string]interface{}{
		"path": imgPath, "region": "bottom-half", "format": "jpeg",
	}), &r)

	if r.Width != 100 || r.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 100x30", r.Width, r.Height)
	}
	if r.MimeType != "image/jpeg" {
		t.Errorf("MimeType: got %s, want image/jpeg", r.MimeType)
	}
}

func TestHandleToolsCall_ImageRotate(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 80, 40, color.White)

	var r imaging.ImageResult
	decodeToolResult(t, callTool(t, s, "image_rotate", map[string]interface{}{
		"path": imgPath, "angle": 90,
	}), &r)
	if r.Width != 40 || r.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 40x80", r.Width, r.Height)
	}

	decodeToolResult(t, callTool(t, s, "image_rotate", map[string]interface{}{
		"path": imgPath, "angle": 30, "background": "#000000",
	}), &r)
	if r.Width <= 80 {
		t.Errorf("30 degree rotation should widen the canvas, got %dx%d", r.Width, r.Height)
	}

	resp := callTool(t, s, "image_rotate", map[string]interface{}{
		"path": imgPath, "angle": 30, "background": "blue-ish",
	})
	expectError(t, resp, -32000)
}

func TestHandleToolsCall_ImageWatermark(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 100, 100, color.White)
	markPath := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})

	var r imaging.ImageResult
	decodeToolResult(t, callTool(t, s, "image_watermark", map[string]interface{}{
		"path": imgPath, "watermark_path": markPath, "margin": 5,
	}), &r)

	img := decodeImage(t, r)
	c, err := img.SampleColor(90, 90)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	// Default placement is the bottom-right corner
	if c.Hex != "#FF0000" {
		t.Errorf("pixel (90,90): got %s, want #FF0000", c.Hex)
	}

	resp := callTool(t, s, "image_watermark", map[string]interface{}{"path": imgPath})
	expectError(t, resp, -32602)
}

func TestHandleToolsCall_ImageText(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 120, 40, color.White)

	var r imaging.ImageResult
	decodeToolResult(t, callTool(t, s, "image_text", map[string]interface{}{
		"path": imgPath, "text": "hello", "x": 60, "y": 20, "anchor_x": 0.5, "anchor_y": 0.5, "color": "#FF0000",
	}), &r)
	if r.Width != 120 || r.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 120x40", r.Width, r.Height)
	}

	resp := callTool(t, s, "image_text", map[string]interface{}{"path": imgPath, "text": "", "x": 1, "y": 1})
	expectError(t, resp, -32000)
}

func TestHandleToolsCall_ImageConvert(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 32, 16, color.RGBA{10, 200, 30, 255})

	for _, format := range []string{"jpeg", "gif", "bmp", "tiff", "webp"} {
		t.Run(format, func(t *testing.T) {
			var r imaging.ImageResult
			decodeToolResult(t, callTool(t, s, "image_convert", map[string]interface{}{
				"path": imgPath, "format": format,
			}), &r)

			img := decodeImage(t, r)
			if string(img.Format()) != format {
				t.Errorf("decoded format: got %s, want %s", img.Format(), format)
			}
			if img.Width() != 32 || img.Height() != 16 {
				t.Errorf("dimensions: got %dx%d, want 32x16", img.Width(), img.Height())
			}
		})
	}
}

func TestHandleToolsCall_ImageConvert_MissingFormat(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 8, 8, color.White)

	expectError(t, callTool(t, s, "image_convert", map[string]interface{}{"path": imgPath}), -32602)
	expectError(t, callTool(t, s, "image_convert", map[string]interface{}{"path": imgPath, "format": "psd"}), -32000)
}

func TestHandleToolsCall_OutputPath(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 64, 64, color.White)
	outPath := filepath.Join(t.TempDir(), "thumb.webp")

	var r FileResult
	decodeToolResult(t, callTool(t, s, "image_resize", map[string]interface{}{
		"path": imgPath, "width": 16, "format": "webp", "output_path": outPath,
	}), &struct {
		Output *FileResult `json:"output"`
	}{&r})

	if r.Path != outPath || r.Width != 16 || r.Height != 16 {
		t.Errorf("file result: got %+v", r)
	}
	if r.MimeType != "image/webp" {
		t.Errorf("MimeType: got %s, want image/webp", r.MimeType)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if len(data) != r.SizeBytes {
		t.Errorf("SizeBytes: got %d, file has %d", r.SizeBytes, len(data))
	}
}

func TestHandleToolsCall_ImageSampleColor(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 50, 50, color.RGBA{255, 128, 0, 255})

	var c imaging.ColorResult
	decodeToolResult(t, callTool(t, s, "image_sample_color", map[string]interface{}{
		"path": imgPath, "x": 25, "y": 25,
	}), &c)

	if c.Hex != "#FF8000" {
		t.Errorf("Hex: got %s, want #FF8000", c.Hex)
	}

	resp := callTool(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 99, "y": 0})
	expectError(t, resp, -32000)
}

func TestHandleToolsCall_ImageDominantColors(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 40, 40, color.RGBA{0, 0, 255, 255})

	var r imaging.DominantColorsResult
	decodeToolResult(t, callTool(t, s, "image_dominant_colors", map[string]interface{}{
		"path": imgPath, "count": 1, "seed": 7,
	}), &r)

	if len(r.Colors) != 1 {
		t.Fatalf("expected 1 color, got %d", len(r.Colors))
	}
	if r.Colors[0].Hex != "#0000FF" || r.Colors[0].Percentage != 100 {
		t.Errorf("color: got %s %.2f%%", r.Colors[0].Hex, r.Colors[0].Percentage)
	}
}

func TestHandleToolsCall_ImageDominantColors_Region(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 40, 40, color.White)

	var r imaging.DominantColorsResult
	decodeToolResult(t, callTool(t, s, "image_dominant_colors", map[string]interface{}{
		"path": imgPath, "count": 2, "sample_size": 0, "seed": 3,
		"region": map[string]interface{}{"x": 0, "y": 0, "width": 5, "height": 4},
	}), &r)

	total := 0
	for _, c := range r.Colors {
		total += c.Count
	}
	if total != 20 {
		t.Errorf("region should cluster 20 pixels, counted %d", total)
	}
}

func TestHandleToolsCall_ImageDominantColors_Deterministic(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 30, 30, color.RGBA{100, 150, 200, 255})

	args := map[string]interface{}{"path": imgPath, "count": 3, "seed": 11}
	first := mustMarshalJSON(callTool(t, s, "image_dominant_colors", args).Result)
	second := mustMarshalJSON(callTool(t, s, "image_dominant_colors", args).Result)
	if first != second {
		t.Error("the same seed should give the same palette")
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "image_teleport", map[string]interface{}{})
	expectError(t, resp, -32000)
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	expectError(t, resp, -32602)

	expectError(t, callTool(t, s, "image_load", map[string]interface{}{}), -32602)
	expectError(t, callTool(t, s, "image_crop", map[string]interface{}{"path": "/x.png", "x": "left"}), -32602)
}

func TestHandleToolsCall_MissingFile(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"})
	expectError(t, resp, -32000)
}
