package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"math/rand"
	"os"

	"github.com/ironsheep/image-ops-mcp/internal/geometry"
	"github.com/ironsheep/image-ops-mcp/internal/imaging"
)

// errInvalidParams marks arguments that could not be decoded or are missing.
var errInvalidParams = errors.New("invalid params")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_resize").
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
// Undecodable arguments return code -32602; any other tool failure returns
// a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	s.log.Debug("tool %s: %s", params.Name, params.Arguments)
	result, err := s.executeTool(params.Name, params.Arguments)
	if errors.Is(err, errInvalidParams) {
		s.log.Warn("tool %s: %v", params.Name, err)
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}
	if err != nil {
		s.log.Warn("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

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
//  2. Applies configured defaults for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the imaging facade
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Geometry Operations
	case "image_resize":
		return s.handleImageResize(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_crop_region":
		return s.handleImageCropRegion(args)
	case "image_rotate":
		return s.handleImageRotate(args)

	// Composition Operations
	case "image_watermark":
		return s.handleImageWatermark(args)
	case "image_text":
		return s.handleImageText(args)
	case "image_convert":
		return s.handleImageConvert(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments and checks that a path was given.
func decodeArgs(args json.RawMessage, v interface{ imagePath() string }) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing arguments", errInvalidParams)
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	if v.imagePath() == "" {
		return fmt.Errorf("%w: path is required", errInvalidParams)
	}
	return nil
}

// pathArgs is embedded by every tool that reads an image.
type pathArgs struct {
	Path string `json:"path"`
}

func (a *pathArgs) imagePath() string { return a.Path }

// outputArgs is embedded by every tool that produces an image.
type outputArgs struct {
	Format     string `json:"format"`
	Quality    int    `json:"quality"`
	OutputPath string `json:"output_path"`
}

// FileResult describes an image written to disk instead of returned inline.
type FileResult struct {
	Path      string `json:"path"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MimeType  string `json:"mime_type"`
	SizeBytes int    `json:"size_bytes"`
}

// encodeOptions merges the configured encoder settings with per-call overrides.
func (s *Server) encodeOptions(quality int) imaging.EncodeOptions {
	opts := imaging.EncodeOptions{
		Quality:     s.cfg.Encode.JPEGQuality,
		Compression: png.CompressionLevel(s.cfg.Encode.PNGCompression),
		Lossless:    s.cfg.Encode.WebPLossless,
		Colors:      s.cfg.Encode.GIFColors,
	}
	if quality != 0 {
		opts.Quality = quality
	}
	return opts
}

// emit encodes img per out: written to out.OutputPath when set, otherwise
// returned as base64.
func (s *Server) emit(img *imaging.Image, out outputArgs, opts imaging.EncodeOptions) (interface{}, error) {
	var format imaging.Format
	if out.Format != "" {
		f, err := imaging.ParseFormat(out.Format)
		if err != nil {
			return nil, err
		}
		format = f
	} else {
		format = img.Format()
	}

	if out.OutputPath == "" {
		return img.Result(format, opts)
	}

	data, err := img.Bytes(format, opts)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(out.OutputPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	s.log.Debug("wrote %s (%d bytes)", out.OutputPath, len(data))
	return &FileResult{
		Path:      out.OutputPath,
		Width:     img.Width(),
		Height:    img.Height(),
		MimeType:  format.MimeType(),
		SizeBytes: len(data),
	}, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	pathArgs
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Geometry Operation Handlers ===

type imageResizeArgs struct {
	pathArgs
	outputArgs
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Mode          string   `json:"mode"`
	AllowIncrease *bool    `json:"allow_increase"`
	AlignX        *float64 `json:"align_x"`
	AlignY        *float64 `json:"align_y"`
	Filter        string   `json:"filter"`
}

// ResizeResult is an encoded resize output with the plan that produced it.
type ResizeResult struct {
	Output interface{}    `json:"output"`
	Plan   *geometry.Plan `json:"plan,omitempty"`
	NoOp   bool           `json:"no_op"`
}

func (s *Server) handleImageResize(args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	defaults := s.cfg.Resize
	opts := imaging.ResizeOptions{
		Width:         a.Width,
		Height:        a.Height,
		AllowIncrease: defaults.AllowIncrease,
		Mode:          defaults.Mode,
		AlignX:        defaults.AlignX,
		AlignY:        defaults.AlignY,
	}
	if a.Mode != "" {
		mode, err := geometry.ParseSizingMode(a.Mode)
		if err != nil {
			return nil, err
		}
		opts.Mode = mode
	}
	if a.AllowIncrease != nil {
		opts.AllowIncrease = *a.AllowIncrease
	}
	if a.AlignX != nil {
		opts.AlignX = *a.AlignX
	}
	if a.AlignY != nil {
		opts.AlignY = *a.AlignY
	}
	filterName := a.Filter
	if filterName == "" {
		filterName = defaults.Filter
	}
	filter, err := imaging.ParseFilter(filterName)
	if err != nil {
		return nil, err
	}
	opts.Filter = filter

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	plan, err := img.Plan(opts)
	if err != nil {
		return nil, err
	}

	result := &ResizeResult{Plan: plan, NoOp: plan == nil || plan.IsIdentity(img.Width(), img.Height())}
	resized := img
	if !result.NoOp {
		resized, err = img.Apply(plan, opts.Filter)
		if err != nil {
			return nil, err
		}
	}

	result.Output, err = s.emit(resized, a.outputArgs, s.encodeOptions(a.Quality))
	if err != nil {
		return nil, err
	}
	return result, nil
}

type imageCropArgs struct {
	pathArgs
	outputArgs
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	cropped, err := img.Crop(geometry.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height})
	if err != nil {
		return nil, err
	}
	return s.emit(cropped, a.outputArgs, s.encodeOptions(a.Quality))
}

type imageCropRegionArgs struct {
	pathArgs
	outputArgs
	Region string `json:"region"`
}

func (s *Server) handleImageCropRegion(args json.RawMessage) (interface{}, error) {
	var a imageCropRegionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	cropped, err := img.CropRegion(a.Region)
	if err != nil {
		return nil, err
	}
	return s.emit(cropped, a.outputArgs, s.encodeOptions(a.Quality))
}

type imageRotateArgs struct {
	pathArgs
	outputArgs
	Angle      float64 `json:"angle"`
	Background string  `json:"background"`
}

func (s *Server) handleImageRotate(args json.RawMessage) (interface{}, error) {
	var a imageRotateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var bg color.Color
	if a.Background != "" {
		c, err := imaging.ParseHexColor(a.Background)
		if err != nil {
			return nil, err
		}
		bg = c
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.emit(img.Rotate(a.Angle, bg), a.outputArgs, s.encodeOptions(a.Quality))
}

// === Composition Operation Handlers ===

type imageWatermarkArgs struct {
	pathArgs
	outputArgs
	WatermarkPath string   `json:"watermark_path"`
	AlignX        *float64 `json:"align_x"`
	AlignY        *float64 `json:"align_y"`
	Margin        int      `json:"margin"`
	Opacity       *float64 `json:"opacity"`
}

func (s *Server) handleImageWatermark(args json.RawMessage) (interface{}, error) {
	var a imageWatermarkArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.WatermarkPath == "" {
		return nil, fmt.Errorf("%w: watermark_path is required", errInvalidParams)
	}

	opts := imaging.WatermarkOptions{AlignX: 1, AlignY: 1, Margin: a.Margin, Opacity: 1}
	if a.AlignX != nil {
		opts.AlignX = *a.AlignX
	}
	if a.AlignY != nil {
		opts.AlignY = *a.AlignY
	}
	if a.Opacity != nil {
		opts.Opacity = *a.Opacity
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	mark, err := s.cache.Load(a.WatermarkPath)
	if err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}
	marked, err := img.Watermark(mark, opts)
	if err != nil {
		return nil, err
	}
	return s.emit(marked, a.outputArgs, s.encodeOptions(a.Quality))
}

type imageTextArgs struct {
	pathArgs
	outputArgs
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	AnchorX  float64 `json:"anchor_x"`
	AnchorY  float64 `json:"anchor_y"`
	Angle    float64 `json:"angle"`
	Color    string  `json:"color"`
	FontPath string  `json:"font_path"`
	FontSize float64 `json:"font_size"`
}

func (s *Server) handleImageText(args json.RawMessage) (interface{}, error) {
	var a imageTextArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	defaults := s.cfg.Text
	if a.Color == "" {
		a.Color = defaults.Color
	}
	if a.FontPath == "" {
		a.FontPath = defaults.FontPath
	}
	if a.FontSize == 0 {
		a.FontSize = defaults.FontSize
	}
	c, err := imaging.ParseHexColor(a.Color)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	drawn, err := img.Text(a.Text, imaging.TextOptions{
		FontPath: a.FontPath,
		Size:     a.FontSize,
		Color:    c,
		X:        a.X,
		Y:        a.Y,
		AnchorX:  a.AnchorX,
		AnchorY:  a.AnchorY,
		Angle:    a.Angle,
	})
	if err != nil {
		return nil, err
	}
	return s.emit(drawn, a.outputArgs, s.encodeOptions(a.Quality))
}

type imageConvertArgs struct {
	pathArgs
	outputArgs
	Lossless *bool `json:"lossless"`
	Colors   int   `json:"colors"`
}

func (s *Server) handleImageConvert(args json.RawMessage) (interface{}, error) {
	var a imageConvertArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Format == "" {
		return nil, fmt.Errorf("%w: format is required", errInvalidParams)
	}

	opts := s.encodeOptions(a.Quality)
	if a.Lossless != nil {
		opts.Lossless = *a.Lossless
	}
	if a.Colors != 0 {
		opts.Colors = a.Colors
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.emit(img, a.outputArgs, opts)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	pathArgs
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return img.SampleColor(a.X, a.Y)
}

type imageDominantColorsArgs struct {
	pathArgs
	Count         int            `json:"count"`
	SampleSize    *int           `json:"sample_size"`
	Epsilon       *float64       `json:"epsilon"`
	MaxIterations *int           `json:"max_iterations"`
	Seed          *int64         `json:"seed"`
	Region        *geometry.Rect `json:"region"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	defaults := s.cfg.Palette
	opts := imaging.PaletteOptions{
		Count:         defaults.Count,
		SampleSize:    defaults.SampleSize,
		Epsilon:       defaults.Epsilon,
		MaxIterations: defaults.MaxIterations,
		Workers:       defaults.Workers,
		Sort:          defaults.Sort,
	}
	if a.Count != 0 {
		opts.Count = a.Count
	}
	if a.SampleSize != nil {
		opts.SampleSize = *a.SampleSize
	}
	if a.Epsilon != nil {
		opts.Epsilon = *a.Epsilon
	}
	if a.MaxIterations != nil {
		opts.MaxIterations = *a.MaxIterations
	}
	seed := defaults.Seed
	if a.Seed != nil {
		seed = *a.Seed
	}
	if seed != 0 {
		opts.Rand = rand.New(rand.NewSource(seed))
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Region != nil {
		img, err = img.Crop(*a.Region)
		if err != nil {
			return nil, err
		}
	}
	return img.DominantColors(opts)
}
