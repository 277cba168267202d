package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func enumProp(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        values,
		"description": description,
	}
}

func objectSchema(required []string, props map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var (
	pathProp   = prop("string", "Absolute path to the image file")
	formatProp = enumProp("Output format. Defaults to the source image's format",
		"png", "jpeg", "gif", "bmp", "tiff", "webp")
	outputProp = prop("string", "Optional file path to write the result to instead of returning base64 data")
	regionRect = objectSchema([]string{"x", "y", "width", "height"}, map[string]interface{}{
		"x":      prop("integer", "Left edge X coordinate (0-based)"),
		"y":      prop("integer", "Top edge Y coordinate (0-based)"),
		"width":  prop("integer", "Region width in pixels"),
		"height": prop("integer", "Region height in pixels"),
	})
)

// outputProps adds the shared output options to an image-producing tool.
func outputProps(props map[string]interface{}) map[string]interface{} {
	props["format"] = formatProp
	props["quality"] = prop("integer", "JPEG/WebP quality 1-100. Defaults to the configured quality")
	props["output_path"] = outputProp
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, color depth and file size. The decoded image is cached for subsequent operations.",
			InputSchema: objectSchema([]string{"path"}, map[string]interface{}{
				"path": pathProp,
			}),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: objectSchema([]string{"path"}, map[string]interface{}{
				"path": pathProp,
			}),
		},

		// Geometry Operations
		{
			Name: "image_resize",
			Description: "Resize an image. With only width or height the aspect ratio is kept. With both, mode 'contain' fits inside the box, " +
				"'cover' fills the box and clips the overflow (positioned by align_x/align_y), and 'exact' forces both dimensions. " +
				"Images are not enlarged unless allow_increase is true.",
			InputSchema: objectSchema([]string{"path"}, outputProps(map[string]interface{}{
				"path":           pathProp,
				"width":          prop("integer", "Desired width in pixels (0 or omitted = unset)"),
				"height":         prop("integer", "Desired height in pixels (0 or omitted = unset)"),
				"mode":           enumProp("Sizing mode when both width and height are given", "contain", "cover", "exact"),
				"allow_increase": prop("boolean", "Allow the result to be larger than the source"),
				"align_x":        prop("number", "Horizontal crop position for cover, 0 (left) to 1 (right)"),
				"align_y":        prop("number", "Vertical crop position for cover, 0 (top) to 1 (bottom)"),
				"filter":         enumProp("Resampling filter", "nearest", "bilinear", "catmullrom", "lanczos"),
			})),
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image. Use this to zoom into areas that need detailed examination.",
			InputSchema: objectSchema([]string{"path", "x", "y", "width", "height"}, outputProps(map[string]interface{}{
				"path":   pathProp,
				"x":      prop("integer", "Left edge X coordinate (0-based)"),
				"y":      prop("integer", "Top edge Y coordinate (0-based)"),
				"width":  prop("integer", "Region width in pixels"),
				"height": prop("integer", "Region height in pixels"),
			})),
		},
		{
			Name:        "image_crop_region",
			Description: "Crop a named region of the image (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center).",
			InputSchema: objectSchema([]string{"path", "region"}, outputProps(map[string]interface{}{
				"path": pathProp,
				"region": enumProp("Named region to extract",
					"top-left", "top-right", "bottom-left", "bottom-right",
					"top-half", "bottom-half", "left-half", "right-half", "center"),
			})),
		},
		{
			Name:        "image_rotate",
			Description: "Rotate an image counter-clockwise. Multiples of 90 degrees are lossless; other angles enlarge the canvas and fill the corners with the background color.",
			InputSchema: objectSchema([]string{"path", "angle"}, outputProps(map[string]interface{}{
				"path":       pathProp,
				"angle":      prop("number", "Rotation in degrees, counter-clockwise"),
				"background": prop("string", "Corner fill color as hex (#RRGGBB or #RRGGBBAA). Omit for transparent"),
			})),
		},

		// Composition Operations
		{
			Name:        "image_watermark",
			Description: "Overlay a watermark image. The mark is shrunk to fit inside the margins if needed and placed by align_x/align_y.",
			InputSchema: objectSchema([]string{"path", "watermark_path"}, outputProps(map[string]interface{}{
				"path":           pathProp,
				"watermark_path": prop("string", "Absolute path to the watermark image"),
				"align_x":        prop("number", "Horizontal position, 0 (left) to 1 (right). Default 1"),
				"align_y":        prop("number", "Vertical position, 0 (top) to 1 (bottom). Default 1"),
				"margin":         prop("integer", "Distance from the edges in pixels. Default 0"),
				"opacity":        prop("number", "Watermark opacity, 0 to 1. Default 1"),
			})),
		},
		{
			Name:        "image_text",
			Description: "Draw a line of text onto an image.",
			InputSchema: objectSchema([]string{"path", "text", "x", "y"}, outputProps(map[string]interface{}{
				"path":      pathProp,
				"text":      prop("string", "Text to draw"),
				"x":         prop("number", "Anchor X coordinate"),
				"y":         prop("number", "Anchor Y coordinate"),
				"anchor_x":  prop("number", "0 puts the left edge at x, 1 the right edge. Default 0"),
				"anchor_y":  prop("number", "0 puts the baseline at y, 1 the top of the text. Default 0"),
				"angle":     prop("number", "Counter-clockwise rotation around the anchor, in degrees"),
				"color":     prop("string", "Text color as hex. Defaults to the configured color"),
				"font_path": prop("string", "TrueType font file. Defaults to the configured font"),
				"font_size": prop("number", "Font size in points. Defaults to the configured size"),
			})),
		},
		{
			Name:        "image_convert",
			Description: "Re-encode an image in another format.",
			InputSchema: objectSchema([]string{"path", "format"}, outputProps(map[string]interface{}{
				"path":     pathProp,
				"lossless": prop("boolean", "Use lossless WebP"),
				"colors":   prop("integer", "GIF palette size, 2-256"),
			})),
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: objectSchema([]string{"path", "x", "y"}, map[string]interface{}{
				"path": pathProp,
				"x":    prop("integer", "X coordinate (0-based, from left)"),
				"y":    prop("integer", "Y coordinate (0-based, from top)"),
			}),
		},
		{
			Name:        "image_dominant_colors",
			Description: "Extract the dominant colors of an image (or a region) with k-means clustering, sorted by frequency.",
			InputSchema: objectSchema([]string{"path"}, map[string]interface{}{
				"path":           pathProp,
				"count":          prop("integer", "Number of colors to extract. Defaults to the configured count"),
				"sample_size":    prop("integer", "Shrink the image to fit this box before clustering. 0 uses every pixel"),
				"epsilon":        prop("number", "Stop once the largest centroid drift (L1) is below this"),
				"max_iterations": prop("integer", "Upper bound on clustering rounds. 0 = no bound"),
				"seed":           prop("integer", "Random seed for reproducible results"),
				"region":         regionRect,
			}),
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
