// Package imaging is the value-semantics image facade used by the MCP server
// and the command line.
//
// An Image wraps an immutable *image.NRGBA. Every operation (Resize, Crop,
// Rotate, Watermark, Text) returns a new Image, so a decoded image can be
// cached and shared between requests without copying.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Regions are geometry.Rect values: origin plus width and height
//
// # Resizing
//
// Resize delegates the arithmetic to the geometry package and only applies
// the resulting plan: crop to the plan's source rectangle, then resample to
// the plan's output size. When the plan is nil or an identity, no pixels are
// touched.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// DominantColors extracts a palette with the k-means clustering in the
// palette package, after shrinking the image to a bounded sample.
//
// # Formats
//
// Decoding supports PNG, JPEG, GIF, BMP, TIFF and WebP. Encoding supports the
// same set; WebP output goes through libwebp.
//
// # Error Handling
//
// Malformed arguments wrap ErrInvalidArgument, so callers can test for them
// with errors.Is. I/O and codec failures are returned wrapped with context.
package imaging
