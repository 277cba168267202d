// Package server implements the MCP (Model Context Protocol) server for image operations.
//
// This package provides a JSON-RPC 2.0 server that exposes the imaging facade
// through the MCP protocol, so MCP clients can resize, crop, annotate, convert
// and inspect image files by path.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Geometry Operations:
//   - image_resize: Contain, cover or exact resize with a resampling filter
//   - image_crop: Extract rectangular region
//   - image_crop_region: Extract named region (top-left, center, etc.)
//   - image_rotate: Rotate by any angle
//
// Composition Operations:
//   - image_watermark: Overlay another image
//   - image_text: Draw a line of text
//   - image_convert: Re-encode in another format
//
// Color Operations:
//   - image_sample_color: Get color at pixel
//   - image_dominant_colors: Extract a k-means color palette
//
// Tools that produce an image return it base64-encoded, or write it to
// output_path when one is given. Optional arguments fall back to the values
// in config.Config.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for missing or malformed arguments, -32000 for any other
//     tool failure, or the standard codes for protocol errors
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Logs go to stderr through the logging package; stdout carries only
// protocol traffic.
//
// # Usage
//
//	srv := server.New(cfg, logging.NewConsole(cfg.Level()))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
