// Package imaging is the file and pixel side of the unshredder: decoding
// scans into pixel matrices, writing solved images back out, and producing
// the debug images the CLI and MCP server hand to a human.
//
// # Coordinates
//
// X runs left to right from 0 and Y top to bottom from 0. Strip k of an
// image cut at width W covers columns [k*W, (k+1)*W) over the full height.
//
// # Formats
//
// ImageCache decodes PNG, JPEG, GIF, BMP, TIFF and WebP. FileCompositor
// writes whatever format the output extension names, except WebP, which
// has no encoder; SolutionPath falls back to PNG for such inputs.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and never modify their input images.
package imaging
