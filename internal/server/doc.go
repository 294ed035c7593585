// Package server exposes the unshredder as an MCP (Model Context Protocol)
// tool server.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line. stdout
// carries only protocol traffic; logs go to stderr.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image information:
//   - image_load: metadata plus the strip widths that divide the image
//   - image_dimensions: width and height
//
// Unshredding:
//   - unshred_estimate_width: seam columns and the inferred strip width
//   - unshred_match: per-strip best neighbours, endpoints, suspect matches
//   - unshred_solve: reassemble and write the result
//   - unshred_shred: make a shuffled test input
//
// Inspection:
//   - unshred_strip_preview: one strip as PNG
//   - unshred_seam_overlay: strip boundaries and numbers drawn over the image
//   - image_compare: pixel comparison of two images
//
// Solver tools start from the Config given to New and apply the per-call
// arguments on top.
//
// # Image Caching
//
// Decoded images are cached by path for the life of the process. Files the
// server writes are evicted so a later call sees the new contents.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC errors with code -32000 and the Go
// error string in data. Malformed request lines get a -32700 parse error.
package server
