package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/disintegration/imaging"

	imgtools "github.com/ironsheep/image-unshred/internal/imaging"
	"github.com/ironsheep/image-unshred/internal/unshred"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "unshred_solve").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if s.debug {
		log.Printf("tool %s finished in %s (err=%v)", params.Name, time.Since(start), err)
	}
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	case "unshred_estimate_width":
		return s.handleEstimateWidth(args)
	case "unshred_match":
		return s.handleMatch(args)
	case "unshred_solve":
		return s.handleSolve(ctx, args)
	case "unshred_shred":
		return s.handleShred(args)

	case "unshred_strip_preview":
		return s.handleStripPreview(args)
	case "unshred_seam_overlay":
		return s.handleSeamOverlay(args)
	case "image_compare":
		return s.handleImageCompare(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response. An empty data string is
// left out of the response.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imgtools.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imgtools.GetDimensions(s.cache, a.Path)
}

// === Unshredding ===

// solverArgs are the per-call overrides of the server's solver defaults.
type solverArgs struct {
	Path      string  `json:"path"`
	Width     int     `json:"width"`
	SeamRatio float64 `json:"seam_ratio"`
	SeamMode  string  `json:"seam_mode"`
	Metric    string  `json:"metric"`
}

// config applies the overrides in a to the server defaults.
func (s *Server) config(a solverArgs) (unshred.Config, error) {
	cfg := s.cfg
	if a.Width != 0 {
		cfg.StripWidth = a.Width
	}
	if a.SeamRatio != 0 {
		cfg.SeamRatio = a.SeamRatio
	}
	if a.SeamMode != "" {
		mode, err := unshred.ParseSeamMode(a.SeamMode)
		if err != nil {
			return cfg, err
		}
		cfg.SeamMode = mode
	}
	if a.Metric != "" {
		m, err := unshred.MetricByName(a.Metric)
		if err != nil {
			return cfg, err
		}
		cfg.Metric = m
	}
	return cfg, cfg.Validate()
}

// WidthEstimate is the result of unshred_estimate_width.
type WidthEstimate struct {
	Width   int    `json:"width"`
	Seams   []int  `json:"seams"`
	Mode    string `json:"mode"`
	Columns int    `json:"columns"`
	Divides bool   `json:"divides"`
}

func (s *Server) handleEstimateWidth(args json.RawMessage) (interface{}, error) {
	var a solverArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	a.Width = 0
	cfg, err := s.config(a)
	if err != nil {
		return nil, err
	}

	m, err := s.cache.LoadMatrix(a.Path)
	if err != nil {
		return nil, err
	}
	seams, err := unshred.FindSeams(m, cfg.SeamRatio)
	if err != nil {
		return nil, err
	}
	w, err := unshred.EstimateStripWidth(m, cfg.SeamRatio, cfg.SeamMode)
	if err != nil {
		return nil, err
	}

	return &WidthEstimate{
		Width:   w,
		Seams:   seams,
		Mode:    cfg.SeamMode.String(),
		Columns: m.Cols(),
		Divides: m.Cols()%w == 0,
	}, nil
}

// resolveWidth returns the configured width, inferring it when unset.
func resolveWidth(cfg unshred.Config, cols int, estimate func() (int, error)) (int, error) {
	if cfg.StripWidth > 0 {
		return cfg.StripWidth, nil
	}
	w, err := estimate()
	if err != nil {
		return 0, fmt.Errorf("failed to infer strip width: %w", err)
	}
	if cols%w != 0 {
		return 0, fmt.Errorf("%w: inferred width %d does not divide %d columns", unshred.ErrInsufficientData, w, cols)
	}
	return w, nil
}

func (s *Server) handleMatch(args json.RawMessage) (interface{}, error) {
	var a solverArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.config(a)
	if err != nil {
		return nil, err
	}

	m, err := s.cache.LoadMatrix(a.Path)
	if err != nil {
		return nil, err
	}
	width, err := resolveWidth(cfg, m.Cols(), func() (int, error) {
		return unshred.EstimateStripWidth(m, cfg.SeamRatio, cfg.SeamMode)
	})
	if err != nil {
		return nil, err
	}

	ss, err := unshred.Partition(m, width)
	if err != nil {
		return nil, err
	}
	if err := ss.MatchAll(cfg.MatchOptions()); err != nil {
		return nil, err
	}
	return ss.Report()
}

type solveArgs struct {
	solverArgs
	Output string `json:"output"`
}

// SolveResult is the result of unshred_solve.
type SolveResult struct {
	OutputPath    string `json:"output_path"`
	Width         int    `json:"width"`
	WidthInferred bool   `json:"width_inferred"`
	Strips        int    `json:"strips"`
	Order         []int  `json:"order"`
	Leftmost      int    `json:"leftmost"`
	Rightmost     int    `json:"rightmost"`
	ElapsedMS     int64  `json:"elapsed_ms"`
}

func (s *Server) handleSolve(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a solveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.config(a.solverArgs)
	if err != nil {
		return nil, err
	}
	if a.Output == "" {
		a.Output = imgtools.SolutionPath(a.Path)
	}

	m, err := s.cache.LoadMatrix(a.Path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := unshred.Reassemble(ctx, m, cfg, &imgtools.FileCompositor{Path: a.Output})
	if err != nil {
		return nil, err
	}
	// a stale decode of an earlier output must not be served
	s.cache.Evict(a.Output)

	if s.debug {
		log.Printf("solved %s: width=%d inferred=%v endpoints=%d/%d order=%v",
			a.Path, res.Width, res.WidthInferred, res.Leftmost, res.Rightmost, res.Order)
	}

	return &SolveResult{
		OutputPath:    a.Output,
		Width:         res.Width,
		WidthInferred: res.WidthInferred,
		Strips:        len(res.Order),
		Order:         res.Order,
		Leftmost:      res.Leftmost,
		Rightmost:     res.Rightmost,
		ElapsedMS:     time.Since(start).Milliseconds(),
	}, nil
}

type shredArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Seed   *int64 `json:"seed"`
	Output string `json:"output"`
}

// ShredResult is the result of unshred_shred.
type ShredResult struct {
	OutputPath string `json:"output_path"`
	Width      int    `json:"width"`
	Seed       int64  `json:"seed"`
	Perm       []int  `json:"perm"`
	Solution   []int  `json:"solution"`
}

func (s *Server) handleShred(args json.RawMessage) (interface{}, error) {
	var a shredArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output path is required")
	}
	seed := int64(1)
	if a.Seed != nil {
		seed = *a.Seed
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := imgtools.Shred(img, a.Width, seed)
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(res.Image, a.Output); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", a.Output, err)
	}
	s.cache.Evict(a.Output)

	return &ShredResult{
		OutputPath: a.Output,
		Width:      res.Width,
		Seed:       seed,
		Perm:       res.Perm,
		Solution:   res.Solution(),
	}, nil
}

// === Inspection ===

type stripPreviewArgs struct {
	Path  string  `json:"path"`
	Width int     `json:"width"`
	Index int     `json:"index"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleStripPreview(args json.RawMessage) (interface{}, error) {
	var a stripPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imgtools.StripPreview(img, a.Width, a.Index, a.Scale)
}

type seamOverlayArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Labels []int  `json:"labels"`
	Color  string `json:"color"`
}

// OverlayResult is the result of unshred_seam_overlay.
type OverlayResult struct {
	*imgtools.EncodedImage
	StripWidth int `json:"strip_width"`
}

func (s *Server) handleSeamOverlay(args json.RawMessage) (interface{}, error) {
	var a seamOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.config(solverArgs{Width: a.Width})
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	width, err := resolveWidth(cfg, img.Bounds().Dx(), func() (int, error) {
		m, err := s.cache.LoadMatrix(a.Path)
		if err != nil {
			return 0, err
		}
		return unshred.EstimateStripWidth(m, cfg.SeamRatio, cfg.SeamMode)
	})
	if err != nil {
		return nil, err
	}

	overlay, err := imgtools.SeamOverlay(img, width, a.Labels, a.Color)
	if err != nil {
		return nil, err
	}
	enc, err := imgtools.EncodePNG(overlay)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{EncodedImage: enc, StripWidth: width}, nil
}

type imageCompareArgs struct {
	Path1 string `json:"path1"`
	Path2 string `json:"path2"`
}

func (s *Server) handleImageCompare(args json.RawMessage) (interface{}, error) {
	var a imageCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img1, err := s.cache.Load(a.Path1)
	if err != nil {
		return nil, err
	}
	img2, err := s.cache.Load(a.Path2)
	if err != nil {
		return nil, err
	}
	return imgtools.CompareImages(img1, img2)
}
