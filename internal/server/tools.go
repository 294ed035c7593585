package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(what string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the " + what,
	}
}

// solverProperties are the solver overrides shared by the unshred tools.
func solverProperties() map[string]interface{} {
	return map[string]interface{}{
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Strip width in pixels. Omit or 0 to infer it from seams.",
			"minimum":     0,
		},
		"seam_ratio": map[string]interface{}{
			"type":        "number",
			"description": "Seam sensitivity used when inferring the width: a column difference must exceed this multiple of its neighbourhood mean. Default 1.5",
		},
		"seam_mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"positions", "spacing"},
			"description": "How seams become a width: average seam position, or average spacing between seams",
		},
		"metric": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"absdiff", "lab"},
			"description": "Edge distance: summed absolute channel differences, or CIE Lab distance",
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the strip widths that divide it evenly.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
				},
				"required": []string{"path"},
			},
		},

		// Unshredding
		{
			Name:        "unshred_estimate_width",
			Description: "Detect strip seams in a shredded image and estimate the strip width.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty("shredded image"),
					"seam_ratio": solverProperties()["seam_ratio"],
					"seam_mode":  solverProperties()["seam_mode"],
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "unshred_match",
			Description: "Match every strip to its best left and right neighbour and return the match table, chain endpoints and suspicious matches. Does not write any file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(solverProperties(), map[string]interface{}{
					"path": pathProperty("shredded image"),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "unshred_solve",
			Description: "Reassemble a shredded image and write the result. Returns the strip order and the output path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(solverProperties(), map[string]interface{}{
					"path": pathProperty("shredded image"),
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output path. Default: input name with -sol before the extension",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "unshred_shred",
			Description: "Cut an image into strips of a given width and shuffle them reproducibly. Returns the permutation and the order that undoes it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Strip width in pixels; must divide the image width",
						"minimum":     1,
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Shuffle seed. Default 1",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the shredded image",
					},
				},
				"required": []string{"path", "width", "output"},
			},
		},

		// Inspection
		{
			Name:        "unshred_strip_preview",
			Description: "Return one strip of an image as base64-encoded PNG, optionally enlarged.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Strip width in pixels",
						"minimum":     1,
					},
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Strip position, 0-based from the left",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "width", "index"},
			},
		},
		{
			Name:        "unshred_seam_overlay",
			Description: "Draw strip boundaries and strip numbers over an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Strip width in pixels. Omit or 0 to infer it from seams.",
						"minimum":     0,
					},
					"labels": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"description": "Label drawn on each strip, left to right. Default: strip positions",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Line color as hex (#RRGGBB or #RRGGBBAA). Default #FF00FF",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_compare",
			Description: "Compare two images pixel by pixel. Use it to check a solved image against the original.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path1": pathProperty("first image"),
					"path2": pathProperty("second image"),
				},
				"required": []string{"path1", "path2"},
			},
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
