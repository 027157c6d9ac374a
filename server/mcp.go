package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"paperdigest/batch"
	"paperdigest/kit"
)

type summarizeFilesReq struct {
	Paths        []string `json:"paths"`
	Length       string   `json:"length,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}

// RegisterMCP registers the summarization tool on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "summarize_files",
		Description: "Summarize one or more local documents (pdf, docx, txt) and produce a combined summary.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"paths": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "File paths to summarize",
				},
				"length": map[string]any{
					"type":        "string",
					"description": "Summary length: short, medium or long",
				},
				"instructions": map[string]any{
					"type":        "string",
					"description": "Extra instructions for the model",
				},
			},
			"required": []string{"paths"},
		},
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*summarizeFilesReq)
		uploads := make([]batch.Upload, 0, len(r.Paths))
		for _, path := range r.Paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, batch.Upload{Filename: filepath.Base(path), Data: data})
		}
		return s.orch.Process(ctx, uploads, batch.Options{
			Length:       r.Length,
			Instructions: r.Instructions,
		})
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r summarizeFilesReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
