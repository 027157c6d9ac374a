package extract

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "extract-test", Version: "0.1.0"}

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	pipe := New(Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	srv := mcp.NewServer(testMCPImpl, nil)
	pipe.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %v", name, result.Content)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCPListFormats(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "list_formats", map[string]any{})

	var resp struct {
		Formats []string `json:"formats"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	expected := map[string]bool{"pdf": true, "docx": true, "txt": true}
	if len(resp.Formats) != len(expected) {
		t.Fatalf("formats = %v", resp.Formats)
	}
	for _, f := range resp.Formats {
		if !expected[f] {
			t.Errorf("unexpected format %q", f)
		}
	}
}

func TestMCPDetectFormat(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "detect_format", map[string]any{"filename": "paper.pdf"})

	var resp struct {
		Format string `json:"format"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Format != "pdf" {
		t.Errorf("format = %q, want pdf", resp.Format)
	}
}

func TestMCPDetectFormatError(t *testing.T) {
	session := mcpSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "detect_format",
		Arguments: map[string]any{"filename": "image.png"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for unsupported extension")
	}
}

func TestMCPExtractDocument(t *testing.T) {
	session := mcpSession(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("Hello World\nSecond line"), 0644); err != nil {
		t.Fatal(err)
	}

	text := mcpCallTool(t, session, "extract_document", map[string]any{"path": path})

	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Text != "Hello World\nSecond line" {
		t.Errorf("text = %q", res.Text)
	}
	if got := res.Metadata.Field("filetype", ""); got != "txt" {
		t.Errorf("filetype = %q", got)
	}
}
