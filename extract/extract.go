// Package extract converts uploaded document bytes into plain text plus
// descriptive metadata.
//
// Supported formats:
//   - .pdf  — page-ordered text via pdfcpu, Info-dict metadata
//   - .docx — Microsoft Word (archive/zip → word/document.xml + docProps/core.xml)
//   - .txt  — plain text (UTF-8 with Latin-1 fallback)
//
// The format is selected by filename extension, never by content sniffing.
//
// Usage:
//
//	pipe := extract.New(extract.Config{})
//	res, err := pipe.Extract(ctx, "paper.pdf", data)
//	fmt.Println(res.Metadata["pages"], len(res.Text))
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Config configures the extraction pipeline.
type Config struct {
	// Logger for debug messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pipeline is the document extraction engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Detect returns the document format based on the filename extension,
// case-insensitively. Extensions outside {pdf, docx, txt} are an error.
func (p *Pipeline) Detect(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	case ".txt":
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", ext)
	}
}

// Extract parses a document and returns its text and metadata.
// A readable document with no text yields Text == "" and a nil error; an
// error is returned only when the bytes cannot be parsed as the detected
// format.
func (p *Pipeline) Extract(ctx context.Context, filename string, data []byte) (*Result, error) {
	format, err := p.Detect(filename)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("extracting document", "filename", filename, "format", format, "size", len(data))

	var text string
	var meta Metadata

	switch format {
	case FormatPDF:
		text, meta, err = extractPDF(data)
	case FormatDocx:
		text, meta, err = extractDocx(data)
	case FormatTXT:
		text, meta = extractText(data)
	default:
		return nil, fmt.Errorf("no parser for format: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("extract %s (%s): %w", filename, format, err)
	}

	return &Result{
		Text:     strings.TrimSpace(text),
		Metadata: meta,
	}, nil
}

// SupportedFormats returns all supported format extensions.
func SupportedFormats() []string {
	return []string{"pdf", "docx", "txt"}
}
