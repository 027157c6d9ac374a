// Package batch runs the per-request summarization pipeline: extraction,
// prompt construction and model calls for every uploaded document, plus one
// combined cross-document call when anything yielded text.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"paperdigest/extract"
	"paperdigest/inference"
	"paperdigest/prompt"
)

// ErrNoFiles is returned when a batch arrives with an empty file list. It is
// the only whole-batch failure; everything else degrades per document.
var ErrNoFiles = errors.New("no files uploaded")

// Fixed per-document failure messages surfaced to the caller.
const (
	msgEmptyFile       = "Empty file"
	msgUnsupportedType = "File type not allowed. Please upload PDF, DOCX, or TXT."
)

// Upload is one file handed in by the caller.
type Upload struct {
	Filename string
	Data     []byte
}

// Options are the caller-supplied summary controls, shared by every document
// in the batch.
type Options struct {
	Length       string
	Instructions string
}

// DocumentResult reports one document's outcome. Exactly one of Summary and
// Error is populated.
type DocumentResult struct {
	Filename string           `json:"filename"`
	Summary  string           `json:"summary,omitempty"`
	Error    string           `json:"error,omitempty"`
	Metadata extract.Metadata `json:"metadata,omitempty"`
}

// Result is the full batch outcome. CombinedSummary is nil when no document
// produced text; a failed combined call leaves its error text as the value.
type Result struct {
	Summaries       []DocumentResult `json:"summaries"`
	CombinedSummary *string          `json:"combined_summary"`
}

// Config wires an Orchestrator.
type Config struct {
	Extractor    *extract.Pipeline
	Summarizer   inference.Summarizer
	MaxFiles     int
	MaxFileBytes int64
	Concurrency  int
	Logger       *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxFiles == 0 {
		c.MaxFiles = 2
	}
	if c.MaxFileBytes == 0 {
		c.MaxFileBytes = 10 << 20
	}
	if c.Concurrency == 0 {
		c.Concurrency = 2
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Orchestrator processes batches. Documents are independent: each runs in
// its own goroutine, failures stay local, and results come back in input
// order.
type Orchestrator struct {
	extractor    *extract.Pipeline
	summarizer   inference.Summarizer
	maxFiles     int
	maxFileBytes int64
	concurrency  int
	logger       *slog.Logger
}

// New builds an Orchestrator from cfg, filling in defaults.
func New(cfg Config) *Orchestrator {
	cfg.defaults()
	return &Orchestrator{
		extractor:    cfg.Extractor,
		summarizer:   cfg.Summarizer,
		maxFiles:     cfg.MaxFiles,
		maxFileBytes: cfg.MaxFileBytes,
		concurrency:  cfg.Concurrency,
		logger:       cfg.Logger.With("component", "batch"),
	}
}

// MaxFiles reports the batch-size cap.
func (o *Orchestrator) MaxFiles() int { return o.maxFiles }

// MaxFileBytes reports the per-file size cap.
func (o *Orchestrator) MaxFileBytes() int64 { return o.maxFileBytes }

// Process runs the whole pipeline for one batch. The returned error is
// non-nil only for an empty file list; per-document problems land in the
// result entries instead.
func (o *Orchestrator) Process(ctx context.Context, uploads []Upload, opts Options) (*Result, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	o.logger.Info("Processing batch",
		"files", len(uploads),
		"length", opts.Length)

	results := make([]DocumentResult, len(uploads))
	texts := make([]string, len(uploads))

	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup
	for i, up := range uploads {
		wg.Add(1)
		go func(i int, up Upload) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, text := o.processDocument(ctx, i, up, opts)
			results[i] = res
			texts[i] = text
		}(i, up)
	}
	wg.Wait()

	res := &Result{Summaries: results}

	var parts []prompt.Part
	for i, text := range texts {
		if text != "" {
			parts = append(parts, prompt.Part{Filename: uploads[i].Filename, Text: text})
		}
	}
	if len(parts) > 0 {
		combined := o.combinedSummary(ctx, parts, opts)
		res.CombinedSummary = &combined
	}

	return res, nil
}

// processDocument runs one document through extract → prompt → summarize.
// The second return value is the extracted text, non-empty only when it
// should feed the combined summary.
func (o *Orchestrator) processDocument(ctx context.Context, index int, up Upload, opts Options) (DocumentResult, string) {
	fail := func(msg string) (DocumentResult, string) {
		o.logger.Warn("Document failed",
			"filename", up.Filename,
			"error", msg)
		return DocumentResult{Filename: up.Filename, Error: msg}, ""
	}

	if index >= o.maxFiles {
		return fail(fmt.Sprintf("Too many files uploaded (max %d)", o.maxFiles))
	}
	if up.Filename == "" {
		return fail(msgEmptyFile)
	}
	if int64(len(up.Data)) > o.maxFileBytes {
		return fail(fmt.Sprintf("File exceeds the %d MB size limit", o.maxFileBytes>>20))
	}
	if _, err := o.extractor.Detect(up.Filename); err != nil {
		return fail(msgUnsupportedType)
	}

	extracted, err := o.extractor.Extract(ctx, up.Filename, up.Data)
	if err != nil {
		return fail(fmt.Sprintf("Failed to extract text: %v", err))
	}

	p := prompt.Build(prompt.Input{
		Text:         extracted.Text,
		Length:       opts.Length,
		Instructions: opts.Instructions,
		Metadata:     extracted.Metadata,
	})
	summary, err := o.summarizer.Summarize(ctx, p)
	if err != nil {
		res, _ := fail(fmt.Sprintf("Failed to summarize: %v", err))
		return res, extracted.Text
	}

	return DocumentResult{
		Filename: up.Filename,
		Summary:  summary,
		Metadata: extracted.Metadata,
	}, extracted.Text
}

func (o *Orchestrator) combinedSummary(ctx context.Context, parts []prompt.Part, opts Options) string {
	p := prompt.BuildCombined(parts, opts.Length, opts.Instructions)
	summary, err := o.summarizer.Summarize(ctx, p)
	if err != nil {
		o.logger.Warn("Combined summary failed", "error", err)
		return "Error while generating combined summary: " + err.Error()
	}
	return summary
}
