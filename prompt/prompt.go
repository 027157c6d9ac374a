// Package prompt assembles the instruction-plus-content strings sent to the
// summarization endpoint. Everything here is a pure function of its inputs.
package prompt

import (
	"strings"

	"paperdigest/extract"
)

// Summary length options accepted from the caller. Anything else falls
// through to the medium instruction.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// MaxDocumentChars is the character budget applied to a document body before
// it is embedded in a prompt. One uniform budget, applied independently per
// document and again to the concatenated combined text.
const MaxDocumentChars = 12000

// truncationMarker is appended whenever a body was cut to the budget.
const truncationMarker = "\n\n[Text truncated for processing.]"

// combinedClause extends the caller's instructions for the cross-document
// summary call.
const combinedClause = " Additionally, write a single integrated summary " +
	"that highlights the overall themes, similarities, differences, and key " +
	"contributions across all of these papers."

// Input carries everything needed to build one summarization prompt.
type Input struct {
	Text         string
	Length       string
	Instructions string
	Metadata     extract.Metadata
}

// Truncate cuts text to the leading MaxDocumentChars characters and appends
// the truncation marker. Text within the budget passes through unchanged.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxDocumentChars {
		return text
	}
	return string(runes[:MaxDocumentChars]) + truncationMarker
}

func lengthInstruction(length string) string {
	switch length {
	case LengthShort:
		return "Write a very short summary (3-4 bullet points)."
	case LengthLong:
		return "Write a detailed summary (8-12 bullet points or 5-8 sentences)."
	default:
		return "Write a concise summary (5-7 bullet points or 3-5 sentences)."
	}
}

// Build assembles a single-document prompt: length instruction plus verbatim
// caller instructions, an optional three-line metadata header, then the
// (possibly truncated) document body.
func Build(in Input) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(lengthInstruction(in.Length) + " " + in.Instructions))
	sb.WriteString("\n\n")

	if in.Metadata != nil {
		sb.WriteString("Title: ")
		sb.WriteString(in.Metadata.Field("title", extract.Unknown))
		sb.WriteString("\nAuthor(s): ")
		sb.WriteString(in.Metadata.Field("author", extract.Unknown))
		sb.WriteString("\nDate: ")
		sb.WriteString(in.Metadata.Field("creation_date", extract.Unknown))
		sb.WriteString("\n\n")
	}

	sb.WriteString("Document:\n")
	sb.WriteString(Truncate(in.Text))
	return sb.String()
}

// Part is one successfully-extracted document entering the combined summary.
type Part struct {
	Filename string
	Text     string
}

// BuildCombined assembles the cross-document prompt over the concatenation
// of all extracted texts, each tagged with its filename, under a synthetic
// metadata record. The per-document budget applies to the concatenation.
func BuildCombined(parts []Part, length, instructions string) string {
	tagged := make([]string, len(parts))
	for i, p := range parts {
		tagged[i] = "Paper: " + p.Filename + "\n" + p.Text + "\n"
	}

	return Build(Input{
		Text:         strings.Join(tagged, "\n\n"),
		Length:       length,
		Instructions: instructions + combinedClause,
		Metadata: extract.Metadata{
			"title":         "Multiple Papers",
			"author":        "Various",
			"creation_date": "Various",
		},
	})
}
