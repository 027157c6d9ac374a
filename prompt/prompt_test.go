package prompt

import (
	"strings"
	"testing"

	"paperdigest/extract"
)

func TestTruncatePassThrough(t *testing.T) {
	text := "Hello world"
	if got := Truncate(text); got != text {
		t.Fatalf("short text changed: %q", got)
	}
}

func TestTruncateExact(t *testing.T) {
	text := strings.Repeat("a", MaxDocumentChars+500)
	got := Truncate(text)
	if !strings.HasSuffix(got, truncationMarker) {
		t.Fatalf("missing truncation marker: %q", got[len(got)-60:])
	}
	body := strings.TrimSuffix(got, truncationMarker)
	if len(body) != MaxDocumentChars {
		t.Fatalf("body length = %d, want %d", len(body), MaxDocumentChars)
	}
}

func TestTruncateIdempotent(t *testing.T) {
	text := strings.Repeat("b", MaxDocumentChars*2)
	once := Truncate(text)
	if twice := Truncate(once); twice != once {
		t.Fatal("second truncation changed the text")
	}
}

func TestTruncateAtBoundary(t *testing.T) {
	text := strings.Repeat("c", MaxDocumentChars)
	if got := Truncate(text); got != text {
		t.Fatal("text exactly at the budget should pass through")
	}
}

func TestBuildLengthMapping(t *testing.T) {
	cases := []struct {
		length string
		want   string
	}{
		{LengthShort, "very short summary (3-4 bullet points)"},
		{LengthMedium, "concise summary (5-7 bullet points or 3-5 sentences)"},
		{LengthLong, "detailed summary (8-12 bullet points or 5-8 sentences)"},
		{"", "concise summary"},
		{"gigantic", "concise summary"},
	}
	for _, tc := range cases {
		got := Build(Input{Text: "body", Length: tc.length})
		if !strings.Contains(got, tc.want) {
			t.Errorf("length %q: prompt missing %q", tc.length, tc.want)
		}
	}
}

func TestBuildInstructionsVerbatim(t *testing.T) {
	instr := `focus on <methods> & "results"; ignore refs`
	got := Build(Input{Text: "body", Instructions: instr})
	if !strings.Contains(got, instr) {
		t.Fatalf("instructions not carried verbatim:\n%s", got)
	}
}

func TestBuildMetadataHeader(t *testing.T) {
	got := Build(Input{
		Text: "body",
		Metadata: extract.Metadata{
			"title":         "Attention Is All You Need",
			"creation_date": "2017-06-12",
		},
	})
	for _, line := range []string{
		"Title: Attention Is All You Need",
		"Author(s): Unknown",
		"Date: 2017-06-12",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("prompt missing header line %q:\n%s", line, got)
		}
	}
}

func TestBuildNoMetadata(t *testing.T) {
	got := Build(Input{Text: "Hello world", Length: LengthShort})
	if strings.Contains(got, "Title:") {
		t.Fatal("header emitted without metadata")
	}
	if !strings.Contains(got, "Hello world") {
		t.Fatal("body missing")
	}
}

func TestBuildShortScenario(t *testing.T) {
	got := Build(Input{Text: "Hello world", Length: LengthShort})
	if !strings.Contains(got, "very short summary") {
		t.Fatal("short instruction missing")
	}
	if !strings.Contains(got, "Hello world") || strings.Contains(got, truncationMarker) {
		t.Fatal("small body must appear untruncated")
	}
}

func TestBuildCombined(t *testing.T) {
	got := BuildCombined([]Part{
		{Filename: "a.pdf", Text: "first paper"},
		{Filename: "b.docx", Text: "second paper"},
	}, LengthMedium, "be brief.")

	for _, want := range []string{
		"Paper: a.pdf\nfirst paper",
		"Paper: b.docx\nsecond paper",
		"Title: Multiple Papers",
		"Author(s): Various",
		"Date: Various",
		"integrated summary",
		"be brief.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("combined prompt missing %q", want)
		}
	}
}

func TestBuildCombinedTruncates(t *testing.T) {
	parts := []Part{{Filename: "big.pdf", Text: strings.Repeat("x", MaxDocumentChars+100)}}
	got := BuildCombined(parts, LengthMedium, "")
	if !strings.Contains(got, truncationMarker) {
		t.Fatal("oversized concatenation not truncated")
	}
}
