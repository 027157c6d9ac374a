package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// extractDocx parses DOCX bytes by reading word/document.xml from the ZIP
// archive. Paragraphs that are empty after trimming are dropped; the rest
// are joined with newlines and counted as the "paragraphs" metadata value.
// Title, author and creation date come from docProps/core.xml.
func extractDocx(data []byte) (string, Metadata, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("open zip: %w", err)
	}

	var docFile, propsFile *zip.File
	for _, f := range r.File {
		switch f.Name {
		case "word/document.xml":
			docFile = f
		case "docProps/core.xml":
			propsFile = f
		}
	}
	if docFile == nil {
		return "", nil, fmt.Errorf("word/document.xml not found in archive")
	}

	paragraphs, err := docxParagraphs(docFile)
	if err != nil {
		return "", nil, err
	}

	meta := Metadata{
		"filetype":      string(FormatDocx),
		"paragraphs":    len(paragraphs),
		"title":         Unknown,
		"author":        Unknown,
		"creation_date": Unknown,
	}
	if propsFile != nil {
		fillCoreProperties(propsFile, meta)
	}

	return strings.Join(paragraphs, "\n"), meta, nil
}

// docxParagraphs walks document.xml and returns the non-empty paragraph
// texts in document order.
func docxParagraphs(docFile *zip.File) ([]string, error) {
	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var paragraphs []string
	var current strings.Builder
	var inParagraph, inText bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			}

		case xml.CharData:
			if inText {
				current.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					inParagraph = false
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
				}
			}
		}
	}

	return paragraphs, nil
}

// coreProperties mirrors the Dublin Core fields of docProps/core.xml.
type coreProperties struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
	Created string `xml:"created"`
}

func fillCoreProperties(propsFile *zip.File, meta Metadata) {
	rc, err := propsFile.Open()
	if err != nil {
		return
	}
	defer rc.Close()

	var props coreProperties
	if err := xml.NewDecoder(rc).Decode(&props); err != nil {
		return
	}

	meta["title"] = orUnknown(props.Title)
	meta["author"] = orUnknown(props.Creator)
	meta["creation_date"] = docxDate(props.Created)
}

// docxDate renders a dcterms:created value as YYYY-MM-DD when it parses as
// RFC 3339, the raw value otherwise, and Unknown when absent.
func docxDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unknown
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("2006-01-02")
	}
	return raw
}
