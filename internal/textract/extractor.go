// Package textract turns uploaded resume files into plain text. Extraction
// is best effort: callers always get a usable string back, degraded to a
// placeholder when a file cannot be read at all. Extraction failure is a
// quality problem for downstream parsing, never a pipeline failure.
package textract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz" // Lightweight PDF renderer

	"github.com/jobradar/radar/pkg/logx"
)

// minUsableText is the shortest decoded content worth handing to the
// parser; anything below it degrades to a placeholder.
const minUsableText = 10

// Extract returns the text content of a resume file. The file kind is
// decided by extension: .pdf and .docx get structured extraction, anything
// else is treated as plain UTF-8 text. Extract never returns an error; on
// total failure the result is a placeholder describing what went wrong so
// downstream parsing still has something to carry.
func Extract(ctx context.Context, filename string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		text, err := extractPDF(data)
		if err != nil {
			logx.Warnf("textract: pdf extraction failed for %s: %v", filename, err)
			return fmt.Sprintf("[PDF file: %d bytes. Text extraction failed: %v]", len(data), err)
		}
		if text = normalizeWhitespace(text); text == "" {
			return fmt.Sprintf("[PDF file: %d bytes. Text extraction failed: no text content]", len(data))
		}
		return text
	case ".docx":
		text, err := extractDOCX(data)
		if err != nil {
			logx.Warnf("textract: docx extraction failed for %s: %v", filename, err)
			return docxFailurePlaceholder
		}
		if text = normalizeWhitespace(text); text == "" {
			return docxFailurePlaceholder
		}
		return text
	default:
		text := normalizeWhitespace(string(data))
		if len(text) < minUsableText {
			return fmt.Sprintf("[Unsupported file type %s: %d bytes. Content could not be read as text]",
				kindOf(ext), len(data))
		}
		return text
	}
}

// docxFailurePlaceholder stands in when a Word document cannot be read.
// DOCX extraction covers only the main document part, so the advice is
// to re-upload as PDF.
const docxFailurePlaceholder = "[Word document could not be read. " +
	"Please convert the resume to PDF and upload it again for best results]"

func kindOf(ext string) string {
	if ext == "" {
		return "unknown"
	}
	return ext
}

// extractPDF walks the document page by page. A page that fails to render
// is skipped rather than failing the whole document.
func extractPDF(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	pageCount := doc.NumPage()
	for i := 0; i < pageCount; i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			logx.Warnf("textract: skipping unreadable PDF page %d: %v", i, err)
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// docx body markup, just enough to pull text runs and paragraph breaks.
type docxBody struct {
	Paragraphs []docxParagraph `xml:"body>p"`
}

type docxParagraph struct {
	Runs []string `xml:"r>t"`
}

// extractDOCX opens the zip container and decodes word/document.xml. Only
// text runs are kept; tables, headers, and footers are out of scope.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx container: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document part: %w", err)
		}
		defer rc.Close()

		raw, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("failed to read document part: %w", err)
		}

		var body docxBody
		if err := xml.Unmarshal(raw, &body); err != nil {
			return "", fmt.Errorf("failed to decode document markup: %w", err)
		}

		lines := make([]string, 0, len(body.Paragraphs))
		for _, p := range body.Paragraphs {
			lines = append(lines, strings.Join(p.Runs, ""))
		}
		return strings.Join(lines, "\n"), nil
	}
	return "", fmt.Errorf("docx container has no word/document.xml")
}

var (
	spaceRuns = regexp.MustCompile(`[ \t]+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// normalizeWhitespace collapses space runs and caps consecutive blank
// lines at one, keeping paragraph boundaries intact for the parser.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
