package textract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	text := Extract(context.Background(), "resume.txt", []byte("John Doe\nSoftware Engineer"))
	assert.Equal(t, "John Doe\nSoftware Engineer", text)
}

func TestExtractUnknownExtensionTreatedAsText(t *testing.T) {
	text := Extract(context.Background(), "resume.md", []byte("plain content"))
	assert.Equal(t, "plain content", text)
}

func TestExtractCorruptPDFReturnsPlaceholder(t *testing.T) {
	payload := []byte("not a pdf at all")
	text := Extract(context.Background(), "broken.pdf", payload)
	assert.True(t, strings.HasPrefix(text, "[PDF file: 16 bytes. Text extraction failed:"), text)
	assert.True(t, strings.HasSuffix(text, "]"), text)
}

func TestExtractCorruptDOCXReturnsPlaceholder(t *testing.T) {
	text := Extract(context.Background(), "broken.docx", []byte{0x00, 0x01, 0x02})
	assert.Equal(t, docxFailurePlaceholder, text)
	assert.Contains(t, text, "convert the resume to PDF")
}

func TestExtractEmptyFileReturnsPlaceholder(t *testing.T) {
	text := Extract(context.Background(), "empty.txt", []byte("   \n\n  "))
	assert.Equal(t, "[Unsupported file type .txt: 7 bytes. Content could not be read as text]", text)
}

func TestExtractTinyContentReturnsPlaceholder(t *testing.T) {
	text := Extract(context.Background(), "resume.md", []byte("cv"))
	assert.Equal(t, "[Unsupported file type .md: 2 bytes. Content could not be read as text]", text)
}

func TestExtractNoExtensionReportedAsUnknown(t *testing.T) {
	text := Extract(context.Background(), "resume", []byte{0xff, 0xfe})
	assert.Equal(t, "[Unsupported file type unknown: 2 bytes. Content could not be read as text]", text)
}

func TestExtractDOCX(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<document>
  <body>
    <p><r><t>Jane Smith</t></r></p>
    <p><r><t>Senior </t></r><r><t>Engineer</t></r></p>
  </body>
</document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	text := Extract(context.Background(), "resume.docx", buf.Bytes())
	assert.Contains(t, text, "Jane Smith")
	assert.Contains(t, text, "Senior Engineer")
}

func TestExtractDOCXMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	text := Extract(context.Background(), "odd.docx", buf.Bytes())
	assert.Equal(t, docxFailurePlaceholder, text)
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "Name\t\tHere\r\n\n\n\n\nNext   section"
	out := normalizeWhitespace(in)
	assert.Equal(t, "Name Here\n\nNext section", out)
}
