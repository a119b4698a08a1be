package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ragsearch/types"
)

func defaultParser() *FileParser {
	return NewFileParser([]string{"pdf", "txt", "docx", "xls", "xlsx", "json"})
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "txt", Extension("note.txt"))
	assert.Equal(t, "pdf", Extension("Report.PDF"))
	assert.Equal(t, "json", Extension("a.b.json"))
	assert.Equal(t, "", Extension("noext"))
}

func TestParsePlainText(t *testing.T) {
	p := defaultParser()

	text, err := p.Parse(types.NewDocument([]byte("hello world"), "note.txt", nil))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestParseRejectsInvalidUTF8(t *testing.T) {
	p := defaultParser()

	_, err := p.Parse(types.NewDocument([]byte{0xff, 0xfe, 0x00}, "binary.txt", nil))

	var invalidErr types.InvalidDocumentError
	require.ErrorAs(t, err, &invalidErr)
}

func TestParseRejectsUnsupportedExtension(t *testing.T) {
	p := defaultParser()

	_, err := p.Parse(types.NewDocument([]byte("MZ"), "app.exe", nil))

	var invalidErr types.InvalidDocumentError
	require.ErrorAs(t, err, &invalidErr)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestParseRejectsEmptyText(t *testing.T) {
	p := defaultParser()

	_, err := p.Parse(types.NewDocument([]byte("   \n\t  "), "blank.txt", nil))

	var invalidErr types.InvalidDocumentError
	require.ErrorAs(t, err, &invalidErr)
	assert.Contains(t, err.Error(), "no extractable text")
}

func TestParseJSON(t *testing.T) {
	p := defaultParser()
	data := []byte(`{"title": "quarterly report", "year": 2026, "tags": ["finance", "q1"], "empty": null}`)

	text, err := p.Parse(types.NewDocument(data, "report.json", nil))
	require.NoError(t, err)

	assert.Contains(t, text, "title: quarterly report")
	assert.Contains(t, text, "year: 2026")
	assert.Contains(t, text, "tags[0]: finance")
	assert.Contains(t, text, "tags[1]: q1")
	assert.NotContains(t, text, "empty")
}

func TestParseJSONNested(t *testing.T) {
	p := defaultParser()
	data := []byte(`{"a": {"b": {"c": "deep value"}}}`)

	text, err := p.Parse(types.NewDocument(data, "nested.json", nil))
	require.NoError(t, err)
	assert.Contains(t, text, "a.b.c: deep value")
}

func TestParseMalformedJSON(t *testing.T) {
	p := defaultParser()

	_, err := p.Parse(types.NewDocument([]byte(`{"broken":`), "broken.json", nil))

	var invalidErr types.InvalidDocumentError
	require.ErrorAs(t, err, &invalidErr)
}

// createTestDOCX builds a minimal DOCX container in memory.
func createTestDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, err := w.Create("word/document.xml")
		require.NoError(t, err)
		doc.Write([]byte(documentXML))
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestParseDOCX(t *testing.T) {
	p := defaultParser()
	data := createTestDOCX(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
</w:body>
</w:document>`)

	text, err := p.Parse(types.NewDocument(data, "doc.docx", nil))
	require.NoError(t, err)

	assert.Contains(t, text, "First paragraph")
	assert.Contains(t, text, "Second paragraph")
	assert.Contains(t, text, "First paragraph\nSecond paragraph")
}

func TestParseDOCXMissingBody(t *testing.T) {
	p := defaultParser()
	data := createTestDOCX(t, "")

	_, err := p.Parse(types.NewDocument(data, "doc.docx", nil))

	var invalidErr types.InvalidDocumentError
	require.ErrorAs(t, err, &invalidErr)
}

func TestParseDOCXNotAZip(t *testing.T) {
	p := defaultParser()

	_, err := p.Parse(types.NewDocument([]byte("plain bytes"), "doc.docx", nil))

	var invalidErr types.InvalidDocumentError
	require.ErrorAs(t, err, &invalidErr)
}

func TestParseXLSX(t *testing.T) {
	p := defaultParser()

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "amount"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "widget"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 42))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	text, err := p.Parse(types.NewDocument(buf.Bytes(), "inventory.xlsx", nil))
	require.NoError(t, err)

	assert.Contains(t, text, "Sheet Sheet1")
	assert.Contains(t, text, "name\tamount")
	assert.Contains(t, text, "widget\t42")
}

func TestParseCorruptXLSX(t *testing.T) {
	p := defaultParser()

	_, err := p.Parse(types.NewDocument([]byte("not a workbook"), "data.xlsx", nil))

	var invalidErr types.InvalidDocumentError
	require.ErrorAs(t, err, &invalidErr)
}

func TestParseCorruptPDF(t *testing.T) {
	p := defaultParser()

	_, err := p.Parse(types.NewDocument([]byte("%PDF-notreally"), "broken.pdf", nil))

	var invalidErr types.InvalidDocumentError
	require.ErrorAs(t, err, &invalidErr)
}
