package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"ragsearch/types"
)

// extractDOCXText reads word/document.xml out of the OOXML container and
// walks the run/paragraph/table elements, emitting newlines at paragraph
// and table-row boundaries and tabs between table cells.
func extractDOCXText(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", types.NewInvalidDocumentError("not a DOCX container: %v", err)
	}
	var docFile *zip.File
	for _, f := range r.File {
		if strings.EqualFold(f.Name, "word/document.xml") {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", types.NewInvalidDocumentError("DOCX container has no word/document.xml")
	}
	rc, err := docFile.Open()
	if err != nil {
		return "", types.NewInvalidDocumentError("failed to open DOCX body: %v", err)
	}
	defer rc.Close()
	return docxTextFromXML(rc), nil
}

func docxTextFromXML(r io.Reader) string {
	dec := xml.NewDecoder(r)
	var buf bytes.Buffer
	var lastWasNewline bool
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					buf.WriteString(text)
					lastWasNewline = false
				}
			case "tab":
				buf.WriteByte('\t')
				lastWasNewline = false
			case "br", "cr":
				buf.WriteByte('\n')
				lastWasNewline = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p", "tr":
				if !lastWasNewline {
					buf.WriteByte('\n')
					lastWasNewline = true
				}
			case "tc":
				if !lastWasNewline {
					buf.WriteByte('\t')
					lastWasNewline = false
				}
			}
		}
	}
	return buf.String()
}
