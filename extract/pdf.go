package extract

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"ragsearch/types"
)

// extractPDFText validates the PDF structure, then pulls the plain text
// of every page. Encrypted or corrupt files are rejected as invalid
// documents rather than surfacing library internals.
func extractPDFText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", types.NewInvalidDocumentError("empty PDF file")
	}

	conf := api.LoadConfiguration()
	if _, err := api.PageCount(bytes.NewReader(data), conf); err != nil {
		return "", types.NewInvalidDocumentError("not a readable PDF: %v", err)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", types.NewInvalidDocumentError("failed to open PDF: %v", err)
	}
	reader, err := r.GetPlainText()
	if err != nil {
		return "", types.NewInvalidDocumentError("failed to extract PDF text: %v", err)
	}
	out, err := io.ReadAll(reader)
	if err != nil {
		return "", types.NewInvalidDocumentError("failed to read PDF text: %v", err)
	}
	return string(out), nil
}
