// Package extract converts uploaded file bytes into plain text for
// chunking and embedding. One extractor per supported format.
package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"ragsearch/types"
)

// Parser turns a stored document into extractable plain text.
type Parser interface {
	Parse(doc types.Document) (string, error)
}

type FileParser struct {
	extensions map[string]struct{}
	logger     *slog.Logger
}

func NewFileParser(supportedExtensions []string) *FileParser {
	exts := make(map[string]struct{}, len(supportedExtensions))
	for _, e := range supportedExtensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &FileParser{
		extensions: exts,
		logger:     slog.Default(),
	}
}

// Extension returns the lower-cased filename extension without the dot.
func Extension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

func (p *FileParser) supported() []string {
	exts := make([]string, 0, len(p.extensions))
	for e := range p.extensions {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

func (p *FileParser) Parse(doc types.Document) (string, error) {
	ext := Extension(doc.Filename)
	if _, ok := p.extensions[ext]; !ok {
		return "", types.NewInvalidDocumentError(
			"unsupported file format: %s. Supported formats: %s",
			doc.Filename, strings.Join(p.supported(), ", "))
	}

	var (
		text string
		err  error
	)
	switch ext {
	case "txt":
		text, err = extractPlainText(doc.Content)
	case "json":
		text, err = extractJSONText(doc.Content)
	case "pdf":
		text, err = extractPDFText(doc.Content)
	case "docx":
		text, err = extractDOCXText(doc.Content)
	case "xlsx":
		text, err = extractXLSXText(doc.Content)
	case "xls":
		text, err = extractXLSText(doc.Content)
	default:
		return "", types.NewInvalidDocumentError("no extractor for format: %s", ext)
	}
	if err != nil {
		p.logger.Error("file extraction failed", "filename", doc.Filename, "error", err)
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", types.NewInvalidDocumentError("no extractable text in %s", doc.Filename)
	}
	return text, nil
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", types.NewInvalidDocumentError("file is not valid UTF-8 text")
	}
	return string(data), nil
}

// extractJSONText flattens a JSON document into "path: value" lines so
// keys stay searchable next to their values.
func extractJSONText(data []byte) (string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", types.NewInvalidDocumentError("malformed JSON: %v", err)
	}
	var b strings.Builder
	flattenJSON(&b, "", v)
	return b.String(), nil
}

func flattenJSON(b *strings.Builder, path string, v any) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenJSON(b, joinPath(path, k), val[k])
		}
	case []any:
		for i, item := range val {
			flattenJSON(b, fmt.Sprintf("%s[%d]", path, i), item)
		}
	case nil:
	default:
		if path == "" {
			fmt.Fprintf(b, "%v\n", val)
			return
		}
		fmt.Fprintf(b, "%s: %v\n", path, val)
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
