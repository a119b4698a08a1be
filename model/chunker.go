package model

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const defaultMaxTokens = 2000

// Chunker splits extracted text into token-bounded chunks. Paragraphs
// are the split unit; adjacent paragraphs are merged while they fit the
// token budget, and a single oversized paragraph falls back to fixed
// token windows.
type Chunker struct {
	enc       *tiktoken.Tiktoken
	maxTokens int
}

func NewChunker(maxTokens int) (*Chunker, error) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return nil, err
	}
	return &Chunker{enc: enc, maxTokens: maxTokens}, nil
}

func (c *Chunker) CountTokens(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

func (c *Chunker) Split(text string) []string {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentTokens = 0
		}
	}

	for _, p := range paragraphs {
		tokens := c.CountTokens(p)

		if tokens > c.maxTokens {
			flush()
			chunks = append(chunks, c.splitByWindow(p)...)
			continue
		}

		// +1 accounts for the joining newline
		if currentTokens+tokens+1 > c.maxTokens {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
			currentTokens++
		}
		current.WriteString(p)
		currentTokens += tokens
	}
	flush()

	return chunks
}

// splitByWindow cuts one paragraph into consecutive windows of at most
// maxTokens tokens.
func (c *Chunker) splitByWindow(text string) []string {
	tokens := c.enc.Encode(text, nil, nil)
	var out []string
	for start := 0; start < len(tokens); start += c.maxTokens {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		piece := c.enc.Decode(tokens[start:end])
		if strings.TrimSpace(piece) != "" {
			out = append(out, piece)
		}
	}
	return out
}

func splitParagraphs(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
