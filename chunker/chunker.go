// Package chunker implements the deterministic, token-aware text splitter
// (component C2). It is a pure function of its input text and configuration:
// given the same text, token size, and overlap, it always produces the same
// ordered sequence of chunks.
package chunker

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/sideletter/callprep/ai/tokenizer"
)

// separators is the recursive separator hierarchy: paragraphs first, then
// sentences, then raw whitespace as the last resort.
var separators = []string{"\n\n", ". ", " "}

// Chunk is one (ordinal, text, page?) tuple emitted by Split, in document
// reading order.
type Chunk struct {
	Ordinal int
	Text    string
	Page    *int
}

// Chunker splits extracted text into overlapping, token-bounded chunks.
type Chunker struct {
	tok           tokenizer.Tokenizer
	sizeTokens    int
	overlapTokens int
}

// New builds a Chunker. tok is used both to measure segment length and to
// carry the trailing overlapTokens of one chunk into the next, so the
// overlap is measured in the same unit as the size bound.
func New(tok tokenizer.Tokenizer, sizeTokens, overlapTokens int) *Chunker {
	return &Chunker{tok: tok, sizeTokens: sizeTokens, overlapTokens: overlapTokens}
}

// PageBreak marks the byte offset in the source text at which a new
// (1-indexed) page begins. Extractors that don't carry page information
// simply pass nil, in which case every chunk's Page is nil.
type PageBreak struct {
	Offset int
	Page   int
}

// Split divides text into chunks of at most sizeTokens tokens, with
// overlapTokens of token-level overlap between consecutive chunks. Output
// order is document reading order; ordinals are contiguous from 0.
func (c *Chunker) Split(ctx context.Context, text string, pages []PageBreak) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	segments, err := c.recursiveSplit(ctx, text, 0)
	if err != nil {
		return nil, err
	}

	packed, err := c.pack(ctx, segments)
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, 0, len(packed))
	for i, t := range packed {
		chunk := Chunk{Ordinal: i, Text: t}
		if off, ok := findOffset(text, t); ok {
			chunk.Page = pageOf(pages, off)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// segment is an atomic piece of text produced by recursiveSplit, annotated
// with its token count so pack doesn't need to re-tokenize it.
type segment struct {
	text   string
	tokens int
}

// recursiveSplit breaks text on the separator hierarchy, descending to the
// next separator only for pieces that still exceed the token budget, and
// falling back to a hard token-window split once separators are exhausted.
func (c *Chunker) recursiveSplit(ctx context.Context, text string, depth int) ([]segment, error) {
	n, err := c.countTokens(ctx, text)
	if err != nil {
		return nil, err
	}
	if n <= c.sizeTokens || depth >= len(separators) {
		if n <= c.sizeTokens {
			return []segment{{text: text, tokens: n}}, nil
		}
		return c.hardSplit(ctx, text)
	}

	sep := separators[depth]
	parts := lo.Filter(splitKeepingSeparator(text, sep), func(p string, _ int) bool {
		return strings.TrimSpace(p) != ""
	})

	var out []segment
	for _, p := range parts {
		pn, err := c.countTokens(ctx, p)
		if err != nil {
			return nil, err
		}
		if pn <= c.sizeTokens {
			out = append(out, segment{text: p, tokens: pn})
			continue
		}
		sub, err := c.recursiveSplit(ctx, p, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// hardSplit is the terminal fallback when a single whitespace-delimited run
// still exceeds the token budget (e.g. one very long token-dense word run):
// splits the token stream directly into fixed windows.
func (c *Chunker) hardSplit(ctx context.Context, text string) ([]segment, error) {
	toks, err := c.tok.Encode(ctx, text)
	if err != nil {
		return nil, err
	}
	var out []segment
	for i := 0; i < len(toks); i += c.sizeTokens {
		end := min(i+c.sizeTokens, len(toks))
		piece, err := c.tok.Decode(ctx, toks[i:end])
		if err != nil {
			return nil, err
		}
		out = append(out, segment{text: piece, tokens: end - i})
	}
	return out, nil
}

// pack greedily accumulates segments into chunks up to sizeTokens, carrying
// the trailing overlapTokens worth of segments from one chunk into the
// start of the next.
func (c *Chunker) pack(ctx context.Context, segments []segment) ([]string, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	var chunks []string
	var cur []segment
	var curTokens int

	flush := func() {
		if len(cur) == 0 {
			return
		}
		var b strings.Builder
		for _, s := range cur {
			b.WriteString(s.text)
		}
		chunks = append(chunks, strings.TrimSpace(b.String()))
	}

	carryOverlap := func() {
		var overlap []segment
		var overlapTokens int
		for i := len(cur) - 1; i >= 0 && overlapTokens < c.overlapTokens; i-- {
			overlap = append([]segment{cur[i]}, overlap...)
			overlapTokens += cur[i].tokens
		}
		cur = overlap
		curTokens = overlapTokens
	}

	for _, s := range segments {
		if curTokens > 0 && curTokens+s.tokens > c.sizeTokens {
			flush()
			carryOverlap()
		}
		cur = append(cur, s)
		curTokens += s.tokens
	}
	flush()

	return chunks, nil
}

func (c *Chunker) countTokens(ctx context.Context, text string) (int, error) {
	toks, err := c.tok.Encode(ctx, text)
	if err != nil {
		return 0, err
	}
	return len(toks), nil
}

// splitKeepingSeparator splits s on sep, re-appending sep to every piece but
// the last so reassembly of the original text is lossless up to trailing
// whitespace, satisfying the round-trip testable property.
func splitKeepingSeparator(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := 0; i < len(parts)-1; i++ {
		parts[i] += sep
	}
	return parts
}

// findOffset locates piece's starting byte offset within text. Packed
// chunks are trimmed, so we search for the trimmed form.
func findOffset(text, piece string) (int, bool) {
	trimmed := strings.TrimSpace(piece)
	if trimmed == "" {
		return 0, false
	}
	idx := strings.Index(text, trimmed)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// pageOf returns the page containing byte offset, or nil if pages is empty.
func pageOf(pages []PageBreak, offset int) *int {
	if len(pages) == 0 {
		return nil
	}
	sorted := append([]PageBreak(nil), pages...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	page := sorted[0].Page
	for _, pb := range sorted {
		if pb.Offset > offset {
			break
		}
		page = pb.Page
	}
	p := page
	return &p
}
