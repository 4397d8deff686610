package ingestion

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/chunker"
)

// Extractor turns raw uploaded bytes of a given MIME type into reading-order
// text plus, where the source format carries them, page boundaries. The
// pipeline treats any extractor error as terminal for the document
// (EXTRACTION_ERROR); extractors do not retry internally.
type Extractor interface {
	Extract(ctx context.Context, mime string, data []byte) (text string, pages []chunker.PageBreak, err error)
}

// PlainTextExtractor handles the text-oriented MIME types a sales-enablement
// document corpus is dominated by (plain text and Markdown exports); it
// performs no page segmentation since neither format carries page breaks.
// Binary formats (PDF, DOCX) are out of scope for this extractor and fail
// with EXTRACTION_ERROR, same as any other unsupported MIME type.
type PlainTextExtractor struct{}

var _ Extractor = PlainTextExtractor{}

var supportedTextMIMEs = map[string]bool{
	"text/plain":    true,
	"text/markdown": true,
	"text/csv":      true,
}

func (PlainTextExtractor) Extract(_ context.Context, mime string, data []byte) (string, []chunker.PageBreak, error) {
	mime = strings.ToLower(strings.TrimSpace(strings.SplitN(mime, ";", 2)[0]))
	if !supportedTextMIMEs[mime] {
		return "", nil, apperr.New(apperr.ExtractionError, "unsupported MIME type for extraction: "+mime)
	}
	if !utf8.Valid(data) {
		return "", nil, apperr.New(apperr.ExtractionError, "document bytes are not valid UTF-8 text")
	}
	return string(data), nil, nil
}
