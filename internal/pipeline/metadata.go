package pipeline

import (
	"fmt"

	"github.com/doctrail/doctrail/internal/annotation"
	"github.com/doctrail/doctrail/internal/document"
)

// BoundingBox is one text span with its page-coordinate box and the
// annotations detected in its text.
type BoundingBox struct {
	X0          float64                 `json:"x0"`
	Y0          float64                 `json:"y0"`
	X1          float64                 `json:"x1"`
	Y1          float64                 `json:"y1"`
	Text        string                  `json:"text"`
	Annotations []annotation.Annotation `json:"annotations"`
}

// PageMetadata is the fully annotated view of one page: its text, every
// span with per-span annotations, and page-level keyword/URL summaries.
type PageMetadata struct {
	PageNumber    int                     `json:"page_number"`
	Content       string                  `json:"content"`
	BoundingBoxes []BoundingBox           `json:"bounding_boxes"`
	KeywordsFound []annotation.Annotation `json:"keywords_found"`
	URLsFound     []annotation.Annotation `json:"urls_found"`
}

// MetadataBuilder assembles PageMetadata records from a document
// backend, batching span texts through one Manager lookup.
type MetadataBuilder struct {
	manager *annotation.Manager
}

// NewMetadataBuilder creates a builder bound to a Manager.
func NewMetadataBuilder(manager *annotation.Manager) *MetadataBuilder {
	return &MetadataBuilder{manager: manager}
}

// Build extracts text and spans for one page and annotates both. The
// returned BoundingBoxes are index-aligned with the backend's spans;
// spans without matches keep an empty annotation list. Page-level
// annotations are computed over the whole page text, which is a
// separate cache entry from any individual span.
func (b *MetadataBuilder) Build(backend document.Backend, page int) (*PageMetadata, error) {
	text, err := backend.PageText(page)
	if err != nil {
		return nil, fmt.Errorf("page %d text: %w", page, err)
	}

	spans, err := backend.PageSpans(page)
	if err != nil {
		return nil, fmt.Errorf("page %d spans: %w", page, err)
	}

	spanTexts := make([]string, len(spans))
	for i, s := range spans {
		spanTexts[i] = s.Text
	}

	batch, err := b.manager.FindBatch(spanTexts)
	if err != nil {
		return nil, fmt.Errorf("page %d span annotations: %w", page, err)
	}

	boxes := make([]BoundingBox, len(spans))
	for i, s := range spans {
		boxes[i] = BoundingBox{
			X0:          s.X0,
			Y0:          s.Y0,
			X1:          s.X1,
			Y1:          s.Y1,
			Text:        s.Text,
			Annotations: batch[i],
		}
	}

	pageAnnotations, err := b.manager.FindAllInText(text)
	if err != nil {
		return nil, fmt.Errorf("page %d annotations: %w", page, err)
	}

	var keywords, urls []annotation.Annotation
	for _, a := range pageAnnotations {
		switch a.Kind {
		case annotation.KindKeyword:
			keywords = append(keywords, a)
		case annotation.KindURLValidation:
			urls = append(urls, a)
		}
	}

	return &PageMetadata{
		PageNumber:    page,
		Content:       text,
		BoundingBoxes: boxes,
		KeywordsFound: keywords,
		URLsFound:     urls,
	}, nil
}
