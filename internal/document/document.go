// Package document defines the backend boundary the annotation pipeline
// consumes: page text, positioned text spans and page rasters from an
// opaque document source.
package document

import (
	"fmt"
	"image"
)

// Span is a contiguous run of text on a page with its bounding box in
// page-coordinate units (points).
type Span struct {
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	Text string  `json:"text"`
}

// Info carries document-level metadata.
type Info struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Subject   string `json:"subject"`
	FilePath  string `json:"file_path"`
	PageCount int    `json:"page_count"`
}

// Backend supplies page content for one open document. Page indexes are
// zero-based in [0, PageCount). Implementations need not be safe for
// concurrent use; the pipeline serializes access.
type Backend interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// Info returns document-level metadata.
	Info() Info

	// PageText returns the full text of a page.
	PageText(page int) (string, error)

	// PageSpans returns the ordered text spans of a page with bounding
	// boxes in page coordinates.
	PageSpans(page int) ([]Span, error)

	// RenderPage rasterizes a page at the requested DPI.
	RenderPage(page int, dpi float64) (*image.RGBA, error)

	// Close releases the underlying document handle.
	Close() error
}

// OpenError reports a document that could not be opened or validated.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open document %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// ErrPageOutOfRange is returned for page indexes outside [0, PageCount).
type ErrPageOutOfRange struct {
	Page      int
	PageCount int
}

func (e *ErrPageOutOfRange) Error() string {
	return fmt.Sprintf("page %d out of range [0, %d)", e.Page, e.PageCount)
}
