package pipeline

import (
	"image"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/doctrail/doctrail/internal/annotation"
	"github.com/doctrail/doctrail/internal/document"
)

const (
	// DefaultBaseDPI is the raster resolution at zoom 1.0.
	DefaultBaseDPI = 150.0

	pointsPerInch = 72.0
)

// Summary counts the annotations found on the current page. Total
// counts every annotation regardless of kind; Keywords and URLs count
// only their own kind, so a future kind shows up in Total alone.
type Summary struct {
	Total    int `json:"total"`
	Keywords int `json:"keywords"`
	URLs     int `json:"urls"`
}

// DocumentInfo is document-level metadata plus the per-page annotated
// metadata map built by Info.
type DocumentInfo struct {
	document.Info
	PageMetadata map[int]*PageMetadata `json:"page_metadata"`
}

// Opener opens a document backend for a path. Injectable so tests can
// substitute a fake backend.
type Opener func(path string) (document.Backend, error)

// Service runs the document analysis workflow as discrete stages:
// open → info → load page → extract text → find annotations →
// render plain → apply annotations. Each stage checks that its
// predecessor ran and returns a SequenceError otherwise, so a failure
// is attributable to one step.
//
// All document access is serialized behind one mutex; the underlying
// document handle is not assumed safe for concurrent page loads.
type Service struct {
	mu      sync.Mutex
	manager *annotation.Manager
	builder *MetadataBuilder
	open    Opener
	logger  *slog.Logger
	baseDPI float64

	backend     document.Backend
	pageMeta    map[int]*PageMetadata
	currentPage int
	currentText string
	hasText     bool
	current     *image.RGBA
	currentDPI  float64
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithBaseDPI sets the raster resolution used at zoom 1.0.
func WithBaseDPI(dpi float64) Option {
	return func(s *Service) { s.baseDPI = dpi }
}

// WithOpener sets the backend opener used by OpenDocument.
func WithOpener(open Opener) Option {
	return func(s *Service) { s.open = open }
}

// NewService creates a pipeline service bound to one annotation
// Manager. By default documents open through document.OpenFile.
func NewService(manager *annotation.Manager, opts ...Option) *Service {
	s := &Service{
		manager: manager,
		builder: NewMetadataBuilder(manager),
		baseDPI: DefaultBaseDPI,
		open: func(path string) (document.Backend, error) {
			return document.OpenFile(path)
		},
		pageMeta:    make(map[int]*PageMetadata),
		currentPage: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// OpenDocument closes any open document and opens the one at path,
// resetting all cached page metadata and per-call state. A failed open
// is logged and reported as false; the service stays closed.
func (s *Service) OpenDocument(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Warn("closing previous document", "error", err)
		}
		s.backend = nil
	}
	s.resetLocked()

	backend, err := s.open(path)
	if err != nil {
		s.logger.Error("document open failed", "path", path, "error", err)
		return false
	}

	s.backend = backend
	s.logger.Info("document opened", "path", path, "pages", backend.PageCount())
	return true
}

// Info builds PageMetadata for every page eagerly and returns it with
// the document-level metadata. Requires an open document.
func (s *Service) Info() (*DocumentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return nil, &SequenceError{Stage: "get_info", Requires: "open_document"}
	}

	for page := 0; page < s.backend.PageCount(); page++ {
		if _, err := s.pageMetadataLocked(page); err != nil {
			return nil, err
		}
	}

	return &DocumentInfo{
		Info:         s.backend.Info(),
		PageMetadata: s.pageMeta,
	}, nil
}

// LoadPage selects the page later stages operate on and resets the
// per-call text/image state. Out-of-range pages report false.
func (s *Service) LoadPage(page int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil || page < 0 || page >= s.backend.PageCount() {
		return false
	}
	s.currentPage = page
	s.currentText = ""
	s.hasText = false
	s.current = nil
	return true
}

// ExtractText extracts the current page's text. Requires a loaded page.
func (s *Service) ExtractText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil || s.currentPage < 0 {
		return "", &SequenceError{Stage: "extract_text", Requires: "load_page"}
	}

	text, err := s.backend.PageText(s.currentPage)
	if err != nil {
		return "", err
	}
	s.currentText = text
	s.hasText = true
	return text, nil
}

// FindAnnotations scans the extracted text and returns a kind summary.
// Requires extracted text.
func (s *Service) FindAnnotations() (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasText {
		return nil, &SequenceError{Stage: "find_annotations", Requires: "extract_text"}
	}

	annotations, err := s.manager.FindAllInText(s.currentText)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Total: len(annotations)}
	for _, a := range annotations {
		switch a.Kind {
		case annotation.KindKeyword:
			summary.Keywords++
		case annotation.KindURLValidation:
			summary.URLs++
		}
	}
	return summary, nil
}

// RenderPlain rasterizes the current page at baseDPI * zoom without
// annotations. Requires a loaded page.
func (s *Service) RenderPlain(zoom float64) (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil || s.currentPage < 0 {
		return nil, &SequenceError{Stage: "render_plain", Requires: "load_page"}
	}

	dpi := s.baseDPI * zoom
	img, err := s.backend.RenderPage(s.currentPage, dpi)
	if err != nil {
		return nil, err
	}
	s.current = img
	s.currentDPI = dpi
	return img, nil
}

// ApplyAnnotations overlays the current page's span annotations on a
// copy of the plain render. The plain render is never mutated, so
// callers can keep it for side-by-side comparison. Requires a rendered
// image.
func (s *Service) ApplyAnnotations() (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, &SequenceError{Stage: "apply_annotations", Requires: "render_plain"}
	}

	meta, err := s.pageMetadataLocked(s.currentPage)
	if err != nil {
		return nil, err
	}

	decorated := image.NewRGBA(s.current.Bounds())
	draw.Draw(decorated, decorated.Bounds(), s.current, s.current.Bounds().Min, draw.Src)

	scale := s.currentDPI / pointsPerInch
	for _, box := range meta.BoundingBoxes {
		if len(box.Annotations) == 0 {
			continue
		}
		bounds := annotation.Bounds{
			X0: int(box.X0 * scale),
			Y0: int(box.Y0 * scale),
			X1: int(box.X1 * scale),
			Y1: int(box.Y1 * scale),
		}
		s.manager.RenderAll(box.Annotations, decorated, bounds)
	}
	return decorated, nil
}

// RunAll executes load page → info → extract text → find annotations →
// render plain → apply annotations and returns the decorated image.
// The first failing stage aborts the run.
func (s *Service) RunAll(page int, zoom float64) (*image.RGBA, error) {
	if !s.LoadPage(page) {
		s.mu.Lock()
		backend := s.backend
		s.mu.Unlock()
		if backend == nil {
			return nil, &SequenceError{Stage: "load_page", Requires: "open_document"}
		}
		return nil, &document.ErrPageOutOfRange{Page: page, PageCount: backend.PageCount()}
	}
	if _, err := s.Info(); err != nil {
		return nil, err
	}
	if _, err := s.ExtractText(); err != nil {
		return nil, err
	}
	if _, err := s.FindAnnotations(); err != nil {
		return nil, err
	}
	if _, err := s.RenderPlain(zoom); err != nil {
		return nil, err
	}
	return s.ApplyAnnotations()
}

// Close closes the open document, if any.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	s.resetLocked()
	return err
}

// pageMetadataLocked memoizes MetadataBuilder output per page for the
// life of the open document. Callers hold s.mu.
func (s *Service) pageMetadataLocked(page int) (*PageMetadata, error) {
	if meta, ok := s.pageMeta[page]; ok {
		return meta, nil
	}

	meta, err := s.builder.Build(s.backend, page)
	if err != nil {
		return nil, err
	}
	s.pageMeta[page] = meta
	return meta, nil
}

func (s *Service) resetLocked() {
	s.pageMeta = make(map[int]*PageMetadata)
	s.currentPage = -1
	s.currentText = ""
	s.hasText = false
	s.current = nil
	s.currentDPI = 0
}
