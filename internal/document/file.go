package document

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// US Letter fallback when a page carries no MediaBox.
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0

	// Span height approximation when the font size is unknown.
	defaultSpanHeight = 12.0

	pointsPerInch = 72.0
)

// File is a Backend reading a PDF from disk. Text and span positions
// come from ledongthuc/pdf; the file is validated with pdfcpu at open
// time so corrupt documents fail the open instead of a later stage.
//
// Spans are reported with a top-left origin (the raster convention), so
// a caller scaling them by dpi/72 lands on the rendered image directly.
//
// File is not safe for concurrent use.
type File struct {
	path   string
	file   *os.File
	reader *pdf.Reader
	info   Info
	closed bool
}

// OpenFile validates and opens the PDF at path.
func OpenFile(path string) (*File, error) {
	if err := api.ValidateFile(path, model.NewDefaultConfiguration()); err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	d := &File{
		path:   path,
		file:   f,
		reader: reader,
	}
	d.info = d.readInfo()
	return d, nil
}

// PageCount returns the number of pages.
func (d *File) PageCount() int {
	if d.closed {
		return 0
	}
	return d.reader.NumPage()
}

// Info returns document-level metadata from the PDF info dictionary.
func (d *File) Info() Info {
	return d.info
}

func (d *File) readInfo() Info {
	info := Info{
		FilePath:  d.path,
		PageCount: d.reader.NumPage(),
	}

	dict := d.reader.Trailer().Key("Info")
	if !dict.IsNull() {
		info.Title = dict.Key("Title").Text()
		info.Author = dict.Key("Author").Text()
		info.Subject = dict.Key("Subject").Text()
	}
	return info
}

// PageText returns the plain text of a zero-based page.
func (d *File) PageText(page int) (string, error) {
	p, err := d.page(page)
	if err != nil {
		return "", err
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", page, err)
	}
	return text, nil
}

// PageSpans returns the ordered text spans of a zero-based page with
// top-left-origin bounding boxes in points.
func (d *File) PageSpans(page int) ([]Span, error) {
	p, err := d.page(page)
	if err != nil {
		return nil, err
	}

	_, pageHeight := d.pageSize(p)

	content := p.Content()
	spans := make([]Span, 0, len(content.Text))
	for _, t := range content.Text {
		height := t.FontSize
		if height == 0 {
			height = defaultSpanHeight
		}

		// ledongthuc reports PDF coordinates (origin bottom-left);
		// flip to the raster convention here.
		spans = append(spans, Span{
			X0:   t.X,
			Y0:   pageHeight - (t.Y + height),
			X1:   t.X + t.W,
			Y1:   pageHeight - t.Y,
			Text: t.S,
		})
	}
	return spans, nil
}

// RenderPage rasterizes a zero-based page at the requested DPI. Pure Go
// draws no PDF content streams, so the raster is a positional proof
// sheet: a white page with each span's text at its scaled position.
func (d *File) RenderPage(page int, dpi float64) (*image.RGBA, error) {
	p, err := d.page(page)
	if err != nil {
		return nil, err
	}

	pageWidth, pageHeight := d.pageSize(p)
	scale := dpi / pointsPerInch

	img := image.NewRGBA(image.Rect(0, 0,
		int(math.Ceil(pageWidth*scale)),
		int(math.Ceil(pageHeight*scale))))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	spans, err := d.PageSpans(page)
	if err != nil {
		return nil, err
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	for _, s := range spans {
		drawer.Dot = fixed.P(int(s.X0*scale), int(s.Y1*scale))
		drawer.DrawString(s.Text)
	}
	return img, nil
}

// Close releases the underlying file handle.
func (d *File) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// page resolves a zero-based page index to a ledongthuc page handle.
func (d *File) page(page int) (pdf.Page, error) {
	if d.closed {
		return pdf.Page{}, fmt.Errorf("document is closed")
	}
	if page < 0 || page >= d.reader.NumPage() {
		return pdf.Page{}, &ErrPageOutOfRange{Page: page, PageCount: d.reader.NumPage()}
	}

	p := d.reader.Page(page + 1) // ledongthuc pages are 1-based
	if p.V.IsNull() {
		return pdf.Page{}, fmt.Errorf("page %d could not be loaded", page)
	}
	return p, nil
}

// pageSize reads the page MediaBox, walking up the page tree for
// inherited values, and falls back to US Letter.
func (d *File) pageSize(p pdf.Page) (width, height float64) {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.IsNull() || mb.Len() != 4 {
			continue
		}
		w := mb.Index(2).Float64() - mb.Index(0).Float64()
		h := mb.Index(3).Float64() - mb.Index(1).Float64()
		if w > 0 && h > 0 {
			return w, h
		}
	}
	return defaultPageWidth, defaultPageHeight
}
