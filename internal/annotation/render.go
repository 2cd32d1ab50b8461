package annotation

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Draw priorities. URL borders go underneath keyword highlights so a
// span carrying both stays readable.
const (
	KeywordRenderPriority = 100
	URLRenderPriority     = 50
)

const highlightAlpha = 80

// KeywordRenderer draws keyword annotations as a translucent highlight
// with a category label pill above the span.
type KeywordRenderer struct{}

// Priority reports keyword draw order. Keywords render on top.
func (KeywordRenderer) Priority() int { return KeywordRenderPriority }

// Render draws the highlight, outline and label for one keyword match.
func (KeywordRenderer) Render(a Annotation, img draw.Image, b Bounds) {
	c := parseHexColor(a.Color)

	fillRect(img, image.Rect(b.X0, b.Y0, b.X1, b.Y1), withAlpha(c, highlightAlpha))
	strokeRect(img, image.Rect(b.X0, b.Y0, b.X1, b.Y1), c, 2)

	drawLabel(img, a.Category, b.X0, b.Y0, c)
}

// URLRenderer draws URL-validation annotations as a status-colored
// border with an indicator dot in the upper-right corner.
type URLRenderer struct{}

// Priority reports URL draw order. URLs render in the background.
func (URLRenderer) Priority() int { return URLRenderPriority }

// Render draws the border and indicator dot for one URL match.
func (URLRenderer) Render(a Annotation, img draw.Image, b Bounds) {
	c := parseHexColor(a.Color)

	strokeRect(img, image.Rect(b.X0-2, b.Y0-2, b.X1+2, b.Y1+2), c, 3)

	const dotSize = 8
	fillCircle(img, b.X1-dotSize/2-2, b.Y0+2+dotSize/2, dotSize/2, c)
}

// parseHexColor converts a #RRGGBB string to an opaque color. Anything
// unparseable falls back to gray.
func parseHexColor(s string) color.RGBA {
	if len(s) == 7 && s[0] == '#' {
		var out [3]uint8
		ok := true
		for i := 0; i < 3; i++ {
			hi, okHi := hexDigit(s[1+i*2])
			lo, okLo := hexDigit(s[2+i*2])
			if !okHi || !okLo {
				ok = false
				break
			}
			out[i] = hi<<4 | lo
		}
		if ok {
			return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}
		}
	}
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func withAlpha(c color.RGBA, alpha uint8) color.RGBA {
	c.A = alpha
	return c
}

// fillRect alpha-blends a uniform color over the rectangle.
func fillRect(img draw.Image, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// strokeRect draws a rectangle outline of the given stroke width.
func strokeRect(img draw.Image, r image.Rectangle, c color.RGBA, width int) {
	top := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width)
	bottom := image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y)
	left := image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y)
	right := image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y)

	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		fillRect(img, edge, c)
	}
}

// fillCircle draws a filled circle centered at (cx, cy).
func fillCircle(img draw.Image, cx, cy, radius int, c color.RGBA) {
	clip := img.Bounds()
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius && image.Pt(x, y).In(clip) {
				img.Set(x, y, c)
			}
		}
	}
}

// drawLabel draws a filled pill with white label text just above the
// anchor point, clamped to the top of the image.
func drawLabel(img draw.Image, label string, x, y int, bg color.RGBA) {
	if label == "" {
		return
	}

	face := basicfont.Face7x13
	text := " " + label + " "
	textWidth := font.MeasureString(face, text).Ceil()
	textHeight := face.Metrics().Height.Ceil()

	labelY := y - textHeight - 6
	if labelY < img.Bounds().Min.Y {
		labelY = img.Bounds().Min.Y
	}
	fillRect(img, image.Rect(x, labelY, x+textWidth+4, labelY+textHeight+4), bg)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot: fixed.P(
			x+2,
			labelY+2+face.Metrics().Ascent.Ceil(),
		),
	}
	drawer.DrawString(text)
}
