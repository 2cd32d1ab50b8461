package annotation

import "image/draw"

// Provider turns a tabular dataset into a text-scanning capability for
// one annotation kind.
//
// Implementations must make LoadData atomic: on any parse or validation
// failure the previously loaded state stays in effect. A successful load
// resets the enabled-category set to all categories.
//
// Providers hold no reference back to the Manager that uses them, so a
// caller toggling categories with SetCategoryEnabled must invalidate the
// Manager's cache itself afterwards.
type Provider interface {
	// LoadData parses the dataset at path and rebuilds the lookup index.
	LoadData(path string) error

	// FindInText returns all annotations detected in text whose category
	// is currently enabled. Empty text yields no annotations.
	FindInText(text string) ([]Annotation, error)

	// Categories returns every category present in the loaded dataset,
	// sorted, regardless of enabled state.
	Categories() []string

	// EnabledCategories returns the currently enabled categories, sorted.
	EnabledCategories() []string

	// SetCategoryEnabled toggles a category without reloading the dataset.
	SetCategoryEnabled(name string, enabled bool)
}

// Bounds is the integer pixel region a renderer may draw an annotation
// into, in the coordinate space of the destination image.
type Bounds struct {
	X0 int
	Y0 int
	X1 int
	Y1 int
}

// Renderer draws one annotation's visual representation.
type Renderer interface {
	// Render draws the annotation into img at the given bounds.
	Render(a Annotation, img draw.Image, b Bounds)

	// Priority reports draw order. Lower values draw first (background),
	// higher values draw on top.
	Priority() int
}
