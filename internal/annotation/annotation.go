package annotation

// Kind identifies the family an annotation belongs to. Each kind is
// served by one registered provider/renderer pair.
type Kind string

const (
	KindKeyword       Kind = "keyword"
	KindURLValidation Kind = "url_validation"

	// Reserved for future provider types.
	KindReference Kind = "reference"
	KindError     Kind = "error"
)

// Annotation describes one detected match in a piece of document text.
// Annotations are immutable after construction; category-level
// enable/disable happens at the provider, not per instance.
type Annotation struct {
	Text     string            `json:"text"`
	Kind     Kind              `json:"kind"`
	Category string            `json:"category"`
	Color    string            `json:"color"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Enabled  bool              `json:"enabled"`
}

// New creates an Annotation and validates the required fields.
func New(text string, kind Kind, category, color string, metadata map[string]string) (Annotation, error) {
	if text == "" || category == "" {
		return Annotation{}, &ValidationError{Text: text, Category: category}
	}
	return Annotation{
		Text:     text,
		Kind:     kind,
		Category: category,
		Color:    color,
		Metadata: metadata,
		Enabled:  true,
	}, nil
}
