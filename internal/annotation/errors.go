package annotation

import "fmt"

// ValidationError reports a malformed Annotation: both text and category
// are required.
type ValidationError struct {
	Text     string
	Category string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("annotation must have text and category (text=%q, category=%q)", e.Text, e.Category)
}

// DatasetLoadError reports a failed provider dataset load. The provider's
// prior state is untouched when this is returned.
type DatasetLoadError struct {
	Path string
	Err  error
}

func (e *DatasetLoadError) Error() string {
	return fmt.Sprintf("failed to load dataset %s: %v", e.Path, e.Err)
}

func (e *DatasetLoadError) Unwrap() error {
	return e.Err
}
