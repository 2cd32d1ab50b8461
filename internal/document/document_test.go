package document

import (
	"errors"
	"strings"
	"testing"
)

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile("/nonexistent/document.pdf")
	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected OpenError, got %v", err)
	}
	if openErr.Path != "/nonexistent/document.pdf" {
		t.Errorf("OpenError path = %q", openErr.Path)
	}
	if openErr.Unwrap() == nil {
		t.Error("OpenError must carry its cause")
	}
}

func TestOpenFileNotAPDF(t *testing.T) {
	path := writeTempFile(t, "not-a-pdf.pdf", "just some text\n")

	_, err := OpenFile(path)
	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected OpenError for a non-PDF file, got %v", err)
	}
}

func TestErrPageOutOfRangeMessage(t *testing.T) {
	err := &ErrPageOutOfRange{Page: 7, PageCount: 3}
	if !strings.Contains(err.Error(), "7") || !strings.Contains(err.Error(), "3") {
		t.Errorf("error message missing bounds: %q", err.Error())
	}
}
