package annotation

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// urlPatterns are tried in order against the scanned text. The order is
// fixed so detection results are deterministic for a given text.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://[^\s<>"{}|\^` + "`" + `\[\]]+`),
	regexp.MustCompile(`(?i)www\.[^\s<>"{}|\^` + "`" + `\[\]]+`),
	regexp.MustCompile(`(?i)[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:/[^\s<>"{}|\^` + "`" + `\[\]]*)?`),
	regexp.MustCompile(`(?i)mailto:[^\s<>"{}|\^` + "`" + `\[\]]+`),
}

// markupTags strips embedded XML/HTML tags from a URL candidate before
// the exact lookup.
var markupTags = regexp.MustCompile(`<[^>]+>`)

// statusColors maps URL validation statuses to highlight colors.
var statusColors = map[string]string{
	"PASS":                    "#00AA00",
	"FAIL":                    "#CC0000",
	"WARN_WBDG_CONTENT_ERROR": "#FF8800",
	"EMAIL":                   "#0066CC",
	"INVALID":                 "#808080",
	"PROCESSING_ERROR":        "#404040",
	"BATCH_MISSING_RESULT":    "#666666",
	"NOT_MAPPED":              "#999999",
}

const defaultStatusColor = "#808080"

// ColorForStatus returns the highlight color for a URL validation status.
func ColorForStatus(status string) string {
	if color, ok := statusColors[status]; ok {
		return color
	}
	return defaultStatusColor
}

// URLProvider detects URL-validation annotations. Candidates matched by
// the detection patterns are cleaned of markup and trailing punctuation,
// then looked up in an exact URL index built from the validation report.
type URLProvider struct {
	mu       sync.RWMutex
	lookup   map[string]Annotation
	statuses []string
	enabled  map[string]bool
}

// NewURLProvider creates an empty URL provider. Call LoadData before
// use; an unloaded provider finds nothing.
func NewURLProvider() *URLProvider {
	return &URLProvider{
		lookup:  make(map[string]Annotation),
		enabled: make(map[string]bool),
	}
}

// LoadData loads a URL validation CSV with columns url, status,
// response_code, final_url, is_wbdg, check_certainty (error_message is
// optional). The reload is atomic and re-enables every status.
func (p *URLProvider) LoadData(path string) error {
	records, err := readRecords(path, []string{
		"url", "status", "response_code", "final_url", "is_wbdg", "check_certainty",
	})
	if err != nil {
		return &DatasetLoadError{Path: path, Err: err}
	}

	lookup := make(map[string]Annotation, len(records))
	statusSet := make(map[string]bool)
	for _, record := range records {
		status := record["status"]
		metadata := map[string]string{
			"response_code":   record["response_code"],
			"final_url":       record["final_url"],
			"is_wbdg":         record["is_wbdg"],
			"check_certainty": record["check_certainty"],
		}
		if msg := record["error_message"]; msg != "" {
			metadata["error_message"] = msg
		}

		ann, err := New(record["url"], KindURLValidation, status, ColorForStatus(status), metadata)
		if err != nil {
			return &DatasetLoadError{Path: path, Err: err}
		}
		lookup[ann.Text] = ann
		statusSet[status] = true
	}

	statuses := make([]string, 0, len(statusSet))
	enabled := make(map[string]bool, len(statusSet))
	for s := range statusSet {
		statuses = append(statuses, s)
		enabled[s] = true
	}
	sort.Strings(statuses)

	p.mu.Lock()
	p.lookup = lookup
	p.statuses = statuses
	p.enabled = enabled
	p.mu.Unlock()

	return nil
}

// FindInText returns annotations for every known URL detected in text
// whose validation status is enabled.
func (p *URLProvider) FindInText(text string) ([]Annotation, error) {
	if text == "" {
		return nil, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var found []Annotation
	for _, pattern := range urlPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			candidate := strings.TrimSpace(match)
			candidate = markupTags.ReplaceAllString(candidate, "")
			candidate = strings.TrimRight(candidate, ".,;:!?")

			ann, ok := p.lookup[candidate]
			if ok && p.enabled[ann.Category] {
				found = append(found, ann)
			}
		}
	}
	return found, nil
}

// Categories returns every validation status in the loaded report.
func (p *URLProvider) Categories() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.statuses...)
}

// EnabledCategories returns the currently enabled statuses, sorted.
func (p *URLProvider) EnabledCategories() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var enabled []string
	for _, s := range p.statuses {
		if p.enabled[s] {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// SetCategoryEnabled toggles one validation status. The caller owns
// invalidating any Manager cache that holds results for this provider.
func (p *URLProvider) SetCategoryEnabled(name string, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, known := p.enabled[name]; known {
		p.enabled[name] = enabled
	}
}

// Stats reports the number of loaded URLs per validation status.
func (p *URLProvider) Stats() map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := make(map[string]int, len(p.statuses))
	for _, ann := range p.lookup {
		stats[ann.Category]++
	}
	return stats
}
