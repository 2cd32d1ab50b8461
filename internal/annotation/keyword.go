package annotation

import (
	"sort"
	"strings"
	"sync"
)

// KeywordProvider detects keyword annotations by case-insensitive
// substring containment. The scan is O(#keywords) per call; the
// Manager's cache amortizes repeated texts.
type KeywordProvider struct {
	mu         sync.RWMutex
	keywords   []string // sorted lowercase keywords, fixes scan order
	lookup     map[string][]Annotation
	categories []string
	enabled    map[string]bool
}

// NewKeywordProvider creates an empty keyword provider. Call LoadData
// before use; an unloaded provider finds nothing.
func NewKeywordProvider() *KeywordProvider {
	return &KeywordProvider{
		lookup:  make(map[string][]Annotation),
		enabled: make(map[string]bool),
	}
}

// LoadData loads a keyword CSV with columns keyword, category, color.
// The reload is atomic: on failure the previously loaded keywords stay
// in effect. On success every category starts enabled.
func (p *KeywordProvider) LoadData(path string) error {
	records, err := readRecords(path, []string{"keyword", "category", "color"})
	if err != nil {
		return &DatasetLoadError{Path: path, Err: err}
	}

	lookup := make(map[string][]Annotation, len(records))
	categorySet := make(map[string]bool)
	for _, record := range records {
		text := strings.ToLower(record["keyword"])
		ann, err := New(text, KindKeyword, record["category"], record["color"], map[string]string{
			"original_text": record["keyword"],
		})
		if err != nil {
			return &DatasetLoadError{Path: path, Err: err}
		}
		lookup[text] = append(lookup[text], ann)
		categorySet[ann.Category] = true
	}

	keywords := make([]string, 0, len(lookup))
	for kw := range lookup {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	categories := make([]string, 0, len(categorySet))
	enabled := make(map[string]bool, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
		enabled[c] = true
	}
	sort.Strings(categories)

	p.mu.Lock()
	p.keywords = keywords
	p.lookup = lookup
	p.categories = categories
	p.enabled = enabled
	p.mu.Unlock()

	return nil
}

// FindInText returns annotations for every enabled keyword contained in
// text, compared case-insensitively.
func (p *KeywordProvider) FindInText(text string) ([]Annotation, error) {
	if text == "" {
		return nil, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	lower := strings.ToLower(text)
	var found []Annotation
	for _, keyword := range p.keywords {
		if !strings.Contains(lower, keyword) {
			continue
		}
		for _, ann := range p.lookup[keyword] {
			if p.enabled[ann.Category] {
				found = append(found, ann)
			}
		}
	}
	return found, nil
}

// Categories returns all keyword categories in the loaded dataset.
func (p *KeywordProvider) Categories() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.categories...)
}

// EnabledCategories returns the currently enabled categories, sorted.
func (p *KeywordProvider) EnabledCategories() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var enabled []string
	for _, c := range p.categories {
		if p.enabled[c] {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

// SetCategoryEnabled toggles one category. The caller owns invalidating
// any Manager cache that holds results for this provider.
func (p *KeywordProvider) SetCategoryEnabled(name string, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, known := p.enabled[name]; known {
		p.enabled[name] = enabled
	}
}

// Stats reports the number of loaded keywords per category.
func (p *KeywordProvider) Stats() map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := make(map[string]int, len(p.categories))
	for _, anns := range p.lookup {
		for _, ann := range anns {
			stats[ann.Category]++
		}
	}
	return stats
}

// Search returns annotations for keywords containing term, ignoring
// case and enabled state. An empty term matches every keyword.
func (p *KeywordProvider) Search(term string) []Annotation {
	p.mu.RLock()
	defer p.mu.RUnlock()

	lower := strings.ToLower(term)
	var matches []Annotation
	for _, keyword := range p.keywords {
		if strings.Contains(keyword, lower) {
			matches = append(matches, p.lookup[keyword]...)
		}
	}
	return matches
}
