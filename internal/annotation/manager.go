package annotation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image/draw"
	"sort"
	"sync"
)

// Manager is the single authority for annotation detection and rendering
// within one document session. It binds kinds to provider/renderer pairs
// and memoizes detection results in a bounded LRU cache keyed by a
// digest of the scanned text.
//
// Create one Manager per open-document session and pass it explicitly to
// the components that need it.
type Manager struct {
	mu        sync.Mutex
	kinds     []Kind // provider registration order, drives tie-breaking
	providers map[Kind]Provider
	renderers map[Kind]Renderer
	cache     *resultCache
}

// NewManager creates a Manager with the given cache capacity. A
// non-positive capacity falls back to DefaultCacheCapacity.
func NewManager(cacheCapacity int) *Manager {
	return &Manager{
		providers: make(map[Kind]Provider),
		renderers: make(map[Kind]Renderer),
		cache:     newResultCache(cacheCapacity),
	}
}

// RegisterProvider binds a provider to a kind, replacing any existing
// binding. The result cache is cleared: a provider swap can change
// results for any previously scanned text.
func (m *Manager) RegisterProvider(kind Kind, p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.providers[kind]; !exists {
		m.kinds = append(m.kinds, kind)
	}
	m.providers[kind] = p
	m.cache.clear()
}

// RegisterRenderer binds a renderer to a kind, replacing any existing
// binding. Detection results are unaffected, so the cache is kept.
func (m *Manager) RegisterRenderer(kind Kind, r Renderer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renderers[kind] = r
}

// FindAllInText returns every annotation any registered provider detects
// in text, sorted by render priority ascending. Results are cached;
// a cache hit marks the entry most recently used. If a provider fails
// the error propagates and nothing is committed to the cache.
func (m *Manager) FindAllInText(text string) ([]Annotation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(text)
}

// FindBatch behaves exactly like calling FindAllInText once per input in
// order, but takes the cache lock once for the whole batch. The returned
// slice is index-aligned with texts; a span with no matches gets an
// empty entry, never a dropped one.
func (m *Manager) FindBatch(texts []string) ([][]Annotation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	results := make([][]Annotation, len(texts))
	for i, text := range texts {
		anns, err := m.findLocked(text)
		if err != nil {
			return nil, err
		}
		results[i] = anns
	}
	return results, nil
}

// findLocked implements the get/compute/put sequence. Callers hold m.mu.
func (m *Manager) findLocked(text string) ([]Annotation, error) {
	if text == "" {
		return nil, nil
	}

	key := cacheKey(text)
	if cached, ok := m.cache.get(key); ok {
		return cached, nil
	}

	var all []Annotation
	for _, kind := range m.kinds {
		anns, err := m.providers[kind].FindInText(text)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", kind, err)
		}
		all = append(all, anns...)
	}

	// Stable sort: equal priorities keep provider registration order.
	sort.SliceStable(all, func(i, j int) bool {
		return m.renderPriority(all[i].Kind) < m.renderPriority(all[j].Kind)
	})

	m.cache.put(key, all)
	return all, nil
}

// renderPriority looks up the draw priority for a kind. Kinds without a
// registered renderer sort first.
func (m *Manager) renderPriority(kind Kind) int {
	if r, ok := m.renderers[kind]; ok {
		return r.Priority()
	}
	return 0
}

// RenderAll draws every enabled annotation into img at bounds,
// dispatching on kind. Disabled annotations and kinds without a
// registered renderer are skipped.
func (m *Manager) RenderAll(annotations []Annotation, img draw.Image, b Bounds) {
	m.mu.Lock()
	renderers := make(map[Kind]Renderer, len(m.renderers))
	for kind, r := range m.renderers {
		renderers[kind] = r
	}
	m.mu.Unlock()

	for _, a := range annotations {
		if !a.Enabled {
			continue
		}
		if r, ok := renderers[a.Kind]; ok {
			r.Render(a, img, b)
		}
	}
}

// AllCategories aggregates every provider's known categories, keyed by
// kind. Enabled state is not considered.
func (m *Manager) AllCategories() map[Kind][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	categories := make(map[Kind][]string, len(m.providers))
	for kind, p := range m.providers {
		categories[kind] = p.Categories()
	}
	return categories
}

// Provider returns the provider registered for kind, if any.
func (m *Manager) Provider(kind Kind) (Provider, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.providers[kind]
	return p, ok
}

// InvalidateCache drops all cached detection results. Callers must
// invoke this after changing provider state externally, e.g. toggling a
// category or reloading a dataset.
func (m *Manager) InvalidateCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.clear()
}

// Stats reports the cache's hit/miss counters and occupancy.
func (m *Manager) Stats() CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.stats()
}

// cacheKey derives the fixed-size cache key for a scanned text. SHA-256
// keeps long page texts and short span texts from ever colliding.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
