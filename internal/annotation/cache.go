package annotation

// resultCache is a bounded LRU cache from text digest to detection
// results. It is not safe for concurrent use on its own: the owning
// Manager serializes access so that a whole batch lookup costs one lock
// acquisition instead of one per span.
type resultCache struct {
	capacity int
	items    map[string]*cacheNode
	head     *cacheNode // Most recently used
	tail     *cacheNode // Least recently used
	hits     int64
	misses   int64
}

// cacheNode is a node in the doubly-linked recency list.
type cacheNode struct {
	key   string
	value []Annotation
	prev  *cacheNode
	next  *cacheNode
}

// DefaultCacheCapacity bounds the cache when no capacity is configured.
const DefaultCacheCapacity = 256

func newResultCache(capacity int) *resultCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}

	c := &resultCache{
		capacity: capacity,
		items:    make(map[string]*cacheNode),
	}

	// Dummy head and tail keep list surgery branch-free.
	c.head = &cacheNode{}
	c.tail = &cacheNode{}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// get retrieves cached results and marks the entry most recently used.
func (c *resultCache) get(key string) ([]Annotation, bool) {
	if node, exists := c.items[key]; exists {
		c.moveToFront(node)
		c.hits++
		return node.value, true
	}

	c.misses++
	return nil, false
}

// put stores results for a key, evicting the least recently used entry
// when the cache is over capacity.
func (c *resultCache) put(key string, value []Annotation) {
	if node, exists := c.items[key]; exists {
		node.value = value
		c.moveToFront(node)
		return
	}

	node := &cacheNode{key: key, value: value}
	c.addToFront(node)
	c.items[key] = node

	if len(c.items) > c.capacity {
		c.evictLRU()
	}
}

// clear drops every entry and resets the statistics.
func (c *resultCache) clear() {
	c.items = make(map[string]*cacheNode)
	c.head.next = c.tail
	c.tail.prev = c.head
	c.hits = 0
	c.misses = 0
}

func (c *resultCache) len() int {
	return len(c.items)
}

// keys returns cached keys from most to least recently used.
func (c *resultCache) keys() []string {
	keys := make([]string, 0, len(c.items))
	for node := c.head.next; node != c.tail; node = node.next {
		keys = append(keys, node.key)
	}
	return keys
}

func (c *resultCache) moveToFront(node *cacheNode) {
	c.removeNode(node)
	c.addToFront(node)
}

func (c *resultCache) addToFront(node *cacheNode) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

func (c *resultCache) removeNode(node *cacheNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

func (c *resultCache) evictLRU() {
	lru := c.tail.prev
	if lru != c.head {
		c.removeNode(lru)
		delete(c.items, lru.key)
	}
}

// CacheStats reports cache effectiveness for diagnostics.
type CacheStats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hit_rate_percent"`
	Size     int     `json:"current_size"`
	Capacity int     `json:"max_capacity"`
}

func (c *resultCache) stats() CacheStats {
	total := c.hits + c.misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}

	return CacheStats{
		Hits:     c.hits,
		Misses:   c.misses,
		HitRate:  hitRate,
		Size:     len(c.items),
		Capacity: c.capacity,
	}
}
