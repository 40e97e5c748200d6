package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config bounds a single in-memory store.
type Config struct {
	InitialCapacity   int
	MaxSize           int
	ExpireAfterAccess time.Duration
	ExpireAfterWrite  time.Duration
	DisableStats      bool
}

// DefaultConfig returns the settings every named cache uses unless
// overridden: room for 100 entries up front, at most 1000, dropped 30
// minutes after the last read or 2 hours after the write.
func DefaultConfig() Config {
	return Config{
		InitialCapacity:   100,
		MaxSize:           1000,
		ExpireAfterAccess: 30 * time.Minute,
		ExpireAfterWrite:  2 * time.Hour,
	}
}

// WithDefaults fills zero fields from [DefaultConfig].
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.InitialCapacity <= 0 {
		c.InitialCapacity = d.InitialCapacity
	}
	if c.MaxSize <= 0 {
		c.MaxSize = d.MaxSize
	}
	if c.ExpireAfterAccess <= 0 {
		c.ExpireAfterAccess = d.ExpireAfterAccess
	}
	if c.ExpireAfterWrite <= 0 {
		c.ExpireAfterWrite = d.ExpireAfterWrite
	}
	return c
}

// Stats is a point-in-time snapshot of one store's counters.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Size      int    `json:"size"`
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type memoryEntry struct {
	key      string
	value    any
	written  time.Time
	accessed time.Time
}

// Memory is a bounded, least-recently-used store with access and write
// expiry. It is safe for concurrent use.
type Memory struct {
	cfg Config
	now func() time.Time

	mu    sync.Mutex
	order *list.List // front = most recently used
	items map[string]*list.Element
	stats Stats
}

// NewMemory creates a store with cfg (zero fields take defaults).
func NewMemory(cfg Config) *Memory {
	cfg = cfg.WithDefaults()
	return &Memory{
		cfg:   cfg,
		now:   time.Now,
		order: list.New(),
		items: make(map[string]*list.Element, cfg.InitialCapacity),
	}
}

// Get returns the value for key. An expired entry is removed and reported
// as a miss.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		m.record(false)
		return nil, false
	}
	e := el.Value.(*memoryEntry)
	now := m.now()
	if m.expired(e, now) {
		m.remove(el)
		m.stats.Evictions++
		m.record(false)
		return nil, false
	}
	e.accessed = now
	m.order.MoveToFront(el)
	m.record(true)
	return e.value, true
}

// peek is Get without touching counters or recency.
func (m *Memory) peek(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.items[key]
	if !ok || m.expired(el.Value.(*memoryEntry), m.now()) {
		return nil, false
	}
	return el.Value.(*memoryEntry).value, true
}

// Put stores value under key, replacing any previous value and resetting
// both expiry clocks. Expired entries are swept and, at capacity, the
// least recently used entry is evicted.
func (m *Memory) Put(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if el, ok := m.items[key]; ok {
		e := el.Value.(*memoryEntry)
		e.value, e.written, e.accessed = value, now, now
		m.order.MoveToFront(el)
		return
	}

	m.sweep(now)
	m.items[key] = m.order.PushFront(&memoryEntry{key: key, value: value, written: now, accessed: now})
	for m.order.Len() > m.cfg.MaxSize {
		m.remove(m.order.Back())
		m.stats.Evictions++
	}
}

// Clear drops every entry. Counters are kept.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order.Init()
	m.items = make(map[string]*list.Element, m.cfg.InitialCapacity)
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// Stats returns a snapshot of the counters.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.Size = m.order.Len()
	return s
}

func (m *Memory) expired(e *memoryEntry, now time.Time) bool {
	return now.Sub(e.accessed) > m.cfg.ExpireAfterAccess || now.Sub(e.written) > m.cfg.ExpireAfterWrite
}

// sweep walks from the least recently used end and drops expired entries.
// It stops at the first live entry; anything expired further forward is
// dropped lazily by Get.
func (m *Memory) sweep(now time.Time) {
	for el := m.order.Back(); el != nil; {
		prev := el.Prev()
		e := el.Value.(*memoryEntry)
		if !m.expired(e, now) {
			break
		}
		m.remove(el)
		m.stats.Evictions++
		el = prev
	}
}

func (m *Memory) remove(el *list.Element) {
	e := m.order.Remove(el).(*memoryEntry)
	delete(m.items, e.key)
}

func (m *Memory) record(hit bool) {
	if m.cfg.DisableStats {
		return
	}
	if hit {
		m.stats.Hits++
	} else {
		m.stats.Misses++
	}
}
