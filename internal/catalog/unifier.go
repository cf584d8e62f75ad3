package catalog

import (
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"VetNutrition/internal/domain"
)

const defaultMemoSize = 64

// Unifier holds both catalogs classified once and memoizes filtered views
// per (filter, query). It is safe for concurrent use.
type Unifier struct {
	entries []Entry
	byID    map[string]int

	memoSize int
	mu       sync.Mutex
	memo     map[string][]Entry
	order    []string
	group    singleflight.Group
}

// NewUnifier classifies legacy and commercial foods. memoSize bounds the
// number of cached views; values <= 0 use a default.
func NewUnifier(legacy []domain.LegacyFood, commercial []domain.CommercialFood, memoSize int) (*Unifier, error) {
	if memoSize <= 0 {
		memoSize = defaultMemoSize
	}
	entries := Entries(legacy, commercial)
	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, dup := byID[e.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate food id %q", e.ID)
		}
		byID[e.ID] = i
	}
	return &Unifier{
		entries:  entries,
		byID:     byID,
		memoSize: memoSize,
		memo:     make(map[string][]Entry),
	}, nil
}

// Len is the number of entries before filtering.
func (u *Unifier) Len() int {
	return len(u.entries)
}

// Find returns the entry with the given id.
func (u *Unifier) Find(id string) (Entry, error) {
	i, ok := u.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("find %q: %w", id, ErrUnknownFood)
	}
	return u.entries[i], nil
}

// Search returns the filtered, sorted view. The returned slice is a copy
// and may be modified by the caller.
func (u *Unifier) Search(filter Filter, query string) []Entry {
	key := filter.key(query)

	u.mu.Lock()
	cached, ok := u.memo[key]
	u.mu.Unlock()
	if ok {
		return slices.Clone(cached)
	}

	v, _, _ := u.group.Do(key, func() (any, error) {
		view := Select(u.entries, filter, query)
		u.store(key, view)
		return view, nil
	})
	return slices.Clone(v.([]Entry))
}

func (u *Unifier) store(key string, view []Entry) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.memo[key]; ok {
		return
	}
	if len(u.order) >= u.memoSize {
		oldest := u.order[0]
		u.order = u.order[1:]
		delete(u.memo, oldest)
	}
	u.memo[key] = view
	u.order = append(u.order, key)
}

// Cached reports how many views are memoized.
func (u *Unifier) Cached() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.memo)
}
