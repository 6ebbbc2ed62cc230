package memstore

import (
	"sort"
	"sync"
)

// Table is a concurrency-safe in-memory table of T keyed by an
// autoincrement id. Values are stored and returned by copy.
type Table[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	rows   map[uint64]T
	setID  func(*T, uint64)
}

// NewTable builds a table; setID writes the assigned id into a record.
func NewTable[T any](setID func(*T, uint64)) *Table[T] {
	return &Table[T]{
		rows:  make(map[uint64]T),
		setID: setID,
	}
}

// Insert assigns the next id to record, stores it and returns the stored copy.
func (t *Table[T]) Insert(record T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertLocked(record)
}

// InsertIf stores record only when check passes against the current rows.
// check runs under the write lock, so check-then-insert is atomic.
func (t *Table[T]) InsertIf(record T, check func(existing []T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if check != nil {
		if err := check(t.sortedLocked()); err != nil {
			var zero T
			return zero, err
		}
	}
	return t.insertLocked(record), nil
}

func (t *Table[T]) insertLocked(record T) T {
	t.nextID++
	if t.setID != nil {
		t.setID(&record, t.nextID)
	}
	t.rows[t.nextID] = record
	return record
}

// Get returns the record stored under id.
func (t *Table[T]) Get(id uint64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	record, ok := t.rows[id]
	return record, ok
}

// List returns every record ordered by id.
func (t *Table[T]) List() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sortedLocked()
}

// Filter returns the records matching keep, ordered by id.
func (t *Table[T]) Filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0)
	for _, record := range t.sortedLocked() {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out
}

// Find returns the lowest-id record matching match.
func (t *Table[T]) Find(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, record := range t.sortedLocked() {
		if match(record) {
			return record, true
		}
	}
	var zero T
	return zero, false
}

// Update applies mutate to a copy of the record and stores the result. The
// id is preserved whatever mutate does.
func (t *Table[T]) Update(id uint64, mutate func(*T)) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	record, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	mutate(&record)
	if t.setID != nil {
		t.setID(&record, id)
	}
	t.rows[id] = record
	return record, true
}

// Delete removes id and reports whether it existed.
func (t *Table[T]) Delete(id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// Len returns the number of stored records.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table[T]) sortedLocked() []T {
	ids := make([]uint64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}
