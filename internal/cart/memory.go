package cart

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/memstore"
)

// MemoryStore keeps cart lines in process. The read-modify-write of an add
// is serialised per (session, product) by a keyed lock; mu only guards the
// maps themselves.
type MemoryStore struct {
	mu     sync.RWMutex
	locks  memstore.KeyedMutex
	nextID uint64
	rows   map[uint64]models.CartItem
	index  map[lineKey]uint64
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:  make(map[uint64]models.CartItem),
		index: make(map[lineKey]uint64),
		now:   time.Now,
	}
}

func (s *MemoryStore) List(_ context.Context, sessionID string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.CartItem, 0)
	for _, item := range s.rows {
		if item.SessionID == sessionID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryStore) Get(_ context.Context, id uint64) (*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (s *MemoryStore) Add(_ context.Context, sessionID string, userID *uint64, productID uint64, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	key := lineKey{sessionID: sessionID, productID: productID}
	unlock := s.locks.Lock(key.String())
	defer unlock()

	s.mu.RLock()
	id, exists := s.index[key]
	item := s.rows[id]
	s.mu.RUnlock()

	now := s.now().UTC()
	if exists {
		item.Quantity += quantity
		item.UpdatedAt = now
	} else {
		item = models.CartItem{
			SessionID: sessionID,
			UserID:    copyID(userID),
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !exists {
		s.nextID++
		item.ID = s.nextID
		s.index[key] = item.ID
	}
	s.rows[item.ID] = item
	return &item, nil
}

func (s *MemoryStore) SetQuantity(_ context.Context, id uint64, quantity int) (*models.CartItem, bool, error) {
	if quantity < 0 {
		return nil, false, fmt.Errorf("quantity must not be negative, got %d", quantity)
	}
	s.mu.RLock()
	current, ok := s.rows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, ErrNotFound
	}
	unlock := s.locks.Lock(lineKeyOf(current).String())
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.rows[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if quantity == 0 {
		s.deleteLocked(item)
		return &item, true, nil
	}
	item.Quantity = quantity
	item.UpdatedAt = s.now().UTC()
	s.rows[id] = item
	return &item, false, nil
}

func (s *MemoryStore) Remove(_ context.Context, id uint64) (bool, error) {
	s.mu.RLock()
	current, ok := s.rows[id]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	unlock := s.locks.Lock(lineKeyOf(current).String())
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.rows[id]
	if !ok {
		return false, nil
	}
	s.deleteLocked(item)
	return true, nil
}

func (s *MemoryStore) deleteLocked(item models.CartItem) {
	delete(s.rows, item.ID)
	delete(s.index, lineKeyOf(item))
}

func copyID(id *uint64) *uint64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
