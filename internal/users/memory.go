package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// MemoryStore keeps users in process. Creates are serialised by a single
// write lock so the uniqueness check and insert happen together.
type MemoryStore struct {
	mu         sync.RWMutex
	nextID     uint64
	byID       map[uint64]models.User
	byEmail    map[string]uint64
	byUsername map[string]uint64
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[uint64]models.User),
		byEmail:    make(map[string]uint64),
		byUsername: make(map[string]uint64),
		now:        time.Now,
	}
}

func (s *MemoryStore) FindByID(_ context.Context, id uint64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(s.byUsername, NormalizeUsername(username))
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(s.byEmail, NormalizeEmail(email))
}

func (s *MemoryStore) lookupLocked(index map[string]uint64, key string) (*models.User, error) {
	id, ok := index[key]
	if !ok {
		return nil, ErrNotFound
	}
	user := s.byID[id]
	return &user, nil
}

func (s *MemoryStore) Create(_ context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[user.Email]; taken {
		return nil, ErrDuplicateEmail
	}
	if _, taken := s.byUsername[user.Username]; taken {
		return nil, ErrDuplicateUsername
	}

	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = s.now().UTC()
	s.byID[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	s.byUsername[user.Username] = user.ID
	return user, nil
}

func (s *MemoryStore) Update(_ context.Context, id uint64, input UpdateProfileInput) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	input.Apply(&user)
	s.byID[id] = user
	return &user, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.byID))
	for _, user := range s.byID {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
