package newsletter

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/memstore"
	"gorm.io/gorm"
)

var errAlreadySubscribed = errors.New("already subscribed")

// Store keeps newsletter subscriptions. Subscribe is idempotent per email.
type Store interface {
	Subscribe(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	List(ctx context.Context) ([]models.NewsletterSubscriber, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}

type MemoryStore struct {
	rows *memstore.Table[models.NewsletterSubscriber]
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: memstore.NewTable(func(s *models.NewsletterSubscriber, id uint64) { s.ID = id }),
		now:  time.Now,
	}
}

func (m *MemoryStore) Subscribe(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	sameEmail := func(s models.NewsletterSubscriber) bool { return s.Email == email }
	row, err := m.rows.InsertIf(models.NewsletterSubscriber{Email: email, CreatedAt: m.now().UTC()}, func(existing []models.NewsletterSubscriber) error {
		for _, s := range existing {
			if sameEmail(s) {
				return errAlreadySubscribed
			}
		}
		return nil
	})
	if errors.Is(err, errAlreadySubscribed) {
		if existing, ok := m.rows.Find(sameEmail); ok {
			return &existing, nil
		}
		// deleted between the two calls
		return m.Subscribe(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (m *MemoryStore) List(context.Context) ([]models.NewsletterSubscriber, error) {
	return m.rows.List(), nil
}

func (m *MemoryStore) Delete(_ context.Context, id uint64) (bool, error) {
	return m.rows.Delete(id), nil
}

// Repository relies on idx_newsletter_subscribers_email; a lost insert race
// falls back to reading the winner.
type Repository struct {
	repo.Table[models.NewsletterSubscriber]
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Table: repo.NewTable[models.NewsletterSubscriber](conn)}
}

func (r *Repository) Subscribe(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	if existing, err := r.findByEmail(ctx, email); err == nil {
		return existing, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	row := &models.NewsletterSubscriber{Email: email}
	if err := r.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "email") {
			return r.findByEmail(ctx, email)
		}
		return nil, err
	}
	return row, nil
}

func (r *Repository) findByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	rows, err := r.Where(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repo.ErrNotFound
	}
	return &rows[0], nil
}
