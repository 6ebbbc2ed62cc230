package cart

import (
	"context"
	"errors"
	"strconv"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// ErrNotFound is returned when a cart line does not exist.
var ErrNotFound = errors.New("cart item not found")

// Store persists cart lines. Each (sessionID, productID) pair has at most
// one line; Add merges into it.
type Store interface {
	List(ctx context.Context, sessionID string) ([]models.CartItem, error)
	Get(ctx context.Context, id uint64) (*models.CartItem, error)
	Add(ctx context.Context, sessionID string, userID *uint64, productID uint64, quantity int) (*models.CartItem, error)
	// SetQuantity deletes the line when quantity is zero and reports it as removed.
	SetQuantity(ctx context.Context, id uint64, quantity int) (item *models.CartItem, removed bool, err error)
	Remove(ctx context.Context, id uint64) (bool, error)
}

type lineKey struct {
	sessionID string
	productID uint64
}

func lineKeyOf(item models.CartItem) lineKey {
	return lineKey{sessionID: item.SessionID, productID: item.ProductID}
}

func (k lineKey) String() string {
	return k.sessionID + "\x00" + strconv.FormatUint(k.productID, 10)
}
