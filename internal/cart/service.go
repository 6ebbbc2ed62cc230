package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

type productLoader interface {
	ProductsByID(ctx context.Context, ids []uint64) (map[uint64]models.Product, error)
}

// Line is a cart item joined with its current product. Product is nil when
// the product has been deleted since the line was added.
type Line struct {
	models.CartItem
	Product *models.Product `json:"product"`
}

// View is the priced cart for one session.
type View struct {
	Items     []Line          `json:"items"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
}

// AddItemInput is the body of an add-to-cart request.
type AddItemInput struct {
	ProductID uint64 `json:"productId" validate:"required,min=1"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1,max=999"`
}

// UpdateItemInput sets an absolute quantity; zero removes the line.
type UpdateItemInput struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=999"`
}

// Service implements the cart operations for one cart session at a time.
// Lines belonging to another session are reported as not found.
type Service struct {
	store    Store
	products productLoader
	metrics  *metrics.StorefrontMetrics
}

func NewService(store Store, products productLoader, m *metrics.StorefrontMetrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &Service{store: store, products: products, metrics: m}, nil
}

// View lists the session's lines with their products and totals. An
// unknown session yields an empty cart.
func (s *Service) View(ctx context.Context, sessionID string) (*View, error) {
	items, err := s.store.List(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}
	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.ProductsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &View{Items: make([]Line, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		line := Line{CartItem: item}
		if product, ok := products[item.ProductID]; ok {
			line.Product = &product
			view.Total = view.Total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		view.ItemCount += item.Quantity
		view.Items = append(view.Items, line)
	}
	return view, nil
}

// Add merges the quantity into the session's line for the product. Missing
// quantity means one.
func (s *Service) Add(ctx context.Context, sessionID string, userID *uint64, in AddItemInput) (*models.CartItem, error) {
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if in.ProductID == 0 || quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId and a positive quantity are required")
	}
	item, err := s.store.Add(ctx, sessionID, userID, in.ProductID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}
	s.metrics.IncCartMutation(metrics.CartOpAdd)
	return item, nil
}

// SetQuantity replaces the line quantity. Zero deletes the line and
// removed is true.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, id uint64, quantity int) (*models.CartItem, bool, error) {
	if quantity < 0 {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if _, err := s.owned(ctx, sessionID, id); err != nil {
		return nil, false, err
	}
	item, removed, err := s.store.SetQuantity(ctx, id, quantity)
	if err != nil {
		return nil, false, mapStoreError(err, "update cart item")
	}
	if removed {
		s.metrics.IncCartMutation(metrics.CartOpRemove)
	} else {
		s.metrics.IncCartMutation(metrics.CartOpUpdate)
	}
	return item, removed, nil
}

func (s *Service) Remove(ctx context.Context, sessionID string, id uint64) error {
	if _, err := s.owned(ctx, sessionID, id); err != nil {
		return err
	}
	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return mapStoreError(err, "remove cart item")
	}
	if !removed {
		return notFound()
	}
	s.metrics.IncCartMutation(metrics.CartOpRemove)
	return nil
}

func (s *Service) owned(ctx context.Context, sessionID string, id uint64) (*models.CartItem, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "load cart item")
	}
	if item.SessionID != sessionID {
		return nil, notFound()
	}
	return item, nil
}

func mapStoreError(err error, action string) error {
	if errors.Is(err, ErrNotFound) {
		return notFound()
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}

func notFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}
