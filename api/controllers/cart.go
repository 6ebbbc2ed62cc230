package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type cartService interface {
	View(ctx context.Context, sessionID string) (*cart.View, error)
	Add(ctx context.Context, sessionID string, userID *uint64, in cart.AddItemInput) (*models.CartItem, error)
	SetQuantity(ctx context.Context, sessionID string, id uint64, quantity int) (*models.CartItem, bool, error)
	Remove(ctx context.Context, sessionID string, id uint64) error
}

// CartFetch returns the priced cart for the request's cart session.
func CartFetch(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.View(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAdd merges the product into the cart; the line's owner is recorded
// when the caller is logged in.
func CartAdd(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cart.AddItemInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var owner *uint64
		if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
			owner = &userID
		}

		item, err := svc.Add(r.Context(), middleware.CartSessionFromContext(r.Context()), owner, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func CartUpdate(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body cart.UpdateItemInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, removed, err := svc.SetQuantity(r.Context(), middleware.CartSessionFromContext(r.Context()), id, *body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if removed {
			responses.WriteSuccess(w, types.RemovedResponse{Removed: true, Message: "item removed from cart"})
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func CartRemove(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), middleware.CartSessionFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "item removed from cart")
	}
}
