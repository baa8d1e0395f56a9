// Package inventory owns the countable-resource invariant for products: the
// quantity never goes negative, a successful purchase decrements it by exactly
// one, and an owner can never buy their own listing. All coordination happens
// through the store's per-document atomicity; there are no in-process locks and
// no retries.
package inventory

import (
	"context"
	"errors"

	"campora/errs"
	"campora/models"
)

// ErrNoClaim is returned by Store.ClaimUnit when the conditional update matched
// no document. It carries no reason; the allocator runs a diagnostic read to
// produce one.
var ErrNoClaim = errors.New("no claimable product matched")

// Store is the document-store surface the allocator needs. ClaimUnit must be a
// single atomic guard-and-mutate: find the product with the given id, quantity
// above zero and an owner other than buyer, decrement the quantity, and return
// the post-decrement document.
type Store interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	ClaimUnit(ctx context.Context, productID, buyer string) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

type Allocator struct {
	store Store
}

func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store}
}

// AttemptPurchase claims one unit of the product for buyer. The claim itself is
// one atomic store operation; the follow-up read only disambiguates the error
// and never decides whether the purchase happened.
func (a *Allocator) AttemptPurchase(ctx context.Context, productID, buyer string) (*models.Product, error) {
	product, err := a.store.ClaimUnit(ctx, productID, buyer)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, ErrNoClaim) {
		return nil, err
	}

	// Diagnostic read: the conditional update can only say "nothing matched",
	// not why.
	existing, err := a.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if existing.UserID == buyer {
		return nil, errs.ErrForbidden
	}
	return nil, errs.ErrConflict
}

// IsSoldOut reports whether the product has no stock left. Unsynchronized
// snapshot; callers must tolerate staleness.
func (a *Allocator) IsSoldOut(ctx context.Context, productID string) (bool, error) {
	product, err := a.store.GetProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	return product.Quantity <= 0, nil
}

// DeleteProduct removes a listing. Owner-only, unconditional, no cascade.
func (a *Allocator) DeleteProduct(ctx context.Context, productID, requester string) error {
	product, err := a.store.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.UserID != requester {
		return errs.ErrForbidden
	}
	return a.store.DeleteProduct(ctx, productID)
}
