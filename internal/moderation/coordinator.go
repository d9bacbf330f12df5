// Package moderation applies approve/reject decisions to pending listings
// and enforces who may delete what. Decisions go through a conditional
// store update, so when two moderators race on the same listing exactly one
// decision lands and the other comes back as an explicit failure.
package moderation

import (
	"context"
	"log/slog"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/logger"
)

// Store is the slice of the listing store moderation needs.
type Store interface {
	Listing(ctx context.Context, id int64) (domain.Listing, error)
	ByStatus(ctx context.Context, status domain.Status) ([]domain.Listing, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status, adminContact string) error
	Delete(ctx context.Context, id int64) error
}

// Decision is the outcome of an applied moderation action: the listing in
// its new state and a fresh snapshot of the remaining pending queue.
type Decision struct {
	Listing domain.Listing
	Queue   []domain.Listing
}

// Coordinator carries out moderation actions on behalf of administrators.
type Coordinator struct {
	store        Store
	adminContact string
	isAdmin      func(userID int64) bool
}

// NewCoordinator constructs a coordinator. adminContact is stamped onto
// approved listings so buyers know whom to reach; isAdmin decides delete
// rights beyond ownership.
func NewCoordinator(store Store, adminContact string, isAdmin func(int64) bool) *Coordinator {
	return &Coordinator{store: store, adminContact: adminContact, isAdmin: isAdmin}
}

// Approve publishes a pending listing. A listing that was already decided
// or deleted fails with ErrNotPending or ErrNotFound; approval is never
// applied twice.
func (c *Coordinator) Approve(ctx context.Context, listingID int64) (Decision, error) {
	return c.decide(ctx, listingID, domain.StatusApproved, c.adminContact)
}

// Reject declines a pending listing. No moderator contact is attached.
func (c *Coordinator) Reject(ctx context.Context, listingID int64) (Decision, error) {
	return c.decide(ctx, listingID, domain.StatusRejected, "")
}

func (c *Coordinator) decide(ctx context.Context, listingID int64, status domain.Status, adminContact string) (Decision, error) {
	if err := c.store.UpdateStatus(ctx, listingID, status, adminContact); err != nil {
		logger.Warn(ctx, "service.moderation", "moderation.decision",
			slog.Int64("listing_id", listingID),
			slog.String("op", string(status)),
			slog.String("err_code", domain.CodeOf(err)),
		)
		return Decision{}, err
	}
	listing, err := c.store.Listing(ctx, listingID)
	if err != nil {
		return Decision{}, err
	}
	queue, err := c.store.ByStatus(ctx, domain.StatusPending)
	if err != nil {
		return Decision{}, err
	}
	logger.Info(ctx, "service.moderation", "moderation.decision",
		slog.Int64("listing_id", listingID),
		slog.String("op", string(status)),
		slog.Int("pending_count", len(queue)),
	)
	return Decision{Listing: listing, Queue: queue}, nil
}

// Delete removes a listing when the requester owns it or is an
// administrator. Anyone else gets ErrNotFound, same as a missing listing.
func (c *Coordinator) Delete(ctx context.Context, requesterID, listingID int64) (domain.Listing, error) {
	listing, err := c.store.Listing(ctx, listingID)
	if err != nil {
		return domain.Listing{}, err
	}
	if listing.OwnerID != requesterID && !c.isAdmin(requesterID) {
		return domain.Listing{}, domain.ErrNotFound
	}
	if err := c.store.Delete(ctx, listingID); err != nil {
		return domain.Listing{}, err
	}
	logger.Info(ctx, "service.moderation", "moderation.delete",
		slog.Int64("listing_id", listingID),
		slog.Int64("user_id", requesterID),
	)
	return listing, nil
}

// PendingQueue returns the current moderation queue, newest first.
func (c *Coordinator) PendingQueue(ctx context.Context) ([]domain.Listing, error) {
	return c.store.ByStatus(ctx, domain.StatusPending)
}
