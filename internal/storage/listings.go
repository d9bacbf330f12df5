package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/logger"
)

// ListingRepo persists listings and their moderation lifecycle.
type ListingRepo struct {
	db *sqlx.DB
}

// NewListingRepo constructs a listing repository over the shared pool.
func NewListingRepo(db *sqlx.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

// listingRow keeps driver-specific scanning out of the domain entity.
// Photos are a genuine text[] column; handles are never serialized into a
// single evaluable string.
type listingRow struct {
	ID           int64          `db:"id"`
	OwnerID      int64          `db:"owner_id"`
	OwnerName    string         `db:"owner_name"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Photos       pq.StringArray `db:"photos"`
	Price        string         `db:"price"`
	Contact      string         `db:"contact"`
	CreatedAt    time.Time      `db:"created_at"`
	Status       string         `db:"status"`
	AdminContact sql.NullString `db:"admin_contact"`
}

func (r listingRow) toDomain() domain.Listing {
	return domain.Listing{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		OwnerName:    r.OwnerName,
		Title:        r.Title,
		Description:  r.Description,
		Photos:       append([]string(nil), r.Photos...),
		Price:        r.Price,
		Contact:      r.Contact,
		CreatedAt:    r.CreatedAt,
		Status:       domain.Status(r.Status),
		AdminContact: r.AdminContact.String,
	}
}

func toDomainList(rows []listingRow) []domain.Listing {
	out := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

// selectListing joins owner attribution in so every query yields the same
// field set regardless of which view asked for it.
const selectListing = `
SELECT l.id, l.owner_id, COALESCE(u.username, '') AS owner_name,
       l.title, l.description, l.photos, l.price, l.contact,
       l.created_at, l.status, l.admin_contact
FROM listings l
LEFT JOIN users u ON u.telegram_id = l.owner_id`

// Insert stores a new listing with status pending and returns its id.
func (r *ListingRepo) Insert(ctx context.Context, nl domain.NewListing) (int64, error) {
	start := time.Now()
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO listings (owner_id, title, description, photos, price, contact, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		nl.OwnerID, nl.Title, nl.Description, pq.StringArray(nl.Photos), nl.Price, nl.Contact, string(domain.StatusPending),
	).Scan(&id)
	logger.SVCListings.LogAttrs(ctx, slog.LevelInfo, "listing.insert",
		slog.String("status", logger.Status(err)),
		slog.Int64("listing_id", id),
		slog.Int64("owner_id", nl.OwnerID),
		slog.Int("photos", len(nl.Photos)),
		slog.Duration("duration", logger.Took(start)),
	)
	if err != nil {
		return 0, domain.Unavailable("listing insert", err)
	}
	return id, nil
}

// ByStatus returns listings in the given status, newest first.
func (r *ListingRepo) ByStatus(ctx context.Context, status domain.Status) ([]domain.Listing, error) {
	var rows []listingRow
	err := r.db.SelectContext(ctx, &rows, selectListing+`
WHERE l.status = $1
ORDER BY l.created_at DESC, l.id DESC`, string(status))
	if err != nil {
		return nil, domain.Unavailable("listing query", err)
	}
	return toDomainList(rows), nil
}

// All returns every listing regardless of status, newest first.
func (r *ListingRepo) All(ctx context.Context) ([]domain.Listing, error) {
	var rows []listingRow
	err := r.db.SelectContext(ctx, &rows, selectListing+`
ORDER BY l.created_at DESC, l.id DESC`)
	if err != nil {
		return nil, domain.Unavailable("listing query", err)
	}
	return toDomainList(rows), nil
}

// ByOwner returns the owner's listings, newest first.
func (r *ListingRepo) ByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error) {
	var rows []listingRow
	err := r.db.SelectContext(ctx, &rows, selectListing+`
WHERE l.owner_id = $1
ORDER BY l.created_at DESC, l.id DESC`, ownerID)
	if err != nil {
		return nil, domain.Unavailable("listing query", err)
	}
	return toDomainList(rows), nil
}

// Listing fetches one listing by id.
func (r *ListingRepo) Listing(ctx context.Context, id int64) (domain.Listing, error) {
	var row listingRow
	err := r.db.GetContext(ctx, &row, selectListing+`
WHERE l.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Listing{}, domain.Unavailable("listing query", err)
	}
	return row.toDomain(), nil
}

// UpdateStatus applies a moderation decision. The update is conditional on
// the listing still being pending, so a concurrent second decision observes
// zero affected rows and fails instead of silently succeeding.
func (r *ListingRepo) UpdateStatus(ctx context.Context, id int64, status domain.Status, adminContact string) error {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, `
UPDATE listings
SET status = $2, admin_contact = NULLIF($3, '')
WHERE id = $1 AND status = $4`,
		id, string(status), adminContact, string(domain.StatusPending),
	)
	if err != nil {
		return domain.Unavailable("listing status update", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Unavailable("listing status update", err)
	}
	logger.SVCListings.LogAttrs(ctx, slog.LevelInfo, "listing.status",
		slog.String("status", "ok"),
		slog.Int64("listing_id", id),
		slog.String("op", string(status)),
		slog.Int64("count", affected),
		slog.Duration("duration", logger.Took(start)),
	)
	if affected == 0 {
		// Distinguish a decided listing from a deleted one where possible;
		// both surface to the user as "no longer pending".
		if _, lookupErr := r.Listing(ctx, id); errors.Is(lookupErr, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return domain.ErrNotPending
	}
	return nil
}

// Delete removes a listing unconditionally, at any status.
func (r *ListingRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return domain.Unavailable("listing delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Unavailable("listing delete", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	logger.SVCListings.LogAttrs(ctx, slog.LevelInfo, "listing.delete",
		slog.String("status", "ok"),
		slog.Int64("listing_id", id),
	)
	return nil
}

// Counts aggregates board statistics for the admin view.
func (r *ListingRepo) Counts(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'approved'),
       COUNT(*) FILTER (WHERE status = 'pending'),
       COUNT(*) FILTER (WHERE status = 'rejected')
FROM listings`).Scan(&stats.Listings, &stats.Approved, &stats.Pending, &stats.Rejected)
	if err != nil {
		return domain.Stats{}, domain.Unavailable("stats query", err)
	}
	err = r.db.GetContext(ctx, &stats.Users, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return domain.Stats{}, domain.Unavailable("stats query", err)
	}
	return stats, nil
}
