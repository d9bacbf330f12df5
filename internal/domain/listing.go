package domain

import "time"

// Status is the moderation lifecycle state of a listing.
type Status string

const (
	// StatusPending marks a listing awaiting a moderation decision.
	StatusPending Status = "pending"
	// StatusApproved marks a listing visible to all users.
	StatusApproved Status = "approved"
	// StatusRejected marks a listing declined by a moderator.
	StatusRejected Status = "rejected"
)

// MaxPhotos caps the photo sequence length of a listing.
const MaxPhotos = 5

const (
	// MinTitleLen is the minimum accepted title length in runes.
	MinTitleLen = 5
	// MinDescriptionLen is the minimum accepted description length in runes.
	MinDescriptionLen = 20
)

// Listing is a classified ad. The field set is identical no matter which
// query produced it; owner attribution is always joined in.
type Listing struct {
	ID           int64
	OwnerID      int64
	OwnerName    string
	Title        string
	Description  string
	Photos       []string
	Price        string
	Contact      string
	CreatedAt    time.Time
	Status       Status
	AdminContact string
}

// NewListing carries the fields of a draft being submitted for moderation.
type NewListing struct {
	OwnerID     int64
	Title       string
	Description string
	Photos      []string
	Price       string
	Contact     string
}

// Stats summarizes the board for administrators.
type Stats struct {
	Users    int64
	Listings int64
	Approved int64
	Pending  int64
	Rejected int64
}

// BrowseKind identifies which snapshot a browse session pages over.
type BrowseKind string

const (
	// BrowsePublic pages over approved listings.
	BrowsePublic BrowseKind = "public"
	// BrowseOwn pages over the caller's own listings.
	BrowseOwn BrowseKind = "own"
	// BrowsePending pages over the moderation queue.
	BrowsePending BrowseKind = "pending"
	// BrowseAdminAll pages over every listing regardless of status.
	BrowseAdminAll BrowseKind = "admin-all"
)
