// Package draft implements the guided listing-submission conversation:
// a per-user finite state machine collecting title, description, price,
// contact and up to five photos before handing the result to the store.
package draft

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/logger"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/session"
)

// Step identifies the field the conversation is currently collecting.
type Step string

const (
	StepTitle       Step = "title"
	StepDescription Step = "description"
	StepPrice       Step = "price"
	StepContact     Step = "contact"
	StepPhoto       Step = "photo"
)

// Draft is the in-progress submission. Fields for passed steps are always
// set; fields for future steps are always empty.
type Draft struct {
	Step        Step
	Title       string
	Description string
	Price       string
	Contact     string
	Photos      []string
}

// Store is the slice of the listing store the draft flow needs.
type Store interface {
	Insert(ctx context.Context, nl domain.NewListing) (int64, error)
}

// Manager owns one draft per user.
type Manager struct {
	sessions *session.Store[Draft]
	store    Store
}

// NewManager constructs a draft manager backed by the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		sessions: session.NewStore[Draft](),
		store:    store,
	}
}

// Begin starts a fresh draft at the title step, discarding any unfinished
// one for that user. Last write wins, no warning.
func (m *Manager) Begin(userID int64) {
	m.sessions.Put(userID, Draft{Step: StepTitle, Photos: []string{}})
	logger.Debug(context.Background(), "service.drafts", "draft.begin",
		slog.Int64("user_id", userID),
	)
}

// Active reports whether the user has a draft in progress.
func (m *Manager) Active(userID int64) bool {
	return m.sessions.Has(userID)
}

// Current returns a snapshot of the user's draft.
func (m *Manager) Current(userID int64) (Draft, bool) {
	return m.sessions.Get(userID)
}

// SubmitText feeds free text into the current step and returns the step to
// prompt for next. Too-short input keeps the draft on the same step.
func (m *Manager) SubmitText(userID int64, text string) (Step, error) {
	var (
		next Step
		err  error
	)
	m.sessions.Do(userID, func(cur *Draft) *Draft {
		if cur == nil {
			err = domain.ErrSessionExpired
			return cur
		}
		switch cur.Step {
		case StepTitle:
			if utf8.RuneCountInString(text) < domain.MinTitleLen {
				err = domain.Validation("title must be at least %d characters", domain.MinTitleLen)
				return cur
			}
			cur.Title = text
			cur.Step = StepDescription
		case StepDescription:
			if utf8.RuneCountInString(text) < domain.MinDescriptionLen {
				err = domain.Validation("description must be at least %d characters", domain.MinDescriptionLen)
				return cur
			}
			cur.Description = text
			cur.Step = StepPrice
		case StepPrice:
			cur.Price = text
			cur.Step = StepContact
		case StepContact:
			cur.Contact = text
			cur.Step = StepPhoto
		default:
			// Free text is not an input at the photo step.
			err = domain.Validation("expecting a photo, not text")
			return cur
		}
		next = cur.Step
		return cur
	})
	if err != nil {
		return "", err
	}
	logger.Debug(context.Background(), "service.drafts", "draft.step",
		slog.Int64("user_id", userID),
		slog.String("step", string(next)),
	)
	return next, nil
}

// SubmitPhoto appends a photo handle at the photo step. Handles are opaque
// and stored as an ordered sequence; duplicates are allowed. The manager
// refuses a sixth photo even if the caller offers one.
func (m *Manager) SubmitPhoto(userID int64, photoRef string) (count int, limitReached bool, err error) {
	m.sessions.Do(userID, func(cur *Draft) *Draft {
		if cur == nil {
			err = domain.ErrSessionExpired
			return cur
		}
		if cur.Step != StepPhoto {
			err = domain.Validation("not expecting a photo yet")
			return cur
		}
		if len(cur.Photos) >= domain.MaxPhotos {
			count = len(cur.Photos)
			limitReached = true
			err = domain.Validation("photo limit of %d reached", domain.MaxPhotos)
			return cur
		}
		cur.Photos = append(cur.Photos, photoRef)
		count = len(cur.Photos)
		limitReached = count >= domain.MaxPhotos
		return cur
	})
	return count, limitReached, err
}

// RequestMorePhotos confirms another photo may be added; informational only.
func (m *Manager) RequestMorePhotos(userID int64) (count int, err error) {
	m.sessions.Do(userID, func(cur *Draft) *Draft {
		if cur == nil {
			err = domain.ErrSessionExpired
			return cur
		}
		if cur.Step != StepPhoto {
			err = domain.Validation("not at the photo step")
			return cur
		}
		count = len(cur.Photos)
		if count >= domain.MaxPhotos {
			err = domain.Validation("photo limit of %d reached", domain.MaxPhotos)
		}
		return cur
	})
	return count, err
}

// Finalize submits the completed draft as a pending listing and destroys
// the draft. The draft survives intact when the store write fails.
func (m *Manager) Finalize(ctx context.Context, userID int64) (int64, Draft, error) {
	var (
		id        int64
		submitted Draft
		err       error
	)
	m.sessions.Do(userID, func(cur *Draft) *Draft {
		if cur == nil {
			err = domain.ErrSessionExpired
			return cur
		}
		if cur.Step != StepPhoto {
			err = domain.Validation("listing is not complete yet")
			return cur
		}
		if len(cur.Photos) == 0 {
			err = domain.Validation("add at least one photo first")
			return cur
		}
		id, err = m.store.Insert(ctx, domain.NewListing{
			OwnerID:     userID,
			Title:       cur.Title,
			Description: cur.Description,
			Photos:      append([]string(nil), cur.Photos...),
			Price:       cur.Price,
			Contact:     cur.Contact,
		})
		if err != nil {
			return cur
		}
		submitted = *cur
		return nil
	})
	if err != nil {
		return 0, Draft{}, err
	}
	logger.Info(ctx, "service.drafts", "draft.finalized",
		slog.Int64("user_id", userID),
		slog.Int64("listing_id", id),
		slog.Int("photos", len(submitted.Photos)),
	)
	return id, submitted, nil
}

// Cancel destroys the draft unconditionally; no-op when none exists.
func (m *Manager) Cancel(userID int64) bool {
	existed := false
	m.sessions.Do(userID, func(cur *Draft) *Draft {
		existed = cur != nil
		return nil
	})
	if existed {
		logger.Debug(context.Background(), "service.drafts", "draft.cancelled",
			slog.Int64("user_id", userID),
		)
	}
	return existed
}
