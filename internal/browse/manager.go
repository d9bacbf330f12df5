// Package browse implements paginated listing views over an immutable
// snapshot. Each user holds at most one browse session; opening a new view
// replaces the previous one. The manager never touches the transport: it
// returns the page to show and the message references to retire, and the
// caller reports back what it actually rendered.
package browse

import (
	"fmt"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/session"
)

// MessageRef identifies a rendered chat message belonging to a session.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Session is one user's paging state: a snapshot taken when the view was
// opened, the cursor into it, and the messages currently on screen.
type Session struct {
	Kind      domain.BrowseKind
	Items     []domain.Listing
	Cursor    int
	Displayed []MessageRef
}

// Page is everything the renderer needs for one screen.
type Page struct {
	Listing   domain.Listing
	Index     int
	Total     int
	HasPrev   bool
	HasNext   bool
	Indicator string
}

// Manager owns one browse session per user.
type Manager struct {
	sessions *session.Store[Session]
}

// NewManager constructs an empty browse manager.
func NewManager() *Manager {
	return &Manager{sessions: session.NewStore[Session]()}
}

func pageAt(s *Session) Page {
	total := len(s.Items)
	return Page{
		Listing:   s.Items[s.Cursor],
		Index:     s.Cursor,
		Total:     total,
		HasPrev:   s.Cursor > 0,
		HasNext:   s.Cursor < total-1,
		Indicator: fmt.Sprintf("%d/%d", s.Cursor+1, total),
	}
}

// Open starts a session over the given snapshot at the first page. It
// returns the messages of any prior session so the caller can retire them.
// With an empty snapshot no session is created and ok is false.
func (m *Manager) Open(userID int64, kind domain.BrowseKind, items []domain.Listing) (Page, []MessageRef, bool) {
	var (
		page   Page
		retire []MessageRef
		ok     bool
	)
	m.sessions.Do(userID, func(cur *Session) *Session {
		if cur != nil {
			retire = cur.Displayed
		}
		if len(items) == 0 {
			return nil
		}
		next := &Session{
			Kind:  kind,
			Items: append([]domain.Listing(nil), items...),
		}
		page = pageAt(next)
		ok = true
		return next
	})
	return page, retire, ok
}

// Move shifts the cursor by delta within the snapshot, clamped to its
// bounds, and returns the new page plus the messages to retire. A session
// of a different kind, or no session at all, yields ErrSessionExpired.
func (m *Manager) Move(userID int64, kind domain.BrowseKind, delta int) (Page, []MessageRef, error) {
	var (
		page   Page
		retire []MessageRef
		err    error
	)
	m.sessions.Do(userID, func(cur *Session) *Session {
		if cur == nil || cur.Kind != kind {
			err = domain.ErrSessionExpired
			return cur
		}
		target := cur.Cursor + delta
		if target < 0 {
			target = 0
		}
		if target > len(cur.Items)-1 {
			target = len(cur.Items) - 1
		}
		cur.Cursor = target
		retire = cur.Displayed
		cur.Displayed = nil
		page = pageAt(cur)
		return cur
	})
	if err != nil {
		return Page{}, nil, err
	}
	return page, retire, nil
}

// Current returns the page under the cursor without moving it.
func (m *Manager) Current(userID int64, kind domain.BrowseKind) (Page, error) {
	var (
		page Page
		err  error
	)
	m.sessions.Do(userID, func(cur *Session) *Session {
		if cur == nil || cur.Kind != kind {
			err = domain.ErrSessionExpired
			return cur
		}
		page = pageAt(cur)
		return cur
	})
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// FinishRender records the messages the caller just put on screen so a
// later page turn can retire them. A vanished session is ignored; the
// caller keeps its messages and the user simply reopens the view.
func (m *Manager) FinishRender(userID int64, kind domain.BrowseKind, refs []MessageRef) {
	m.sessions.Do(userID, func(cur *Session) *Session {
		if cur == nil || cur.Kind != kind {
			return cur
		}
		cur.Displayed = refs
		return cur
	})
}

// Refresh replaces the snapshot in place, keeping the cursor position but
// clamping it to the last item when the snapshot shrank. An empty snapshot
// closes the session; exhausted is true and the returned refs should be
// retired along with the view.
func (m *Manager) Refresh(userID int64, kind domain.BrowseKind, items []domain.Listing) (page Page, retire []MessageRef, exhausted bool, err error) {
	m.sessions.Do(userID, func(cur *Session) *Session {
		if cur == nil || cur.Kind != kind {
			err = domain.ErrSessionExpired
			return cur
		}
		retire = cur.Displayed
		cur.Displayed = nil
		if len(items) == 0 {
			exhausted = true
			return nil
		}
		cur.Items = append([]domain.Listing(nil), items...)
		if cur.Cursor > len(cur.Items)-1 {
			cur.Cursor = len(cur.Items) - 1
		}
		page = pageAt(cur)
		return cur
	})
	return page, retire, exhausted, err
}

// Close drops the session and returns its on-screen messages to retire.
func (m *Manager) Close(userID int64) []MessageRef {
	var retire []MessageRef
	m.sessions.Do(userID, func(cur *Session) *Session {
		if cur != nil {
			retire = cur.Displayed
		}
		return nil
	})
	return retire
}
