package moderation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
)

// fakeStore mirrors the conditional-update semantics of the SQL repository:
// a decision lands only while the listing is still pending.
type fakeStore struct {
	mu       sync.Mutex
	listings map[int64]domain.Listing
}

func newFakeStore(listings ...domain.Listing) *fakeStore {
	s := &fakeStore{listings: make(map[int64]domain.Listing)}
	for _, l := range listings {
		s.listings[l.ID] = l
	}
	return s
}

func (s *fakeStore) Listing(_ context.Context, id int64) (domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, nil
}

func (s *fakeStore) ByStatus(_ context.Context, status domain.Status) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, l := range s.listings {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id int64, status domain.Status, adminContact string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if l.Status != domain.StatusPending {
		return domain.ErrNotPending
	}
	l.Status = status
	l.AdminContact = adminContact
	s.listings[id] = l
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.listings, id)
	return nil
}

func pending(id, ownerID int64) domain.Listing {
	return domain.Listing{ID: id, OwnerID: ownerID, Status: domain.StatusPending}
}

func adminSet(ids ...int64) func(int64) bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id int64) bool { return set[id] }
}

func TestApproveStampsContactAndReturnsQueue(t *testing.T) {
	store := newFakeStore(pending(1, 100), pending(2, 101))
	c := NewCoordinator(store, "@moderator", adminSet(1))

	dec, err := c.Approve(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, dec.Listing.Status)
	require.Equal(t, "@moderator", dec.Listing.AdminContact)
	require.Len(t, dec.Queue, 1)
	require.Equal(t, int64(2), dec.Queue[0].ID)
}

func TestRejectLeavesNoContact(t *testing.T) {
	store := newFakeStore(pending(1, 100))
	c := NewCoordinator(store, "@moderator", adminSet(1))

	dec, err := c.Reject(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, dec.Listing.Status)
	require.Empty(t, dec.Listing.AdminContact)
	require.Empty(t, dec.Queue)
}

func TestDoubleApproveFails(t *testing.T) {
	store := newFakeStore(pending(1, 100))
	c := NewCoordinator(store, "@moderator", adminSet(1))

	_, err := c.Approve(context.Background(), 1)
	require.NoError(t, err)

	_, err = c.Approve(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrNotPending)

	// The first decision stands untouched.
	l, err := store.Listing(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, l.Status)
	require.Equal(t, "@moderator", l.AdminContact)
}

func TestRejectAfterApproveFails(t *testing.T) {
	store := newFakeStore(pending(1, 100))
	c := NewCoordinator(store, "@moderator", adminSet(1))

	_, err := c.Approve(context.Background(), 1)
	require.NoError(t, err)

	_, err = c.Reject(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrNotPending)
}

func TestApproveMissingListing(t *testing.T) {
	c := NewCoordinator(newFakeStore(), "@moderator", adminSet(1))
	_, err := c.Approve(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApproveDeletedConcurrently(t *testing.T) {
	store := newFakeStore(pending(1, 100))
	c := NewCoordinator(store, "@moderator", adminSet(1))

	require.NoError(t, store.Delete(context.Background(), 1))
	_, err := c.Approve(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteByOwner(t *testing.T) {
	store := newFakeStore(pending(1, 100))
	c := NewCoordinator(store, "@moderator", adminSet(999))

	l, err := c.Delete(context.Background(), 100, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), l.ID)

	_, err = store.Listing(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteByAdmin(t *testing.T) {
	store := newFakeStore(pending(1, 100))
	c := NewCoordinator(store, "@moderator", adminSet(999))

	_, err := c.Delete(context.Background(), 999, 1)
	require.NoError(t, err)
}

func TestDeleteByStrangerLooksLikeMissing(t *testing.T) {
	store := newFakeStore(pending(1, 100))
	c := NewCoordinator(store, "@moderator", adminSet(999))

	_, err := c.Delete(context.Background(), 555, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Still there.
	_, err = store.Listing(context.Background(), 1)
	require.NoError(t, err)
}

func TestPendingQueue(t *testing.T) {
	approved := domain.Listing{ID: 3, OwnerID: 1, Status: domain.StatusApproved}
	store := newFakeStore(pending(1, 100), pending(2, 101), approved)
	c := NewCoordinator(store, "@moderator", adminSet(1))

	queue, err := c.PendingQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, queue, 2)
}
