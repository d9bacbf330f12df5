package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
)

type fakeStore struct {
	inserted []domain.NewListing
	nextID   int64
	fail     error
}

func (f *fakeStore) Insert(_ context.Context, nl domain.NewListing) (int64, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	f.inserted = append(f.inserted, nl)
	f.nextID++
	return f.nextID, nil
}

func advanceToPhotos(t *testing.T, m *Manager, userID int64) {
	t.Helper()
	m.Begin(userID)
	steps := []struct {
		text string
		next Step
	}{
		{"Excavator CAT 320", StepDescription},
		{strings.Repeat("well maintained ", 3), StepPrice},
		{"45000 USD", StepContact},
		{"@seller", StepPhoto},
	}
	for _, s := range steps {
		next, err := m.SubmitText(userID, s.text)
		require.NoError(t, err)
		require.Equal(t, s.next, next)
	}
}

func TestDraftHappyPath(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store)
	const userID int64 = 100

	advanceToPhotos(t, m, userID)
	count, limit, err := m.SubmitPhoto(userID, "photo-a")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.False(t, limit)

	id, submitted, err := m.Finalize(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, "Excavator CAT 320", submitted.Title)

	require.Len(t, store.inserted, 1)
	nl := store.inserted[0]
	require.Equal(t, userID, nl.OwnerID)
	require.Equal(t, []string{"photo-a"}, nl.Photos)
	require.Equal(t, "45000 USD", nl.Price)
	require.Equal(t, "@seller", nl.Contact)

	require.False(t, m.Active(userID))
}

func TestTitleLengthBoundary(t *testing.T) {
	m := NewManager(&fakeStore{})
	m.Begin(1)

	// Rune count, not byte count: four Cyrillic letters are eight bytes.
	_, err := m.SubmitText(1, "Дом!")
	require.True(t, domain.IsValidation(err))
	d, ok := m.Current(1)
	require.True(t, ok)
	require.Equal(t, StepTitle, d.Step)

	next, err := m.SubmitText(1, "Кран!")
	require.NoError(t, err)
	require.Equal(t, StepDescription, next)
}

func TestDescriptionLengthBoundary(t *testing.T) {
	m := NewManager(&fakeStore{})
	m.Begin(1)
	_, err := m.SubmitText(1, "Crane for sale")
	require.NoError(t, err)

	_, err = m.SubmitText(1, strings.Repeat("x", 19))
	require.True(t, domain.IsValidation(err))
	d, _ := m.Current(1)
	require.Equal(t, StepDescription, d.Step)

	next, err := m.SubmitText(1, strings.Repeat("x", 20))
	require.NoError(t, err)
	require.Equal(t, StepPrice, next)
}

func TestPhotoLimit(t *testing.T) {
	m := NewManager(&fakeStore{})
	advanceToPhotos(t, m, 1)

	for i := 0; i < domain.MaxPhotos; i++ {
		count, limit, err := m.SubmitPhoto(1, "p")
		require.NoError(t, err)
		require.Equal(t, i+1, count)
		require.Equal(t, i+1 == domain.MaxPhotos, limit)
	}

	count, limit, err := m.SubmitPhoto(1, "extra")
	require.True(t, domain.IsValidation(err))
	require.True(t, limit)
	require.Equal(t, domain.MaxPhotos, count)

	_, err = m.RequestMorePhotos(1)
	require.True(t, domain.IsValidation(err))

	d, _ := m.Current(1)
	require.Len(t, d.Photos, domain.MaxPhotos)
}

func TestTextAtPhotoStepRejected(t *testing.T) {
	m := NewManager(&fakeStore{})
	advanceToPhotos(t, m, 1)

	_, err := m.SubmitText(1, "one more thing")
	require.True(t, domain.IsValidation(err))
	d, _ := m.Current(1)
	require.Equal(t, StepPhoto, d.Step)
}

func TestPhotoBeforePhotoStepRejected(t *testing.T) {
	m := NewManager(&fakeStore{})
	m.Begin(1)

	_, _, err := m.SubmitPhoto(1, "too-early")
	require.True(t, domain.IsValidation(err))
	d, _ := m.Current(1)
	require.Equal(t, StepTitle, d.Step)
}

func TestFinalizeRequiresPhotos(t *testing.T) {
	m := NewManager(&fakeStore{})
	advanceToPhotos(t, m, 1)

	_, _, err := m.Finalize(context.Background(), 1)
	require.True(t, domain.IsValidation(err))
	require.True(t, m.Active(1))
}

func TestFinalizeWithoutDraft(t *testing.T) {
	m := NewManager(&fakeStore{})
	_, _, err := m.Finalize(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestSubmitTextWithoutDraft(t *testing.T) {
	m := NewManager(&fakeStore{})
	_, err := m.SubmitText(1, "hello there")
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestFinalizeStoreFailureKeepsDraft(t *testing.T) {
	store := &fakeStore{fail: errors.New("connection refused")}
	m := NewManager(store)
	advanceToPhotos(t, m, 1)
	_, _, err := m.SubmitPhoto(1, "photo-a")
	require.NoError(t, err)

	_, _, err = m.Finalize(context.Background(), 1)
	require.Error(t, err)

	// The draft survives the failed write and a retry succeeds.
	store.fail = nil
	id, _, err := m.Finalize(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.False(t, m.Active(1))
}

func TestBeginReplacesDraft(t *testing.T) {
	m := NewManager(&fakeStore{})
	advanceToPhotos(t, m, 1)

	m.Begin(1)
	d, ok := m.Current(1)
	require.True(t, ok)
	require.Equal(t, StepTitle, d.Step)
	require.Empty(t, d.Title)
	require.Empty(t, d.Photos)
}

func TestCancel(t *testing.T) {
	m := NewManager(&fakeStore{})
	require.False(t, m.Cancel(1))

	m.Begin(1)
	require.True(t, m.Cancel(1))
	require.False(t, m.Active(1))
}

func TestDraftsAreIndependentPerUser(t *testing.T) {
	m := NewManager(&fakeStore{})
	m.Begin(1)
	m.Begin(2)

	_, err := m.SubmitText(1, "Crane for sale")
	require.NoError(t, err)

	d2, _ := m.Current(2)
	require.Equal(t, StepTitle, d2.Step)
	require.Empty(t, d2.Title)
}
