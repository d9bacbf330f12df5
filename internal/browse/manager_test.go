package browse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
)

func listings(n int) []domain.Listing {
	out := make([]domain.Listing, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Listing{
			ID:    int64(i + 1),
			Title: fmt.Sprintf("listing %d", i+1),
		})
	}
	return out
}

func TestOpenEmptySnapshot(t *testing.T) {
	m := NewManager()
	_, retire, ok := m.Open(1, domain.BrowsePublic, nil)
	require.False(t, ok)
	require.Empty(t, retire)

	_, _, err := m.Move(1, domain.BrowsePublic, 1)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestOpenFirstPage(t *testing.T) {
	m := NewManager()
	page, _, ok := m.Open(1, domain.BrowsePublic, listings(3))
	require.True(t, ok)
	require.Equal(t, int64(1), page.Listing.ID)
	require.Equal(t, 0, page.Index)
	require.Equal(t, 3, page.Total)
	require.False(t, page.HasPrev)
	require.True(t, page.HasNext)
	require.Equal(t, "1/3", page.Indicator)
}

func TestSingleItemHasNoNavigation(t *testing.T) {
	m := NewManager()
	page, _, ok := m.Open(1, domain.BrowseOwn, listings(1))
	require.True(t, ok)
	require.False(t, page.HasPrev)
	require.False(t, page.HasNext)
	require.Equal(t, "1/1", page.Indicator)
}

func TestMoveClampsAtBounds(t *testing.T) {
	m := NewManager()
	_, _, ok := m.Open(1, domain.BrowsePublic, listings(3))
	require.True(t, ok)

	// Backwards off the start stays on the first page.
	page, _, err := m.Move(1, domain.BrowsePublic, -1)
	require.NoError(t, err)
	require.Equal(t, 0, page.Index)

	page, _, err = m.Move(1, domain.BrowsePublic, 1)
	require.NoError(t, err)
	require.Equal(t, 1, page.Index)
	require.True(t, page.HasPrev)
	require.True(t, page.HasNext)

	page, _, err = m.Move(1, domain.BrowsePublic, 1)
	require.NoError(t, err)
	require.Equal(t, 2, page.Index)
	require.False(t, page.HasNext)

	// Forwards off the end stays on the last page.
	page, _, err = m.Move(1, domain.BrowsePublic, 1)
	require.NoError(t, err)
	require.Equal(t, 2, page.Index)
	require.Equal(t, "3/3", page.Indicator)
}

func TestMoveRetiresDisplayedMessages(t *testing.T) {
	m := NewManager()
	_, _, ok := m.Open(1, domain.BrowsePublic, listings(2))
	require.True(t, ok)

	refs := []MessageRef{{ChatID: 1, MessageID: 10}, {ChatID: 1, MessageID: 11}}
	m.FinishRender(1, domain.BrowsePublic, refs)

	_, retire, err := m.Move(1, domain.BrowsePublic, 1)
	require.NoError(t, err)
	require.Equal(t, refs, retire)

	// Already handed out once; a second turn has nothing left to retire.
	_, retire, err = m.Move(1, domain.BrowsePublic, -1)
	require.NoError(t, err)
	require.Empty(t, retire)
}

func TestMoveWrongKindExpired(t *testing.T) {
	m := NewManager()
	_, _, ok := m.Open(1, domain.BrowsePublic, listings(2))
	require.True(t, ok)

	_, _, err := m.Move(1, domain.BrowsePending, 1)
	require.ErrorIs(t, err, domain.ErrSessionExpired)

	// The public session is untouched.
	page, err := m.Current(1, domain.BrowsePublic)
	require.NoError(t, err)
	require.Equal(t, 0, page.Index)
}

func TestOpenReplacesPreviousSession(t *testing.T) {
	m := NewManager()
	_, _, ok := m.Open(1, domain.BrowsePublic, listings(2))
	require.True(t, ok)
	m.FinishRender(1, domain.BrowsePublic, []MessageRef{{ChatID: 1, MessageID: 5}})

	page, retire, ok := m.Open(1, domain.BrowseOwn, listings(4))
	require.True(t, ok)
	require.Equal(t, []MessageRef{{ChatID: 1, MessageID: 5}}, retire)
	require.Equal(t, 4, page.Total)

	_, _, err := m.Move(1, domain.BrowsePublic, 1)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestRefreshClampsCursor(t *testing.T) {
	m := NewManager()
	_, _, ok := m.Open(1, domain.BrowsePending, listings(3))
	require.True(t, ok)
	_, _, err := m.Move(1, domain.BrowsePending, 2)
	require.NoError(t, err)

	// The queue shrank under the cursor; it snaps to the new last item.
	page, _, exhausted, err := m.Refresh(1, domain.BrowsePending, listings(2))
	require.NoError(t, err)
	require.False(t, exhausted)
	require.Equal(t, 1, page.Index)
	require.Equal(t, "2/2", page.Indicator)
}

func TestRefreshKeepsCursorWhenStillValid(t *testing.T) {
	m := NewManager()
	_, _, ok := m.Open(1, domain.BrowsePending, listings(4))
	require.True(t, ok)
	_, _, err := m.Move(1, domain.BrowsePending, 1)
	require.NoError(t, err)

	page, _, exhausted, err := m.Refresh(1, domain.BrowsePending, listings(3))
	require.NoError(t, err)
	require.False(t, exhausted)
	require.Equal(t, 1, page.Index)
}

func TestRefreshEmptyClosesSession(t *testing.T) {
	m := NewManager()
	_, _, ok := m.Open(1, domain.BrowsePending, listings(1))
	require.True(t, ok)
	m.FinishRender(1, domain.BrowsePending, []MessageRef{{ChatID: 1, MessageID: 3}})

	_, retire, exhausted, err := m.Refresh(1, domain.BrowsePending, nil)
	require.NoError(t, err)
	require.True(t, exhausted)
	require.Equal(t, []MessageRef{{ChatID: 1, MessageID: 3}}, retire)

	_, err = m.Current(1, domain.BrowsePending)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestCloseReturnsDisplayed(t *testing.T) {
	m := NewManager()
	_, _, ok := m.Open(1, domain.BrowsePublic, listings(2))
	require.True(t, ok)
	m.FinishRender(1, domain.BrowsePublic, []MessageRef{{ChatID: 1, MessageID: 8}})

	retire := m.Close(1)
	require.Equal(t, []MessageRef{{ChatID: 1, MessageID: 8}}, retire)
	require.Empty(t, m.Close(1))
}

func TestSnapshotIsImmutable(t *testing.T) {
	m := NewManager()
	items := listings(2)
	_, _, ok := m.Open(1, domain.BrowsePublic, items)
	require.True(t, ok)

	// Mutating the caller's slice must not leak into the session.
	items[0].Title = "mutated"
	page, err := m.Current(1, domain.BrowsePublic)
	require.NoError(t, err)
	require.Equal(t, "listing 1", page.Listing.Title)
}
