package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStorePutGetDelete(t *testing.T) {
	s := NewStore[string]()

	_, ok := s.Get(1)
	require.False(t, ok)

	s.Put(1, "hello")
	got, ok := s.Get(1)
	require.True(t, ok)
	require.Equal(t, "hello", got)
	require.Equal(t, 1, s.Len())

	s.Delete(1)
	require.False(t, s.Has(1))
	require.Equal(t, 0, s.Len())
}

func TestDoRemovesOnNil(t *testing.T) {
	s := NewStore[int]()
	s.Put(7, 42)

	s.Do(7, func(cur *int) *int {
		require.NotNil(t, cur)
		require.Equal(t, 42, *cur)
		return nil
	})
	require.Equal(t, 0, s.Len())

	// Do on a missing user sees nil and may decline to create anything.
	called := false
	s.Do(7, func(cur *int) *int {
		called = true
		require.Nil(t, cur)
		return nil
	})
	require.True(t, called)
	require.Equal(t, 0, s.Len())
}

func TestDoSerializesPerUser(t *testing.T) {
	s := NewStore[int]()
	s.Put(1, 0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(1, func(cur *int) *int {
				v := *cur + 1
				return &v
			})
		}()
	}
	wg.Wait()

	got, ok := s.Get(1)
	require.True(t, ok)
	require.Equal(t, 100, got)
}

func TestUsersDoNotBlockEachOther(t *testing.T) {
	s := NewStore[int]()
	s.Put(1, 0)
	s.Put(2, 0)

	hold := make(chan struct{})
	entered := make(chan struct{})
	go s.Do(1, func(cur *int) *int {
		close(entered)
		<-hold
		return cur
	})
	<-entered

	done := make(chan struct{})
	go func() {
		s.Do(2, func(cur *int) *int { return cur })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("user 2 blocked behind user 1's session lock")
	}
	close(hold)
}
