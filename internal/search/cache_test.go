package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ytget/song-downloader/internal/model"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, query string, limit int) ([]model.MenuItem, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

var queenItems = []model.MenuItem{
	{Title: "Bohemian Rhapsody", Artist: "Queen", VideoID: "fJ9rUzIMcZQ"},
}

func TestCachedSearcher_HitsCache(t *testing.T) {
	next := new(MockSearcher)
	next.On("Search", mock.Anything, "Bohemian  Rhapsody", 5).Return(queenItems, nil).Once()

	c := NewCachedSearcher(next, 10, time.Minute)

	first, err := c.Search(context.Background(), "Bohemian  Rhapsody", 5)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), "bohemian rhapsody", 5)
	require.NoError(t, err)

	assert.Equal(t, queenItems, first)
	assert.Equal(t, queenItems, second)
	assert.Equal(t, 1, c.Len())
	next.AssertExpectations(t)
}

func TestCachedSearcher_ReturnsCopies(t *testing.T) {
	next := new(MockSearcher)
	next.On("Search", mock.Anything, "queen", 5).Return(queenItems, nil).Once()

	c := NewCachedSearcher(next, 10, time.Minute)

	first, err := c.Search(context.Background(), "queen", 5)
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := c.Search(context.Background(), "queen", 5)
	require.NoError(t, err)
	assert.Equal(t, "Bohemian Rhapsody", second[0].Title)
}

func TestCachedSearcher_LimitIsPartOfKey(t *testing.T) {
	next := new(MockSearcher)
	next.On("Search", mock.Anything, "queen", 5).Return(queenItems, nil).Once()
	next.On("Search", mock.Anything, "queen", 10).Return(queenItems, nil).Once()

	c := NewCachedSearcher(next, 10, time.Minute)

	_, err := c.Search(context.Background(), "queen", 0)
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "queen", 10)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	next.AssertExpectations(t)
}

func TestCachedSearcher_ErrorsNotCached(t *testing.T) {
	next := new(MockSearcher)
	next.On("Search", mock.Anything, "queen", 5).Return(nil, errors.New("down")).Once()
	next.On("Search", mock.Anything, "queen", 5).Return(queenItems, nil).Once()

	c := NewCachedSearcher(next, 10, time.Minute)

	_, err := c.Search(context.Background(), "queen", 5)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	items, err := c.Search(context.Background(), "queen", 5)
	require.NoError(t, err)
	assert.Equal(t, queenItems, items)
}

func TestCachedSearcher_Purge(t *testing.T) {
	next := new(MockSearcher)
	next.On("Search", mock.Anything, "queen", 5).Return(queenItems, nil).Twice()

	c := NewCachedSearcher(next, 10, time.Minute)

	_, _ = c.Search(context.Background(), "queen", 5)
	c.Purge()
	_, _ = c.Search(context.Background(), "queen", 5)

	next.AssertExpectations(t)
}

type slowSearcher struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *slowSearcher) Search(context.Context, string, int) ([]model.MenuItem, error) {
	s.calls.Add(1)
	<-s.release
	return queenItems, nil
}

func TestCachedSearcher_CollapsesInFlight(t *testing.T) {
	next := &slowSearcher{release: make(chan struct{})}
	c := NewCachedSearcher(next, 10, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := c.Search(context.Background(), "queen", 5)
			assert.NoError(t, err)
			assert.Len(t, items, 1)
		}()
	}

	assert.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(next.release)
	wg.Wait()

	assert.Equal(t, int32(1), next.calls.Load())
}

// ctxSearcher blocks until released or until its ctx ends
type ctxSearcher struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *ctxSearcher) Search(ctx context.Context, _ string, _ int) ([]model.MenuItem, error) {
	s.calls.Add(1)
	select {
	case <-s.release:
		return queenItems, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCachedSearcher_CallerCancelDoesNotFailOthers(t *testing.T) {
	next := &ctxSearcher{release: make(chan struct{})}
	c := NewCachedSearcher(next, 10, time.Minute)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Search(firstCtx, "queen", 5)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		items []model.MenuItem
		err   error
	}
	second := make(chan result, 1)
	go func() {
		items, err := c.Search(context.Background(), "queen", 5)
		second <- result{items, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(next.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Len(t, res.items, 1)
	assert.Equal(t, int32(1), next.calls.Load())
	assert.Equal(t, 1, c.Len())
}
