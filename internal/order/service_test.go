package order_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/order"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) ListOrders(ctx context.Context) ([]order.Cart, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Cart), args.Error(1)
}

func (m *MockOrderRepository) UpdateItemStatus(ctx context.Context, to order.Status, update order.StatusUpdate) error {
	args := m.Called(ctx, to, update)
	return args.Error(0)
}

func TestOrderService_Advance_SendsBatchAndRepolls(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	before := []order.Cart{cart("", "alice-id", "alice", item("1", order.StatusToShip))}
	after := []order.Cart{cart("", "alice-id", "alice", item("1", order.StatusDelivery))}

	mockRepo.On("ListOrders", mock.Anything).Return(before, nil).Once()
	mockRepo.On("UpdateItemStatus", mock.Anything, order.StatusDelivery,
		order.StatusUpdate{UserID: "alice-id", Items: []string{"1"}}).Return(nil).Once()
	mockRepo.On("ListOrders", mock.Anything).Return(after, nil).Once()

	cache := order.NewCache()
	poller := order.NewPoller(mockRepo, cache, time.Hour)
	require.NoError(t, poller.Fetch(context.Background()))

	svc := order.NewService(mockRepo, cache, poller)
	err := svc.Advance(context.Background(), "user:alice-id", order.StatusToShip)
	require.NoError(t, err)

	board := svc.Board("")
	assert.Empty(t, board.Buckets[0].Entries)
	require.Len(t, board.Buckets[1].Entries, 1)
	assert.Equal(t, uint64(2), board.Version, "initial fetch and re-poll both changed the cache")
	assert.False(t, board.RefreshedAt.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestOrderService_Advance_LeavesOtherStatusesAlone(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	carts := []order.Cart{cart("c1", "u1", "alice",
		item("1", order.StatusToShip),
		item("2", order.StatusDelivery),
		item("3", order.StatusCompleted),
	)}
	mockRepo.On("ListOrders", mock.Anything).Return(carts, nil)
	mockRepo.On("UpdateItemStatus", mock.Anything, order.StatusDelivery,
		order.StatusUpdate{UserID: "u1", Items: []string{"1"}}).Return(nil).Once()

	cache := order.NewCache()
	poller := order.NewPoller(mockRepo, cache, time.Hour)
	require.NoError(t, poller.Fetch(context.Background()))

	svc := order.NewService(mockRepo, cache, poller)
	require.NoError(t, svc.Advance(context.Background(), "c1", order.StatusToShip))
	mockRepo.AssertExpectations(t)
}

func TestOrderService_Advance_FailureKeepsState(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	carts := []order.Cart{cart("c1", "u1", "alice", item("1", order.StatusToShip))}
	mockRepo.On("ListOrders", mock.Anything).Return(carts, nil).Once()
	mockRepo.On("UpdateItemStatus", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("502")).Once()

	cache := order.NewCache()
	poller := order.NewPoller(mockRepo, cache, time.Hour)
	require.NoError(t, poller.Fetch(context.Background()))

	svc := order.NewService(mockRepo, cache, poller)
	err := svc.Advance(context.Background(), "c1", order.StatusToShip)
	require.Error(t, err)

	board := svc.Board("")
	require.Len(t, board.Buckets[0].Entries, 1)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_Advance_Rejections(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	carts := []order.Cart{cart("c1", "u1", "alice", item("1", order.StatusCompleted))}
	mockRepo.On("ListOrders", mock.Anything).Return(carts, nil).Once()

	cache := order.NewCache()
	poller := order.NewPoller(mockRepo, cache, time.Hour)
	require.NoError(t, poller.Fetch(context.Background()))
	svc := order.NewService(mockRepo, cache, poller)

	assert.ErrorIs(t, svc.Advance(context.Background(), "missing", order.StatusToShip), order.ErrNotFound)
	assert.ErrorIs(t, svc.Advance(context.Background(), "c1", order.StatusCompleted), order.ErrTerminalStatus)
	assert.ErrorIs(t, svc.Advance(context.Background(), "c1", order.StatusToShip), order.ErrNoItems)

	mockRepo.AssertNotCalled(t, "UpdateItemStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PendingAndBoardQuery(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	carts := []order.Cart{
		cart("c1", "u1", "alice", item("1", order.StatusToShip)),
		cart("c2", "u2", "bob", item("2", order.StatusDelivery)),
	}
	mockRepo.On("ListOrders", mock.Anything).Return(carts, nil).Once()

	cache := order.NewCache()
	poller := order.NewPoller(mockRepo, cache, time.Hour)
	require.NoError(t, poller.Fetch(context.Background()))
	svc := order.NewService(mockRepo, cache, poller)

	pending := svc.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "c1", pending[0].ID)

	board := svc.Board("BOB")
	assert.Equal(t, "BOB", board.Query)
	assert.Empty(t, board.Buckets[0].Entries)
	assert.Len(t, board.Buckets[1].Entries, 1)
}

type countingRepo struct {
	calls atomic.Int32
	fail  bool
}

func (r *countingRepo) ListOrders(ctx context.Context) ([]order.Cart, error) {
	r.calls.Add(1)
	if r.fail {
		return nil, errors.New("unreachable")
	}
	return []order.Cart{cart("c1", "u1", "alice", item("1", order.StatusToShip))}, nil
}

func (r *countingRepo) UpdateItemStatus(ctx context.Context, to order.Status, update order.StatusUpdate) error {
	return nil
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	repo := &countingRepo{}
	cache := order.NewCache()
	poller := order.NewPoller(repo, cache, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	require.Eventually(t, func() bool { return repo.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	stopped := repo.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, repo.calls.Load(), "no polls after cancel")
	assert.Len(t, cache.Snapshot(), 1)
}

func TestPoller_FetchFailureKeepsCache(t *testing.T) {
	repo := &countingRepo{}
	cache := order.NewCache()
	poller := order.NewPoller(repo, cache, time.Hour)

	require.NoError(t, poller.Fetch(context.Background()))
	repo.fail = true
	require.Error(t, poller.Fetch(context.Background()))

	assert.Len(t, cache.Snapshot(), 1)
}

func TestPoller_FetchCancelledContext(t *testing.T) {
	repo := &countingRepo{}
	poller := order.NewPoller(repo, order.NewCache(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, poller.Fetch(ctx), context.Canceled)
	assert.Equal(t, int32(0), repo.calls.Load())
}

func TestOrderService_Advance_RefusesAmbiguousCart(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	carts := []order.Cart{
		cart("", "u1", "alice", item("1", order.StatusToShip)),
		cart("", "u1", "alice", item("2", order.StatusToShip)),
	}
	mockRepo.On("ListOrders", mock.Anything).Return(carts, nil).Once()

	cache := order.NewCache()
	poller := order.NewPoller(mockRepo, cache, time.Hour)
	require.NoError(t, poller.Fetch(context.Background()))

	svc := order.NewService(mockRepo, cache, poller)
	for _, key := range []string{"user:u1", "user:u1#1"} {
		err := svc.Advance(context.Background(), key, order.StatusToShip)
		assert.ErrorIs(t, err, order.ErrAmbiguousOrder, key)
	}

	mockRepo.AssertNotCalled(t, "UpdateItemStatus", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}
