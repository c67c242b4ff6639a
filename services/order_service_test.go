package services

import (
	"context"
	"sync"
	"testing"

	apperrors "github.com/AbdelrahmanBadr7422/plot-twist-backend/common/errors"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for the database. The transaction fake
// below serializes access the way row locks would and restores a snapshot on
// rollback, so the service's atomicity logic is exercised for real.
type fakeStore struct {
	mu       sync.Mutex
	books    map[uuid.UUID]*models.Book
	orders   map[uuid.UUID]*models.Order
	orderIDs []uuid.UUID // insertion order, stands in for created_at

	// reportStock, when set for a book, is what FindByID reports instead of
	// the real stock. Used to simulate a stale read racing a concurrent
	// decrement.
	reportStock map[uuid.UUID]int

	// reportStatus, when set for an order, is what the next FindByID reports
	// instead of the real status. Consumed on first read, so a re-read after
	// a failed conditional update sees the committed status.
	reportStatus map[uuid.UUID]models.OrderStatus
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:        make(map[uuid.UUID]*models.Book),
		orders:       make(map[uuid.UUID]*models.Order),
		reportStock:  make(map[uuid.UUID]int),
		reportStatus: make(map[uuid.UUID]models.OrderStatus),
	}
}

func (s *fakeStore) addBook(title string, price float64, stock int) uuid.UUID {
	id := uuid.New()
	s.books[id] = &models.Book{ID: id, Title: title, Author: "tester", Price: price, Stock: stock}
	return id
}

func (s *fakeStore) snapshot() (map[uuid.UUID]*models.Book, map[uuid.UUID]*models.Order, []uuid.UUID) {
	books := make(map[uuid.UUID]*models.Book, len(s.books))
	for id, b := range s.books {
		copied := *b
		books[id] = &copied
	}
	orders := make(map[uuid.UUID]*models.Order, len(s.orders))
	for id, o := range s.orders {
		copied := *o
		copied.OrderItems = append([]models.OrderItem(nil), o.OrderItems...)
		orders[id] = &copied
	}
	ids := append([]uuid.UUID(nil), s.orderIDs...)
	return books, orders, ids
}

type fakeBookRepo struct{ store *fakeStore }

func (r *fakeBookRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	book, ok := r.store.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *book
	if stale, ok := r.store.reportStock[id]; ok {
		copied.Stock = stale
	}
	return &copied, nil
}

func (r *fakeBookRepo) FindAll(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	for _, b := range r.store.books {
		books = append(books, *b)
	}
	return books, nil
}

func (r *fakeBookRepo) Create(ctx context.Context, book *models.Book) error {
	r.store.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Update(ctx context.Context, book *models.Book) error {
	r.store.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.books, id)
	return nil
}

func (r *fakeBookRepo) HasOrderItems(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, o := range r.store.orders {
		for _, item := range o.OrderItems {
			if item.BookID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeBookRepo) DecrementStockIfAvailable(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	book, ok := r.store.books[id]
	if !ok || book.Stock < quantity {
		return false, nil
	}
	book.Stock -= quantity
	return true, nil
}

func (r *fakeBookRepo) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if book, ok := r.store.books[id]; ok {
		book.Stock += quantity
	}
	return nil
}

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := r.store.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	copied.OrderItems = append([]models.OrderItem(nil), order.OrderItems...)
	if stale, ok := r.store.reportStatus[id]; ok {
		copied.Status = stale
		delete(r.store.reportStatus, id)
	}
	return &copied, nil
}

// newestFirst lists orders in reverse insertion order, matching the
// created_at DESC ordering of the real repository.
func (r *fakeOrderRepo) newestFirst() []models.Order {
	orders := make([]models.Order, 0, len(r.store.orderIDs))
	for i := len(r.store.orderIDs) - 1; i >= 0; i-- {
		if o, ok := r.store.orders[r.store.orderIDs[i]]; ok {
			orders = append(orders, *o)
		}
	}
	return orders
}

func (r *fakeOrderRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	for _, o := range r.newestFirst() {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	orders := r.newestFirst()
	total := int64(len(orders))
	start := (page - 1) * limit
	if start > len(orders) {
		start = len(orders)
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end], total, nil
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	copied := *order
	copied.OrderItems = append([]models.OrderItem(nil), order.OrderItems...)
	r.store.orders[order.ID] = &copied
	r.store.orderIDs = append(r.store.orderIDs, order.ID)
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	order, ok := r.store.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

// fakeTxManager serializes transactions on one lock and rolls the store back
// to its pre-transaction snapshot when the closure fails.
type fakeTxManager struct{ store *fakeStore }

func (m *fakeTxManager) WithTransaction(ctx context.Context, fn func(repos repository.Repos) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	books, orders, ids := m.store.snapshot()
	err := fn(repository.Repos{
		Orders: &fakeOrderRepo{store: m.store},
		Books:  &fakeBookRepo{store: m.store},
	})
	if err != nil {
		m.store.books = books
		m.store.orders = orders
		m.store.orderIDs = ids
	}
	return err
}

type fakeProducer struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (p *fakeProducer) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func newTestOrderService(store *fakeStore) (*OrderService, *fakeProducer) {
	producer := &fakeProducer{}
	svc := NewOrderService(&fakeOrderRepo{store: store}, &fakeTxManager{store: store}, producer)
	return svc, producer
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, kind), "expected kind %s, got %v", kind, err)
}

func TestCreateOrder_Success(t *testing.T) {
	store := newFakeStore()
	bookA := store.addBook("Go in Action", 9.99, 10)
	bookB := store.addBook("The Go Programming Language", 4.50, 5)
	svc, producer := newTestOrderService(store)
	userID := uuid.New()

	order, err := svc.CreateOrder(context.Background(), userID, &CreateOrderRequest{
		Items: []OrderItemRequest{
			{BookID: bookA, Quantity: 2},
			{BookID: bookB, Quantity: 1},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.InDelta(t, 24.48, order.TotalAmount, 0.001)
	assert.Len(t, order.OrderItems, 2)
	assert.Equal(t, 8, store.books[bookA].Stock)
	assert.Equal(t, 4, store.books[bookB].Stock)

	require.Len(t, producer.events, 1)
	assert.Equal(t, models.EventOrderCreated, producer.events[0].EventType)
	assert.Equal(t, order.ID, producer.events[0].OrderID)
}

func TestCreateOrder_PriceSnapshotSurvivesPriceChange(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Clean Code", 9.99, 10)
	svc, _ := newTestOrderService(store)

	order, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 1}},
	})
	require.NoError(t, err)

	store.books[bookID].Price = 19.99

	reloaded, err := svc.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 9.99, reloaded.OrderItems[0].Price, 0.001)
	assert.InDelta(t, 9.99, reloaded.TotalAmount, 0.001)
}

func TestCreateOrder_BookNotFound(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestOrderService(store)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: uuid.New(), Quantity: 1}},
	})

	assertKind(t, err, apperrors.KindNotFound)
	assert.Empty(t, store.orders)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Rare Book", 50.00, 2)
	svc, producer := newTestOrderService(store)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 3}},
	})

	assertKind(t, err, apperrors.KindInsufficientStock)
	assert.Contains(t, err.Error(), "available=2")
	assert.Contains(t, err.Error(), "requested=3")
	assert.Equal(t, 2, store.books[bookID].Stock)
	assert.Empty(t, store.orders)
	assert.Empty(t, producer.events)
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Any Book", 10.00, 10)
	svc, _ := newTestOrderService(store)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 0}},
	})
	assertKind(t, err, apperrors.KindInvalidArgument)

	_, err = svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{Items: nil})
	assertKind(t, err, apperrors.KindInvalidArgument)
}

func TestCreateOrder_SecondLineFailureRollsBackFirst(t *testing.T) {
	store := newFakeStore()
	bookA := store.addBook("Plenty", 5.00, 100)
	bookB := store.addBook("Scarce", 5.00, 1)
	svc, _ := newTestOrderService(store)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{
			{BookID: bookA, Quantity: 10},
			{BookID: bookB, Quantity: 5},
		},
	})

	assertKind(t, err, apperrors.KindInsufficientStock)
	assert.Equal(t, 100, store.books[bookA].Stock)
	assert.Equal(t, 1, store.books[bookB].Stock)
	assert.Empty(t, store.orders)
}

func TestCreateOrder_DuplicateLinesExceedingStock(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Split Across Lines", 5.00, 5)
	svc, _ := newTestOrderService(store)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{
			{BookID: bookID, Quantity: 3},
			{BookID: bookID, Quantity: 3},
		},
	})

	assertKind(t, err, apperrors.KindInsufficientStock)
	assert.Contains(t, err.Error(), "available=5")
	assert.Contains(t, err.Error(), "requested=6")
	assert.Equal(t, 5, store.books[bookID].Stock)
	assert.Empty(t, store.orders)
}

func TestCreateOrder_ConflictAfterStaleRead(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Contested", 12.00, 2)
	// The pre-check sees stock that a concurrent order has already consumed.
	store.reportStock[bookID] = 5
	svc, producer := newTestOrderService(store)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 3}},
	})

	assertKind(t, err, apperrors.KindTransactionConflict)
	assert.Equal(t, 2, store.books[bookID].Stock)
	assert.Empty(t, store.orders, "conflicting order must not survive rollback")
	assert.Empty(t, producer.events)
}

func TestCreateOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Last Copies", 8.00, 5)
	svc, _ := newTestOrderService(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
				Items: []OrderItemRequest{{BookID: bookID, Quantity: 3}},
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.True(t,
				apperrors.IsKind(err, apperrors.KindInsufficientStock) ||
					apperrors.IsKind(err, apperrors.KindTransactionConflict),
				"unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one of two competing orders must win")
	assert.Equal(t, 2, store.books[bookID].Stock)
	assert.Len(t, store.orders, 1)
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Returnable", 15.00, 10)
	svc, producer := newTestOrderService(store)
	userID := uuid.New()

	order, err := svc.CreateOrder(context.Background(), userID, &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, store.books[bookID].Stock)

	cancelled, err := svc.CancelOrder(context.Background(), order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, 10, store.books[bookID].Stock)

	require.Len(t, producer.events, 2)
	assert.Equal(t, models.EventOrderCancelled, producer.events[1].EventType)
}

func TestCancelOrder_NotOwner(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Someone Else's", 15.00, 10)
	svc, _ := newTestOrderService(store)
	owner := uuid.New()

	order, err := svc.CreateOrder(context.Background(), owner, &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), order.ID, uuid.New())
	assertKind(t, err, apperrors.KindForbidden)
	assert.Equal(t, models.StatusPending, store.orders[order.ID].Status)
	assert.Equal(t, 9, store.books[bookID].Stock)
}

func TestCancelOrder_NotPending(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Already Moving", 15.00, 10)
	svc, _ := newTestOrderService(store)
	userID := uuid.New()
	admin := models.Identity{UserID: uuid.New(), Role: models.RoleAdmin}

	order, err := svc.CreateOrder(context.Background(), userID, &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, "SHIPPED", admin)
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), order.ID, userID)
	assertKind(t, err, apperrors.KindInvalidTransition)
	assert.Equal(t, 8, store.books[bookID].Stock, "stock must stay reserved")
}

func TestCancelOrder_LosesRaceAgainstShipment(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Shipped Meanwhile", 15.00, 10)
	svc, producer := newTestOrderService(store)
	userID := uuid.New()
	admin := models.Identity{UserID: uuid.New(), Role: models.RoleAdmin}

	order, err := svc.CreateOrder(context.Background(), userID, &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, "SHIPPED", admin)
	require.NoError(t, err)
	require.Equal(t, 7, store.books[bookID].Stock)

	// The cancel's read still sees PENDING, as if it happened before the
	// shipment committed. The conditional status update must catch it.
	store.reportStatus[order.ID] = models.StatusPending

	_, err = svc.CancelOrder(context.Background(), order.ID, userID)
	assertKind(t, err, apperrors.KindInvalidTransition)
	assert.Contains(t, err.Error(), "SHIPPED")
	assert.Equal(t, models.StatusShipped, store.orders[order.ID].Status)
	assert.Equal(t, 7, store.books[bookID].Stock, "restore of shipped stock must roll back")
	assert.Len(t, producer.events, 2, "no cancellation event for a failed cancel")
}

func TestCancelOrder_NotFound(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestOrderService(store)

	_, err := svc.CancelOrder(context.Background(), uuid.New(), uuid.New())
	assertKind(t, err, apperrors.KindNotFound)
}

func TestUpdateOrderStatus_RequiresAdmin(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestOrderService(store)
	user := models.Identity{UserID: uuid.New(), Role: models.RoleUser}

	_, err := svc.UpdateOrderStatus(context.Background(), uuid.New(), "SHIPPED", user)
	assertKind(t, err, apperrors.KindForbidden)
}

func TestUpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestOrderService(store)
	admin := models.Identity{UserID: uuid.New(), Role: models.RoleAdmin}

	for _, bad := range []string{"PENDING", "shipped", "DONE", ""} {
		_, err := svc.UpdateOrderStatus(context.Background(), uuid.New(), bad, admin)
		assertKind(t, err, apperrors.KindInvalidArgument)
	}
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Finished", 10.00, 10)
	svc, _ := newTestOrderService(store)
	admin := models.Identity{UserID: uuid.New(), Role: models.RoleAdmin}

	order, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, "DELIVERED", admin)
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, "SHIPPED", admin)
	assertKind(t, err, apperrors.KindInvalidTransition)
	assert.Equal(t, models.StatusDelivered, store.orders[order.ID].Status)
}

func TestUpdateOrderStatus_LosesRaceAgainstConcurrentTransition(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Delivered Meanwhile", 10.00, 10)
	svc, _ := newTestOrderService(store)
	admin := models.Identity{UserID: uuid.New(), Role: models.RoleAdmin}

	order, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, "DELIVERED", admin)
	require.NoError(t, err)

	store.reportStatus[order.ID] = models.StatusPending

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, "PROCESSING", admin)
	assertKind(t, err, apperrors.KindInvalidTransition)
	assert.Contains(t, err.Error(), "DELIVERED")
	assert.Equal(t, models.StatusDelivered, store.orders[order.ID].Status)
}

func TestUpdateOrderStatus_AdminCancelRestoresReservedStock(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("In Processing", 10.00, 10)
	svc, _ := newTestOrderService(store)
	admin := models.Identity{UserID: uuid.New(), Role: models.RoleAdmin}

	order, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, "PROCESSING", admin)
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, "CANCELLED", admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Equal(t, 10, store.books[bookID].Stock)
}

func TestUpdateOrderStatus_AdminCancelShippedKeepsStock(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Out the Door", 10.00, 10)
	svc, _ := newTestOrderService(store)
	admin := models.Identity{UserID: uuid.New(), Role: models.RoleAdmin}

	order, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, "SHIPPED", admin)
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, "CANCELLED", admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Equal(t, 7, store.books[bookID].Stock, "shipped goods are not returned to stock")
}

func TestGetOrderByID_Authorization(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Private", 10.00, 10)
	svc, _ := newTestOrderService(store)
	owner := uuid.New()

	order, err := svc.CreateOrder(context.Background(), owner, &CreateOrderRequest{
		Items: []OrderItemRequest{{BookID: bookID, Quantity: 1}},
	})
	require.NoError(t, err)

	got, err := svc.GetOrderByID(context.Background(), order.ID, models.Identity{UserID: owner, Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	got, err = svc.GetOrderByID(context.Background(), order.ID, models.Identity{UserID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetOrderByID(context.Background(), order.ID, models.Identity{UserID: uuid.New(), Role: models.RoleUser})
	assertKind(t, err, apperrors.KindForbidden)

	_, err = svc.GetOrderByID(context.Background(), uuid.New(), models.Identity{UserID: owner, Role: models.RoleUser})
	assertKind(t, err, apperrors.KindNotFound)
}

func TestGetUserOrders_NewestFirst(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Serial", 5.00, 100)
	svc, _ := newTestOrderService(store)
	userID := uuid.New()

	var created []uuid.UUID
	for i := 0; i < 3; i++ {
		order, err := svc.CreateOrder(context.Background(), userID, &CreateOrderRequest{
			Items: []OrderItemRequest{{BookID: bookID, Quantity: 1}},
		})
		require.NoError(t, err)
		created = append(created, order.ID)
	}

	orders, err := svc.GetUserOrders(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i, order := range orders {
		assert.Equal(t, created[len(created)-1-i], order.ID, "most recent order first")
	}
}

func TestGetAllOrders_Pagination(t *testing.T) {
	store := newFakeStore()
	bookID := store.addBook("Popular", 5.00, 100)
	svc, _ := newTestOrderService(store)

	for i := 0; i < 5; i++ {
		_, err := svc.CreateOrder(context.Background(), uuid.New(), &CreateOrderRequest{
			Items: []OrderItemRequest{{BookID: bookID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	resp, err := svc.GetAllOrders(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, int64(5), resp.Meta.TotalOrders)
	assert.Equal(t, int64(3), resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasMore)

	resp, err = svc.GetAllOrders(context.Background(), 3, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 1)
	assert.False(t, resp.Meta.HasMore)
}
