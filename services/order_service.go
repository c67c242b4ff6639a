package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/AbdelrahmanBadr7422/plot-twist-backend/common/errors"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/kafka"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderItemRequest struct {
	BookID   uuid.UUID `json:"bookId" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderListResponse wraps a paginated admin listing.
type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderService orchestrates order creation, cancellation and status
// transitions. All stock mutations go through the book repository's stock
// primitives inside a single transaction per operation.
type OrderService struct {
	orderRepo repository.OrderRepository
	txManager repository.TxManager
	producer  kafka.ProducerAPI
}

func NewOrderService(orderRepo repository.OrderRepository, txManager repository.TxManager, producer kafka.ProducerAPI) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		txManager: txManager,
		producer:  producer,
	}
}

// CreateOrder reserves stock for every line and persists the order atomically.
//
// The per-line stock pre-check produces a friendly, detailed error; the
// conditional decrement afterwards is the authoritative guard. Two concurrent
// orders for the same book can both pass the pre-check against a stale read,
// but only one conditional decrement can win; the loser's transaction rolls
// back in full.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.InvalidArgument("at least one item is required")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.InvalidArgument("quantity must be positive for book %s", item.BookID)
		}
	}

	var created *models.Order
	err := s.txManager.WithTransaction(ctx, func(repos repository.Repos) error {
		var total float64
		orderItems := make([]models.OrderItem, 0, len(req.Items))
		requested := make(map[uuid.UUID]int, len(req.Items))

		for _, item := range req.Items {
			book, err := repos.Books.FindByID(ctx, item.BookID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("book %s not found", item.BookID)
				}
				return err
			}

			// Quantities are summed per book so repeated lines for the same
			// book cannot slip past the pre-check individually.
			requested[book.ID] += item.Quantity
			if book.Stock < requested[book.ID] {
				return apperrors.InsufficientStock(book.ID, book.Stock, requested[book.ID])
			}

			// Snapshot the unit price now; the order item never re-reads it.
			orderItems = append(orderItems, models.OrderItem{
				ID:       uuid.New(),
				BookID:   book.ID,
				Quantity: item.Quantity,
				Price:    book.Price,
			})
			total += book.Price * float64(item.Quantity)
		}

		order := &models.Order{
			ID:          uuid.New(),
			UserID:      userID,
			TotalAmount: total,
			Status:      models.StatusPending,
			OrderItems:  orderItems,
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}

		for _, item := range req.Items {
			ok, err := repos.Books.DecrementStockIfAvailable(ctx, item.BookID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// A concurrent order consumed the stock after our pre-check.
				return apperrors.TransactionConflict(item.BookID)
			}
		}

		var err error
		created, err = repos.Orders.FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, models.EventOrderCreated, created)
	return created, nil
}

// GetOrderByID returns an order to its owner or to an admin.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID uuid.UUID, caller models.Identity) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %s not found", orderID)
		}
		return nil, err
	}

	if !caller.IsAdmin() && order.UserID != caller.UserID {
		return nil, apperrors.Forbidden("not authorized to view this order")
	}
	return order, nil
}

// GetUserOrders returns all orders owned by the user, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

// GetAllOrders returns a paginated listing of every order. Admin access is
// enforced at the routing layer; no filtering happens here.
func (s *OrderService) GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &OrderListResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	}, nil
}

// CancelOrder cancels a PENDING order and restores its reserved stock.
// Only the owning user may cancel through this path; an admin cancelling
// another user's order must use the status-update path instead.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID, userID uuid.UUID) (*models.Order, error) {
	var cancelled *models.Order
	err := s.txManager.WithTransaction(ctx, func(repos repository.Repos) error {
		order, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order %s not found", orderID)
			}
			return err
		}
		if order.UserID != userID {
			return apperrors.Forbidden("not authorized to cancel this order")
		}
		if order.Status != models.StatusPending {
			return apperrors.InvalidTransition(string(order.Status), string(models.StatusCancelled))
		}

		for _, item := range order.OrderItems {
			if err := repos.Books.IncrementStock(ctx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}

		// The conditional update is the authoritative guard: if a concurrent
		// transition moved the order after our read, zero rows match and the
		// restore above rolls back with the rest of the transaction.
		ok, err := repos.Orders.UpdateStatus(ctx, orderID, models.StatusPending, models.StatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			current, err := repos.Orders.FindByID(ctx, orderID)
			if err != nil {
				return err
			}
			return apperrors.InvalidTransition(string(current.Status), string(models.StatusCancelled))
		}

		cancelled, err = repos.Orders.FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, models.EventOrderCancelled, cancelled)
	return cancelled, nil
}

// UpdateOrderStatus performs an administrative status transition. When the
// target is CANCELLED and the current status still holds a stock reservation
// (PENDING or PROCESSING), the reservation is restored; cancelling a shipped
// order does not touch stock.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string, caller models.Identity) (*models.Order, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required")
	}

	target, ok := models.ParseUpdateStatus(status)
	if !ok {
		return nil, apperrors.InvalidArgument("invalid status %q", status)
	}

	var updated *models.Order
	err := s.txManager.WithTransaction(ctx, func(repos repository.Repos) error {
		order, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order %s not found", orderID)
			}
			return err
		}
		if !models.CanTransition(order.Status, target) {
			return apperrors.InvalidTransition(string(order.Status), string(target))
		}

		if target == models.StatusCancelled && order.Status.HoldsReservation() {
			for _, item := range order.OrderItems {
				if err := repos.Books.IncrementStock(ctx, item.BookID, item.Quantity); err != nil {
					return err
				}
			}
		}

		// Conditional on the source status so a racing transition cannot be
		// silently overwritten.
		ok, err := repos.Orders.UpdateStatus(ctx, orderID, order.Status, target)
		if err != nil {
			return err
		}
		if !ok {
			current, err := repos.Orders.FindByID(ctx, orderID)
			if err != nil {
				return err
			}
			return apperrors.InvalidTransition(string(current.Status), string(target))
		}

		updated, err = repos.Orders.FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, models.EventOrderStatusChanged, updated)
	return updated, nil
}

// publishEvent emits an order lifecycle event. Publishing is best-effort: a
// broker failure is logged and never fails the request.
func (s *OrderService) publishEvent(ctx context.Context, eventType string, order *models.Order) {
	if s.producer == nil || order == nil {
		return
	}

	items := make([]models.OrderEventItem, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, models.OrderEventItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	event := models.OrderEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       items,
		OccurredAt:  time.Now().UTC(),
	}

	if err := s.producer.PublishOrderEvent(ctx, event); err != nil {
		zap.L().Warn("Order event publish failed",
			zap.String("event_type", eventType),
			zap.String("order_id", order.ID.String()))
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
