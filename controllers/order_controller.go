package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AbdelrahmanBadr7422/plot-twist-backend/cache"
	apperrors "github.com/AbdelrahmanBadr7422/plot-twist-backend/common/errors"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/middleware"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// IOrderService is the service surface the controller needs.
type IOrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req *services.CreateOrderRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, orderID uuid.UUID, caller models.Identity) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	GetAllOrders(ctx context.Context, page, limit int) (*services.OrderListResponse, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID, userID uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string, caller models.Identity) (*models.Order, error)
}

type OrderController struct {
	orderService IOrderService
	bookCache    *cache.BookCache
}

func NewOrderController(orderService IOrderService, bookCache *cache.BookCache) *OrderController {
	return &OrderController{orderService: orderService, bookCache: bookCache}
}

// CreateOrder places a new order for the authenticated user
func (oc *OrderController) CreateOrder(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	order, err := oc.orderService.CreateOrder(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	oc.invalidateBooks(c, order)
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrderByID returns one order to its owner or an admin
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID format"})
		return
	}

	order, err := oc.orderService.GetOrderByID(c.Request.Context(), orderID, identity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetMyOrders returns the authenticated user's orders
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orders, err := oc.orderService.GetUserOrders(c.Request.Context(), identity.UserID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetAllOrders returns a paginated listing of every order (admin only)
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	result, err := oc.orderService.GetAllOrders(c.Request.Context(), page, limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CancelOrder cancels the authenticated user's own pending order
func (oc *OrderController) CancelOrder(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID format"})
		return
	}

	order, err := oc.orderService.CancelOrder(c.Request.Context(), orderID, identity.UserID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	oc.invalidateBooks(c, order)
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus transitions an order's status (admin only)
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID format"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	order, err := oc.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status, identity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	// A cancellation may have restored stock, so cached stock is stale.
	if order.Status == models.StatusCancelled {
		oc.invalidateBooks(c, order)
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// invalidateBooks drops cached entries for every book whose stock the order
// touched.
func (oc *OrderController) invalidateBooks(c *gin.Context, order *models.Order) {
	if order == nil {
		return
	}
	for _, item := range order.OrderItems {
		oc.bookCache.InvalidateBook(c.Request.Context(), item.BookID.String())
	}
}

// parsePaginationParams extracts and bounds pagination query parameters
func parsePaginationParams(c *gin.Context) (int, int) {
	const maxLimit = 100

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
