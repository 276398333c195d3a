package handler

import (
	"net/http"

	"go-gin-ticket-reservation/internal/service"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.CheckoutService
}

func NewOrderHandler(service service.CheckoutService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("orders", h.ListOrders)
	r.GET("orders/:id", h.GetOrder)
}

// GetOrder 只回傳呼叫者自己的訂單與票券
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := bindUUIDParam(c, "id", apperrors.ErrOrderNotFound)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, err, "GetOrder")
		return
	}

	handleSuccess(c, order, http.StatusOK)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := h.service.ListOrders(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "ListOrders")
		return
	}

	handleSuccess(c, orders, http.StatusOK)
}
