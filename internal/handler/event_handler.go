package handler

import (
	"net/http"

	"go-gin-ticket-reservation/internal/service"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.InventoryService
}

func NewEventHandler(service service.InventoryService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("events/:id/availability", h.GetEventAvailability)
}

// GetEventAvailability 列出活動所有票種的剩餘數量
func (h *EventHandler) GetEventAvailability(c *gin.Context) {
	id, ok := bindUUIDParam(c, "id", apperrors.ErrEventUnavailable)
	if !ok {
		return
	}

	availability, err := h.service.ListEventAvailability(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, "GetEventAvailability")
		return
	}

	handleSuccess(c, gin.H{"event_id": id, "ticket_types": availability}, http.StatusOK)
}
