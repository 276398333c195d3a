package handler

import (
	"net/http"

	"go-gin-ticket-reservation/internal/model"
	"go-gin-ticket-reservation/internal/service"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	reservations service.ReservationService
	checkout     service.CheckoutService
}

func NewReservationHandler(reservations service.ReservationService, checkout service.CheckoutService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, checkout: checkout}
}

// RouteLimits 各入口的限流 middleware，nil 表示不限流
type RouteLimits struct {
	Reserve  gin.HandlerFunc
	Checkout gin.HandlerFunc
}

// RegisterRoutes r 應為已驗證身分的 group
func (h *ReservationHandler) RegisterRoutes(r gin.IRouter, limits RouteLimits) {
	r.POST("reservations", limited(limits.Reserve, h.CreateReservation)...)
	r.GET("reservations/:id", h.GetReservation)
	r.POST("reservations/:id/cancel", h.CancelReservation)
	r.POST("reservations/:id/checkout", limited(limits.Checkout, h.Checkout)...)
}

func limited(limit, handler gin.HandlerFunc) []gin.HandlerFunc {
	if limit == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{limit, handler}
}

func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req model.CreateReservationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	req.UserID = userID

	reservation, err := h.reservations.CreateReservation(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "CreateReservation")
		return
	}

	handleSuccess(c, model.NewReservationResponse(reservation), http.StatusCreated)
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := bindUUIDParam(c, "id", apperrors.ErrReservationNotFound)
	if !ok {
		return
	}

	reservation, err := h.reservations.GetReservation(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, err, "GetReservation")
		return
	}

	handleSuccess(c, reservation, http.StatusOK)
}

func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := bindUUIDParam(c, "id", apperrors.ErrReservationNotFound)
	if !ok {
		return
	}

	reservation, err := h.reservations.CancelReservation(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, err, "CancelReservation")
		return
	}

	handleSuccess(c, model.NewReservationResponse(reservation), http.StatusOK)
}

func (h *ReservationHandler) Checkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := bindUUIDParam(c, "id", apperrors.ErrReservationNotFound)
	if !ok {
		return
	}

	session, err := h.checkout.StartCheckout(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, err, "Checkout")
		return
	}

	handleSuccess(c, session, http.StatusCreated)
}
