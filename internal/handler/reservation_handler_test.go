package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go-gin-ticket-reservation/internal/middleware"
	"go-gin-ticket-reservation/internal/model"
	"go-gin-ticket-reservation/internal/ratelimit"
	"go-gin-ticket-reservation/internal/service/mocks"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type denyLimiter struct{}

func (denyLimiter) Allow(ctx context.Context, key string) (ratelimit.Result, error) {
	return ratelimit.Result{Allowed: false, RetryAfter: 30 * time.Second}, nil
}

func setupReservationTestRouter(reservations *mocks.MockReservationService, checkout *mocks.MockCheckoutService) *gin.Engine {
	return setupLimitedReservationRouter(reservations, checkout, RouteLimits{})
}

func setupLimitedReservationRouter(reservations *mocks.MockReservationService, checkout *mocks.MockCheckoutService, limits RouteLimits) *gin.Engine {
	router, _, private := newTestRouter()
	NewReservationHandler(reservations, checkout).RegisterRoutes(private, limits)
	return router
}

func TestCreateReservation(t *testing.T) {
	userID := uuid.New()
	eventID := uuid.New()
	ticketTypeID := uuid.New()
	body := model.CreateReservationRequest{
		EventID: eventID,
		Items:   []model.CartItem{{TicketTypeID: ticketTypeID, Quantity: 2}},
	}

	t.Run("Success", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		expiresAt := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
		reservations.EXPECT().CreateReservation(mock.Anything, mock.MatchedBy(func(req model.CreateReservationRequest) bool {
			return req.UserID == userID && req.EventID == eventID && len(req.Items) == 1
		})).Return(&model.Reservation{
			ID:          uuid.New(),
			UserID:      userID,
			Status:      model.ReservationStatusActive,
			TotalAmount: 2000,
			ExpiresAt:   expiresAt,
		}, nil).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations", body), userID))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"total_amount":2000`)
		assert.Contains(t, w.Body.String(), `"status":"active"`)
	})

	t.Run("Failed - InsufficientInventory", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		reservations.EXPECT().CreateReservation(mock.Anything, mock.Anything).Return(nil, &apperrors.InsufficientInventoryError{
			TicketTypeID: ticketTypeID,
			Name:         "Campo",
			Requested:    2,
			Available:    1,
		}).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations", body), userID))

		assert.Equal(t, http.StatusConflict, w.Code)
		res := decodeError(t, w)
		assert.Equal(t, apperrors.KindInsufficientInventory, res.Error)
		assert.Equal(t, apperrors.Message(apperrors.KindInsufficientInventory), res.Message)
		assert.Equal(t, float64(2), res.Details["requested"])
		assert.Equal(t, float64(1), res.Details["available"])
	})

	t.Run("Failed - InvalidQuantity", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		reservations.EXPECT().CreateReservation(mock.Anything, mock.Anything).Return(nil, &apperrors.InvalidQuantityError{
			TicketTypeID: ticketTypeID,
			Requested:    12,
			Min:          1,
			Max:          10,
		}).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations", body), userID))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		res := decodeError(t, w)
		assert.Equal(t, apperrors.KindInvalidQuantity, res.Error)
		assert.Equal(t, float64(12), res.Details["requested"])
		assert.Equal(t, float64(1), res.Details["min"])
		assert.Equal(t, float64(10), res.Details["max"])
	})

	t.Run("Failed - Contention", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		reservations.EXPECT().CreateReservation(mock.Anything, mock.Anything).Return(nil, apperrors.ErrContention).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations", body), userID))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
		assert.Equal(t, apperrors.KindContention, decodeError(t, w).Error)
	})

	t.Run("Failed - Internal", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		reservations.EXPECT().CreateReservation(mock.Anything, mock.Anything).Return(nil, apperrors.ErrInternalServerError).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations", body), userID))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "internal server error")
	})

	// 限流擋在保留引擎之前，被拒的請求不會碰到庫存
	t.Run("Failed - RateLimited", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupLimitedReservationRouter(reservations, mocks.NewMockCheckoutService(t),
			RouteLimits{Reserve: middleware.RateLimit(denyLimiter{}, "reserve")})

		for i := 0; i < 50; i++ {
			w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations", body), userID))

			require.Equal(t, http.StatusTooManyRequests, w.Code)
			assert.Equal(t, "30", w.Header().Get("Retry-After"))
			assert.Equal(t, apperrors.KindRateLimited, decodeError(t, w).Error)
		}
		reservations.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
	})

	t.Run("Success - ReserveLimitDoesNotCoverCheckout", func(t *testing.T) {
		checkout := mocks.NewMockCheckoutService(t)
		router := setupLimitedReservationRouter(mocks.NewMockReservationService(t), checkout,
			RouteLimits{Reserve: middleware.RateLimit(denyLimiter{}, "reserve")})

		reservationID := uuid.New()
		checkout.EXPECT().StartCheckout(mock.Anything, userID, reservationID).
			Return(&model.CheckoutSession{ReservationID: reservationID, ProviderRef: "pi_1"}, nil).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations/"+reservationID.String()+"/checkout", nil), userID))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations", InvalidJSON), userID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.KindInvalidInput, decodeError(t, w).Error)
		reservations.AssertNotCalled(t, "CreateReservation")
	})

	t.Run("Failed - Unauthenticated", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		w := serve(router, createJSONHTTPRequest("POST", "/api/v1/reservations", body))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		reservations.AssertNotCalled(t, "CreateReservation")
	})
}

func TestGetReservation(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		id := uuid.New()
		reservations.EXPECT().GetReservation(mock.Anything, userID, id).Return(&model.Reservation{
			ID:     id,
			UserID: userID,
			Status: model.ReservationStatusCompleted,
			Items:  []model.ReservationItem{{TicketTypeID: uuid.New(), Quantity: 1, UnitPrice: 500}},
		}, nil).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("GET", "/api/v1/reservations/"+id.String(), nil), userID))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"completed"`)
		assert.Contains(t, w.Body.String(), `"unit_price":500`)
	})

	t.Run("Failed - InvalidID", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		w := serve(router, authorize(t, createJSONHTTPRequest("GET", "/api/v1/reservations/abc", nil), userID))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.KindReservationNotFound, decodeError(t, w).Error)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		reservations.EXPECT().GetReservation(mock.Anything, userID, mock.Anything).Return(nil, apperrors.ErrReservationNotFound).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("GET", "/api/v1/reservations/"+uuid.NewString(), nil), userID))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCancelReservation(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		reservations.EXPECT().CancelReservation(mock.Anything, userID, id).Return(&model.Reservation{
			ID:     id,
			Status: model.ReservationStatusCancelled,
		}, nil).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations/"+id.String()+"/cancel", nil), userID))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"cancelled"`)
	})

	t.Run("Failed - NotActive", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		reservations.EXPECT().CancelReservation(mock.Anything, userID, id).Return(nil, apperrors.ErrReservationNotActive).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations/"+id.String()+"/cancel", nil), userID))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperrors.KindReservationNotActive, decodeError(t, w).Error)
	})

	t.Run("Failed - Expired", func(t *testing.T) {
		reservations := mocks.NewMockReservationService(t)
		router := setupReservationTestRouter(reservations, mocks.NewMockCheckoutService(t))

		reservations.EXPECT().CancelReservation(mock.Anything, userID, id).Return(nil, apperrors.ErrReservationExpired).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations/"+id.String()+"/cancel", nil), userID))

		assert.Equal(t, http.StatusGone, w.Code)
	})
}

func TestCheckout(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		checkout := mocks.NewMockCheckoutService(t)
		router := setupReservationTestRouter(mocks.NewMockReservationService(t), checkout)

		checkout.EXPECT().StartCheckout(mock.Anything, userID, id).Return(&model.CheckoutSession{
			ReservationID: id,
			ProviderRef:   "pi_123",
			ClientSecret:  "pi_123_secret",
			Amount:        2000,
			Currency:      "ars",
		}, nil).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations/"+id.String()+"/checkout", nil), userID))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"client_secret":"pi_123_secret"`)
	})

	t.Run("Failed - Expired", func(t *testing.T) {
		checkout := mocks.NewMockCheckoutService(t)
		router := setupReservationTestRouter(mocks.NewMockReservationService(t), checkout)

		checkout.EXPECT().StartCheckout(mock.Anything, userID, id).Return(nil, apperrors.ErrReservationExpired).Once()

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations/"+id.String()+"/checkout", nil), userID))

		assert.Equal(t, http.StatusGone, w.Code)
		assert.Equal(t, apperrors.KindReservationExpired, decodeError(t, w).Error)
	})

	t.Run("Failed - RateLimited", func(t *testing.T) {
		checkout := mocks.NewMockCheckoutService(t)
		router := setupLimitedReservationRouter(mocks.NewMockReservationService(t), checkout,
			RouteLimits{Checkout: middleware.RateLimit(denyLimiter{}, "checkout")})

		w := serve(router, authorize(t, createJSONHTTPRequest("POST", "/api/v1/reservations/"+id.String()+"/checkout", nil), userID))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "30", w.Header().Get("Retry-After"))
		checkout.AssertNotCalled(t, "StartCheckout")
	})
}
