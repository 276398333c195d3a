package apperrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEventUnavailable      = errors.New("event unavailable")
	ErrEmptyCart             = errors.New("empty cart")
	ErrTicketTypeUnavailable = errors.New("ticket type unavailable")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrReservationNotActive  = errors.New("reservation not active")
	ErrReservationExpired    = errors.New("reservation expired")
	ErrContention            = errors.New("lock contention")

	ErrTicketTypeNotFound  = errors.New("ticket type not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrRateLimited         = errors.New("rate limited")
	ErrInternalServerError = errors.New("internal server error")
)

// 錯誤種類，對外回傳給客戶端的機器可讀字串
const (
	KindEventUnavailable      = "EventUnavailable"
	KindEmptyCart             = "EmptyCart"
	KindTicketTypeUnavailable = "TicketTypeUnavailable"
	KindInvalidQuantity       = "InvalidQuantity"
	KindInsufficientInventory = "InsufficientInventory"
	KindReservationNotFound   = "ReservationNotFound"
	KindReservationNotActive  = "ReservationNotActive"
	KindReservationExpired    = "ReservationExpired"
	KindContention            = "Contention"
	KindNotFound              = "NotFound"
	KindForbidden             = "Forbidden"
	KindUnauthorized          = "Unauthorized"
	KindInvalidInput          = "InvalidInput"
	KindRateLimited           = "RateLimited"
	KindInternal              = "Internal"
)

// TicketTypeUnavailableError names the line item that failed the sellability check.
type TicketTypeUnavailableError struct {
	TicketTypeID uuid.UUID
	Reason       string
}

func (e *TicketTypeUnavailableError) Error() string {
	return fmt.Sprintf("ticket type %s unavailable: %s", e.TicketTypeID, e.Reason)
}

func (e *TicketTypeUnavailableError) Unwrap() error { return ErrTicketTypeUnavailable }

type InvalidQuantityError struct {
	TicketTypeID uuid.UUID
	Requested    int
	Min          int
	Max          int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for ticket type %s (min %d, max %d)",
		e.Requested, e.TicketTypeID, e.Min, e.Max)
}

func (e *InvalidQuantityError) Unwrap() error { return ErrInvalidQuantity }

type InsufficientInventoryError struct {
	TicketTypeID uuid.UUID
	Name         string
	Requested    int
	Available    int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for ticket type %s: requested %d, available %d",
		e.TicketTypeID, e.Requested, e.Available)
}

func (e *InsufficientInventoryError) Unwrap() error { return ErrInsufficientInventory }

var kinds = []struct {
	err  error
	kind string
}{
	{ErrEventUnavailable, KindEventUnavailable},
	{ErrEmptyCart, KindEmptyCart},
	{ErrTicketTypeUnavailable, KindTicketTypeUnavailable},
	{ErrInvalidQuantity, KindInvalidQuantity},
	{ErrInsufficientInventory, KindInsufficientInventory},
	{ErrReservationNotFound, KindReservationNotFound},
	{ErrReservationNotActive, KindReservationNotActive},
	{ErrReservationExpired, KindReservationExpired},
	{ErrContention, KindContention},
	{ErrTicketTypeNotFound, KindNotFound},
	{ErrOrderNotFound, KindNotFound},
	{ErrTicketNotFound, KindNotFound},
	{ErrForbidden, KindForbidden},
	{ErrUnauthorized, KindUnauthorized},
	{ErrInvalidSignature, KindUnauthorized},
	{ErrInvalidInput, KindInvalidInput},
	{ErrRateLimited, KindRateLimited},
}

// Kind 將任意錯誤對應到機器可讀的錯誤種類，未知錯誤一律為 Internal
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsRetryable reports whether the caller may retry the operation automatically.
// Only lock contention qualifies; every other kind is terminal for the request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrContention)
}
