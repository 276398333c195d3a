package apperrors

import "net/http"

type translation struct {
	status  int
	message string
}

// 錯誤種類對應的 HTTP 狀態碼與給使用者看的西班牙文訊息
var translations = map[string]translation{
	KindEventUnavailable:      {http.StatusConflict, "El evento no está disponible para la venta."},
	KindEmptyCart:             {http.StatusBadRequest, "El carrito está vacío."},
	KindTicketTypeUnavailable: {http.StatusConflict, "El tipo de entrada no está disponible."},
	KindInvalidQuantity:       {http.StatusUnprocessableEntity, "La cantidad solicitada no es válida."},
	KindInsufficientInventory: {http.StatusConflict, "No hay entradas suficientes disponibles."},
	KindReservationNotFound:   {http.StatusNotFound, "No encontramos la reserva."},
	KindReservationNotActive:  {http.StatusConflict, "La reserva ya no está activa."},
	KindReservationExpired:    {http.StatusGone, "La reserva expiró. Volvé a seleccionar tus entradas."},
	KindContention:            {http.StatusServiceUnavailable, "Hay mucha demanda en este momento. Intentá de nuevo en unos segundos."},
	KindNotFound:              {http.StatusNotFound, "No encontramos el recurso solicitado."},
	KindForbidden:             {http.StatusForbidden, "No tenés permiso para realizar esta acción."},
	KindUnauthorized:          {http.StatusUnauthorized, "Tenés que iniciar sesión para continuar."},
	KindInvalidInput:          {http.StatusBadRequest, "La solicitud no es válida."},
	KindRateLimited:           {http.StatusTooManyRequests, "Demasiados intentos. Esperá un momento antes de volver a intentar."},
	KindInternal:              {http.StatusInternalServerError, "Ocurrió un error inesperado. Intentá de nuevo más tarde."},
}

// HTTPStatus 回傳錯誤種類對應的狀態碼，未知種類為 500
func HTTPStatus(kind string) int {
	if t, ok := translations[kind]; ok {
		return t.status
	}
	return http.StatusInternalServerError
}

// Message 回傳錯誤種類的使用者訊息
func Message(kind string) string {
	if t, ok := translations[kind]; ok {
		return t.message
	}
	return translations[KindInternal].message
}
