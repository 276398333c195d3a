package handler

import (
	"errors"

	"go-gin-ticket-reservation/internal/middleware"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"
	"go-gin-ticket-reservation/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondKind(c, apperrors.KindInvalidInput, nil)
		return err
	}
	return nil
}

// bindUUIDParam 解析路徑上的 uuid，格式錯誤視為找不到該資源
func bindUUIDParam(c *gin.Context, name string, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		kind := apperrors.Kind(notFound)
		respondKind(c, kind, nil)
		return uuid.Nil, false
	}
	return id, true
}

// currentUser 路由必須掛在 JWTAuth 之後
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondKind(c, apperrors.KindUnauthorized, nil)
		return uuid.Nil, false
	}
	return userID, true
}

// handleError 將錯誤轉成 {"error": kind, "message": es, "details": {...}}。
// 預期內的業務錯誤記 Warn，其餘記 Error 且不外洩內部訊息。
func handleError(c *gin.Context, err error, operation string) {
	kind := apperrors.Kind(err)
	log := logger.WithComponent("handler").With(
		zap.String("operation", operation),
		zap.String("kind", kind),
	)
	if kind == apperrors.KindInternal {
		log.Error("Unexpected error", zap.Error(err))
	} else {
		log.Warn("Request rejected", zap.Error(err))
	}

	if kind == apperrors.KindContention {
		c.Header("Retry-After", "1")
	}
	respondKind(c, kind, errorDetails(err))
}

func respondKind(c *gin.Context, kind string, details gin.H) {
	body := gin.H{
		"error":   kind,
		"message": apperrors.Message(kind),
	}
	if len(details) > 0 {
		body["details"] = details
	}
	c.AbortWithStatusJSON(apperrors.HTTPStatus(kind), body)
}

func errorDetails(err error) gin.H {
	var quantity *apperrors.InvalidQuantityError
	if errors.As(err, &quantity) {
		return gin.H{
			"ticket_type_id": quantity.TicketTypeID,
			"requested":      quantity.Requested,
			"min":            quantity.Min,
			"max":            quantity.Max,
		}
	}

	var inventory *apperrors.InsufficientInventoryError
	if errors.As(err, &inventory) {
		return gin.H{
			"ticket_type_id": inventory.TicketTypeID,
			"name":           inventory.Name,
			"requested":      inventory.Requested,
			"available":      inventory.Available,
		}
	}

	var unavailable *apperrors.TicketTypeUnavailableError
	if errors.As(err, &unavailable) {
		return gin.H{
			"ticket_type_id": unavailable.TicketTypeID,
			"reason":         unavailable.Reason,
		}
	}
	return nil
}

func handleSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}

