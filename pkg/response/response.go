package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

// Meta carries pagination info alongside list payloads.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int64 `json:"total_pages"`
}

func NewMeta(page, limit int, total int64) Meta {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Meta{Page: page, Limit: limit, TotalItems: total, TotalPages: pages}
}

// OK writes a success envelope with the given status code.
func OK[T any](ctx *gin.Context, status int, data T, message string, meta any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

// Fail writes an error envelope with an explicit status code.
func Fail(ctx *gin.Context, status int, message string, detail any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     detail,
	})
}

// FromError writes the envelope matching an application error. Unknown error
// types map to 500 with a generic message so internals never leak.
func FromError(ctx *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(err)
	msg := apperr.Message(err)
	if kind == apperr.Internal {
		msg = "internal server error"
	}
	Fail(ctx, status, msg, gin.H{"kind": kind.String()})
}
