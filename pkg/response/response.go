package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request id middleware fills.
const RequestIDKey = "request_id"

// APIResponse is the envelope every JSON endpoint answers with. Data is
// always present so clients can tell an empty list from a missing one.
type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

// ListMeta accompanies every collection response.
type ListMeta struct {
	Count int `json:"count"`
}

func envelope[T any](ctx *gin.Context, status int, ok bool, message string) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString(RequestIDKey),
		Success:   ok,
		Message:   message,
	}
}

// Success writes a 2xx envelope (200 when status is 0).
func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := envelope[T](ctx, status, true, message)
	resp.Data = data
	resp.Meta = meta
	ctx.JSON(status, resp)
	return resp
}

// List writes items as a 200 with their count; a nil slice is sent as [].
func List[T any](ctx *gin.Context, items []T, message string) APIResponse[[]T] {
	if items == nil {
		items = []T{}
	}
	return Success(ctx, http.StatusOK, items, message, ListMeta{Count: len(items)})
}

// Error writes a failure envelope and aborts the handler chain. details
// lands in the error field (field messages, upstream hints).
func Error[T any](ctx *gin.Context, status int, message string, details any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := envelope[T](ctx, status, false, message)
	resp.Error = details
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}
