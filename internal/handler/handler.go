// Package handler is the gin delivery of the graph operations and queries.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"anoa.com/blogsocial/internal/dto"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/service"
	"anoa.com/blogsocial/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// writer is embedded by handlers that run operations: it hands committed
// events to the dispatcher.
type writer struct {
	events *event.Dispatcher
}

func (w writer) done(c *gin.Context, status int, receipt service.Receipt, err error) {
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	w.events.Publish(c.Request.Context(), receipt.Events)
	c.JSON(status, gin.H{"data": dto.IDResponse{ID: receipt.ID}})
}

// principal reads the authenticated account, answering 401 when absent.
func principal(c *gin.Context) (uuid.UUID, bool) {
	who, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, false
	}
	return who, true
}

// throttle takes the account's cooldown for scope, answering 429 with
// Retry-After when it is still running.
func throttle(c *gin.Context, limiter *service.RateLimiter, who uuid.UUID, scope string) (func(), bool) {
	release, err := limiter.Acquire(c.Request.Context(), who, scope)
	if err != nil {
		var limited *service.RateLimitError
		if errors.As(err, &limited) {
			c.Header("Retry-After", fmt.Sprintf("%.0f", limited.RetryAfter.Seconds()))
		}
		response.ResponseError(c, err)
		return nil, false
	}
	return release, true
}

func bindURI(c *gin.Context, req any) bool {
	if err := c.ShouldBindUri(req); err != nil {
		response.BindError(c, err)
		return false
	}
	return true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BindError(c, err)
		return false
	}
	return true
}

// reply writes a query result.
func reply[T any](c *gin.Context, data T, err error) {
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	response.OK(c, data)
}

func unavailable(c *gin.Context, feature string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": feature + " is not configured"})
}
