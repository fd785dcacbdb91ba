package response

import (
	"errors"
	"net/http"

	"anoa.com/blogsocial/pkg/apperror"
	"anoa.com/blogsocial/pkg/logger"
	"anoa.com/blogsocial/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetUserID retrieves the authenticated account from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		return uuid.Nil, apperror.ErrUnauthenticated
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthenticated
	}

	return userID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		logger.Get().Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	if errors.Is(err, apperror.ErrLedgerConflict) {
		logger.Get().Warn("ledger conflict", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// BindError reports a request that failed gin binding.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}
