package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monadclick/monad_clicker/internal/errors"
	"github.com/monadclick/monad_clicker/pkg/logger"
)

// ErrorMiddleware maps typed errors onto HTTP responses. Validation and
// precondition failures carry their context to the caller; persistence and
// chain failures surface as a generic 500.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		switch e := err.(type) {
		case *errors.ValidationError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
		case *errors.InsufficientFundsError:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     e.Error(),
				"currency":  e.Currency,
				"required":  e.Required,
				"available": e.Available,
			})
		case *errors.MaxLevelError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Error(), "booster": e.Booster})
		case *errors.QuotaExceededError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Error(), "limit": e.Limit})
		case *errors.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
		case *errors.APIError:
			logger.Error("API error: %v", e)
			c.JSON(e.StatusCode, gin.H{"error": e.Message})
		case *errors.DatabaseError:
			logger.Error("Database error: %v", e)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		case *errors.ChainError:
			logger.Error("Chain error: %v", e)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Mint service unavailable"})
		default:
			logger.Error("Unexpected error: %v", e)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		c.Abort()
	}
}
