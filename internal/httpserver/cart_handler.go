package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-cart/internal/domain"
)

// CartService is the server-side cart the routes expose.
type CartService interface {
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
	Count(ctx context.Context, userID string) (int, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	UpdateItem(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	Merge(ctx context.Context, userID string, items []domain.MergeItem) error
}

type itemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type mergeRequest struct {
	Items []domain.MergeItem `json:"items"`
}

func cartCountHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := svc.Count(c.Request.Context(), c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "count unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

func cartAddHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		err := svc.AddItem(c.Request.Context(), c.Param("userId"), req.ProductID, req.Quantity)
		if err != nil {
			writeCartError(c, err)
			return
		}
		c.Status(http.StatusOK)
	}
}

func cartUpdateHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
			return
		}
		err := svc.UpdateItem(c.Request.Context(), c.Param("userId"), req.ProductID, req.Quantity)
		if err != nil {
			writeCartError(c, err)
			return
		}
		c.Status(http.StatusOK)
	}
}

func cartRemoveHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
			return
		}
		if err := svc.RemoveItem(c.Request.Context(), c.Param("userId"), req.ProductID); err != nil {
			writeCartError(c, err)
			return
		}
		c.Status(http.StatusOK)
	}
}

func cartMergeHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req mergeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "items required"})
			return
		}
		if err := svc.Merge(c.Request.Context(), c.Param("userId"), req.Items); err != nil {
			writeCartError(c, err)
			return
		}
		c.Status(http.StatusOK)
	}
}

func writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart operation failed"})
	}
}
