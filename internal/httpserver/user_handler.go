package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-cart/internal/domain"
)

// userHandler serves the profile object the client falls back to when the
// dedicated count endpoint is unavailable; the embedded cart array carries
// productId/quantity pairs.
func userHandler(auth AuthService, carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := userFromContext(c)
		userID := c.Param("userId")
		if requester == nil || requester.ID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "profile belongs to another user"})
			return
		}

		lines, err := carts.Lines(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "profile unavailable"})
			return
		}
		cart := make([]domain.MergeItem, 0, len(lines))
		for _, line := range lines {
			cart = append(cart, domain.MergeItem{ProductID: line.ProductID, Quantity: line.Quantity})
		}

		c.JSON(http.StatusOK, gin.H{
			"id":        requester.ID,
			"email":     requester.Email,
			"firstName": requester.FirstName,
			"lastName":  requester.LastName,
			"role":      requester.Role,
			"cart":      cart,
		})
	}
}
