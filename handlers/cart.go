package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"bluepink-backend/internal/cart"
	"bluepink-backend/pkg/ctxmanage"
	"bluepink-backend/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cartResponse, err := h.cConf.GetCart(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error fetching cart items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.UserID, claims.Subject))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
		return
	}

	c.JSON(http.StatusOK, cartResponse)
}

func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var request struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if request.ProductID == "" {
		slog.Error("missing product ID", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}
	// Adding without a quantity means one unit.
	if request.Quantity == 0 {
		request.Quantity = 1
	}
	if request.Quantity < 0 {
		slog.Error("invalid quantity", slog.String(logkey.TraceID, traceId), slog.Int("Quantity", request.Quantity))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
		return
	}

	err := h.cConf.AddItem(c.Request.Context(), claims.Subject, request.ProductID, request.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrProductNotFound) {
			slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.String("ProductID", request.ProductID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		slog.Error("error adding product to cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", request.ProductID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product to cart"})
		return
	}

	slog.Info("product added to cart", slog.String(logkey.TraceID, traceId),
		slog.String("ProductID", request.ProductID), slog.Int("Quantity", request.Quantity), slog.String(logkey.UserID, claims.Subject))
	c.JSON(http.StatusOK, gin.H{"message": "Product added to cart successfully"})
}

// UpdateCartQuantity sets the quantity of one cart row. A quantity of zero
// or less removes the item; it is never an error.
func (h *Handler) UpdateCartQuantity(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID := c.Param("productID")

	var request struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.cConf.SetQuantity(c.Request.Context(), claims.Subject, productID, request.Quantity)
	if err != nil {
		slog.Error("error updating cart quantity", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", productID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quantity"})
		return
	}

	slog.Info("cart quantity updated", slog.String(logkey.TraceID, traceId),
		slog.String("ProductID", productID), slog.Int("Quantity", request.Quantity), slog.String(logkey.UserID, claims.Subject))
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully"})
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID := c.Param("productID")

	if err := h.cConf.RemoveItem(c.Request.Context(), claims.Subject, productID); err != nil {
		slog.Error("error removing cart item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", productID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}

	slog.Info("cart item removed", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID), slog.String(logkey.UserID, claims.Subject))
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.cConf.Clear(c.Request.Context(), claims.Subject); err != nil {
		slog.Error("error clearing cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()), slog.String(logkey.UserID, claims.Subject))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	slog.Info("cart cleared", slog.String(logkey.TraceID, traceId), slog.String(logkey.UserID, claims.Subject))
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
