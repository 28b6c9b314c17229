package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"bluepink-backend/internal/products"
	"bluepink-backend/pkg/ctxmanage"
	"bluepink-backend/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var newProduct products.NewProduct
	if err := c.ShouldBindJSON(&newProduct); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	if err := h.validate.Struct(newProduct); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	insertedProduct, err := h.pConf.InsertProduct(c.Request.Context(), newProduct)
	if err != nil {
		slog.Error("error in inserting the product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Product creation failed"})
		return
	}

	slog.Info("product created", slog.String(logkey.TraceID, traceId), slog.String("ProductID", insertedProduct.ID))
	c.JSON(http.StatusOK, insertedProduct)
}

func (h *Handler) ListProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.pConf.ListProducts(c.Request.Context())
	if err != nil {
		slog.Error("error listing products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": list})
}

func (h *Handler) GetProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	productID := c.Param("id")

	product, err := h.pConf.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			slog.Error("error in retrieving product", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	productID := c.Param("id")
	if productID == "" {
		slog.Error("missing product ID in request", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	currentProduct, err := h.pConf.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			slog.Error("error in retrieving product", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		}
		return
	}

	var updatedProduct products.Product
	if err := c.ShouldBindJSON(&updatedProduct); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	// Preserve immutable fields
	updatedProduct.ID = productID
	updatedProduct.CreatedAt = currentProduct.CreatedAt

	product, err := h.pConf.UpdateProductInDB(c.Request.Context(), productID, updatedProduct)
	if err != nil {
		slog.Error("error in updating the product", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Product update failed"})
		return
	}

	slog.Info("product updated successfully", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID))
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct is idempotent: deleting an id that no longer exists still
// succeeds, so a stale admin view cannot error on refresh.
func (h *Handler) DeleteProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	productID := c.Param("id")

	if err := h.pConf.DeleteProduct(c.Request.Context(), productID); err != nil {
		slog.Error("error deleting product", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Product deletion failed"})
		return
	}

	slog.Info("product deleted", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID))
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
