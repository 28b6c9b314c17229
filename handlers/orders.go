package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bluepink-backend/internal/orders"
	"bluepink-backend/internal/stores/kafka"
	"bluepink-backend/pkg/ctxmanage"
	"bluepink-backend/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// Checkout snapshots the caller's cart into one pending order. Name, email
// and a known payment method are required before anything is written; an
// empty cart writes nothing. The payment method is informational only.
func (h *Handler) Checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var customer orders.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validate.Struct(customer); err != nil {
		slog.Error("checkout validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	order, err := h.oConf.CreateFromCart(c.Request.Context(), claims.Subject, customer)
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			slog.Error("checkout with empty cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.UserID, claims.Subject))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty. Add items before checkout."})
			return
		}
		slog.Error("error creating order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	go h.publishOrderPlaced(order)
	go func() {
		if err := sendOrderConfirmationEmail(order.CustomerEmail, order.ID); err != nil {
			slog.Error("failed to send confirmation email", slog.String(logkey.ERROR, err.Error()), slog.String("OrderID", order.ID))
		}
	}()

	slog.Info("order placed", slog.String(logkey.TraceID, traceId),
		slog.String("OrderID", order.ID), slog.String(logkey.UserID, claims.Subject))
	c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "order": order})
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	list, err := h.oConf.ListByUser(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error listing orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) ListAllOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.oConf.ListAll(c.Request.Context())
	if err != nil {
		slog.Error("error listing all orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// UpdateOrderStatus transitions one order along the one-way machine:
// pending to completed or canceled. Re-sending the current status is a
// no-op; moving out of a terminal state is a conflict.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	orderID := c.Param("id")

	var request struct {
		Status string `json:"status" validate:"required,oneof=pending completed canceled"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(request); err != nil {
		slog.Error("status validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	changed, err := h.oConf.UpdateStatus(c.Request.Context(), orderID, request.Status)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			slog.Error("order not found", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, orders.ErrInvalidTransition):
			slog.Error("invalid status transition", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			slog.Error("error updating order status", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
		return
	}

	if !changed {
		c.JSON(http.StatusOK, gin.H{"message": "Order already has this status"})
		return
	}

	go h.publishStatusChanged(orderID, request.Status)

	slog.Info("order status updated", slog.String(logkey.TraceID, traceId),
		slog.String("OrderID", orderID), slog.String("Status", request.Status))
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
}

func (h *Handler) publishOrderPlaced(order orders.Order) {
	if h.k == nil {
		return
	}
	event := kafka.OrderPlacedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal order placed event", slog.String(logkey.ERROR, err.Error()))
		return
	}
	if err := h.k.ProduceMessage(kafka.TopicOrderPlaced, []byte(order.ID), data); err != nil {
		slog.Error("failed to produce order placed event", slog.String(logkey.ERROR, err.Error()))
	}
}

func (h *Handler) publishStatusChanged(orderID string, newStatus string) {
	if h.k == nil {
		return
	}
	event := kafka.OrderStatusChangedEvent{
		OrderID:   orderID,
		OldStatus: orders.StatusPending,
		NewStatus: newStatus,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal status changed event", slog.String(logkey.ERROR, err.Error()))
		return
	}
	if err := h.k.ProduceMessage(kafka.TopicOrderStatusChanged, []byte(orderID), data); err != nil {
		slog.Error("failed to produce status changed event", slog.String(logkey.ERROR, err.Error()))
	}
}
