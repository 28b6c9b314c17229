package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"bluepink-backend/internal/testimonials"
	"bluepink-backend/pkg/ctxmanage"
	"bluepink-backend/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateTestimonial(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var newTestimonial testimonials.NewTestimonial
	if err := c.ShouldBindJSON(&newTestimonial); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	if err := h.validate.Struct(newTestimonial); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	testimonial, err := h.tConf.InsertTestimonial(c.Request.Context(), newTestimonial)
	if err != nil {
		slog.Error("error inserting testimonial", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Testimonial creation failed"})
		return
	}

	slog.Info("testimonial created", slog.String(logkey.TraceID, traceId), slog.String("TestimonialID", testimonial.ID))
	c.JSON(http.StatusOK, testimonial)
}

func (h *Handler) ListTestimonials(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.tConf.ListTestimonials(c.Request.Context())
	if err != nil {
		slog.Error("error listing testimonials", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch testimonials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"testimonials": list})
}

func (h *Handler) UpdateTestimonial(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	testimonialID := c.Param("id")
	if testimonialID == "" {
		slog.Error("missing testimonial ID in request", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Testimonial ID is required"})
		return
	}

	var updated testimonials.Testimonial
	if err := c.ShouldBindJSON(&updated); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}
	if updated.Rating < 1 || updated.Rating > 5 {
		slog.Error("invalid rating", slog.String(logkey.TraceID, traceId), slog.Int("Rating", updated.Rating))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	testimonial, err := h.tConf.UpdateTestimonialInDB(c.Request.Context(), testimonialID, updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Error("testimonial not found", slog.String(logkey.TraceID, traceId), slog.String("TestimonialID", testimonialID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Testimonial not found"})
			return
		}
		slog.Error("error updating testimonial", slog.String(logkey.TraceID, traceId), slog.String("TestimonialID", testimonialID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Testimonial update failed"})
		return
	}

	slog.Info("testimonial updated", slog.String(logkey.TraceID, traceId), slog.String("TestimonialID", testimonialID))
	c.JSON(http.StatusOK, gin.H{"message": "Testimonial updated successfully", "testimonial": testimonial})
}

func (h *Handler) DeleteTestimonial(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	testimonialID := c.Param("id")

	if err := h.tConf.DeleteTestimonial(c.Request.Context(), testimonialID); err != nil {
		slog.Error("error deleting testimonial", slog.String(logkey.TraceID, traceId), slog.String("TestimonialID", testimonialID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Testimonial deletion failed"})
		return
	}

	slog.Info("testimonial deleted", slog.String(logkey.TraceID, traceId), slog.String("TestimonialID", testimonialID))
	c.JSON(http.StatusOK, gin.H{"message": "Testimonial deleted successfully"})
}
