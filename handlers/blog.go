package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"bluepink-backend/internal/blog"
	"bluepink-backend/pkg/ctxmanage"
	"bluepink-backend/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreatePost(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var newPost blog.NewPost
	if err := c.ShouldBindJSON(&newPost); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	if err := h.validate.Struct(newPost); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	post, err := h.bConf.InsertPost(c.Request.Context(), newPost)
	if err != nil {
		slog.Error("error inserting blog post", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Blog post creation failed"})
		return
	}

	slog.Info("blog post created", slog.String(logkey.TraceID, traceId), slog.String("PostID", post.ID))
	c.JSON(http.StatusOK, post)
}

func (h *Handler) ListPosts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.bConf.ListPosts(c.Request.Context())
	if err != nil {
		slog.Error("error listing blog posts", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blog posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": list})
}

// GetPost returns 404 with a readable message when the id is unknown; the
// client redirects back to the list view.
func (h *Handler) GetPost(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	postID := c.Param("id")

	post, err := h.bConf.GetPostByID(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Error("blog post not found", slog.String(logkey.TraceID, traceId), slog.String("PostID", postID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "The blog post could not be found."})
		} else {
			slog.Error("error retrieving blog post", slog.String(logkey.TraceID, traceId), slog.String("PostID", postID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blog post"})
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) UpdatePost(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	postID := c.Param("id")
	if postID == "" {
		slog.Error("missing post ID in request", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Post ID is required"})
		return
	}

	currentPost, err := h.bConf.GetPostByID(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Error("blog post not found", slog.String(logkey.TraceID, traceId), slog.String("PostID", postID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
		} else {
			slog.Error("error retrieving blog post", slog.String(logkey.TraceID, traceId), slog.String("PostID", postID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blog post"})
		}
		return
	}

	var updatedPost blog.Post
	if err := c.ShouldBindJSON(&updatedPost); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	// Preserve immutable fields
	updatedPost.ID = postID
	updatedPost.CreatedAt = currentPost.CreatedAt

	post, err := h.bConf.UpdatePostInDB(c.Request.Context(), postID, updatedPost)
	if err != nil {
		slog.Error("error updating blog post", slog.String(logkey.TraceID, traceId), slog.String("PostID", postID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Blog post update failed"})
		return
	}

	slog.Info("blog post updated", slog.String(logkey.TraceID, traceId), slog.String("PostID", postID))
	c.JSON(http.StatusOK, gin.H{"message": "Blog post updated successfully", "post": post})
}

func (h *Handler) DeletePost(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	postID := c.Param("id")

	if err := h.bConf.DeletePost(c.Request.Context(), postID); err != nil {
		slog.Error("error deleting blog post", slog.String(logkey.TraceID, traceId), slog.String("PostID", postID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Blog post deletion failed"})
		return
	}

	slog.Info("blog post deleted", slog.String(logkey.TraceID, traceId), slog.String("PostID", postID))
	c.JSON(http.StatusOK, gin.H{"message": "Blog post deleted successfully"})
}
