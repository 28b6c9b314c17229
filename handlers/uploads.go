package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bluepink-backend/pkg/ctxmanage"
	"bluepink-backend/pkg/logkey"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 5 << 20 // 5 MB

var allowedBuckets = map[string]bool{
	"products":     true,
	"blog":         true,
	"testimonials": true,
}

// UploadImage stores a multipart file under the bucket's directory and
// returns the public URL the static file server exposes it at.
func (h *Handler) UploadImage(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	bucket := c.Param("bucket")
	if !allowedBuckets[bucket] {
		slog.Error("unknown upload bucket", slog.String(logkey.TraceID, traceId), slog.String("Bucket", bucket))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown bucket"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		slog.Error("missing file in upload", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "You must select an image to upload."})
		return
	}
	if file.Size > maxUploadSize {
		slog.Error("upload too large", slog.String(logkey.TraceID, traceId), slog.Int64("Size", file.Size))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		slog.Error("unsupported file type", slog.String(logkey.TraceID, traceId), slog.String("Ext", ext))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	saveDir := filepath.Join(h.uploadsDir, bucket)
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		slog.Error("failed to create upload folder", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	fileName := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(saveDir, fileName)); err != nil {
		slog.Error("failed to save uploaded file", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	publicURL := fmt.Sprintf("%s/uploads/%s/%s", strings.TrimRight(h.publicBaseURL, "/"), bucket, fileName)

	slog.Info("image uploaded", slog.String(logkey.TraceID, traceId), slog.String("Bucket", bucket), slog.String("File", fileName))
	c.JSON(http.StatusOK, gin.H{"url": publicURL})
}
