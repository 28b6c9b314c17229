package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bluepink-backend/internal/auth"
	"bluepink-backend/internal/stores/kafka"
	"bluepink-backend/internal/users"
	"bluepink-backend/pkg/ctxmanage"
	"bluepink-backend/pkg/logkey"

	"github.com/gin-gonic/gin"
)

const tokenValidity = 24 * time.Hour

func (h *Handler) Signup(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var newUser users.NewUser
	if err := c.ShouldBindJSON(&newUser); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validate.Struct(newUser); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Email and a password of at least 8 characters are required"})
		return
	}

	user, err := h.uConf.InsertUser(c.Request.Context(), newUser)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			slog.Error("email already registered", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
			return
		}
		slog.Error("error inserting user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		return
	}

	go h.publishAccountCreated(user)

	slog.Info("user created", slog.String(logkey.TraceID, traceId), slog.String(logkey.UserID, user.ID))
	c.JSON(http.StatusOK, gin.H{
		"message": "User created successfully",
		"user_id": user.ID,
	})
}

func (h *Handler) Login(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(request); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.uConf.Authenticate(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			slog.Error("invalid credentials", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		slog.Error("error authenticating user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	role := h.roleOrDefault(c.Request.Context(), traceId, user.ID)

	token, err := h.keys.GenerateToken(user.ID, role, tokenValidity)
	if err != nil {
		slog.Error("error generating token", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	slog.Info("user logged in", slog.String(logkey.TraceID, traceId), slog.String(logkey.UserID, user.ID))
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"display_name": user.DisplayName,
			"role":         role,
		},
	})
}

func (h *Handler) Me(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.uConf.GetUserByID(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error fetching user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	response := gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"role":         claims.Role,
	}

	// The profile is optional; its absence is not an error.
	profile, err := h.uConf.GetProfile(c.Request.Context(), claims.Subject)
	if err == nil {
		response["profile"] = profile
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Warn("error fetching profile", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
	}

	c.JSON(http.StatusOK, response)
}

// Role reports the caller's effective role. Any lookup failure resolves to
// the normal role so the client is never stuck or over-privileged.
func (h *Handler) Role(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	role := h.roleOrDefault(c.Request.Context(), traceId, claims.Subject)
	c.JSON(http.StatusOK, gin.H{"role": role})
}

func (h *Handler) GetProfile(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.uConf.GetProfile(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusOK, gin.H{"profile": nil})
			return
		}
		slog.Error("error fetching profile", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *Handler) UpsertProfile(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var profile users.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// The profile is always keyed on the caller, never a client-supplied id.
	profile.UserID = claims.Subject

	updated, err := h.uConf.UpsertProfile(c.Request.Context(), profile)
	if err != nil {
		slog.Error("error upserting profile", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	slog.Info("profile saved", slog.String(logkey.TraceID, traceId), slog.String(logkey.UserID, claims.Subject))
	c.JSON(http.StatusOK, gin.H{"message": "Profile saved successfully", "profile": updated})
}

// roleOrDefault looks up the role row for a user and falls back to the
// normal role on a missing row or on any query error. The failure is logged
// but never surfaced; a transient error must not grant or block access.
func (h *Handler) roleOrDefault(ctx context.Context, traceId string, userID string) string {
	role, err := h.uConf.FetchRole(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("role lookup failed, defaulting to normal",
				slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		}
		return auth.RoleNormal
	}
	return role
}

func (h *Handler) publishAccountCreated(user users.User) {
	if h.k == nil {
		return
	}
	event := kafka.AccountCreatedEvent{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal account created event", slog.String(logkey.ERROR, err.Error()))
		return
	}
	if err := h.k.ProduceMessage(kafka.TopicAccountCreated, []byte(user.ID), data); err != nil {
		slog.Error("failed to produce account created event", slog.String(logkey.ERROR, err.Error()))
	}
}
