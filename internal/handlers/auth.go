package handlers

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"talent-service/internal/models"
	"talent-service/internal/services"
	"talent-service/internal/telemetry"
)

type AuthHandler struct {
	auth  *services.AuthService
	audit *telemetry.AuditEmitter
}

func NewAuthHandler(auth *services.AuthService, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{auth: auth, audit: audit}
}

type registerBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	requestID := requestIDFromHeader(c)

	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, token, err := h.auth.Register(ctx, body.Email, body.Password, body.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "email is already in use"})
			return
		}
		h.emitAudit(c, "ERROR", "registration failed", requestID, nil)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	h.emitAudit(c, "INFO", "User registered", requestID, &user.ID)
	c.JSON(nethttp.StatusCreated, gin.H{
		"message": "account created",
		"token":   token,
		"user":    publicUser(user),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	requestID := requestIDFromHeader(c)

	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, token, err := h.auth.Login(ctx, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.emitAudit(c, "ERROR", "login failed", requestID, nil)
			c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	h.emitAudit(c, "INFO", "User logged in", requestID, &user.ID)
	c.JSON(nethttp.StatusOK, gin.H{
		"message": "logged in",
		"token":   token,
		"user":    publicUser(user),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.auth.Me(c.Request.Context(), *userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"created_at": user.CreatedAt,
	})
}

func publicUser(user *models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	}
}

func (h *AuthHandler) emitAudit(c *gin.Context, level, text, requestID string, userID *int64) {
	if h.audit == nil {
		return
	}
	h.audit.EmitAudit(c.Request.Context(), level, text, requestID, userID)
}
