package handlers

import (
	"context"
	"errors"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"talent-service/internal/metrics"
	"talent-service/internal/models"
	"talent-service/internal/services"
	"talent-service/internal/telemetry"
)

type CollaborationHandler struct {
	collab *services.CollaborationService
	audit  *telemetry.AuditEmitter
}

func NewCollaborationHandler(collab *services.CollaborationService, audit *telemetry.AuditEmitter) *CollaborationHandler {
	return &CollaborationHandler{collab: collab, audit: audit}
}

type sendRequestBody struct {
	ReceiverID int64  `json:"receiverId" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

func (h *CollaborationHandler) SendRequest(c *gin.Context) {
	requestID := requestIDFromHeader(c)
	userID := userIDFromContext(c)
	if userID == nil {
		metrics.IncCollabRequest(metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body sendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.emitAudit(c.Request.Context(), "ERROR", "invalid request payload", requestID, userID)
		metrics.IncCollabRequest(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	req, err := h.collab.Create(ctx, *userID, body.ReceiverID, body.Message)
	if err != nil {
		metrics.IncCollabRequest(metrics.StatusFailed)
		switch {
		case errors.Is(err, services.ErrReceiverNotFound):
			h.emitAudit(ctx, "ERROR", "receiver not found", requestID, userID)
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, services.ErrSelfRequest):
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "cannot send a request to yourself"})
		case errors.Is(err, services.ErrEmptyMessage):
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "message must not be empty"})
		case errors.Is(err, services.ErrPendingExists):
			h.emitAudit(ctx, "ERROR", "pending collaboration request already exists", requestID, userID)
			c.JSON(nethttp.StatusConflict, gin.H{"error": "a pending request already exists"})
		default:
			h.emitAudit(ctx, "ERROR", "internal error", requestID, userID)
			c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to send request"})
		}
		return
	}

	h.emitAudit(ctx, "INFO", "Collaboration request sent to '"+strconv.FormatInt(body.ReceiverID, 10)+"'", requestID, userID)
	metrics.IncCollabRequest(metrics.StatusSuccess)
	c.JSON(nethttp.StatusCreated, gin.H{
		"message":   "request sent",
		"requestId": req.ID,
	})
}

func (h *CollaborationHandler) ListReceived(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requests, err := h.collab.ListReceived(c.Request.Context(), *userID)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load requests"})
		return
	}
	if requests == nil {
		requests = []models.ReceivedRequest{}
	}
	c.JSON(nethttp.StatusOK, requests)
}

func (h *CollaborationHandler) ListSent(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requests, err := h.collab.ListSent(c.Request.Context(), *userID)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load requests"})
		return
	}
	if requests == nil {
		requests = []models.SentRequest{}
	}
	c.JSON(nethttp.StatusOK, requests)
}

func (h *CollaborationHandler) CountPending(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	count, err := h.collab.CountPending(c.Request.Context(), *userID)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to count requests"})
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"count": count})
}

func (h *CollaborationHandler) AcceptRequest(c *gin.Context) {
	h.handleDecision(c, h.collab.Accept, "accepted", "accept", metrics.IncCollabAccept)
}

func (h *CollaborationHandler) RejectRequest(c *gin.Context) {
	h.handleDecision(c, h.collab.Reject, "rejected", "reject", metrics.IncCollabReject)
}

func (h *CollaborationHandler) handleDecision(c *gin.Context, action func(ctx context.Context, requestID, userID int64) error, status, verb string, inc func(string)) {
	reqID, ok := parseIDParam(c, "id")
	if !ok {
		inc(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	requestID := requestIDFromHeader(c)
	userID := userIDFromContext(c)
	if userID == nil {
		inc(metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	if err := action(ctx, reqID, *userID); err != nil {
		inc(metrics.StatusFailed)
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			h.emitAudit(ctx, "ERROR", "collaboration request not found", requestID, userID)
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "request not found"})
		case errors.Is(err, services.ErrNotReceiver):
			h.emitAudit(ctx, "ERROR", "not allowed to "+verb+" this request", requestID, userID)
			c.JSON(nethttp.StatusForbidden, gin.H{"error": "not allowed to " + verb + " this request"})
		case errors.Is(err, services.ErrAlreadyResolved):
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "request has already been handled"})
		default:
			h.emitAudit(ctx, "ERROR", "internal error", requestID, userID)
			c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to update request"})
		}
		return
	}

	h.emitAudit(ctx, "INFO", "Collaboration request "+status, requestID, userID)
	inc(metrics.StatusSuccess)
	c.JSON(nethttp.StatusOK, gin.H{"message": "request " + status})
}

func (h *CollaborationHandler) RemoveRequest(c *gin.Context) {
	reqID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	requestID := requestIDFromHeader(c)
	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	if err := h.collab.Remove(ctx, reqID, *userID); err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "request not found"})
		case errors.Is(err, services.ErrNotSender):
			h.emitAudit(ctx, "ERROR", "not allowed to remove this request", requestID, userID)
			c.JSON(nethttp.StatusForbidden, gin.H{"error": "not allowed to remove this request"})
		default:
			h.emitAudit(ctx, "ERROR", "internal error", requestID, userID)
			c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to remove request"})
		}
		return
	}

	h.emitAudit(ctx, "INFO", "Collaboration request removed", requestID, userID)
	c.JSON(nethttp.StatusOK, gin.H{"message": "request removed"})
}

func (h *CollaborationHandler) emitAudit(ctx context.Context, level, text, requestID string, userID *int64) {
	if h.audit == nil {
		return
	}
	h.audit.EmitAudit(ctx, level, text, requestID, userID)
}
