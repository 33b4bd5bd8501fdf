package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"talent-service/internal/models"
	"talent-service/internal/rabbitmq"
	"talent-service/internal/repositories"
)

var (
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrRequestNotFound  = errors.New("collaboration request not found")
	ErrSelfRequest      = errors.New("cannot send a request to yourself")
	ErrEmptyMessage     = errors.New("message must not be empty")
	ErrPendingExists    = errors.New("a pending request already exists")
	ErrNotReceiver      = errors.New("only the receiver may resolve this request")
	ErrNotSender        = errors.New("only the sender may remove this request")
	ErrAlreadyResolved  = errors.New("request has already been resolved")
)

// CollaborationService owns the collaboration-request lifecycle: creation
// with duplicate suppression, the pending -> accepted/rejected transition,
// and sender-only removal.
type CollaborationService struct {
	requests  repositories.CollaborationRepository
	users     repositories.UserRepository
	publisher rabbitmq.Publisher
}

func NewCollaborationService(requests repositories.CollaborationRepository, users repositories.UserRepository, publisher rabbitmq.Publisher) *CollaborationService {
	return &CollaborationService{requests: requests, users: users, publisher: publisher}
}

func (s *CollaborationService) Create(ctx context.Context, senderID, receiverID int64, message string) (*models.CollaborationRequest, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if senderID == receiverID {
		return nil, ErrSelfRequest
	}

	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}

	exists, err := s.requests.HasPending(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPendingExists
	}

	req, err := s.requests.Insert(ctx, senderID, receiverID, message)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "collaboration.request.created", map[string]any{
		"request_id":  req.ID,
		"sender_id":   req.SenderID,
		"receiver_id": req.ReceiverID,
		"created_at":  req.CreatedAt,
	})

	return req, nil
}

func (s *CollaborationService) ListReceived(ctx context.Context, userID int64) ([]models.ReceivedRequest, error) {
	return s.requests.ListReceived(ctx, userID)
}

func (s *CollaborationService) ListSent(ctx context.Context, userID int64) ([]models.SentRequest, error) {
	return s.requests.ListSent(ctx, userID)
}

func (s *CollaborationService) CountPending(ctx context.Context, userID int64) (int64, error) {
	return s.requests.CountPending(ctx, userID)
}

func (s *CollaborationService) Accept(ctx context.Context, requestID, callerID int64) error {
	return s.resolve(ctx, requestID, callerID, models.StatusAccepted)
}

func (s *CollaborationService) Reject(ctx context.Context, requestID, callerID int64) error {
	return s.resolve(ctx, requestID, callerID, models.StatusRejected)
}

// resolve enforces the transition rules: the request must exist, the caller
// must be its receiver, and the status must still be pending. Re-invoking
// after resolution fails with ErrAlreadyResolved rather than silently
// succeeding.
func (s *CollaborationService) resolve(ctx context.Context, requestID, callerID int64, status string) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestNotFound
		}
		return err
	}
	if req.ReceiverID != callerID {
		return ErrNotReceiver
	}
	if req.Status != models.StatusPending {
		return ErrAlreadyResolved
	}

	if err := s.requests.UpdateStatus(ctx, requestID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race against another resolution.
			return ErrAlreadyResolved
		}
		return err
	}

	s.publish(ctx, "collaboration.request."+status, map[string]any{
		"request_id":  requestID,
		"sender_id":   req.SenderID,
		"receiver_id": req.ReceiverID,
		"status":      status,
	})

	return nil
}

// Remove deletes a request permanently. Only the sender may remove it; no
// status restriction applies, so a resolved request can still be retracted.
func (s *CollaborationService) Remove(ctx context.Context, requestID, callerID int64) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestNotFound
		}
		return err
	}
	if req.SenderID != callerID {
		return ErrNotSender
	}

	if err := s.requests.Delete(ctx, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestNotFound
		}
		return err
	}

	s.publish(ctx, "collaboration.request.removed", map[string]any{
		"request_id":  requestID,
		"sender_id":   req.SenderID,
		"receiver_id": req.ReceiverID,
	})

	return nil
}

func (s *CollaborationService) publish(ctx context.Context, routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		log.Warn().Err(err).Str("routing_key", routingKey).Msg("failed to publish event")
	}
}
