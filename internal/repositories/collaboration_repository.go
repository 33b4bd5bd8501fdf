package repositories

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"talent-service/internal/models"
)

type CollaborationRepository interface {
	Insert(ctx context.Context, senderID, receiverID int64, message string) (*models.CollaborationRequest, error)
	GetByID(ctx context.Context, id int64) (*models.CollaborationRequest, error)
	ListReceived(ctx context.Context, userID int64) ([]models.ReceivedRequest, error)
	ListSent(ctx context.Context, userID int64) ([]models.SentRequest, error)
	CountPending(ctx context.Context, userID int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	HasPending(ctx context.Context, senderID, receiverID int64) (bool, error)
}

type collaborationRepository struct {
	db *sqlx.DB
}

func NewCollaborationRepository(db *sqlx.DB) CollaborationRepository {
	return &collaborationRepository{db: db}
}

func (r *collaborationRepository) Insert(ctx context.Context, senderID, receiverID int64, message string) (*models.CollaborationRequest, error) {
	var req models.CollaborationRequest
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO collaboration_requests (sender_id, receiver_id, message, status)
VALUES ($1, $2, $3, 'pending')
RETURNING id, sender_id, receiver_id, message, status, created_at, updated_at
`, senderID, receiverID, message).StructScan(&req)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *collaborationRepository) GetByID(ctx context.Context, id int64) (*models.CollaborationRequest, error) {
	var req models.CollaborationRequest
	err := r.db.GetContext(ctx, &req, `
SELECT id, sender_id, receiver_id, message, status, created_at, updated_at
FROM collaboration_requests
WHERE id=$1
`, id)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *collaborationRepository) ListReceived(ctx context.Context, userID int64) ([]models.ReceivedRequest, error) {
	var reqs []models.ReceivedRequest
	err := r.db.SelectContext(ctx, &reqs, `
SELECT cr.id, cr.sender_id, cr.receiver_id, cr.message, cr.status, cr.created_at, cr.updated_at,
       u.name AS sender_name, u.email AS sender_email,
       t.bio AS sender_bio, t.location AS sender_location
FROM collaboration_requests cr
JOIN users u ON cr.sender_id = u.id
LEFT JOIN talents t ON t.user_id = u.id
WHERE cr.receiver_id=$1
ORDER BY cr.created_at DESC
`, userID)
	if err != nil {
		return nil, err
	}

	for i := range reqs {
		skills, err := r.senderSkills(ctx, reqs[i].SenderID)
		if err != nil {
			return nil, err
		}
		reqs[i].SenderSkills = skills
	}
	return reqs, nil
}

func (r *collaborationRepository) ListSent(ctx context.Context, userID int64) ([]models.SentRequest, error) {
	var reqs []models.SentRequest
	err := r.db.SelectContext(ctx, &reqs, `
SELECT cr.id, cr.sender_id, cr.receiver_id, cr.message, cr.status, cr.created_at, cr.updated_at,
       u.name AS receiver_name, u.email AS receiver_email
FROM collaboration_requests cr
JOIN users u ON cr.receiver_id = u.id
WHERE cr.sender_id=$1
ORDER BY cr.created_at DESC
`, userID)
	return reqs, err
}

func (r *collaborationRepository) CountPending(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
SELECT COUNT(*) FROM collaboration_requests
WHERE receiver_id=$1 AND status='pending'
`, userID)
	return count, err
}

func (r *collaborationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE collaboration_requests SET status=$2, updated_at=NOW()
WHERE id=$1 AND status='pending'
`, id, status)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *collaborationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM collaboration_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *collaborationRepository) HasPending(ctx context.Context, senderID, receiverID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
SELECT EXISTS(
SELECT 1 FROM collaboration_requests
WHERE sender_id=$1 AND receiver_id=$2 AND status='pending'
)
`, senderID, receiverID)
	return exists, err
}

// senderSkills resolves the sender's skill names through their talent
// profile, if they have one.
func (r *collaborationRepository) senderSkills(ctx context.Context, senderID int64) ([]string, error) {
	var skills []string
	err := r.db.SelectContext(ctx, &skills, `
SELECT s.name FROM skills s
JOIN talent_skills ts ON s.id = ts.skill_id
JOIN talents t ON t.id = ts.talent_id
WHERE t.user_id=$1
`, senderID)
	if err != nil {
		return nil, err
	}
	return skills, nil
}
