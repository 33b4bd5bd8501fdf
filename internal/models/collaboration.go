package models

import (
	"database/sql"
	"time"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type CollaborationRequest struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	ReceiverID int64     `db:"receiver_id" json:"receiver_id"`
	Message    string    `db:"message" json:"message"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ReceivedRequest is a collaboration request joined with the sender's
// account and talent profile, as shown in the receiver's inbox.
type ReceivedRequest struct {
	CollaborationRequest
	SenderName     string         `db:"sender_name" json:"sender_name"`
	SenderEmail    string         `db:"sender_email" json:"sender_email"`
	SenderBio      sql.NullString `db:"sender_bio" json:"sender_bio,omitempty"`
	SenderLocation sql.NullString `db:"sender_location" json:"sender_location,omitempty"`
	SenderSkills   []string       `db:"-" json:"sender_skills"`
}

// SentRequest is a collaboration request joined with the receiver's account.
type SentRequest struct {
	CollaborationRequest
	ReceiverName  string `db:"receiver_name" json:"receiver_name"`
	ReceiverEmail string `db:"receiver_email" json:"receiver_email"`
}
