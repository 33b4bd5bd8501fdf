package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"talent-service/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, email, passwordHash, name string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, email, passwordHash, name string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO users (email, password, name)
VALUES ($1, $2, $3)
RETURNING id, email, password, name, created_at
`, email, passwordHash, name).StructScan(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, email, password, name, created_at FROM users WHERE email=$1`, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, email, password, name, created_at FROM users WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`, email)
	return exists, err
}
