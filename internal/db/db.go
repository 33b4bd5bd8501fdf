package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
			)`,
		`CREATE TABLE IF NOT EXISTS talents (
			id SERIAL PRIMARY KEY,
			user_id INT REFERENCES users(id),
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			bio TEXT,
			location TEXT,
			linkedin TEXT,
			github TEXT,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
			)`,
		`CREATE TABLE IF NOT EXISTS skills (
			id SERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
			)`,
		`CREATE TABLE IF NOT EXISTS talent_skills (
			talent_id INT NOT NULL REFERENCES talents(id) ON DELETE CASCADE,
			skill_id INT NOT NULL REFERENCES skills(id),
			PRIMARY KEY (talent_id, skill_id)
			)`,
		`CREATE TABLE IF NOT EXISTS languages (
			id SERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
			)`,
		`CREATE TABLE IF NOT EXISTS talent_languages (
			talent_id INT NOT NULL REFERENCES talents(id) ON DELETE CASCADE,
			language_id INT NOT NULL REFERENCES languages(id),
			PRIMARY KEY (talent_id, language_id)
			)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id SERIAL PRIMARY KEY,
			talent_id INT NOT NULL REFERENCES talents(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT
			)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			talent_id INT NOT NULL REFERENCES talents(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (user_id, talent_id)
			)`,
		`CREATE TABLE IF NOT EXISTS collaboration_requests (
			id SERIAL PRIMARY KEY,
			sender_id INT NOT NULL REFERENCES users(id),
			receiver_id INT NOT NULL REFERENCES users(id),
			message TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','accepted','rejected')),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
			)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
