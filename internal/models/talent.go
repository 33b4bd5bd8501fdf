package models

import (
	"database/sql"
	"time"
)

type Talent struct {
	ID        int64          `db:"id" json:"id"`
	UserID    sql.NullInt64  `db:"user_id" json:"user_id,omitempty"`
	Name      string         `db:"name" json:"name"`
	Email     string         `db:"email" json:"email"`
	Bio       sql.NullString `db:"bio" json:"bio,omitempty"`
	Location  sql.NullString `db:"location" json:"location,omitempty"`
	LinkedIn  sql.NullString `db:"linkedin" json:"linkedin,omitempty"`
	GitHub    sql.NullString `db:"github" json:"github,omitempty"`
	Verified  bool           `db:"verified" json:"verified"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`

	// Filled by enrichment queries, not scanned from the talents table.
	Skills    []string  `db:"-" json:"skills"`
	Languages []string  `db:"-" json:"languages"`
	Projects  []Project `db:"-" json:"projects"`
}

type Skill struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Language struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Project struct {
	ID          int64          `db:"id" json:"id"`
	TalentID    int64          `db:"talent_id" json:"-"`
	Title       string         `db:"title" json:"title"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
}

// SkillUsage is one row of the popular-skills aggregate.
type SkillUsage struct {
	Name  string `db:"name" json:"name"`
	Count int64  `db:"count" json:"count"`
}

// DirectoryStats is the overview aggregate over the whole directory.
type DirectoryStats struct {
	TotalTalents    int64 `db:"total_talents" json:"totalTalents"`
	VerifiedTalents int64 `db:"verified_talents" json:"verifiedTalents"`
	TotalSkills     int64 `db:"total_skills" json:"totalSkills"`
	TotalLanguages  int64 `db:"total_languages" json:"totalLanguages"`
	Cities          int64 `db:"cities" json:"cities"`
	TotalProjects   int64 `db:"total_projects" json:"totalProjects"`
}
