package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"talent-service/internal/models"
)

// TalentFilter shapes the directory listing query.
type TalentFilter struct {
	Search   string
	Skill    string
	Location string
	Verified bool
	Sort     string // "name" or "recent"
}

// TalentInput carries the writable fields of a talent profile. Nil slices on
// update mean "leave associations untouched"; empty slices clear them.
type TalentInput struct {
	Name      string
	Email     string
	Bio       string
	Location  string
	LinkedIn  string
	GitHub    string
	Skills    []string
	Languages []string
	Projects  []models.Project
}

type TalentRepository interface {
	Create(ctx context.Context, userID int64, input TalentInput) (*models.Talent, error)
	GetByID(ctx context.Context, id int64) (*models.Talent, error)
	List(ctx context.Context, filter TalentFilter) ([]models.Talent, error)
	Update(ctx context.Context, id int64, input TalentInput) (*models.Talent, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.DirectoryStats, error)
	TopSkills(ctx context.Context, limit int) ([]models.SkillUsage, error)
	AddFavorite(ctx context.Context, userID, talentID int64) error
	RemoveFavorite(ctx context.Context, userID, talentID int64) error
	ListFavorites(ctx context.Context, userID int64) ([]models.Talent, error)
}

type talentRepository struct {
	db *sqlx.DB
}

func NewTalentRepository(db *sqlx.DB) TalentRepository {
	return &talentRepository{db: db}
}

func (r *talentRepository) Create(ctx context.Context, userID int64, input TalentInput) (*models.Talent, error) {
	var talentID int64
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
INSERT INTO talents (user_id, name, email, bio, location, linkedin, github)
VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), NULLIF($7,''))
RETURNING id
`, userID, input.Name, input.Email, input.Bio, input.Location, input.LinkedIn, input.GitHub).Scan(&talentID)
		if err != nil {
			return err
		}

		if err := r.linkTags(ctx, tx, talentID, "skills", "talent_skills", "skill_id", input.Skills); err != nil {
			return err
		}
		if err := r.linkTags(ctx, tx, talentID, "languages", "talent_languages", "language_id", input.Languages); err != nil {
			return err
		}
		return r.insertProjects(ctx, tx, talentID, input.Projects)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, talentID)
}

func (r *talentRepository) GetByID(ctx context.Context, id int64) (*models.Talent, error) {
	var talent models.Talent
	err := r.db.GetContext(ctx, &talent, `
SELECT id, user_id, name, email, bio, location, linkedin, github, verified, created_at, updated_at
FROM talents
WHERE id=$1
`, id)
	if err != nil {
		return nil, err
	}
	if err := r.enrich(ctx, &talent); err != nil {
		return nil, err
	}
	return &talent, nil
}

func (r *talentRepository) List(ctx context.Context, filter TalentFilter) ([]models.Talent, error) {
	query := `
SELECT id, user_id, name, email, bio, location, linkedin, github, verified, created_at, updated_at
FROM talents
WHERE 1=1`
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR bio ILIKE $%d)", len(args), len(args))
	}
	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		query += fmt.Sprintf(" AND location ILIKE $%d", len(args))
	}
	if filter.Verified {
		query += " AND verified = TRUE"
	}
	if filter.Skill != "" {
		args = append(args, filter.Skill)
		query += fmt.Sprintf(` AND id IN (
SELECT ts.talent_id FROM talent_skills ts
JOIN skills s ON s.id = ts.skill_id
WHERE LOWER(s.name) = LOWER($%d)
)`, len(args))
	}

	if filter.Sort == "recent" {
		query += " ORDER BY created_at DESC"
	} else {
		query += " ORDER BY name ASC"
	}

	var talents []models.Talent
	if err := r.db.SelectContext(ctx, &talents, query, args...); err != nil {
		return nil, err
	}
	for i := range talents {
		if err := r.enrich(ctx, &talents[i]); err != nil {
			return nil, err
		}
	}
	return talents, nil
}

func (r *talentRepository) Update(ctx context.Context, id int64, input TalentInput) (*models.Talent, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE talents
SET name = COALESCE(NULLIF($2,''), name),
    email = COALESCE(NULLIF($3,''), email),
    bio = COALESCE(NULLIF($4,''), bio),
    location = COALESCE(NULLIF($5,''), location),
    linkedin = COALESCE(NULLIF($6,''), linkedin),
    github = COALESCE(NULLIF($7,''), github),
    updated_at = NOW()
WHERE id=$1
`, id, input.Name, input.Email, input.Bio, input.Location, input.LinkedIn, input.GitHub)
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

		if input.Skills != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM talent_skills WHERE talent_id=$1`, id); err != nil {
				return err
			}
			if err := r.linkTags(ctx, tx, id, "skills", "talent_skills", "skill_id", input.Skills); err != nil {
				return err
			}
		}
		if input.Languages != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM talent_languages WHERE talent_id=$1`, id); err != nil {
				return err
			}
			if err := r.linkTags(ctx, tx, id, "languages", "talent_languages", "language_id", input.Languages); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *talentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM talents WHERE id=$1`, id)
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

func (r *talentRepository) Stats(ctx context.Context) (*models.DirectoryStats, error) {
	var stats models.DirectoryStats
	err := r.db.GetContext(ctx, &stats, `
SELECT
  (SELECT COUNT(*) FROM talents) AS total_talents,
  (SELECT COUNT(*) FROM talents WHERE verified = TRUE) AS verified_talents,
  (SELECT COUNT(*) FROM skills) AS total_skills,
  (SELECT COUNT(*) FROM languages) AS total_languages,
  (SELECT COUNT(DISTINCT location) FROM talents WHERE location IS NOT NULL) AS cities,
  (SELECT COUNT(*) FROM projects) AS total_projects
`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *talentRepository) TopSkills(ctx context.Context, limit int) ([]models.SkillUsage, error) {
	var skills []models.SkillUsage
	err := r.db.SelectContext(ctx, &skills, `
SELECT s.name, COUNT(ts.talent_id) AS count
FROM skills s
LEFT JOIN talent_skills ts ON s.id = ts.skill_id
GROUP BY s.id
ORDER BY count DESC
LIMIT $1
`, limit)
	return skills, err
}

func (r *talentRepository) AddFavorite(ctx context.Context, userID, talentID int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO favorites (user_id, talent_id) VALUES ($1, $2)
ON CONFLICT (user_id, talent_id) DO NOTHING
`, userID, talentID)
	return err
}

func (r *talentRepository) RemoveFavorite(ctx context.Context, userID, talentID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id=$1 AND talent_id=$2`, userID, talentID)
	return err
}

func (r *talentRepository) ListFavorites(ctx context.Context, userID int64) ([]models.Talent, error) {
	var talents []models.Talent
	err := r.db.SelectContext(ctx, &talents, `
SELECT t.id, t.user_id, t.name, t.email, t.bio, t.location, t.linkedin, t.github, t.verified, t.created_at, t.updated_at
FROM talents t
JOIN favorites f ON t.id = f.talent_id
WHERE f.user_id=$1
`, userID)
	if err != nil {
		return nil, err
	}
	for i := range talents {
		if err := r.enrich(ctx, &talents[i]); err != nil {
			return nil, err
		}
	}
	return talents, nil
}

// linkTags resolves each tag name to a row in tagTable (find-or-create,
// case-insensitive match keeping the first-seen casing) and links it.
func (r *talentRepository) linkTags(ctx context.Context, tx *sqlx.Tx, talentID int64, tagTable, linkTable, linkColumn string, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tagID int64
		err := tx.GetContext(ctx, &tagID, fmt.Sprintf(`SELECT id FROM %s WHERE LOWER(name) = LOWER($1)`, tagTable), name)
		if err != nil {
			if err != sql.ErrNoRows {
				return err
			}
			if err := tx.QueryRowxContext(ctx, fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id`, tagTable), name).Scan(&tagID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (talent_id, %s) VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, linkTable, linkColumn), talentID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func (r *talentRepository) insertProjects(ctx context.Context, tx *sqlx.Tx, talentID int64, projects []models.Project) error {
	for _, p := range projects {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO projects (talent_id, title, description) VALUES ($1, $2, $3)
`, talentID, p.Title, p.Description); err != nil {
			return err
		}
	}
	return nil
}

func (r *talentRepository) enrich(ctx context.Context, talent *models.Talent) error {
	if err := r.db.SelectContext(ctx, &talent.Skills, `
SELECT s.name FROM skills s
JOIN talent_skills ts ON s.id = ts.skill_id
WHERE ts.talent_id=$1
`, talent.ID); err != nil {
		return err
	}

	if err := r.db.SelectContext(ctx, &talent.Languages, `
SELECT l.name FROM languages l
JOIN talent_languages tl ON l.id = tl.language_id
WHERE tl.talent_id=$1
`, talent.ID); err != nil {
		return err
	}

	if err := r.db.SelectContext(ctx, &talent.Projects, `
SELECT id, talent_id, title, description FROM projects WHERE talent_id=$1
`, talent.ID); err != nil {
		return err
	}

	if talent.Skills == nil {
		talent.Skills = []string{}
	}
	if talent.Languages == nil {
		talent.Languages = []string{}
	}
	if talent.Projects == nil {
		talent.Projects = []models.Project{}
	}
	return nil
}

func (r *talentRepository) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
