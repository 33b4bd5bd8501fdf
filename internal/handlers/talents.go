package handlers

import (
	"context"
	"database/sql"
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"talent-service/internal/models"
	"talent-service/internal/rabbitmq"
	"talent-service/internal/repositories"
)

type TalentHandler struct {
	talents   repositories.TalentRepository
	publisher rabbitmq.Publisher
}

func NewTalentHandler(talents repositories.TalentRepository, publisher rabbitmq.Publisher) *TalentHandler {
	return &TalentHandler{talents: talents, publisher: publisher}
}

type projectBody struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type talentBody struct {
	Name      string        `json:"name" binding:"required"`
	Email     string        `json:"email" binding:"required,email"`
	Bio       string        `json:"bio"`
	Location  string        `json:"location"`
	LinkedIn  string        `json:"linkedin"`
	GitHub    string        `json:"github"`
	Skills    []string      `json:"skills"`
	Languages []string      `json:"languages"`
	Projects  []projectBody `json:"projects"`
}

type talentUpdateBody struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Bio       string   `json:"bio"`
	Location  string   `json:"location"`
	LinkedIn  string   `json:"linkedin"`
	GitHub    string   `json:"github"`
	Skills    []string `json:"skills"`
	Languages []string `json:"languages"`
}

func (h *TalentHandler) List(c *gin.Context) {
	filter := repositories.TalentFilter{
		Search:   c.Query("search"),
		Skill:    c.Query("skill"),
		Location: c.Query("location"),
		Verified: c.Query("verified") == "true",
		Sort:     c.DefaultQuery("sort", "name"),
	}

	talents, err := h.talents.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load talents"})
		return
	}
	if talents == nil {
		talents = []models.Talent{}
	}
	c.JSON(nethttp.StatusOK, talents)
}

func (h *TalentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid talent id"})
		return
	}

	talent, err := h.talents.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "talent not found"})
			return
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load talent"})
		return
	}
	c.JSON(nethttp.StatusOK, talent)
}

func (h *TalentHandler) Create(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body talentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	talent, err := h.talents.Create(ctx, *userID, talentInput(body))
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to create talent"})
		return
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(ctx, "talent.created", map[string]any{
			"talent_id": talent.ID,
			"user_id":   *userID,
			"name":      talent.Name,
		})
	}

	c.JSON(nethttp.StatusCreated, talent)
}

func (h *TalentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid talent id"})
		return
	}

	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	if !h.authorizeOwner(c, ctx, id, *userID) {
		return
	}

	var body talentUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	talent, err := h.talents.Update(ctx, id, repositories.TalentInput{
		Name:      body.Name,
		Email:     body.Email,
		Bio:       body.Bio,
		Location:  body.Location,
		LinkedIn:  body.LinkedIn,
		GitHub:    body.GitHub,
		Skills:    body.Skills,
		Languages: body.Languages,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "talent not found"})
			return
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to update talent"})
		return
	}
	c.JSON(nethttp.StatusOK, talent)
}

func (h *TalentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid talent id"})
		return
	}

	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	if !h.authorizeOwner(c, ctx, id, *userID) {
		return
	}

	if err := h.talents.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "talent not found"})
			return
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to delete talent"})
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"message": "talent deleted"})
}

func (h *TalentHandler) StatsOverview(c *gin.Context) {
	stats, err := h.talents.Stats(c.Request.Context())
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(nethttp.StatusOK, stats)
}

func (h *TalentHandler) TopSkills(c *gin.Context) {
	skills, err := h.talents.TopSkills(c.Request.Context(), 20)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load skills"})
		return
	}
	if skills == nil {
		skills = []models.SkillUsage{}
	}
	c.JSON(nethttp.StatusOK, skills)
}

func (h *TalentHandler) AddFavorite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid talent id"})
		return
	}

	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.talents.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "talent not found"})
			return
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load talent"})
		return
	}

	if err := h.talents.AddFavorite(ctx, *userID, id); err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"message": "added to favorites"})
}

func (h *TalentHandler) RemoveFavorite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid talent id"})
		return
	}

	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.talents.RemoveFavorite(c.Request.Context(), *userID, id); err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"message": "removed from favorites"})
}

func (h *TalentHandler) ListFavorites(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	talents, err := h.talents.ListFavorites(c.Request.Context(), *userID)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load favorites"})
		return
	}
	if talents == nil {
		talents = []models.Talent{}
	}
	c.JSON(nethttp.StatusOK, talents)
}

// authorizeOwner loads the talent and rejects callers that do not own the
// profile. Writes the error response itself and reports whether to continue.
func (h *TalentHandler) authorizeOwner(c *gin.Context, ctx context.Context, talentID, userID int64) bool {
	talent, err := h.talents.GetByID(ctx, talentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "talent not found"})
			return false
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load talent"})
		return false
	}
	if !talent.UserID.Valid || talent.UserID.Int64 != userID {
		c.JSON(nethttp.StatusForbidden, gin.H{"error": "not allowed to modify this talent"})
		return false
	}
	return true
}

func talentInput(body talentBody) repositories.TalentInput {
	projects := make([]models.Project, 0, len(body.Projects))
	for _, p := range body.Projects {
		projects = append(projects, models.Project{
			Title:       p.Title,
			Description: sql.NullString{String: p.Description, Valid: p.Description != ""},
		})
	}
	return repositories.TalentInput{
		Name:      body.Name,
		Email:     body.Email,
		Bio:       body.Bio,
		Location:  body.Location,
		LinkedIn:  body.LinkedIn,
		GitHub:    body.GitHub,
		Skills:    body.Skills,
		Languages: body.Languages,
		Projects:  projects,
	}
}
