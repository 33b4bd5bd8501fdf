package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"talent-service/internal/models"
	"talent-service/internal/rabbitmq"
	"talent-service/internal/repositories"
)

// MockUserRepository mocks user lookups for services and handlers.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, email, passwordHash, name string) (*models.User, error) {
	args := m.Called(ctx, email, passwordHash, name)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

var _ repositories.UserRepository = (*MockUserRepository)(nil)

// MockCollaborationRepository mocks collaboration-request persistence.
type MockCollaborationRepository struct {
	mock.Mock
}

func (m *MockCollaborationRepository) Insert(ctx context.Context, senderID, receiverID int64, message string) (*models.CollaborationRequest, error) {
	args := m.Called(ctx, senderID, receiverID, message)
	var req *models.CollaborationRequest
	if val := args.Get(0); val != nil {
		req = val.(*models.CollaborationRequest)
	}
	return req, args.Error(1)
}

func (m *MockCollaborationRepository) GetByID(ctx context.Context, id int64) (*models.CollaborationRequest, error) {
	args := m.Called(ctx, id)
	var req *models.CollaborationRequest
	if val := args.Get(0); val != nil {
		req = val.(*models.CollaborationRequest)
	}
	return req, args.Error(1)
}

func (m *MockCollaborationRepository) ListReceived(ctx context.Context, userID int64) ([]models.ReceivedRequest, error) {
	args := m.Called(ctx, userID)
	var reqs []models.ReceivedRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.ReceivedRequest)
	}
	return reqs, args.Error(1)
}

func (m *MockCollaborationRepository) ListSent(ctx context.Context, userID int64) ([]models.SentRequest, error) {
	args := m.Called(ctx, userID)
	var reqs []models.SentRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.SentRequest)
	}
	return reqs, args.Error(1)
}

func (m *MockCollaborationRepository) CountPending(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollaborationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCollaborationRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCollaborationRepository) HasPending(ctx context.Context, senderID, receiverID int64) (bool, error) {
	args := m.Called(ctx, senderID, receiverID)
	return args.Bool(0), args.Error(1)
}

var _ repositories.CollaborationRepository = (*MockCollaborationRepository)(nil)

// MockTalentRepository mocks the talent directory persistence.
type MockTalentRepository struct {
	mock.Mock
}

func (m *MockTalentRepository) Create(ctx context.Context, userID int64, input repositories.TalentInput) (*models.Talent, error) {
	args := m.Called(ctx, userID, input)
	var talent *models.Talent
	if val := args.Get(0); val != nil {
		talent = val.(*models.Talent)
	}
	return talent, args.Error(1)
}

func (m *MockTalentRepository) GetByID(ctx context.Context, id int64) (*models.Talent, error) {
	args := m.Called(ctx, id)
	var talent *models.Talent
	if val := args.Get(0); val != nil {
		talent = val.(*models.Talent)
	}
	return talent, args.Error(1)
}

func (m *MockTalentRepository) List(ctx context.Context, filter repositories.TalentFilter) ([]models.Talent, error) {
	args := m.Called(ctx, filter)
	var talents []models.Talent
	if val := args.Get(0); val != nil {
		talents = val.([]models.Talent)
	}
	return talents, args.Error(1)
}

func (m *MockTalentRepository) Update(ctx context.Context, id int64, input repositories.TalentInput) (*models.Talent, error) {
	args := m.Called(ctx, id, input)
	var talent *models.Talent
	if val := args.Get(0); val != nil {
		talent = val.(*models.Talent)
	}
	return talent, args.Error(1)
}

func (m *MockTalentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTalentRepository) Stats(ctx context.Context) (*models.DirectoryStats, error) {
	args := m.Called(ctx)
	var stats *models.DirectoryStats
	if val := args.Get(0); val != nil {
		stats = val.(*models.DirectoryStats)
	}
	return stats, args.Error(1)
}

func (m *MockTalentRepository) TopSkills(ctx context.Context, limit int) ([]models.SkillUsage, error) {
	args := m.Called(ctx, limit)
	var skills []models.SkillUsage
	if val := args.Get(0); val != nil {
		skills = val.([]models.SkillUsage)
	}
	return skills, args.Error(1)
}

func (m *MockTalentRepository) AddFavorite(ctx context.Context, userID, talentID int64) error {
	args := m.Called(ctx, userID, talentID)
	return args.Error(0)
}

func (m *MockTalentRepository) RemoveFavorite(ctx context.Context, userID, talentID int64) error {
	args := m.Called(ctx, userID, talentID)
	return args.Error(0)
}

func (m *MockTalentRepository) ListFavorites(ctx context.Context, userID int64) ([]models.Talent, error) {
	args := m.Called(ctx, userID)
	var talents []models.Talent
	if val := args.Get(0); val != nil {
		talents = val.([]models.Talent)
	}
	return talents, args.Error(1)
}

var _ repositories.TalentRepository = (*MockTalentRepository)(nil)

// MockPublisher mocks RabbitMQ publisher behavior.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ rabbitmq.Publisher = (*MockPublisher)(nil)
