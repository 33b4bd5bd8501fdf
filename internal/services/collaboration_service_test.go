package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"talent-service/internal/mocks"
	"talent-service/internal/models"
)

func newTestService(requests *mocks.MockCollaborationRepository, users *mocks.MockUserRepository) *CollaborationService {
	return NewCollaborationService(requests, users, nil)
}

func TestCreateRejectsEmptyMessage(t *testing.T) {
	svc := newTestService(new(mocks.MockCollaborationRepository), new(mocks.MockUserRepository))

	_, err := svc.Create(context.Background(), 1, 2, "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestCreateRejectsSelfRequest(t *testing.T) {
	svc := newTestService(new(mocks.MockCollaborationRepository), new(mocks.MockUserRepository))

	_, err := svc.Create(context.Background(), 7, 7, "work with me")
	require.ErrorIs(t, err, ErrSelfRequest)
}

func TestCreateRejectsUnknownReceiver(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, int64(2)).Return(nil, sql.ErrNoRows).Once()
	svc := newTestService(new(mocks.MockCollaborationRepository), users)

	_, err := svc.Create(context.Background(), 1, 2, "hello")
	require.ErrorIs(t, err, ErrReceiverNotFound)
	users.AssertExpectations(t)
}

func TestCreateRejectsDuplicatePending(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2}, nil).Once()
	requests := new(mocks.MockCollaborationRepository)
	requests.On("HasPending", mock.Anything, int64(1), int64(2)).Return(true, nil).Once()
	svc := newTestService(requests, users)

	_, err := svc.Create(context.Background(), 1, 2, "hello")
	require.ErrorIs(t, err, ErrPendingExists)
	requests.AssertExpectations(t)
}

func TestCreateTrimsMessage(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2}, nil).Once()
	requests := new(mocks.MockCollaborationRepository)
	requests.On("HasPending", mock.Anything, int64(1), int64(2)).Return(false, nil).Once()
	requests.On("Insert", mock.Anything, int64(1), int64(2), "hello").
		Return(&models.CollaborationRequest{ID: 9, SenderID: 1, ReceiverID: 2, Message: "hello", Status: models.StatusPending}, nil).Once()
	svc := newTestService(requests, users)

	req, err := svc.Create(context.Background(), 1, 2, "  hello  ")
	require.NoError(t, err)
	require.Equal(t, int64(9), req.ID)
	require.Equal(t, models.StatusPending, req.Status)
	requests.AssertExpectations(t)
}

func TestAcceptUnknownRequest(t *testing.T) {
	requests := new(mocks.MockCollaborationRepository)
	requests.On("GetByID", mock.Anything, int64(55)).Return(nil, sql.ErrNoRows).Once()
	svc := newTestService(requests, new(mocks.MockUserRepository))

	err := svc.Accept(context.Background(), 55, 2)
	require.ErrorIs(t, err, ErrRequestNotFound)
}

func TestAcceptByNonReceiverForbidden(t *testing.T) {
	requests := new(mocks.MockCollaborationRepository)
	requests.On("GetByID", mock.Anything, int64(5)).
		Return(&models.CollaborationRequest{ID: 5, SenderID: 1, ReceiverID: 2, Status: models.StatusPending}, nil).Twice()
	svc := newTestService(requests, new(mocks.MockUserRepository))

	// Neither the sender nor a third party may resolve the request.
	require.ErrorIs(t, svc.Accept(context.Background(), 5, 1), ErrNotReceiver)
	require.ErrorIs(t, svc.Reject(context.Background(), 5, 3), ErrNotReceiver)
}

func TestAcceptAlreadyResolved(t *testing.T) {
	requests := new(mocks.MockCollaborationRepository)
	requests.On("GetByID", mock.Anything, int64(5)).
		Return(&models.CollaborationRequest{ID: 5, SenderID: 1, ReceiverID: 2, Status: models.StatusAccepted}, nil).Twice()
	svc := newTestService(requests, new(mocks.MockUserRepository))

	require.ErrorIs(t, svc.Accept(context.Background(), 5, 2), ErrAlreadyResolved)
	require.ErrorIs(t, svc.Reject(context.Background(), 5, 2), ErrAlreadyResolved)
}

func TestAcceptLosesRaceAgainstOtherResolution(t *testing.T) {
	requests := new(mocks.MockCollaborationRepository)
	requests.On("GetByID", mock.Anything, int64(5)).
		Return(&models.CollaborationRequest{ID: 5, SenderID: 1, ReceiverID: 2, Status: models.StatusPending}, nil).Once()
	requests.On("UpdateStatus", mock.Anything, int64(5), models.StatusAccepted).Return(sql.ErrNoRows).Once()
	svc := newTestService(requests, new(mocks.MockUserRepository))

	require.ErrorIs(t, svc.Accept(context.Background(), 5, 2), ErrAlreadyResolved)
	requests.AssertExpectations(t)
}

func TestAcceptPublishesEvent(t *testing.T) {
	requests := new(mocks.MockCollaborationRepository)
	requests.On("GetByID", mock.Anything, int64(5)).
		Return(&models.CollaborationRequest{ID: 5, SenderID: 1, ReceiverID: 2, Status: models.StatusPending}, nil).Once()
	requests.On("UpdateStatus", mock.Anything, int64(5), models.StatusAccepted).Return(nil).Once()
	publisher := new(mocks.MockPublisher)
	publisher.On("Publish", mock.Anything, "collaboration.request.accepted", mock.Anything).Return(nil).Once()

	svc := NewCollaborationService(requests, new(mocks.MockUserRepository), publisher)
	require.NoError(t, svc.Accept(context.Background(), 5, 2))
	publisher.AssertExpectations(t)
}

func TestRemoveByNonSenderForbidden(t *testing.T) {
	requests := new(mocks.MockCollaborationRepository)
	requests.On("GetByID", mock.Anything, int64(5)).
		Return(&models.CollaborationRequest{ID: 5, SenderID: 1, ReceiverID: 2, Status: models.StatusPending}, nil).Once()
	svc := newTestService(requests, new(mocks.MockUserRepository))

	require.ErrorIs(t, svc.Remove(context.Background(), 5, 2), ErrNotSender)
}

func TestRemoveResolvedRequestAllowed(t *testing.T) {
	requests := new(mocks.MockCollaborationRepository)
	requests.On("GetByID", mock.Anything, int64(5)).
		Return(&models.CollaborationRequest{ID: 5, SenderID: 1, ReceiverID: 2, Status: models.StatusRejected}, nil).Once()
	requests.On("Delete", mock.Anything, int64(5)).Return(nil).Once()
	svc := newTestService(requests, new(mocks.MockUserRepository))

	require.NoError(t, svc.Remove(context.Background(), 5, 1))
	requests.AssertExpectations(t)
}

// fakeCollabRepo is a stateful in-memory repository for lifecycle scenarios
// that span several operations.
type fakeCollabRepo struct {
	mu     sync.Mutex
	nextID int64
	reqs   map[int64]*models.CollaborationRequest
}

func newFakeCollabRepo() *fakeCollabRepo {
	return &fakeCollabRepo{nextID: 1, reqs: map[int64]*models.CollaborationRequest{}}
}

func (f *fakeCollabRepo) Insert(ctx context.Context, senderID, receiverID int64, message string) (*models.CollaborationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req := &models.CollaborationRequest{
		ID:         f.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
		Status:     models.StatusPending,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	f.reqs[req.ID] = req
	f.nextID++
	return req, nil
}

func (f *fakeCollabRepo) GetByID(ctx context.Context, id int64) (*models.CollaborationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.reqs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *req
	return &clone, nil
}

func (f *fakeCollabRepo) ListReceived(ctx context.Context, userID int64) ([]models.ReceivedRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ReceivedRequest
	for _, req := range f.reqs {
		if req.ReceiverID == userID {
			out = append(out, models.ReceivedRequest{CollaborationRequest: *req})
		}
	}
	return out, nil
}

func (f *fakeCollabRepo) ListSent(ctx context.Context, userID int64) ([]models.SentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SentRequest
	for _, req := range f.reqs {
		if req.SenderID == userID {
			out = append(out, models.SentRequest{CollaborationRequest: *req})
		}
	}
	return out, nil
}

func (f *fakeCollabRepo) CountPending(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, req := range f.reqs {
		if req.ReceiverID == userID && req.Status == models.StatusPending {
			count++
		}
	}
	return count, nil
}

func (f *fakeCollabRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.reqs[id]
	if !ok || req.Status != models.StatusPending {
		return sql.ErrNoRows
	}
	req.Status = status
	req.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeCollabRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reqs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.reqs, id)
	return nil
}

func (f *fakeCollabRepo) HasPending(ctx context.Context, senderID, receiverID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.reqs {
		if req.SenderID == senderID && req.ReceiverID == receiverID && req.Status == models.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func scenarioService(t *testing.T) (*CollaborationService, *fakeCollabRepo) {
	t.Helper()
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, mock.Anything).Return(&models.User{ID: 2}, nil)
	repo := newFakeCollabRepo()
	return NewCollaborationService(repo, users, nil), repo
}

func TestScenarioAcceptClearsPendingCount(t *testing.T) {
	svc, _ := scenarioService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, 1, 2, "Let's build X")
	require.NoError(t, err)

	count, err := svc.CountPending(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.NoError(t, svc.Accept(ctx, req.ID, 2))

	count, err = svc.CountPending(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	sent, err := svc.ListSent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Equal(t, models.StatusAccepted, sent[0].Status)

	// A second resolution attempt fails predictably instead of silently succeeding.
	require.ErrorIs(t, svc.Accept(ctx, req.ID, 2), ErrAlreadyResolved)
}

func TestScenarioRetryAfterRejection(t *testing.T) {
	svc, _ := scenarioService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, 1, 2, "first try")
	require.NoError(t, err)

	// A second attempt while the first is pending conflicts.
	_, err = svc.Create(ctx, 1, 2, "second try")
	require.ErrorIs(t, err, ErrPendingExists)

	require.NoError(t, svc.Reject(ctx, req.ID, 2))

	// No pending conflict remains after rejection.
	again, err := svc.Create(ctx, 1, 2, "third try")
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, again.Status)

	count, err := svc.CountPending(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestScenarioListReceivedReflectsTransitions(t *testing.T) {
	svc, _ := scenarioService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, 1, 2, "ping")
	require.NoError(t, err)

	received, err := svc.ListReceived(ctx, 2)
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.Equal(t, int64(1), received[0].SenderID)
	require.Equal(t, models.StatusPending, received[0].Status)

	require.NoError(t, svc.Accept(ctx, req.ID, 2))

	received, err = svc.ListReceived(ctx, 2)
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.Equal(t, models.StatusAccepted, received[0].Status)
}

func TestScenarioSenderRemovesOwnRequest(t *testing.T) {
	svc, repo := scenarioService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, 1, 2, "to be removed")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Remove(ctx, req.ID, 2), ErrNotSender)
	require.NoError(t, svc.Remove(ctx, req.ID, 1))

	_, err = repo.GetByID(ctx, req.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)

	require.ErrorIs(t, svc.Remove(ctx, req.ID, 1), ErrRequestNotFound)
}
