package service

import (
	"context"
	"testing"

	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingRequest(id string) *models.DataSubjectRequest {
	return &models.DataSubjectRequest{
		ID:          id,
		UserID:      "user-1",
		UserEmail:   "user-1@example.com",
		RequestType: models.RequestExclusao,
		Status:      models.StatusPendente,
		RequestedAt: 1700000000000,
	}
}

func TestCreateDataSubjectRequest_StartsPending(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	s.RequestDAO.On("Create", ctx, mock.AnythingOfType("*models.DataSubjectRequest")).Return(nil)

	dsr, err := s.Requests.CreateDataSubjectRequest(ctx, &CreateDataRequest{
		UserID:      "user-1",
		UserEmail:   "user-1@example.com",
		RequestType: models.RequestPortabilidade,
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusPendente, dsr.Status)
	assert.Contains(t, dsr.ID, "DSR-")
	assert.Nil(t, dsr.CompletedAt)
}

func TestCreateDataSubjectRequest_RejectsUnknownType(t *testing.T) {
	s := NewTestSetup()

	_, err := s.Requests.CreateDataSubjectRequest(context.Background(), &CreateDataRequest{
		UserID:      "user-1",
		UserEmail:   "user-1@example.com",
		RequestType: "apagar_tudo",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateRequestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.RequestStatus
		to      models.RequestStatus
		reason  *string
		wantErr error
	}{
		{name: "pending to in progress", from: models.StatusPendente, to: models.StatusEmAndamento},
		{name: "in progress to done", from: models.StatusEmAndamento, to: models.StatusConcluido},
		{name: "reject with reason", from: models.StatusPendente, to: models.StatusRejeitado, reason: strPtr("duplicada")},
		{name: "reject without reason", from: models.StatusPendente, to: models.StatusRejeitado, wantErr: ErrValidation},
		{name: "reopen done request", from: models.StatusConcluido, to: models.StatusEmAndamento, wantErr: ErrConflict},
		{name: "backwards", from: models.StatusEmAndamento, to: models.StatusPendente, wantErr: ErrConflict},
		{name: "unknown status", from: models.StatusPendente, to: "arquivado", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTestSetup()
			ctx := context.Background()

			dsr := pendingRequest("DSR-1")
			dsr.Status = tt.from
			s.RequestDAO.On("GetByID", ctx, "DSR-1").Return(dsr, nil)
			s.RequestDAO.On("UpdateStatus", ctx, dsr, tt.from).Return(true, nil)

			updated, err := s.Requests.UpdateRequestStatus(ctx, "DSR-1", &StatusUpdate{
				Status:          tt.to,
				HandledBy:       "dpo@aquiresolve.com.br",
				RejectionReason: tt.reason,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				s.RequestDAO.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
			assert.Equal(t, "dpo@aquiresolve.com.br", *updated.HandledBy)
			assert.Equal(t, tt.to.IsTerminal(), updated.CompletedAt != nil)
		})
	}
}

func TestUpdateRequestStatus_ConcurrentChangeIsConflict(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	dsr := pendingRequest("DSR-1")
	s.RequestDAO.On("GetByID", ctx, "DSR-1").Return(dsr, nil)
	s.RequestDAO.On("UpdateStatus", ctx, dsr, models.StatusPendente).Return(false, nil)

	_, err := s.Requests.ProcessDeletionRequest(ctx, "DSR-1", "admin")

	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateRequestStatus_StoresResponseData(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	dsr := pendingRequest("DSR-1")
	s.RequestDAO.On("GetByID", ctx, "DSR-1").Return(dsr, nil)
	s.RequestDAO.On("UpdateStatus", ctx, dsr, models.StatusPendente).Return(true, nil)

	updated, err := s.Requests.UpdateRequestStatus(ctx, "DSR-1", &StatusUpdate{
		Status:       models.StatusConcluido,
		HandledBy:    "admin",
		Notes:        strPtr("enviado por email"),
		ResponseData: map[string]interface{}{"exportId": "EXP-1"},
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"exportId":"EXP-1"}`, string(updated.ResponseData))
	assert.Equal(t, "enviado por email", *updated.Notes)
}

func TestListRequests_RejectsUnknownStatusFilter(t *testing.T) {
	s := NewTestSetup()

	_, _, err := s.Requests.ListRequests(context.Background(), "arquivado", 20, 0)

	assert.ErrorIs(t, err, ErrValidation)
}
