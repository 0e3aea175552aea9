package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aquiresolve/admin-api/internal/dao"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activeConsent(id, userID string) *models.Consent {
	return &models.Consent{
		ID:          id,
		UserID:      userID,
		UserEmail:   userID + "@example.com",
		ConsentType: models.ConsentMarketingEmail,
		Granted:     true,
		GrantedAt:   1700000000000,
		Version:     "1.0",
	}
}

func TestGrantConsent_DefaultsVersionAndLogsActivity(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	s.ConsentDAO.On("Create", ctx, mock.AnythingOfType("*models.Consent")).Return(nil)
	s.ProcessingLogDAO.On("Create", ctx, mock.MatchedBy(func(e *models.DataProcessingLog) bool {
		return e.Activity == models.ActivityConsentimentoConcedido && e.LegalBasis == models.BasisConsentimento
	})).Return(nil)

	consent, err := s.Consents.GrantConsent(ctx, &GrantConsentRequest{
		UserID:      "user-1",
		UserEmail:   "user-1@example.com",
		ConsentType: models.ConsentMarketingEmail,
		IPAddress:   strPtr("10.0.0.1"),
	})

	require.NoError(t, err)
	assert.Equal(t, "1.0", consent.Version)
	assert.True(t, consent.IsActive())
	assert.Contains(t, consent.ID, "CONSENT-")
	assert.Equal(t, "10.0.0.1", *consent.IPAddress)
	s.ConsentDAO.AssertExpectations(t)
	s.ProcessingLogDAO.AssertExpectations(t)
}

func TestGrantConsent_RejectsUnknownType(t *testing.T) {
	s := NewTestSetup()

	consent, err := s.Consents.GrantConsent(context.Background(), &GrantConsentRequest{
		UserID:      "user-1",
		UserEmail:   "user-1@example.com",
		ConsentType: "newsletter",
	})

	assert.Nil(t, consent)
	assert.ErrorIs(t, err, ErrValidation)
	s.ConsentDAO.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGrantConsent_SucceedsWhenProcessingLogFails(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	s.ConsentDAO.On("Create", ctx, mock.Anything).Return(nil)
	s.ProcessingLogDAO.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))

	consent, err := s.Consents.GrantConsent(ctx, &GrantConsentRequest{
		UserID:      "user-1",
		UserEmail:   "user-1@example.com",
		ConsentType: models.ConsentTermosUso,
		Version:     "2.1",
	})

	require.NoError(t, err)
	assert.Equal(t, "2.1", consent.Version)
	assert.Equal(t, 1.0, testutil.ToFloat64(
		s.Metrics.ProcessingLogFailures.WithLabelValues(string(models.ActivityConsentimentoConcedido))))
}

func TestRevokeConsent_OtherUsersConsentIsNotFound(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	s.ConsentDAO.On("GetByID", ctx, "CONSENT-1").Return(activeConsent("CONSENT-1", "owner"), nil)

	consent, err := s.Consents.RevokeConsent(ctx, "CONSENT-1", "intruder", nil, nil)

	assert.Nil(t, consent)
	assert.ErrorIs(t, err, ErrNotFound)
	s.ConsentDAO.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRevokeConsent_MissingConsentIsNotFound(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	s.ConsentDAO.On("GetByID", ctx, "CONSENT-404").Return(nil, dao.ErrNotFound)

	_, err := s.Consents.RevokeConsent(ctx, "CONSENT-404", "user-1", nil, nil)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevokeConsent_AlreadyRevokedIsConflict(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	revoked := activeConsent("CONSENT-1", "user-1")
	revoked.RevokedAt = int64Ptr(1700000001000)
	s.ConsentDAO.On("GetByID", ctx, "CONSENT-1").Return(revoked, nil)

	_, err := s.Consents.RevokeConsent(ctx, "CONSENT-1", "user-1", nil, nil)

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(1700000001000), *revoked.RevokedAt)
	s.ConsentDAO.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRevokeConsent_LostRaceIsConflict(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	s.ConsentDAO.On("GetByID", ctx, "CONSENT-1").Return(activeConsent("CONSENT-1", "user-1"), nil)
	s.ConsentDAO.On("Revoke", ctx, "CONSENT-1", "user-1", mock.AnythingOfType("int64")).Return(false, nil)

	_, err := s.Consents.RevokeConsent(ctx, "CONSENT-1", "user-1", nil, nil)

	assert.ErrorIs(t, err, ErrConflict)
	s.ProcessingLogDAO.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRevokeConsent_StampsRevokedAt(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	s.ConsentDAO.On("GetByID", ctx, "CONSENT-1").Return(activeConsent("CONSENT-1", "user-1"), nil)
	s.ConsentDAO.On("Revoke", ctx, "CONSENT-1", "user-1", mock.AnythingOfType("int64")).Return(true, nil)
	s.ProcessingLogDAO.On("Create", ctx, mock.MatchedBy(func(e *models.DataProcessingLog) bool {
		return e.Activity == models.ActivityConsentimentoRevogado
	})).Return(nil)

	consent, err := s.Consents.RevokeConsent(ctx, "CONSENT-1", "user-1", nil, nil)

	require.NoError(t, err)
	require.NotNil(t, consent.RevokedAt)
	assert.False(t, consent.IsActive())
	assert.Equal(t, 1.0, testutil.ToFloat64(
		s.Metrics.ConsentsRevoked.WithLabelValues(string(models.ConsentMarketingEmail))))
	s.ProcessingLogDAO.AssertExpectations(t)
}

func TestHasConsent(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	s.ConsentDAO.On("HasActive", ctx, "user-1", models.ConsentMarketingSMS).Return(true, nil)
	s.ConsentDAO.On("HasActive", ctx, "user-2", models.ConsentMarketingSMS).Return(false, nil)

	ok, err := s.Consents.HasConsent(ctx, "user-1", models.ConsentMarketingSMS)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Consents.HasConsent(ctx, "user-2", models.ConsentMarketingSMS)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Consents.HasConsent(ctx, "user-1", "unknown")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetCurrentConsent_NoneActive(t *testing.T) {
	s := NewTestSetup()
	ctx := context.Background()

	s.ConsentDAO.On("GetCurrent", ctx, "user-1", models.ConsentGeolocalizacao).Return(nil, dao.ErrNotFound)

	_, err := s.Consents.GetCurrentConsent(ctx, "user-1", models.ConsentGeolocalizacao)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsentLifecycle_GrantHasRevokeList(t *testing.T) {
	lgpd := newMemLGPD()
	ctx := context.Background()
	grant := func(consentType models.ConsentType) *models.Consent {
		c, err := lgpd.Consents.GrantConsent(ctx, &GrantConsentRequest{
			UserID:      "user-1",
			UserEmail:   "user-1@example.com",
			ConsentType: consentType,
		})
		require.NoError(t, err)
		return c
	}

	has, err := lgpd.Consents.HasConsent(ctx, "user-1", models.ConsentMarketingEmail)
	require.NoError(t, err)
	assert.False(t, has)

	marketing := grant(models.ConsentMarketingEmail)
	terms := grant(models.ConsentTermosUso)

	has, err = lgpd.Consents.HasConsent(ctx, "user-1", models.ConsentMarketingEmail)
	require.NoError(t, err)
	assert.True(t, has)

	_, err = lgpd.Consents.RevokeConsent(ctx, marketing.ID, "user-1", nil, nil)
	require.NoError(t, err)

	has, err = lgpd.Consents.HasConsent(ctx, "user-1", models.ConsentMarketingEmail)
	require.NoError(t, err)
	assert.False(t, has)

	has, err = lgpd.Consents.HasConsent(ctx, "user-1", models.ConsentTermosUso)
	require.NoError(t, err)
	assert.True(t, has, "revoking one type leaves other types active")

	_, err = lgpd.Consents.GetCurrentConsent(ctx, "user-1", models.ConsentMarketingEmail)
	assert.ErrorIs(t, err, ErrNotFound)

	// revoked records stay in the history
	consents, err := lgpd.Consents.GetUserConsents(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, consents, 2)
	byID := map[string]models.Consent{}
	for _, c := range consents {
		byID[c.ID] = c
	}
	assert.True(t, byID[marketing.ID].Granted)
	assert.NotNil(t, byID[marketing.ID].RevokedAt)
	termsConsent := byID[terms.ID]
	assert.True(t, termsConsent.IsActive())

	_, err = lgpd.Consents.RevokeConsent(ctx, marketing.ID, "user-1", nil, nil)
	assert.ErrorIs(t, err, ErrConflict)

	// two grants and one revoke, each with exactly one processing log entry
	logs, err := lgpd.logs.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, models.ActivityConsentimentoRevogado, logs[0].Activity)
	assert.Equal(t, models.ActivityConsentimentoConcedido, logs[1].Activity)
	assert.Equal(t, models.ActivityConsentimentoConcedido, logs[2].Activity)
}

func TestConsentLifecycle_RegrantKeepsTypeActiveAfterOneRevoke(t *testing.T) {
	lgpd := newMemLGPD()
	ctx := context.Background()
	req := &GrantConsentRequest{UserID: "user-1", UserEmail: "user-1@example.com", ConsentType: models.ConsentMarketingSMS}

	first, err := lgpd.Consents.GrantConsent(ctx, req)
	require.NoError(t, err)
	_, err = lgpd.Consents.GrantConsent(ctx, req)
	require.NoError(t, err)

	_, err = lgpd.Consents.RevokeConsent(ctx, first.ID, "user-1", nil, nil)
	require.NoError(t, err)

	has, err := lgpd.Consents.HasConsent(ctx, "user-1", models.ConsentMarketingSMS)
	require.NoError(t, err)
	assert.True(t, has)
}
