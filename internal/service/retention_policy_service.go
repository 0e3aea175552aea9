package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/pkg/utils"
)

// RetentionPolicyService exposes the seeded retention policy table
type RetentionPolicyService struct {
	policyDAO RetentionPolicyStore
}

// NewRetentionPolicyService creates a new retention policy service instance
func NewRetentionPolicyService(policyDAO RetentionPolicyStore) *RetentionPolicyService {
	return &RetentionPolicyService{policyDAO: policyDAO}
}

// ListPolicies returns every retention policy
func (s *RetentionPolicyService) ListPolicies(ctx context.Context) ([]models.DataRetentionPolicy, error) {
	policies, err := s.policyDAO.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list retention policies: %w", err)
	}
	return policies, nil
}

// GetPolicy returns the policy of one data type
func (s *RetentionPolicyService) GetPolicy(ctx context.Context, dataType string) (*models.DataRetentionPolicy, error) {
	if err := utils.ValidateID("dataType", dataType); err != nil {
		return nil, validationErrorf("%v", err)
	}

	policy, err := s.policyDAO.GetByDataType(ctx, dataType)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErrorf("retention policy %s", dataType)
		}
		return nil, fmt.Errorf("failed to get retention policy: %w", err)
	}
	return policy, nil
}
