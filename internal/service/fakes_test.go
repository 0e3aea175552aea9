package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/aquiresolve/admin-api/internal/dao"
	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
)

// memConsentStore keeps consents in memory with the same active/revoked
// rules the SQL queries apply
type memConsentStore struct {
	mu       sync.Mutex
	consents []models.Consent
}

func (m *memConsentStore) Create(_ context.Context, consent *models.Consent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consents = append(m.consents, *consent)
	return nil
}

func (m *memConsentStore) GetByID(_ context.Context, consentID string) (*models.Consent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.consents {
		if m.consents[i].ID == consentID {
			c := m.consents[i]
			return &c, nil
		}
	}
	return nil, dao.ErrNotFound
}

// ListByUser returns newest grants first; equal timestamps keep the latest insert first
func (m *memConsentStore) ListByUser(_ context.Context, userID string) ([]models.Consent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Consent{}
	for i := len(m.consents) - 1; i >= 0; i-- {
		if m.consents[i].UserID == userID {
			out = append(out, m.consents[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GrantedAt > out[j].GrantedAt })
	return out, nil
}

func (m *memConsentStore) HasActive(ctx context.Context, userID string, consentType models.ConsentType) (bool, error) {
	c, err := m.GetCurrent(ctx, userID, consentType)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return c != nil, nil
}

func (m *memConsentStore) GetCurrent(ctx context.Context, userID string, consentType models.ConsentType) (*models.Consent, error) {
	all, _ := m.ListByUser(ctx, userID)
	for i := range all {
		if all[i].ConsentType == consentType && all[i].IsActive() {
			return &all[i], nil
		}
	}
	return nil, dao.ErrNotFound
}

func (m *memConsentStore) Revoke(_ context.Context, consentID, userID string, revokedAt int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.consents {
		c := &m.consents[i]
		if c.ID == consentID && c.UserID == userID && c.RevokedAt == nil {
			c.RevokedAt = &revokedAt
			c.UpdatedAt = revokedAt
			return true, nil
		}
	}
	return false, nil
}

func (m *memConsentStore) RevokeAllActiveWithTx(_ context.Context, _ *database.Transaction, userID string, revokedAt int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.consents {
		c := &m.consents[i]
		if c.UserID == userID && c.IsActive() {
			c.RevokedAt = &revokedAt
			n++
		}
	}
	return n, nil
}

// memProcessingLogStore is an append-only in-memory processing log
type memProcessingLogStore struct {
	mu      sync.Mutex
	entries []models.DataProcessingLog
}

func (m *memProcessingLogStore) Create(_ context.Context, entry *models.DataProcessingLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memProcessingLogStore) ListByUser(_ context.Context, userID string) ([]models.DataProcessingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.DataProcessingLog{}
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].UserID == userID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

// memWalletStore enforces one movement per event id like the
// PROVIDER_WALLET_MOVEMENT primary key does
type memWalletStore struct {
	mu        sync.Mutex
	balances  map[string]decimal.Decimal
	movements map[string]models.WalletMovement
}

func newMemWalletStore() *memWalletStore {
	return &memWalletStore{
		balances:  map[string]decimal.Decimal{},
		movements: map[string]models.WalletMovement{},
	}
}

func (m *memWalletStore) Get(_ context.Context, providerID string) (*models.ProviderWallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[providerID]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return &models.ProviderWallet{ProviderID: providerID, Balance: balance}, nil
}

func (m *memWalletStore) RecordMovementWithTx(_ context.Context, _ *database.Transaction, movement *models.WalletMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.movements[movement.EventID]; ok {
		return dao.ErrDuplicateMovement
	}
	m.movements[movement.EventID] = *movement
	return nil
}

func (m *memWalletStore) CreditWithTx(_ context.Context, _ *database.Transaction, providerID string, amount decimal.Decimal, _ int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[providerID] = m.balances[providerID].Add(amount)
	return nil
}

func (m *memWalletStore) DebitWithTx(_ context.Context, _ *database.Transaction, providerID string, amount decimal.Decimal, _ int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[providerID].LessThan(amount) {
		return dao.ErrInsufficientBalance
	}
	m.balances[providerID] = m.balances[providerID].Sub(amount)
	return nil
}

// memLGPD wires consent and portability services over the in-memory stores
type memLGPD struct {
	consents    *memConsentStore
	logs        *memProcessingLogStore
	setup       *TestSetup
	Consents    *ConsentService
	Portability *PortabilityService
}

func newMemLGPD() *memLGPD {
	s := NewTestSetup()
	m := &memLGPD{
		consents: &memConsentStore{},
		logs:     &memProcessingLogStore{},
		setup:    s,
	}
	processingLogs := NewProcessingLogService(m.logs, s.Metrics, s.Logger)
	m.Consents = NewConsentService(m.consents, processingLogs, "1.0", s.Metrics, s.Logger)
	m.Portability = NewPortabilityService(s.UserDAO, s.OrderDAO, m.consents, s.RequestDAO, processingLogs, s.Logger)
	return m
}
