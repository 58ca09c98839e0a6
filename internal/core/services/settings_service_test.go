package services

import (
	"context"
	"testing"

	"quickpaisa-backend/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActiveSnapshotFallsBackToDefault(t *testing.T) {
	service := NewSettingsService(newFakeSettingsRepo())

	snapshot, err := service.GetActiveSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 18, snapshot.MinAge)
	assert.Equal(t, 60, snapshot.MaxAge)
	assert.Equal(t, 30, snapshot.LowRiskThreshold)
	assert.Equal(t, 60, snapshot.MediumRiskThreshold)
	assert.False(t, snapshot.AutoRoutingEnabled)
	assert.Equal(t, 25000.0, snapshot.MaxAutoApprovalAmount)
}

func TestGetActiveReturnsErrorWhenUnconfigured(t *testing.T) {
	service := NewSettingsService(newFakeSettingsRepo())

	_, err := service.GetActive(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSettings)
}

func TestUpdateRejectsInvalidPolicy(t *testing.T) {
	repo := newFakeSettingsRepo()
	service := NewSettingsService(repo)

	cases := []struct {
		name  string
		input SettingsInput
	}{
		{
			name: "min age above max age",
			input: SettingsInput{
				MinAge: 65, MaxAge: 60,
				LowRiskThreshold: 30, MediumRiskThreshold: 60,
			},
		},
		{
			name: "low threshold above medium",
			input: SettingsInput{
				MinAge: 18, MaxAge: 60,
				LowRiskThreshold: 70, MediumRiskThreshold: 60,
			},
		},
		{
			name: "negative auto approval amount",
			input: SettingsInput{
				MinAge: 18, MaxAge: 60,
				LowRiskThreshold: 30, MediumRiskThreshold: 60,
				MaxAutoApprovalAmount: -1,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Update(context.Background(), &tc.input, 1)
			assert.Error(t, err)
		})
	}

	// Invalid updates must not touch the stored rows
	assert.Empty(t, repo.rows)
}

func TestUpdateActivatesNewRowAndDeactivatesOld(t *testing.T) {
	repo := newFakeSettingsRepo()
	service := NewSettingsService(repo)

	old := &models.RiskSettings{
		MinAge: 18, MaxAge: 60,
		LowRiskThreshold: 30, MediumRiskThreshold: 60,
		IsActive: true,
	}
	require.NoError(t, repo.Create(context.Background(), old))

	updated, err := service.Update(context.Background(), &SettingsInput{
		MinAge: 21, MaxAge: 58,
		LowRiskThreshold: 25, MediumRiskThreshold: 55,
		AutoRoutingEnabled:    true,
		MaxAutoApprovalAmount: 15000,
	}, 42)
	require.NoError(t, err)

	assert.True(t, updated.IsActive)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, uint(42), *updated.UpdatedBy)
	assert.False(t, old.IsActive)

	// The new row is what the decision flow now sees
	snapshot, err := service.GetActiveSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 21, snapshot.MinAge)
	assert.Equal(t, 25, snapshot.LowRiskThreshold)
	assert.True(t, snapshot.AutoRoutingEnabled)
	assert.Equal(t, 15000.0, snapshot.MaxAutoApprovalAmount)
}

func TestToSnapshotCopiesEveryField(t *testing.T) {
	settings := &models.RiskSettings{
		MinAge: 21, MaxAge: 55,
		MinCreditScore:        650,
		LowRiskThreshold:      20,
		MediumRiskThreshold:   50,
		AutoRoutingEnabled:    true,
		MaxAutoApprovalAmount: 10000,
	}

	snapshot := ToSnapshot(settings)

	assert.Equal(t, 21, snapshot.MinAge)
	assert.Equal(t, 55, snapshot.MaxAge)
	assert.Equal(t, 650, snapshot.MinCreditScore)
	assert.Equal(t, 20, snapshot.LowRiskThreshold)
	assert.Equal(t, 50, snapshot.MediumRiskThreshold)
	assert.True(t, snapshot.AutoRoutingEnabled)
	assert.Equal(t, 10000.0, snapshot.MaxAutoApprovalAmount)
}
