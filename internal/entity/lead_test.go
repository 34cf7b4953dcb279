package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tierPtr(t Tier) *Tier { return &t }

func TestNewLeadDefaultsToAudit(t *testing.T) {
	lead, err := NewLead("Jane Doe", "jane@x.com", IndustryMedical, "", nil)

	require.NoError(t, err)
	assert.Equal(t, LeadTypeAudit, lead.LeadType)
	assert.Equal(t, LeadStatusNew, lead.Status)
	assert.Nil(t, lead.SelectedTier)
	assert.NotEmpty(t, lead.ID)
}

func TestNewLeadPackageTierInvariant(t *testing.T) {
	cases := []struct {
		name     string
		leadType LeadType
		tier     *Tier
		wantErr  error
	}{
		{"package without tier", LeadTypePackage, nil, ErrTierRequired},
		{"audit with tier", LeadTypeAudit, tierPtr(TierGrowth), ErrTierNotAllowed},
		{"package with tier", LeadTypePackage, tierPtr(TierDominate), nil},
		{"audit without tier", LeadTypeAudit, nil, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLead("Jane", "jane@x.com", IndustryVenue, tc.leadType, tc.tier)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewLeadRejectsUnknownTier(t *testing.T) {
	_, err := NewLead("Jane", "jane@x.com", IndustryVenue, LeadTypePackage, tierPtr("platinum"))
	assert.Error(t, err)
}

func TestLeadStatusCanAdvanceTo(t *testing.T) {
	assert.True(t, LeadStatusNew.CanAdvanceTo(LeadStatusContacted))
	assert.True(t, LeadStatusNew.CanAdvanceTo(LeadStatusProposalSent))
	assert.True(t, LeadStatusProposalSent.CanAdvanceTo(LeadStatusLost))
	assert.True(t, LeadStatusProposalSent.CanAdvanceTo(LeadStatusSigned))

	assert.False(t, LeadStatusContacted.CanAdvanceTo(LeadStatusNew))
	assert.False(t, LeadStatusProposalSent.CanAdvanceTo(LeadStatusProposalCreated))
	assert.False(t, LeadStatusSigned.CanAdvanceTo(LeadStatusLost))
	assert.False(t, LeadStatusLost.CanAdvanceTo(LeadStatusContacted))
	assert.False(t, LeadStatusNew.CanAdvanceTo(LeadStatusNew))
}
