package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

func TestCreateLeadUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("Audit lead by default", func(t *testing.T) {
		repo := new(MockLeadRepository)
		repo.On("Create", ctx, mock.AnythingOfType("*entity.Lead"), mock.MatchedBy(func(intents []*entity.NotificationIntent) bool {
			return len(intents) == 1 && intents[0].Kind == entity.NotificationLeadCreated
		})).Return(nil)

		out, err := NewCreateLeadUseCase(repo, testLogger()).Execute(ctx, CreateLeadInput{
			Name:     "Jane Doe",
			Email:    "jane@x.com",
			Industry: "medical",
		})

		require.NoError(t, err)
		assert.True(t, out.Success)
		assert.Equal(t, entity.LeadTypeAudit, out.Lead.LeadType)
		assert.Equal(t, entity.LeadStatusNew, out.Lead.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Package lead without tier is rejected before any insert", func(t *testing.T) {
		repo := new(MockLeadRepository)

		_, err := NewCreateLeadUseCase(repo, testLogger()).Execute(ctx, CreateLeadInput{
			Name:     "Jane Doe",
			Email:    "jane@x.com",
			Industry: "medical",
			LeadType: "package",
		})

		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, CodeValidation, de.Code)
		assert.Equal(t, "selected_tier", de.Fields[0].Field)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Package lead keeps tier and attribution", func(t *testing.T) {
		gofakeit.Seed(3)
		input := CreateLeadInput{
			Name:         gofakeit.Name(),
			Email:        gofakeit.Email(),
			Company:      gofakeit.Company(),
			Industry:     "venue",
			LeadType:     "package",
			SelectedTier: "growth",
			Phone:        "(702) 734-1234",
			UTMSource:    "google",
			UTMCampaign:  "spring",
		}
		repo := new(MockLeadRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(l *entity.Lead) bool {
			return l.SelectedTier != nil && *l.SelectedTier == entity.TierGrowth &&
				l.Attribution.UTMCampaign == "spring" && l.Phone != ""
		}), mock.Anything).Return(nil)

		out, err := NewCreateLeadUseCase(repo, testLogger()).Execute(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, entity.LeadTypePackage, out.Lead.LeadType)
		repo.AssertExpectations(t)
	})

	t.Run("Organic audit requires business size", func(t *testing.T) {
		repo := new(MockLeadRepository)

		_, err := NewCreateLeadUseCase(repo, testLogger()).Execute(ctx, CreateLeadInput{
			Name:     "Jane Doe",
			Email:    "jane@x.com",
			Industry: "medical",
			FormType: FormTypeOrganicAudit,
		})

		assert.True(t, IsDomainError(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Database failure is technical", func(t *testing.T) {
		repo := new(MockLeadRepository)
		repo.On("Create", ctx, mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := NewCreateLeadUseCase(repo, testLogger()).Execute(ctx, CreateLeadInput{
			Name: "Jane Doe", Email: "jane@x.com", Industry: "medical",
		})

		var te *TechnicalError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "DATABASE_ERROR", te.Code)
	})
}
