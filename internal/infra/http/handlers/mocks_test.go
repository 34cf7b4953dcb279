package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/infra/integration/telegram"
	"github.com/northpeak-digital/agency-api/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockLeadCreator struct{ mock.Mock }

func (m *MockLeadCreator) Execute(ctx context.Context, input usecase.CreateLeadInput) (*usecase.CreateLeadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateLeadOutput), args.Error(1)
}

type MockAuthenticator struct{ mock.Mock }

func (m *MockAuthenticator) RequestCode(ctx context.Context, input usecase.RequestCodeInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAuthenticator) VerifyCode(ctx context.Context, input usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.VerifyCodeOutput), args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockGenerator struct{ mock.Mock }

func (m *MockGenerator) Execute(ctx context.Context, input usecase.GenerateProposalInput) (*usecase.GenerateProposalOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.GenerateProposalOutput), args.Error(1)
}

type MockLifecycle struct{ mock.Mock }

func (m *MockLifecycle) GetBySlug(ctx context.Context, slug string) (*entity.Proposal, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockLifecycle) SendProposal(ctx context.Context, id string) (*entity.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockLifecycle) MarkViewed(ctx context.Context, slug string) (*usecase.MarkViewedOutput, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.MarkViewedOutput), args.Error(1)
}

func (m *MockLifecycle) ListProposals(ctx context.Context, limit int) ([]*entity.Proposal, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Proposal), args.Error(1)
}

func (m *MockLifecycle) ListLeads(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLifecycle) UpdateLeadStatus(ctx context.Context, leadID string, status entity.LeadStatus) (*entity.Lead, error) {
	args := m.Called(ctx, leadID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLifecycle) MarkLeadLost(ctx context.Context, leadID string) (*entity.Lead, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockCheckout struct{ mock.Mock }

func (m *MockCheckout) Execute(ctx context.Context, input usecase.CheckoutInput) (*usecase.CheckoutOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CheckoutOutput), args.Error(1)
}

type MockSettings struct{ mock.Mock }

func (m *MockSettings) ListAddons(ctx context.Context) ([]*entity.AddonSetting, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entity.AddonSetting), args.Error(1)
}

func (m *MockSettings) ListActiveAddons(ctx context.Context) ([]*entity.AddonSetting, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entity.AddonSetting), args.Error(1)
}

func (m *MockSettings) ListTemplates(ctx context.Context) ([]*entity.IndustryTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entity.IndustryTemplate), args.Error(1)
}

func (m *MockSettings) SaveAddons(ctx context.Context, input usecase.SaveAddonsInput) (*usecase.SaveBatchOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SaveBatchOutput), args.Error(1)
}

func (m *MockSettings) SaveTemplates(ctx context.Context, input usecase.SaveTemplatesInput) (*usecase.SaveBatchOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SaveBatchOutput), args.Error(1)
}

type MockBot struct{ mock.Mock }

func (m *MockBot) SendMessage(ctx context.Context, msg telegram.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockBot) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return m.Called(ctx, callbackID, text).Error(0)
}

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

type stubBroker bool

func (s stubBroker) Healthy() bool { return bool(s) }

type MockResearcher struct{ mock.Mock }

func (m *MockResearcher) Execute(ctx context.Context, input usecase.ResearchKeywordsInput) (*usecase.ResearchKeywordsOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ResearchKeywordsOutput), args.Error(1)
}
