package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/infra/integration/stripebilling"
	"github.com/northpeak-digital/agency-api/internal/keywords"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
}

type MockLeadRepository struct{ mock.Mock }

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead, intents ...*entity.NotificationIntent) error {
	return m.Called(ctx, lead, intents).Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, from, to entity.LeadStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

type MockProposalRepository struct{ mock.Mock }

func (m *MockProposalRepository) Create(ctx context.Context, p *entity.Proposal, intents ...*entity.NotificationIntent) error {
	return m.Called(ctx, p, intents).Error(0)
}

func (m *MockProposalRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProposalRepository) FindByID(ctx context.Context, id string) (*entity.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindBySlug(ctx context.Context, slug string) (*entity.Proposal, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindLatestByLeadID(ctx context.Context, leadID string) (*entity.Proposal, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) List(ctx context.Context, limit int) ([]*entity.Proposal, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) Transition(ctx context.Context, id string, from, to entity.ProposalStatus, at time.Time, intents ...*entity.NotificationIntent) error {
	return m.Called(ctx, id, from, to, at, intents).Error(0)
}

func (m *MockProposalRepository) MarkViewed(ctx context.Context, id string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockProposalRepository) SaveKeywordData(ctx context.Context, id string, data *entity.KeywordData) error {
	return m.Called(ctx, id, data).Error(0)
}

func (m *MockProposalRepository) ExpireByLeadID(ctx context.Context, leadID string, at time.Time) (int64, error) {
	args := m.Called(ctx, leadID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProposalRepository) ExpireStale(ctx context.Context, now time.Time) ([]string, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockTemplateRepository struct{ mock.Mock }

func (m *MockTemplateRepository) FindActiveByIndustry(ctx context.Context, industry entity.Industry) (*entity.IndustryTemplate, error) {
	args := m.Called(ctx, industry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.IndustryTemplate), args.Error(1)
}

func (m *MockTemplateRepository) List(ctx context.Context) ([]*entity.IndustryTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.IndustryTemplate), args.Error(1)
}

func (m *MockTemplateRepository) SaveBatch(ctx context.Context, items []*entity.IndustryTemplate, deletedIDs []string) error {
	return m.Called(ctx, items, deletedIDs).Error(0)
}

type MockAddonRepository struct{ mock.Mock }

func (m *MockAddonRepository) List(ctx context.Context) ([]*entity.AddonSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AddonSetting), args.Error(1)
}

func (m *MockAddonRepository) ListActive(ctx context.Context) ([]*entity.AddonSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AddonSetting), args.Error(1)
}

func (m *MockAddonRepository) SaveBatch(ctx context.Context, items []*entity.AddonSetting, deletedIDs []string) error {
	return m.Called(ctx, items, deletedIDs).Error(0)
}

type MockSignedProposalRepository struct{ mock.Mock }

func (m *MockSignedProposalRepository) Create(ctx context.Context, sp *entity.SignedProposal) error {
	return m.Called(ctx, sp).Error(0)
}

func (m *MockSignedProposalRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSignedProposalRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.SignedProposal, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SignedProposal), args.Error(1)
}

func (m *MockSignedProposalRepository) AttachBilling(ctx context.Context, id string, refs entity.BillingRefs) error {
	return m.Called(ctx, id, refs).Error(0)
}

type MockAdminCodeRepository struct{ mock.Mock }

func (m *MockAdminCodeRepository) Upsert(ctx context.Context, code *entity.AdminCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockAdminCodeRepository) FindUnused(ctx context.Context, email string) (*entity.AdminCode, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminCode), args.Error(1)
}

func (m *MockAdminCodeRepository) MarkUsed(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockSessions struct{ mock.Mock }

func (m *MockSessions) Issue(email string) (string, time.Time, error) {
	args := m.Called(email)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockSessions) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockCodeMailer struct{ mock.Mock }

func (m *MockCodeMailer) SendAdminCode(ctx context.Context, to, code string, ttl time.Duration) error {
	return m.Called(ctx, to, code, ttl).Error(0)
}

type MockKeywordProvider struct{ mock.Mock }

func (m *MockKeywordProvider) SearchVolume(ctx context.Context, kws []string) ([]keywords.Metric, error) {
	args := m.Called(ctx, kws)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]keywords.Metric), args.Error(1)
}

type MockBilling struct{ mock.Mock }

func (m *MockBilling) CreateSubscription(ctx context.Context, input stripebilling.SubscriptionInput) (*stripebilling.SubscriptionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripebilling.SubscriptionResult), args.Error(1)
}

type MockArchive struct{ mock.Mock }

func (m *MockArchive) StoreSignature(ctx context.Context, signedProposalID, dataURL string) (string, error) {
	args := m.Called(ctx, signedProposalID, dataURL)
	return args.String(0), args.Error(1)
}

type staticAdmins map[string]bool

func (s staticAdmins) IsAdmin(email string) bool { return s[email] }
