package mailer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"netrates/internal/config"
	"netrates/internal/domain"
	"netrates/internal/modules/export"
	"netrates/internal/modules/pricelist"
)

type stubDrafts struct {
	view *pricelist.View
	err  error
}

func (s *stubDrafts) Get(ctx context.Context, publicID string) (*pricelist.View, error) {
	return s.view, s.err
}

type stubExporter struct{}

func (stubExporter) Excel(ctx context.Context, publicID string) (*export.File, error) {
	return &export.File{Name: "prices.xlsx", ContentType: "application/vnd.ms-excel", Data: []byte("xlsx")}, nil
}

func (stubExporter) JSON(ctx context.Context, publicID string) (*export.File, error) {
	return &export.File{Name: "prices.json", ContentType: "application/json", Data: []byte("{}")}, nil
}

type memoryLog struct {
	records []domain.EmailRecord
}

func (m *memoryLog) Create(ctx context.Context, rec *domain.EmailRecord) error {
	m.records = append(m.records, *rec)
	return nil
}

func (m *memoryLog) Summary(ctx context.Context) ([]domain.EmailStatusCount, error) {
	return nil, nil
}

func (m *memoryLog) Recent(ctx context.Context, limit int) ([]domain.EmailRecord, error) {
	return m.records, nil
}

type fakeProvider struct {
	name string
	err  error
	sent []Message
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Send(ctx context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testSettingsStore(t *testing.T) *config.SettingsStore {
	t.Helper()
	st, err := config.OpenSettings(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	return st
}

func testMailView() *pricelist.View {
	return &pricelist.View{
		PriceList: domain.PriceList{
			PublicID:      "draft-1",
			CustomerName:  "Acme Plant",
			CustomerEmail: "buyer@acme.example",
		},
		SheetName: "2026 Rates",
		Transport: pricelist.DefaultTransport(),
	}
}

func newTestService(t *testing.T, log EmailLog, providers ...Provider) *Service {
	t.Helper()
	s := NewService(&stubDrafts{view: testMailView()}, stubExporter{}, log, testSettingsStore(t), zap.NewNop())
	s.chain = func() []Provider { return providers }
	return s
}

func TestService_Send_FirstProviderWins(t *testing.T) {
	log := &memoryLog{}
	first := &fakeProvider{name: "sendgrid"}
	second := &fakeProvider{name: "smtp"}

	service := newTestService(t, log, first, second)

	result, err := service.Send(context.Background(), "draft-1", SendRequest{})

	require.NoError(t, err)
	assert.Equal(t, domain.EmailSent, result.Status)
	assert.Equal(t, "sendgrid", result.Provider)
	assert.Equal(t, "buyer@acme.example", result.Recipient)

	require.Len(t, first.sent, 1)
	assert.Empty(t, second.sent)
	assert.Len(t, first.sent[0].Attachments, 2)

	require.Len(t, log.records, 1)
	assert.Equal(t, domain.EmailSent, log.records[0].Status)
	assert.Equal(t, "draft-1", log.records[0].PriceListID)
}

func TestService_Send_FallsThroughOnFailure(t *testing.T) {
	log := &memoryLog{}
	first := &fakeProvider{name: "sendgrid", err: errors.New("401 unauthorized")}
	second := &fakeProvider{name: "webhook"}

	service := newTestService(t, log, first, second)

	result, err := service.Send(context.Background(), "draft-1", SendRequest{})

	require.NoError(t, err)
	assert.Equal(t, domain.EmailSent, result.Status)
	assert.Equal(t, "webhook", result.Provider)

	// Both the failed attempt and the successful one are logged.
	require.Len(t, log.records, 2)
	assert.Equal(t, domain.EmailFailed, log.records[0].Status)
	assert.Equal(t, "sendgrid", log.records[0].Provider)
	assert.Equal(t, domain.EmailSent, log.records[1].Status)
}

func TestService_Send_PreparedWhenNothingConfigured(t *testing.T) {
	log := &memoryLog{}
	service := newTestService(t, log)

	result, err := service.Send(context.Background(), "draft-1", SendRequest{})

	require.NoError(t, err)
	assert.Equal(t, domain.EmailPrepared, result.Status)
	assert.NotEmpty(t, result.Body)
	assert.Contains(t, result.Subject, "Acme Plant")

	require.Len(t, log.records, 1)
	assert.Equal(t, domain.EmailPrepared, log.records[0].Status)
}

func TestService_Send_NoRecipient(t *testing.T) {
	store := testSettingsStore(t)
	_, err := store.Update(func(s *config.Settings) { s.Admin.DefaultAdminEmail = "" })
	require.NoError(t, err)

	s := NewService(&stubDrafts{view: &pricelist.View{}}, stubExporter{}, &memoryLog{}, store, zap.NewNop())
	s.chain = func() []Provider { return nil }

	_, err = s.Send(context.Background(), "draft-1", SendRequest{})

	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestService_Send_ExplicitRecipientOverrides(t *testing.T) {
	provider := &fakeProvider{name: "smtp"}
	service := newTestService(t, &memoryLog{}, provider)

	result, err := service.Send(context.Background(), "draft-1", SendRequest{Recipient: "other@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "other@example.com", result.Recipient)
	assert.Equal(t, []string{"other@example.com"}, provider.sent[0].To)
}

func TestService_Send_IncludeTransportAppendsTable(t *testing.T) {
	provider := &fakeProvider{name: "smtp"}
	service := newTestService(t, &memoryLog{}, provider)

	_, err := service.Send(context.Background(), "draft-1", SendRequest{IncludeTransport: true})

	require.NoError(t, err)
	assert.Contains(t, provider.sent[0].Body, "Transport Charges")
	assert.Contains(t, provider.sent[0].Body, "Towables")
}

func TestService_Send_FallsBackToAdminRecipient(t *testing.T) {
	store := testSettingsStore(t)
	view := testMailView()
	view.PriceList.CustomerEmail = ""

	s := NewService(&stubDrafts{view: view}, stubExporter{}, &memoryLog{}, store, zap.NewNop())
	provider := &fakeProvider{name: "smtp"}
	s.chain = func() []Provider { return []Provider{provider} }

	result, err := s.Send(context.Background(), "draft-1", SendRequest{})

	require.NoError(t, err)
	assert.Equal(t, store.Get().Admin.DefaultAdminEmail, result.Recipient)
}

func TestService_TestConfig(t *testing.T) {
	service := newTestService(t, &memoryLog{}, &fakeProvider{name: "sendgrid"})
	status := service.TestConfig()
	assert.True(t, status.Configured)
	assert.Equal(t, "sendgrid", status.Provider)

	empty := newTestService(t, &memoryLog{})
	assert.False(t, empty.TestConfig().Configured)
}

func TestService_Settings_MasksSecrets(t *testing.T) {
	store := testSettingsStore(t)
	_, err := store.Update(func(s *config.Settings) {
		s.SMTP.Provider = config.ProviderSendGrid
		s.SMTP.SendGridAPIKey = "SG.abcdefghijklmnopqrstuvwxyz1234"
		s.SMTP.GmailPassword = "hunter2secret"
	})
	require.NoError(t, err)

	service := NewService(&stubDrafts{}, stubExporter{}, &memoryLog{}, store, zap.NewNop())

	view := service.Settings()
	assert.Equal(t, "SG.abcde...1234", view.SMTP.SendGridAPIKey)
	assert.Equal(t, "********", view.SMTP.GmailPassword)
}

func TestService_UpdateSettings_KeepsMaskedSecrets(t *testing.T) {
	store := testSettingsStore(t)
	_, err := store.Update(func(s *config.Settings) {
		s.SMTP.Provider = config.ProviderSendGrid
		s.SMTP.SendGridAPIKey = "SG.abcdefghijklmnopqrstuvwxyz1234"
	})
	require.NoError(t, err)

	service := NewService(&stubDrafts{}, stubExporter{}, &memoryLog{}, store, zap.NewNop())

	// Round-trip the masked view back through an update.
	view := service.Settings()
	_, err = service.UpdateSettings(UpdateSettingsRequest{SMTP: view.SMTP, Admin: view.Admin, App: view.App})
	require.NoError(t, err)

	assert.Equal(t, "SG.abcdefghijklmnopqrstuvwxyz1234", store.Get().SMTP.SendGridAPIKey)
}

func TestService_UpdateSettings_ReplacesSecret(t *testing.T) {
	store := testSettingsStore(t)
	service := NewService(&stubDrafts{}, stubExporter{}, &memoryLog{}, store, zap.NewNop())

	req := UpdateSettingsRequest{}
	req.SMTP.Provider = config.ProviderSendGrid
	req.SMTP.SendGridAPIKey = "SG.brandnewkey0000000000000000000"
	req.SMTP.SendGridFromEmail = "rates@example.co.uk"

	_, err := service.UpdateSettings(req)
	require.NoError(t, err)

	assert.Equal(t, "SG.brandnewkey0000000000000000000", store.Get().SMTP.SendGridAPIKey)
}

func TestSplitEmails(t *testing.T) {
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, splitEmails(" a@x.com , b@x.com,"))
	assert.Nil(t, splitEmails(""))
}
