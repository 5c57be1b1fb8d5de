package application

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	catalogDomain "github.com/imsoft/cursumi/internal/modules/catalog/domain"
	"github.com/imsoft/cursumi/internal/modules/checkout/domain"
	mailerDomain "github.com/imsoft/cursumi/internal/modules/mailer/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type parserMock struct{ mock.Mock }

func (m *parserMock) Parse(payload []byte, signatureHeader string) (*domain.CompletedCheckout, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletedCheckout), args.Error(1)
}

type finderMock struct{ mock.Mock }

func (m *finderMock) FindByID(ctx context.Context, id uuid.UUID) (*catalogDomain.Ebook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.Ebook), args.Error(1)
}
func (m *finderMock) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalogDomain.Ebook, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogDomain.Ebook), args.Error(1)
}

type mailerMock struct{ mock.Mock }

func (m *mailerMock) SendPurchaseConfirmation(ctx context.Context, email string, items []mailerDomain.DownloadItem) error {
	args := m.Called(ctx, email, items)
	return args.Error(0)
}

type linkBuilderMock struct{ mock.Mock }

func (m *linkBuilderMock) BuildDownloadLink(ebookID uuid.UUID, email string) (string, error) {
	args := m.Called(ebookID, email)
	return args.String(0), args.Error(1)
}

type fulfillmentMocks struct {
	parser *parserMock
	repo   *purchaseRepoMock
	finder *finderMock
	mailer *mailerMock
	links  *linkBuilderMock
}

func newFulfillmentService(t *testing.T) (FulfillmentService, fulfillmentMocks) {
	t.Helper()
	m := fulfillmentMocks{
		parser: new(parserMock),
		repo:   new(purchaseRepoMock),
		finder: new(finderMock),
		mailer: new(mailerMock),
		links:  new(linkBuilderMock),
	}
	svc := NewFulfillmentService(m.parser, m.repo, m.finder, m.mailer, m.links, nil, fastRetry())
	return svc, m
}

func newFulfillmentServiceWithRedis(t *testing.T) (FulfillmentService, fulfillmentMocks, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	m := fulfillmentMocks{
		parser: new(parserMock),
		repo:   new(purchaseRepoMock),
		finder: new(finderMock),
		mailer: new(mailerMock),
		links:  new(linkBuilderMock),
	}
	svc := NewFulfillmentService(m.parser, m.repo, m.finder, m.mailer, m.links, client, fastRetry())
	return svc, m, mr
}

func TestFulfillmentService_HandleEvent_InvalidSignature(t *testing.T) {
	svc, m := newFulfillmentService(t)

	m.parser.On("Parse", mock.Anything, mock.Anything).
		Return(nil, domain.ErrInvalidSignature)

	err := svc.HandleEvent(context.Background(), []byte("{}"), "bad-sig")

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	m.repo.AssertNotCalled(t, "CompleteOrRegister", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.mailer.AssertNotCalled(t, "SendPurchaseConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfillmentService_HandleEvent_IgnoresOtherEventTypes(t *testing.T) {
	svc, m := newFulfillmentService(t)

	m.parser.On("Parse", mock.Anything, mock.Anything).Return(nil, nil)

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	m.repo.AssertNotCalled(t, "CompleteOrRegister", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfillmentService_HandleEvent_MissingEmail(t *testing.T) {
	svc, m := newFulfillmentService(t)

	m.parser.On("Parse", mock.Anything, mock.Anything).Return(&domain.CompletedCheckout{
		EventID:  "evt_1",
		EbookIDs: []string{uuid.New().String()},
	}, nil)

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestFulfillmentService_HandleEvent_BadEbookID(t *testing.T) {
	svc, m := newFulfillmentService(t)

	m.parser.On("Parse", mock.Anything, mock.Anything).Return(&domain.CompletedCheckout{
		EventID:       "evt_1",
		CustomerEmail: "buyer@example.com",
		EbookIDs:      []string{"not-a-uuid"},
	}, nil)

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestFulfillmentService_HandleEvent_CompletesAndEmails(t *testing.T) {
	svc, m := newFulfillmentService(t)

	ebookID := uuid.New()
	m.parser.On("Parse", mock.Anything, mock.Anything).Return(&domain.CompletedCheckout{
		EventID:       "evt_1",
		SessionID:     "cs_123",
		CustomerEmail: "buyer@example.com",
		EbookIDs:      []string{ebookID.String()},
	}, nil)
	m.finder.On("FindByIDs", mock.Anything, []uuid.UUID{ebookID}).Return([]catalogDomain.Ebook{
		{ID: ebookID, Title: "Go Patterns", Price: 19.99},
	}, nil)
	m.repo.On("CompleteOrRegister", mock.Anything, "buyer@example.com", ebookID, 19.99).
		Return(true, nil)
	m.links.On("BuildDownloadLink", ebookID, "buyer@example.com").
		Return("https://cursumi.com/download/"+ebookID.String()+"?token=abc", nil)
	m.mailer.On("SendPurchaseConfirmation", mock.Anything, "buyer@example.com", mock.MatchedBy(func(items []mailerDomain.DownloadItem) bool {
		return len(items) == 1 && items[0].Title == "Go Patterns"
	})).Return(nil)

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	m.mailer.AssertExpectations(t)
	m.repo.AssertExpectations(t)
}

func TestFulfillmentService_HandleEvent_RedeliverySkipsEmail(t *testing.T) {
	svc, m := newFulfillmentService(t)

	ebookID := uuid.New()
	m.parser.On("Parse", mock.Anything, mock.Anything).Return(&domain.CompletedCheckout{
		EventID:       "evt_1",
		CustomerEmail: "buyer@example.com",
		EbookIDs:      []string{ebookID.String()},
	}, nil)
	m.finder.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalogDomain.Ebook{
		{ID: ebookID, Title: "Go Patterns", Price: 19.99},
	}, nil)
	m.repo.On("CompleteOrRegister", mock.Anything, "buyer@example.com", ebookID, 19.99).
		Return(false, nil)

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	m.mailer.AssertNotCalled(t, "SendPurchaseConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfillmentService_HandleEvent_MailFailureDoesNotFailEvent(t *testing.T) {
	svc, m := newFulfillmentService(t)

	ebookID := uuid.New()
	m.parser.On("Parse", mock.Anything, mock.Anything).Return(&domain.CompletedCheckout{
		EventID:       "evt_1",
		CustomerEmail: "buyer@example.com",
		EbookIDs:      []string{ebookID.String()},
	}, nil)
	m.finder.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalogDomain.Ebook{
		{ID: ebookID, Title: "Go Patterns", Price: 19.99},
	}, nil)
	m.repo.On("CompleteOrRegister", mock.Anything, "buyer@example.com", ebookID, 19.99).
		Return(true, nil)
	m.links.On("BuildDownloadLink", ebookID, "buyer@example.com").
		Return("https://cursumi.com/download/x?token=abc", nil)
	m.mailer.On("SendPurchaseConfirmation", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("resend down"))

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	// The purchase is completed; email failure stays local.
	assert.NoError(t, err)
}

func TestFulfillmentService_HandleEvent_StatusUpdateFailureReturnsError(t *testing.T) {
	svc, m := newFulfillmentService(t)

	ebookID := uuid.New()
	m.parser.On("Parse", mock.Anything, mock.Anything).Return(&domain.CompletedCheckout{
		EventID:       "evt_1",
		CustomerEmail: "buyer@example.com",
		EbookIDs:      []string{ebookID.String()},
	}, nil)
	m.finder.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalogDomain.Ebook{
		{ID: ebookID, Title: "Go Patterns", Price: 19.99},
	}, nil)
	m.repo.On("CompleteOrRegister", mock.Anything, "buyer@example.com", ebookID, 19.99).
		Return(false, errors.New("db down"))

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")

	// Returned so the gateway redelivers the event.
	assert.Error(t, err)
	m.mailer.AssertNotCalled(t, "SendPurchaseConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfillmentService_HandleEvent_RedeliveredDuplicateIsSkipped(t *testing.T) {
	svc, m, mr := newFulfillmentServiceWithRedis(t)

	ebookID := uuid.New()
	m.parser.On("Parse", mock.Anything, mock.Anything).Return(&domain.CompletedCheckout{
		EventID:       "evt_1",
		CustomerEmail: "buyer@example.com",
		EbookIDs:      []string{ebookID.String()},
	}, nil)
	m.finder.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalogDomain.Ebook{
		{ID: ebookID, Title: "Go Patterns", Price: 19.99},
	}, nil)
	m.repo.On("CompleteOrRegister", mock.Anything, "buyer@example.com", ebookID, 19.99).
		Return(true, nil).Once()
	m.links.On("BuildDownloadLink", ebookID, "buyer@example.com").
		Return("https://cursumi.com/download/"+ebookID.String()+"?token=abc", nil)
	m.mailer.On("SendPurchaseConfirmation", mock.Anything, "buyer@example.com", mock.Anything).
		Return(nil).Once()

	require.NoError(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	assert.True(t, mr.Exists("checkout:event:evt_1"))

	require.NoError(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

	m.repo.AssertNumberOfCalls(t, "CompleteOrRegister", 1)
	m.mailer.AssertNumberOfCalls(t, "SendPurchaseConfirmation", 1)
}

func TestFulfillmentService_HandleEvent_FailedDeliveryStaysRedeliverable(t *testing.T) {
	svc, m, mr := newFulfillmentServiceWithRedis(t)

	ebookID := uuid.New()
	m.parser.On("Parse", mock.Anything, mock.Anything).Return(&domain.CompletedCheckout{
		EventID:       "evt_1",
		CustomerEmail: "buyer@example.com",
		EbookIDs:      []string{ebookID.String()},
	}, nil)
	m.finder.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalogDomain.Ebook{
		{ID: ebookID, Title: "Go Patterns", Price: 19.99},
	}, nil)
	m.repo.On("CompleteOrRegister", mock.Anything, "buyer@example.com", ebookID, 19.99).
		Return(false, errors.New("db down")).Once()
	m.repo.On("CompleteOrRegister", mock.Anything, "buyer@example.com", ebookID, 19.99).
		Return(true, nil).Once()
	m.links.On("BuildDownloadLink", ebookID, "buyer@example.com").
		Return("https://cursumi.com/download/"+ebookID.String()+"?token=abc", nil)
	m.mailer.On("SendPurchaseConfirmation", mock.Anything, "buyer@example.com", mock.Anything).
		Return(nil).Once()

	// First delivery fails before any row flips; the event must not be
	// remembered as processed.
	require.Error(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))
	assert.False(t, mr.Exists("checkout:event:evt_1"))

	// The gateway redelivers; this time the purchase completes and the
	// confirmation goes out.
	require.NoError(t, svc.HandleEvent(context.Background(), []byte("{}"), "sig"))

	m.repo.AssertNumberOfCalls(t, "CompleteOrRegister", 2)
	m.mailer.AssertNumberOfCalls(t, "SendPurchaseConfirmation", 1)
	assert.True(t, mr.Exists("checkout:event:evt_1"))
}

func TestFulfillmentService_GetCompletedPurchases(t *testing.T) {
	svc, m := newFulfillmentService(t)

	ebookID := uuid.New()
	m.repo.On("ListCompletedByEmail", mock.Anything, "buyer@example.com").Return([]domain.Purchase{
		{ID: uuid.New(), EbookID: ebookID, CustomerEmail: "buyer@example.com", Amount: 19.99, Status: domain.PurchaseStatusCompleted},
	}, nil)
	m.finder.On("FindByIDs", mock.Anything, []uuid.UUID{ebookID}).Return([]catalogDomain.Ebook{
		{ID: ebookID, Title: "Go Patterns", Price: 19.99},
	}, nil)
	m.links.On("BuildDownloadLink", ebookID, "buyer@example.com").
		Return("https://cursumi.com/download/"+ebookID.String()+"?token=abc", nil)

	purchased, err := svc.GetCompletedPurchases(context.Background(), "buyer@example.com")

	require.NoError(t, err)
	require.Len(t, purchased, 1)
	assert.Equal(t, "Go Patterns", purchased[0].Title)
	assert.Equal(t, 19.99, purchased[0].Amount)
	assert.Contains(t, purchased[0].DownloadURL, "token=")
}

func TestFulfillmentService_GetCompletedPurchases_NoPurchases(t *testing.T) {
	svc, m := newFulfillmentService(t)

	m.repo.On("ListCompletedByEmail", mock.Anything, "buyer@example.com").
		Return([]domain.Purchase{}, nil)

	purchased, err := svc.GetCompletedPurchases(context.Background(), "buyer@example.com")

	require.NoError(t, err)
	assert.Empty(t, purchased)
	m.finder.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}
