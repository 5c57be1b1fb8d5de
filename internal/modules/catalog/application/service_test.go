package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/imsoft/cursumi/internal/modules/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ebookRepoMock struct{ mock.Mock }

func (m *ebookRepoMock) List(ctx context.Context) ([]domain.Ebook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ebook), args.Error(1)
}
func (m *ebookRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ebook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ebook), args.Error(1)
}
func (m *ebookRepoMock) ListPopular(ctx context.Context, limit int) ([]domain.Ebook, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ebook), args.Error(1)
}
func (m *ebookRepoMock) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Ebook, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ebook), args.Error(1)
}

func TestCatalogService_ListEbooks(t *testing.T) {
	repo := new(ebookRepoMock)
	svc := NewCatalogService(repo)

	repo.On("List", mock.Anything).Return([]domain.Ebook{{Title: "Go Patterns"}}, nil)

	ebooks, err := svc.ListEbooks(context.Background())

	require.NoError(t, err)
	assert.Len(t, ebooks, 1)
}

func TestCatalogService_GetEbook_PropagatesNotFound(t *testing.T) {
	repo := new(ebookRepoMock)
	svc := NewCatalogService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrEbookNotFound)

	_, err := svc.GetEbook(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrEbookNotFound)
}

func TestCatalogService_ListPopularEbooks_ClampsLimit(t *testing.T) {
	testCases := []struct {
		name      string
		requested int
		effective int
	}{
		{"zero_defaults", 0, 3},
		{"negative_defaults", -5, 3},
		{"over_cap_defaults", 50, 3},
		{"in_range_passes_through", 6, 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(ebookRepoMock)
			svc := NewCatalogService(repo)

			repo.On("ListPopular", mock.Anything, tc.effective).Return([]domain.Ebook{}, nil)

			_, err := svc.ListPopularEbooks(context.Background(), tc.requested)

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_ListEbooks_Error(t *testing.T) {
	repo := new(ebookRepoMock)
	svc := NewCatalogService(repo)

	repo.On("List", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.ListEbooks(context.Background())

	assert.Error(t, err)
}
