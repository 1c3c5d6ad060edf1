package ratesheet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"netrates/internal/domain"
)

type mockSheetRepo struct {
	mock.Mock
}

func (m *mockSheetRepo) CreateWithItems(ctx context.Context, sheet *domain.RateSheet, items []domain.EquipmentItem) error {
	args := m.Called(ctx, sheet, items)
	return args.Error(0)
}

func (m *mockSheetRepo) List(ctx context.Context) ([]domain.RateSheet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateSheet), args.Error(1)
}

func (m *mockSheetRepo) GetByID(ctx context.Context, id int64) (*domain.RateSheet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSheet), args.Error(1)
}

func (m *mockSheetRepo) GetItems(ctx context.Context, sheetID int64) ([]domain.EquipmentItem, error) {
	args := m.Called(ctx, sheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EquipmentItem), args.Error(1)
}

func (m *mockSheetRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Upload_DefaultsNameFromFilename(t *testing.T) {
	repo := new(mockSheetRepo)
	repo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := NewService(repo)

	buf := workbookBytes(t, [][]interface{}{
		header(),
		{"Breaking", "Heavy Breaker", "100", "Tools", "", "50", "1", "1"},
	})

	sheet, err := service.Upload(context.Background(), "", "spring-rates.xlsx", buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, "spring-rates", sheet.Name)
	repo.AssertExpectations(t)
}

func TestService_Upload_DuplicateName(t *testing.T) {
	repo := new(mockSheetRepo)
	repo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New(`UNIQUE constraint failed: rate_sheets.name`))

	service := NewService(repo)

	buf := workbookBytes(t, [][]interface{}{
		header(),
		{"Breaking", "Heavy Breaker", "100", "Tools", "", "50", "1", "1"},
	})

	_, err := service.Upload(context.Background(), "dupe", "rates.xlsx", buf.Bytes())

	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestService_Upload_BadWorkbook(t *testing.T) {
	service := NewService(new(mockSheetRepo))

	_, err := service.Upload(context.Background(), "broken", "rates.xlsx", []byte("nope"))

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Get_NotFound(t *testing.T) {
	repo := new(mockSheetRepo)
	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(repo)

	_, err := service.Get(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete_NotFound(t *testing.T) {
	repo := new(mockSheetRepo)
	repo.On("Delete", mock.Anything, int64(404)).Return(gorm.ErrRecordNotFound)

	service := NewService(repo)

	err := service.Delete(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(errors.New("ERROR: duplicate key value violates unique constraint")))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
}
