package ratesheet

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"netrates/internal/domain"
)

type Service struct {
	sheets SheetRepository
}

func NewService(sheets SheetRepository) *Service {
	return &Service{sheets: sheets}
}

// Upload parses a rates workbook and stores it under the given name. Name
// defaults to the source filename without its extension.
func (s *Service) Upload(ctx context.Context, name, filename string, data []byte) (*domain.RateSheet, error) {
	if name == "" {
		name = strings.TrimSuffix(filename, ".xlsx")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}

	items, err := ParseWorkbook(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	sheet := &domain.RateSheet{Name: name, SourceFile: filename}
	if err := s.sheets.CreateWithItems(ctx, sheet, items); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return sheet, nil
}

func (s *Service) List(ctx context.Context) ([]domain.RateSheet, error) {
	return s.sheets.List(ctx)
}

// Get returns the sheet with its included rows grouped the way the pricing
// form presents them.
func (s *Service) Get(ctx context.Context, id int64) (*SheetDetails, error) {
	sheet, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := s.sheets.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return &SheetDetails{Sheet: *sheet, Groups: GroupItems(items)}, nil
}

func (s *Service) Items(ctx context.Context, id int64) ([]domain.EquipmentItem, error) {
	items, err := s.sheets.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		if _, err := s.sheets.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}
	return items, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.sheets.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// GroupItems splits already-sorted items into (group, subsection) blocks.
func GroupItems(items []domain.EquipmentItem) []SheetGroup {
	var groups []SheetGroup
	for _, it := range items {
		n := len(groups)
		if n == 0 || groups[n-1].GroupName != it.GroupName || groups[n-1].SubSection != it.SubSection {
			groups = append(groups, SheetGroup{GroupName: it.GroupName, SubSection: it.SubSection})
			n++
		}
		groups[n-1].Items = append(groups[n-1].Items, it)
	}
	return groups
}

// isDuplicateKey recognizes unique violations from both supported drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
