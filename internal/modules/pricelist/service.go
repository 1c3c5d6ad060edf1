package pricelist

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"netrates/internal/domain"
	"netrates/internal/pkg/metrics"
)

const maxLogoBytes = 2 << 20

type Service struct {
	drafts PriceListRepository
	sheets SheetReader
}

func NewService(drafts PriceListRepository, sheets SheetReader) *Service {
	return &Service{drafts: drafts, sheets: sheets}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.PriceList, error) {
	if _, err := s.sheets.GetByID(ctx, req.SheetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, err
	}

	p := &domain.PriceList{
		PublicID:       uuid.NewString(),
		SheetID:        req.SheetID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerEmail:  strings.TrimSpace(req.CustomerEmail),
		GroupDiscounts: map[string]float64{},
		CustomPrices:   map[int64]float64{},
		Transport:      map[string]string{},
	}
	if err := s.drafts.Create(ctx, p); err != nil {
		return nil, err
	}

	metrics.PriceListsCreated.Inc()
	return p, nil
}

// Get loads the draft and resolves it against its sheet.
func (s *Service) Get(ctx context.Context, publicID string) (*View, error) {
	p, err := s.load(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, p)
}

func (s *Service) Update(ctx context.Context, publicID string, req UpdateRequest) (*View, error) {
	p, err := s.load(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		p.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerEmail != nil {
		p.CustomerEmail = strings.TrimSpace(*req.CustomerEmail)
	}
	if req.GlobalDiscount != nil {
		if !validPercent(*req.GlobalDiscount) {
			return nil, ErrValidation
		}
		p.GlobalDiscount = *req.GlobalDiscount
	}
	if req.HeaderTemplate != nil {
		p.HeaderTemplate = strings.TrimSpace(*req.HeaderTemplate)
	}

	if err := s.drafts.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.resolve(ctx, p)
}

// SetGroupDiscount overrides the discount for one (group, subsection) block.
func (s *Service) SetGroupDiscount(ctx context.Context, publicID string, req GroupDiscountRequest) (*View, error) {
	if !validPercent(req.Percent) {
		return nil, ErrValidation
	}

	p, err := s.load(ctx, publicID)
	if err != nil {
		return nil, err
	}

	items, err := s.sheets.GetItems(ctx, p.SheetID)
	if err != nil {
		return nil, err
	}

	key := domain.GroupKey(req.GroupName, req.SubSection)
	if !groupExists(items, req.GroupName, req.SubSection) {
		return nil, ErrUnknownGroup
	}

	p.GroupDiscounts[key] = req.Percent
	if err := s.drafts.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.resolveWithItems(ctx, p, items)
}

// ApplyGlobalToGroups overwrites every group discount with the current
// global discount, the "set all groups" button.
func (s *Service) ApplyGlobalToGroups(ctx context.Context, publicID string) (*View, error) {
	p, err := s.load(ctx, publicID)
	if err != nil {
		return nil, err
	}

	items, err := s.sheets.GetItems(ctx, p.SheetID)
	if err != nil {
		return nil, err
	}

	p.GroupDiscounts = map[string]float64{}
	for _, it := range items {
		p.GroupDiscounts[domain.GroupKey(it.GroupName, it.SubSection)] = p.GlobalDiscount
	}

	if err := s.drafts.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.resolveWithItems(ctx, p, items)
}

func (s *Service) SetCustomPrice(ctx context.Context, publicID string, req CustomPriceRequest) (*View, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, ErrValidation
	}

	p, err := s.load(ctx, publicID)
	if err != nil {
		return nil, err
	}

	items, err := s.sheets.GetItems(ctx, p.SheetID)
	if err != nil {
		return nil, err
	}
	if !itemExists(items, req.ItemID) {
		return nil, ErrUnknownItem
	}

	if req.Price == nil {
		delete(p.CustomPrices, req.ItemID)
	} else {
		p.CustomPrices[req.ItemID] = *req.Price
	}

	if err := s.drafts.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.resolveWithItems(ctx, p, items)
}

func (s *Service) SetTransportCharge(ctx context.Context, publicID string, req TransportRequest) (*View, error) {
	entry, ok := transportEntry(req.DeliveryType)
	if !ok {
		return nil, ErrUnknownTransport
	}
	if entry.Fixed {
		return nil, ErrFixedTransport
	}

	p, err := s.load(ctx, publicID)
	if err != nil {
		return nil, err
	}

	charge := strings.TrimSpace(req.Charge)
	if charge == "" {
		delete(p.Transport, req.DeliveryType)
	} else {
		p.Transport[req.DeliveryType] = charge
	}

	if err := s.drafts.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.resolve(ctx, p)
}

func (s *Service) SetLogo(ctx context.Context, publicID string, logo []byte) error {
	if len(logo) == 0 || len(logo) > maxLogoBytes {
		return ErrValidation
	}

	p, err := s.load(ctx, publicID)
	if err != nil {
		return err
	}
	p.Logo = logo
	return s.drafts.Update(ctx, p)
}

// Clear resets every input back to defaults, keeping the draft itself.
func (s *Service) Clear(ctx context.Context, publicID string) (*View, error) {
	p, err := s.load(ctx, publicID)
	if err != nil {
		return nil, err
	}

	p.CustomerName = ""
	p.CustomerEmail = ""
	p.GlobalDiscount = 0
	p.GroupDiscounts = map[string]float64{}
	p.CustomPrices = map[int64]float64{}
	p.Transport = map[string]string{}
	p.HeaderTemplate = ""
	p.Logo = nil

	if err := s.drafts.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.resolve(ctx, p)
}

func (s *Service) Delete(ctx context.Context, publicID string) error {
	if err := s.drafts.Delete(ctx, publicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Snapshot serializes the draft's inputs for save/reload.
func (s *Service) Snapshot(ctx context.Context, publicID string) (*Snapshot, error) {
	p, err := s.load(ctx, publicID)
	if err != nil {
		return nil, err
	}

	sheet, err := s.sheets.GetByID(ctx, p.SheetID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		SheetID:        p.SheetID,
		SheetName:      sheet.Name,
		CustomerName:   p.CustomerName,
		CustomerEmail:  p.CustomerEmail,
		GlobalDiscount: p.GlobalDiscount,
		GroupDiscounts: p.GroupDiscounts,
		CustomPrices:   p.CustomPrices,
		Transport:      p.Transport,
		HeaderTemplate: p.HeaderTemplate,
		SavedAt:        time.Now().UTC(),
	}, nil
}

// Restore creates a new draft from a snapshot. The snapshot must reference
// an existing sheet; discounts and custom prices come back exactly as saved.
// Imported values pass the same checks the edit operations enforce.
func (s *Service) Restore(ctx context.Context, snap Snapshot) (*View, error) {
	if !validPercent(snap.GlobalDiscount) {
		return nil, ErrValidation
	}
	for _, d := range snap.GroupDiscounts {
		if !validPercent(d) {
			return nil, ErrValidation
		}
	}
	for _, price := range snap.CustomPrices {
		if price < 0 {
			return nil, ErrValidation
		}
	}
	sheet, err := s.sheets.GetByID(ctx, snap.SheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, err
	}
	if snap.SheetName != "" && sheet.Name != snap.SheetName {
		return nil, ErrSheetMismatch
	}

	p := &domain.PriceList{
		PublicID:       uuid.NewString(),
		SheetID:        snap.SheetID,
		CustomerName:   snap.CustomerName,
		CustomerEmail:  snap.CustomerEmail,
		GlobalDiscount: snap.GlobalDiscount,
		GroupDiscounts: snap.GroupDiscounts,
		CustomPrices:   snap.CustomPrices,
		Transport:      snap.Transport,
		HeaderTemplate: snap.HeaderTemplate,
	}
	if p.GroupDiscounts == nil {
		p.GroupDiscounts = map[string]float64{}
	}
	if p.CustomPrices == nil {
		p.CustomPrices = map[int64]float64{}
	}
	if p.Transport == nil {
		p.Transport = map[string]string{}
	}

	if err := s.drafts.Create(ctx, p); err != nil {
		return nil, err
	}

	metrics.PriceListsCreated.Inc()
	return s.resolve(ctx, p)
}

func (s *Service) load(ctx context.Context, publicID string) (*domain.PriceList, error) {
	p, err := s.drafts.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) resolve(ctx context.Context, p *domain.PriceList) (*View, error) {
	items, err := s.sheets.GetItems(ctx, p.SheetID)
	if err != nil {
		return nil, err
	}
	return s.resolveWithItems(ctx, p, items)
}

func (s *Service) resolveWithItems(ctx context.Context, p *domain.PriceList, items []domain.EquipmentItem) (*View, error) {
	sheet, err := s.sheets.GetByID(ctx, p.SheetID)
	if err != nil {
		return nil, err
	}

	rows, warnings, summary := Resolve(items, p)

	var groups []ResolvedGroup
	for _, row := range rows {
		n := len(groups)
		if n == 0 || groups[n-1].GroupName != row.GroupName || groups[n-1].SubSection != row.SubSection {
			groups = append(groups, ResolvedGroup{GroupName: row.GroupName, SubSection: row.SubSection})
			n++
		}
		groups[n-1].Rows = append(groups[n-1].Rows, row)
	}

	view := &View{
		PriceList: *p,
		SheetName: sheet.Name,
		Rows:      rows,
		Groups:    groups,
		Warnings:  warnings,
		Summary:   summary,
		Transport: ResolveTransport(p.Transport),
	}
	return view, nil
}

func validPercent(v float64) bool { return v >= 0 && v <= 100 }

func groupExists(items []domain.EquipmentItem, group, subSection string) bool {
	for _, it := range items {
		if it.GroupName == group && it.SubSection == subSection {
			return true
		}
	}
	return false
}

func itemExists(items []domain.EquipmentItem, id int64) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
