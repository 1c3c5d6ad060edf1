package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"netrates/internal/domain"
	"netrates/internal/modules/pricelist"
)

type stubSource struct {
	view *pricelist.View
	snap *pricelist.Snapshot
}

func (s *stubSource) Get(ctx context.Context, publicID string) (*pricelist.View, error) {
	return s.view, nil
}

func (s *stubSource) Snapshot(ctx context.Context, publicID string) (*pricelist.Snapshot, error) {
	return s.snap, nil
}

func testView() *pricelist.View {
	rows := []pricelist.ResolvedRow{
		{ItemID: 1, ItemCategory: "Breaking", EquipmentName: "Heavy Breaker", GroupName: "Tools", SubSection: "Electric", HireRateWeekly: 100, Price: 90, DisplayPrice: "£90.00", DiscountPercent: 10, HasDiscount: true},
		{ItemID: 2, ItemCategory: "Access", EquipmentName: "Boom Lift", GroupName: "Access", POA: true, DisplayPrice: "POA"},
	}
	return &pricelist.View{
		PriceList: domain.PriceList{
			PublicID:     "draft-1",
			CustomerName: "Acme Plant",
		},
		SheetName: "2026 Rates",
		Rows:      rows,
		Groups: []pricelist.ResolvedGroup{
			{GroupName: "Tools", SubSection: "Electric", Rows: rows[:1]},
			{GroupName: "Access", Rows: rows[1:]},
		},
		Summary:   pricelist.Summary{ItemCount: 2, POACount: 1, AverageDiscount: 10, TotalWeekly: 90},
		Transport: pricelist.DefaultTransport(),
	}
}

func TestService_Excel(t *testing.T) {
	service := NewService(&stubSource{view: testView()}, t.TempDir())

	file, err := service.Excel(context.Background(), "draft-1")
	require.NoError(t, err)
	assert.Contains(t, file.Name, "Acme_Plant")
	assert.Contains(t, file.Name, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{sheetPriceList, sheetTransport, sheetSummary}, f.GetSheetList())

	title, err := f.GetCellValue(sheetPriceList, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Net Rates Price List - Acme Plant", title)

	// Group header, then the item row beneath it.
	group, err := f.GetCellValue(sheetPriceList, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Tools - Electric", group)

	name, err := f.GetCellValue(sheetPriceList, "B5")
	require.NoError(t, err)
	assert.Equal(t, "Heavy Breaker", name)

	price, err := f.GetCellValue(sheetPriceList, "E5")
	require.NoError(t, err)
	assert.Equal(t, "£90.00", price)

	charge, err := f.GetCellValue(sheetTransport, "B2")
	require.NoError(t, err)
	assert.Equal(t, "£5", charge)
}

func TestService_CSV(t *testing.T) {
	service := NewService(&stubSource{view: testView()}, t.TempDir())

	file, err := service.CSV(context.Background(), "draft-1")
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Group", "Sub Section", "Category", "Equipment", "Weekly Rate", "Discount %", "Net Price"}, records[0])
	assert.Equal(t, "Heavy Breaker", records[1][3])
	assert.Equal(t, "10.0", records[1][5])
	assert.Equal(t, "POA", records[2][6])
	assert.Equal(t, "", records[2][5])
}

func TestService_JSON(t *testing.T) {
	snap := &pricelist.Snapshot{
		SheetID:        7,
		SheetName:      "2026 Rates",
		CustomerName:   "Acme Plant",
		GlobalDiscount: 10,
		SavedAt:        time.Now().UTC(),
	}
	service := NewService(&stubSource{snap: snap}, t.TempDir())

	file, err := service.JSON(context.Background(), "draft-1")
	require.NoError(t, err)

	var got pricelist.Snapshot
	require.NoError(t, json.Unmarshal(file.Data, &got))
	assert.Equal(t, snap.SheetName, got.SheetName)
	assert.Equal(t, snap.GlobalDiscount, got.GlobalDiscount)
}

func writeHeaderPDF(t *testing.T, dir, name string) {
	t.Helper()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 30)
	pdf.CellFormat(0, 20, "Company Letterhead", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".pdf"), buf.Bytes(), 0o644))
}

func TestService_PDF(t *testing.T) {
	dir := t.TempDir()
	writeHeaderPDF(t, dir, "standard")

	view := testView()
	view.PriceList.HeaderTemplate = "standard"

	service := NewService(&stubSource{view: view}, dir)

	file, err := service.PDF(context.Background(), "draft-1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", file.ContentType)
}

func TestService_PDF_RequiresCustomerName(t *testing.T) {
	view := testView()
	view.PriceList.CustomerName = ""
	view.PriceList.HeaderTemplate = "standard"

	service := NewService(&stubSource{view: view}, t.TempDir())

	_, err := service.PDF(context.Background(), "draft-1")

	assert.ErrorIs(t, err, ErrMissingCustomer)
}

func TestService_PDF_RequiresHeaderTemplate(t *testing.T) {
	service := NewService(&stubSource{view: testView()}, t.TempDir())

	_, err := service.PDF(context.Background(), "draft-1")

	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestService_PDF_HeaderMissingOnDisk(t *testing.T) {
	view := testView()
	view.PriceList.HeaderTemplate = "missing"

	service := NewService(&stubSource{view: view}, t.TempDir())

	_, err := service.PDF(context.Background(), "draft-1")

	assert.ErrorIs(t, err, ErrHeaderNotFound)
}

func TestService_Headers_SaveAndList(t *testing.T) {
	dir := t.TempDir()
	service := NewService(&stubSource{}, dir)

	require.NoError(t, service.SaveHeader("Winter 2026", []byte("%PDF-1.4 fake")))

	names, err := service.ListHeaders()
	require.NoError(t, err)
	assert.Equal(t, []string{"Winter 2026"}, names)
}

func TestService_SaveHeader_RejectsNonPDF(t *testing.T) {
	service := NewService(&stubSource{}, t.TempDir())

	err := service.SaveHeader("evil", []byte("MZ executable"))

	assert.ErrorIs(t, err, ErrBadHeaderFile)
}

func TestService_SaveHeader_SanitizesName(t *testing.T) {
	dir := t.TempDir()
	service := NewService(&stubSource{}, dir)

	require.NoError(t, service.SaveHeader("../../etc/passwd", []byte("%PDF-1.4")))

	// Path separators are stripped; the file lands inside the directory.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "etcpasswd.pdf", entries[0].Name())
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "standard", sanitizeName("standard.pdf"))
	assert.Equal(t, "Winter 2026", sanitizeName("Winter 2026"))
	assert.Equal(t, "", sanitizeName("../.."))
}
