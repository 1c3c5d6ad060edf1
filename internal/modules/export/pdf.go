package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"

	"netrates/internal/modules/pricelist"
)

const (
	pageWidth  = 210.0
	pageHeight = 297.0
	logoWidth  = 100.0
)

// buildPDF renders the customer-facing document: the chosen header template
// page overlaid with the customer name and logo, followed by the price table
// and transport charges.
func buildPDF(view *pricelist.View, headerPath string) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	importer := gofpdi.NewImporter()
	pdf.AddPage()
	tpl := importer.ImportPage(pdf, headerPath, 1, "/MediaBox")
	importer.UseImportedTemplate(pdf, tpl, 0, 0, pageWidth, pageHeight)

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(0, 45, 86)
	pdf.SetY(pageHeight / 3)
	pdf.CellFormat(0, 12, tr(view.PriceList.CustomerName), "", 1, "C", false, 0, "")

	if len(view.PriceList.Logo) > 0 {
		if imgType := sniffImageType(view.PriceList.Logo); imgType != "" {
			opts := gofpdf.ImageOptions{ImageType: imgType}
			pdf.RegisterImageOptionsReader("customer-logo", opts, bytes.NewReader(view.PriceList.Logo))
			pdf.ImageOptions("customer-logo", (pageWidth-logoWidth)/2, pdf.GetY()+8, logoWidth, 0, false, opts, 0, "")
		}
	}

	pdf.AddPage()
	writePriceTable(pdf, tr, view)

	pdf.AddPage()
	writeTransportTable(pdf, tr, view)

	if pdf.Err() {
		return nil, pdf.Error()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func writePriceTable(pdf *gofpdf.Fpdf, tr func(string) string, view *pricelist.View) {
	pdf.SetTextColor(0, 45, 86)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Net Rates", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	widths := []float64{70, 40, 30, 40}
	headers := []string{"Equipment", "Category", "Discount %", "Weekly Price"}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(0, 45, 86)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}

	for _, group := range view.Groups {
		label := group.GroupName
		if group.SubSection != "" {
			label = fmt.Sprintf("%s - %s", group.GroupName, group.SubSection)
		}

		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(0, 45, 86)
		pdf.CellFormat(0, 8, tr(label), "", 1, "L", false, 0, "")
		writeHeader()

		pdf.SetFont("Helvetica", "", 9)
		for _, r := range group.Rows {
			discount := ""
			if r.HasDiscount {
				discount = fmt.Sprintf("%.1f%%", r.DiscountPercent)
			}
			pdf.CellFormat(widths[0], 6, tr(r.EquipmentName), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, tr(r.ItemCategory), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 6, discount, "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], 6, tr(r.DisplayPrice), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}
}

func writeTransportTable(pdf *gofpdf.Fpdf, tr func(string) string, view *pricelist.View) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 45, 86)
	pdf.CellFormat(0, 10, "Transport Charges", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(0, 45, 86)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(90, 7, "Delivery Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 7, "Charge (each way)", "1", 0, "L", true, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, t := range view.Transport {
		pdf.CellFormat(90, 6, tr(t.DeliveryType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, tr(formatCharge(t.Charge)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

func sniffImageType(data []byte) string {
	switch {
	case len(data) > 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case len(data) > 3 && bytes.Equal(data[:3], []byte("\xff\xd8\xff")):
		return "JPG"
	default:
		return ""
	}
}
