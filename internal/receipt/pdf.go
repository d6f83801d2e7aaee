package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

const (
	pageMargin = 15.0
	rowHeight  = 8.0
	labelWidth = 60.0
)

// Printable reports whether s can be drawn with the core PDF fonts, which
// only cover Windows-1252.
func Printable(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

func checkPrintable(c Content) error {
	fields := []Field{
		{Label: "Institution", Value: c.Institution},
		{Label: "Subtitle", Value: c.Subtitle},
		{Label: "Heading", Value: c.Heading},
		{Label: "Status", Value: c.Status},
		{Label: c.TotalLabel, Value: c.Total},
	}
	fields = append(fields, c.Details...)
	fields = append(fields, c.Bank...)
	for _, line := range c.Footer {
		fields = append(fields, Field{Label: "Footer", Value: line})
	}

	for _, f := range fields {
		if !Printable(f.Label) || !Printable(f.Value) {
			return fmt.Errorf("%w in %q", ErrUnsupportedText, f.Label)
		}
	}
	return nil
}

// renderPDF pins the document dates to the payment date so the same
// payment always yields the same bytes.
func (g *Generator) renderPDF(c Content, stamp time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle(fmt.Sprintf("Payment Receipt %s", c.ReceiptNumber), true)
	pdf.SetAuthor(c.Institution, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin

	// Header band
	pdf.SetFillColor(30, 64, 175)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentW, 14, tr(c.Institution), "", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 8, tr(c.Subtitle), "", 1, "C", true, 0, "")
	pdf.Ln(6)

	pdf.SetTextColor(17, 24, 39)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, tr(c.Heading), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Status badge
	if c.Completed {
		pdf.SetFillColor(22, 163, 74)
	} else {
		pdf.SetFillColor(217, 119, 6)
	}
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	badgeW := pdf.GetStringWidth(c.Status) + 10
	pdf.SetX((pageW - badgeW) / 2)
	pdf.CellFormat(badgeW, 7, tr(c.Status), "", 1, "C", true, 0, "")
	pdf.Ln(6)

	// Details
	pdf.SetDrawColor(229, 231, 235)
	pdf.SetLineWidth(0.2)
	pdf.SetTextColor(17, 24, 39)
	for _, f := range c.Details {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelWidth, rowHeight, tr(f.Label), "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW-labelWidth, rowHeight, tr(f.Value), "B", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Total
	pdf.SetFillColor(239, 246, 255)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(labelWidth, 12, tr(c.TotalLabel), "TB", 0, "L", true, 0, "")
	pdf.CellFormat(contentW-labelWidth, 12, tr(c.Total), "TB", 1, "R", true, 0, "")
	pdf.Ln(8)

	// Bank details
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 8, "Bank Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, f := range c.Bank {
		pdf.CellFormat(labelWidth, 6, tr(f.Label), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW-labelWidth, 6, tr(f.Value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Footer
	y := pdf.GetY()
	pdf.Line(pageMargin, y, pageW-pageMargin, y)
	pdf.Ln(3)
	pdf.SetTextColor(107, 114, 128)
	pdf.SetFont("Helvetica", "I", 9)
	for _, line := range c.Footer {
		pdf.MultiCell(contentW, 5, tr(line), "", "C", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
