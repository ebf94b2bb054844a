package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Column widths in mm for an A4 portrait page with 15mm margins.
var (
	memberCols  = []float64{55, 45, 35, 45}
	paymentCols = []float64{60, 70, 50}
)

// WritePDF renders the report as a PDF document.
func WritePDF(w io.Writer, r *Report) error {
	return writePDF(w, r, true)
}

func writePDF(w io.Writer, r *Report, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(15, 15, 15)

	// The core fonts are cp1252; member text arrives as UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Chama Financial Report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Chama Financial Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated on "+r.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writeSummary(pdf, r)

	heading(pdf, "Members Status")
	tableHeader(pdf, memberCols, "Name", "Phone Number", "Status", "Total Paid")
	for _, m := range r.Members {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(memberCols[0], 7, tr(m.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(memberCols[1], 7, tr(m.PhoneNumber), "1", 0, "L", false, 0, "")
		if m.HasPaid {
			pdf.SetTextColor(0, 128, 0)
		} else {
			pdf.SetTextColor(200, 0, 0)
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(memberCols[2], 7, statusLabel(m.HasPaid), "1", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(memberCols[3], 7, formatAmount(m.TotalPaid), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	heading(pdf, "Recent Payments")
	tableHeader(pdf, paymentCols, "Date", "Member", "Amount")
	pdf.SetFont("Helvetica", "", 10)
	for _, p := range r.RecentPayments {
		pdf.CellFormat(paymentCols[0], 7, p.Date.Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(paymentCols[1], 7, tr(p.MemberName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(paymentCols[2], 7, formatAmount(p.Amount), "1", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func writeSummary(pdf *fpdf.Fpdf, r *Report) {
	heading(pdf, "Summary")
	pdf.SetFillColor(240, 240, 240)

	rows := [][2]string{
		{"Total Members", fmt.Sprintf("%d", r.Summary.TotalMembers)},
		{"Paid Members", fmt.Sprintf("%d", r.Summary.PaidMembers)},
		{"Unpaid Members", fmt.Sprintf("%d", r.Summary.UnpaidMembers)},
		{"Total Collected", formatAmount(r.Summary.TotalCollected)},
		{"Expected Total", formatAmount(r.Summary.ExpectedTotal)},
		{"Collected", formatPercent(r.Summary.CollectionPercentage)},
		{"Members Paid", formatPercent(r.PaidRate)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 7, row[0], "", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", true, 0, "")
	}
	pdf.Ln(6)
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, titles ...string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(242, 242, 242)
	for i, title := range titles {
		pdf.CellFormat(widths[i], 8, title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}
