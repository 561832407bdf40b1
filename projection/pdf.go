package projection

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDFExporter lays a report out on a single A4 page.
type PDFExporter struct {
	Format *Formatter
	Now    func() time.Time
}

func NewPDFExporter(f *Formatter) *PDFExporter {
	return &PDFExporter{Format: f, Now: time.Now}
}

func (e *PDFExporter) Export(ctx context.Context, r Report, customerName string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if customerName == "" {
		customerName = DefaultCustomerName
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Land Investment Report", true)
	pdf.SetAuthor("landcheck", true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Land Investment Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr("Prepared for "+customerName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, e.Now().Format("2 January 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFillColor(232, 245, 233)
	for i, line := range e.Format.Lines(r) {
		fill := i%2 == 0
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(85, 10, tr(line.Label), "1", 0, "L", fill, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(85, 10, tr(line.Value), "1", 1, "R", fill, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, tr(e.Format.Disclaimer()), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return &Document{
		Filename:    Filename(customerName, "pdf"),
		ContentType: "application/pdf",
		Body:        buf.Bytes(),
	}, nil
}
