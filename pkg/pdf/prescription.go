// Package pdf renders prescriptions as downloadable documents. Output is
// generated on demand and never stored.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/cureconnect/cureconnect/internal/domain/doctor"
	"github.com/cureconnect/cureconnect/internal/domain/prescription"
)

// RenderPrescription produces the PDF byte stream for one prescription.
func RenderPrescription(p *prescription.Prescription, d *doctor.Doctor) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "CureConnect")
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Dr. %s", d.FullName()))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, d.Specialization)
	pdf.Ln(5)
	if d.Location != "" {
		pdf.Cell(0, 6, d.Location)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Prescription ID: %s", p.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Issued: %s", p.CreatedAt.Format("2 January 2006")))
	pdf.Ln(10)

	// Medication table
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(60, 8, "Medication", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Dosage", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 8, "Frequency", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 8, "Duration", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, med := range p.Medications {
		pdf.CellFormat(60, 8, med.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, med.Dosage, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 8, med.Frequency, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 8, med.Duration, "1", 1, "L", false, 0, "")
	}

	if p.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, "Notes")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, p.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering prescription pdf: %w", err)
	}
	return buf.Bytes(), nil
}
