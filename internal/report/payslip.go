package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// Document - сформированный файл отчета
type Document struct {
	Number      string
	Name        string
	ContentType string
	Data        []byte
}

func PayslipFileName(employee *models.Employee, end time.Time) string {
	return fmt.Sprintf("Payroll_%s_%s.pdf", employee.FileStem(), end.Format(models.DateLayout))
}

// PayslipPDF строит расчетный лист за период в PDF
func PayslipPDF(r *payroll.Report) (*Document, error) {
	number := uuid.NewString()

	pdf := gofpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Payslip %s", r.Employee.Name), false)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(120, 10, "Payslip")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 10, "No. "+number, "", 0, "R", false, 0, "")
	pdf.Ln(12)

	partyBlock(pdf, tr, "Employer", r.Employer.Name, r.Employer.AddressMultiline(), "EIN "+r.Employer.EIN)
	partyBlock(pdf, tr, "Employee", r.Employee.Name, r.Employee.AddressMultiline(), "SSN "+MaskSSN(r.Employee.SSN))

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Pay period: %s to %s, paid on %s",
		r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout), r.Employer.PayrollDayName()))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Year to date from %s", r.YTDStart.Format(models.DateLayout)))
	pdf.Ln(9)

	entriesTable(pdf, tr, r.Entries)

	c, y := r.Current.Totals(), r.YearToDate.Totals()
	totalsTable(pdf, tr, "Employee", employeeLines(c, y))
	totalsTable(pdf, tr, "Employer contributions", employerLines(c, y))

	sectionTitle(pdf, "Leave (hours)")
	pdf.SetFont("Helvetica", "", 9)
	for _, l := range []struct {
		name    string
		balance payroll.LeaveBalance
	}{
		{"Vacation", r.Leave.Vacation},
		{"Sick", r.Leave.Sick},
		{"Holiday", r.Leave.Holiday},
	} {
		pdf.CellFormat(50, 5, l.name, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 5, "used "+Hours(l.balance.Used), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 5, "available "+Hours(l.balance.Available), "", 1, "R", false, 0, "")
	}

	if len(r.Warnings) > 0 {
		sectionTitle(pdf, "Notes")
		pdf.SetFont("Helvetica", "I", 8)
		for _, w := range r.Warnings {
			pdf.MultiCell(0, 4, tr(w.Message), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}

	return &Document{
		Number:      number,
		Name:        PayslipFileName(r.Employee, r.End),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

func partyBlock(pdf *gofpdf.Fpdf, tr func(string) string, title, name, address, taxID string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 5, title)
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "", 10)
	lines := []string{name}
	if address != "" {
		lines = append(lines, strings.Split(address, "\n")...)
	}
	lines = append(lines, taxID)
	for _, l := range lines {
		pdf.Cell(0, 5, tr(l))
		pdf.Ln(5)
	}
	pdf.Ln(3)
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, title)
	pdf.Ln(7)
}

func entriesTable(pdf *gofpdf.Fpdf, tr func(string) string, entries []*models.TimeEntry) {
	sectionTitle(pdf, "Time entries")

	widths := []float64{28, 32, 18, 24, 26, 26, 30}
	header := []string{"Date", "Type", "Hours", "Rate", "Gross", "Reimb.", "Note"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, e := range entries {
		v := NewEntryView(e)
		cells := []string{v.Date, v.PayType, Hours(v.Hours), Money(v.PayRate), Money(v.GrossPay), Money(v.Reimbursement), tr(v.Note)}
		for i, c := range cells {
			align := "R"
			if i == 0 || i == 1 || i == 6 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 5, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func totalsTable(pdf *gofpdf.Fpdf, tr func(string) string, title string, lines []line) {
	sectionTitle(pdf, title)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(70, 6, "", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "This period", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, "Year to date", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, l := range lines {
		pdf.CellFormat(70, 5, tr(l.label), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 5, Money(l.current), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 5, Money(l.ytd), "", 1, "R", false, 0, "")
	}
}
