package report

import (
	"time"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"

	"github.com/shopspring/decimal"
)

type PartyView struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id,omitempty"`
}

type EntryView struct {
	Date          string          `json:"date"`
	PayType       string          `json:"pay_type"`
	Hours         decimal.Decimal `json:"hours"`
	PayRate       decimal.Decimal `json:"pay_rate"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
	Reimbursement decimal.Decimal `json:"reimbursement"`
	Note          string          `json:"note,omitempty"`
}

// PayslipView - расчетный лист в виде для JSON и текста
type PayslipView struct {
	Employer    PartyView             `json:"employer"`
	Employee    PartyView             `json:"employee"`
	PayrollDay  string                `json:"payroll_day_name"`
	Start       string                `json:"start"`
	End         string                `json:"end"`
	YTDStart    string                `json:"ytd_start"`
	Entries     []EntryView           `json:"entries"`
	Current     payroll.Totals        `json:"current"`
	YearToDate  payroll.Totals        `json:"year_to_date"`
	Caps        payroll.CapResult     `json:"caps"`
	Withholding *payroll.Worksheet    `json:"withholding_worksheet,omitempty"`
	Leave       payroll.LeaveBalances `json:"leave"`
	Warnings    []payroll.Warning     `json:"warnings"`
	GeneratedAt time.Time             `json:"generated_at"`
}

func NewPayslipView(r *payroll.Report) PayslipView {
	view := PayslipView{
		Employer: PartyView{
			Name:    r.Employer.Name,
			Address: r.Employer.Address(),
			TaxID:   r.Employer.EIN,
		},
		Employee: PartyView{
			Name:    r.Employee.Name,
			Address: r.Employee.Address(),
			TaxID:   MaskSSN(r.Employee.SSN),
		},
		PayrollDay:  r.Employer.PayrollDayName(),
		Start:       r.Start.Format(models.DateLayout),
		End:         r.End.Format(models.DateLayout),
		YTDStart:    r.YTDStart.Format(models.DateLayout),
		Entries:     make([]EntryView, 0, len(r.Entries)),
		Current:     r.Current.Totals(),
		YearToDate:  r.YearToDate.Totals(),
		Caps:        r.Caps,
		Withholding: r.Worksheet,
		Leave:       r.Leave,
		Warnings:    r.Warnings,
		GeneratedAt: time.Now().UTC(),
	}
	if view.Warnings == nil {
		view.Warnings = []payroll.Warning{}
	}

	for _, e := range r.Entries {
		view.Entries = append(view.Entries, NewEntryView(e))
	}
	return view
}

func NewEntryView(e *models.TimeEntry) EntryView {
	gross := e.PayRate.Mul(e.Hours)
	if taxes, err := e.Taxes(); err == nil {
		gross = taxes.GrossPay
	}
	return EntryView{
		Date:          e.Date.Format(models.DateLayout),
		PayType:       e.PayType.String(),
		Hours:         e.Hours,
		PayRate:       e.PayRate,
		GrossPay:      gross.Round(2),
		Reimbursement: e.Reimbursement,
		Note:          e.Note,
	}
}
