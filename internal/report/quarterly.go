package report

import (
	"bytes"
	"fmt"

	"nanny-payroll-bot/internal/payroll"

	"github.com/gocarina/gocsv"
)

const DefaultOccupationalCode = "399011"

// QuarterlyRow - строка квартального отчета по зарплате для штата
type QuarterlyRow struct {
	SSN              string `csv:"ssn"`
	LastName         string `csv:"last_name"`
	FirstName        string `csv:"first_name"`
	MiddleInitial    string `csv:"middle_initial"`
	Hours            int64  `csv:"hours"`
	GrossWages       string `csv:"gross_wages"`
	OccupationalCode string `csv:"occupational_code"`
}

func QuarterlyRows(summaries []*payroll.PeriodSummary, occupationalCode string) []*QuarterlyRow {
	if occupationalCode == "" {
		occupationalCode = DefaultOccupationalCode
	}

	rows := make([]*QuarterlyRow, 0, len(summaries))
	for _, s := range summaries {
		first, middle, last := s.Employee.NameParts()
		rows = append(rows, &QuarterlyRow{
			SSN:              s.Employee.SSN,
			LastName:         last,
			FirstName:        first,
			MiddleInitial:    middle,
			Hours:            s.Totals.PaidHours().Ceil().IntPart(),
			GrossWages:       s.Totals.GrossPay.StringFixed(2),
			OccupationalCode: occupationalCode,
		})
	}
	return rows
}

// QuarterlyCSV возвращает CSV без строки заголовков
func QuarterlyCSV(summaries []*payroll.PeriodSummary, occupationalCode string) ([]byte, error) {
	var buf bytes.Buffer
	if err := gocsv.MarshalWithoutHeaders(QuarterlyRows(summaries, occupationalCode), &buf); err != nil {
		return nil, fmt.Errorf("failed to write quarterly csv: %w", err)
	}
	return buf.Bytes(), nil
}

func QuarterlyFileName(year, quarter int) string {
	return fmt.Sprintf("Quarterly_%d_Q%d.csv", year, quarter)
}
