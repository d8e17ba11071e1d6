package payroll

import (
	"errors"
	"fmt"
)

// Фатальные ошибки: расчет прерывается, отчет не строится
var (
	ErrPayrollDayMismatch      = errors.New("period end date is not on the employer payroll day")
	ErrInvalidWindow           = errors.New("period start date is after end date")
	ErrTaxRatesMissing         = errors.New("tax rates are missing for the tax year")
	ErrWithholdingTableMissing = errors.New("federal withholding table is missing for the filing status")
	ErrBracketNotFound         = errors.New("no federal withholding bracket matches the adjusted wage")
	ErrInvalidQuarter          = errors.New("quarter must be between 1 and 4")
)

type WarningCode string

// Предупреждения: расчет продолжается со значениями по умолчанию
const (
	WarnNoEntries          WarningCode = "no_entries"
	WarnWithholdingSkipped WarningCode = "withholding_skipped"
	WarnInvalidProfile     WarningCode = "invalid_withholding_profile"
	WarnFallbackTaxYear    WarningCode = "fallback_tax_year"
	WarnDuplicateDate      WarningCode = "duplicate_date"
)

type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func NewWarning(code WarningCode, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
