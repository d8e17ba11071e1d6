package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FilingStatus - статус из Step 1(c) формы W-4
type FilingStatus string

const (
	FilingMarried FilingStatus = "Married" // married filing jointly
	FilingSingle  FilingStatus = "Single"  // single or married filing separately
	FilingHead    FilingStatus = "Head"    // head of household
)

const DefaultPayPeriodsPerYear = 52

// ParseFilingStatus принимает ключ таблицы или распространенное сокращение
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "married", "mfj", "married filing jointly":
		return FilingMarried, nil
	case "single", "mfs", "married filing separately":
		return FilingSingle, nil
	case "head", "hoh", "head of household":
		return FilingHead, nil
	}
	return "", fmt.Errorf("unknown filing status %q", s)
}

// WithholdingProfile - выборы сотрудника из формы W-4
type WithholdingProfile struct {
	FilingStatus      FilingStatus    `json:"FilingStatus"`
	MultipleJobs      bool            `json:"MultipleJobs"`
	DependentCredit   decimal.Decimal `json:"DependentCredit"`  // Step 3, в год
	OtherIncome       decimal.Decimal `json:"OtherIncome"`      // Step 4(a), в год
	Deductions        decimal.Decimal `json:"Deductions"`       // Step 4(b), в год
	ExtraWithholding  decimal.Decimal `json:"ExtraWithholding"` // Step 4(c), за период
	PayPeriodsPerYear int             `json:"PayPeriodsPerYear"`
}

// Validate нормализует статус и проверяет суммы
func (p *WithholdingProfile) Validate() error {
	status, err := ParseFilingStatus(string(p.FilingStatus))
	if err != nil {
		return err
	}
	p.FilingStatus = status

	if p.PayPeriodsPerYear == 0 {
		p.PayPeriodsPerYear = DefaultPayPeriodsPerYear
	}
	if p.PayPeriodsPerYear < 0 {
		return errors.New("pay periods per year must be positive")
	}

	for name, v := range map[string]decimal.Decimal{
		"DependentCredit":  p.DependentCredit,
		"OtherIncome":      p.OtherIncome,
		"Deductions":       p.Deductions,
		"ExtraWithholding": p.ExtraWithholding,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// ParseWithholdingProfile разбирает сохраненный JSON профиля.
// Пустая строка означает, что профиля нет: (nil, nil).
func ParseWithholdingProfile(raw string) (*WithholdingProfile, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}

	var profile WithholdingProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse withholding profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid withholding profile: %w", err)
	}
	return &profile, nil
}
