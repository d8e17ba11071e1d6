package payroll

import (
	"reflect"
	"testing"
	"time"

	"nanny-payroll-bot/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// 2024 Pub 15-T, standard withholding, single
func singleBrackets2024() []models.WithholdingBracket {
	return []models.WithholdingBracket{
		{A: dec("0"), B: dec("6000"), C: dec("0"), D: dec("0"), E: dec("0")},
		{A: dec("6000"), B: dec("17600"), C: dec("0"), D: dec("10"), E: dec("6000")},
		{A: dec("17600"), B: dec("53150"), C: dec("1160"), D: dec("12"), E: dec("17600")},
		{A: dec("53150"), B: dec("106525"), C: dec("5426"), D: dec("22"), E: dec("53150")},
		{A: dec("106525"), B: dec("197950"), C: dec("17168.5"), D: dec("24"), E: dec("106525")},
		{A: dec("197950"), B: dec("249725"), C: dec("39110.5"), D: dec("32"), E: dec("197950")},
		{A: dec("249725"), B: dec("615350"), C: dec("55678.5"), D: dec("35"), E: dec("249725")},
		{A: dec("615350"), B: dec("-1"), C: dec("183647.25"), D: dec("37"), E: dec("615350")},
	}
}

func testRates(year int) *models.TaxRates {
	return &models.TaxRates{
		TaxYear:                      year,
		MedicareEmployee:             dec("1.45"),
		MedicareCompany:              dec("1.45"),
		SocialSecurityEmployee:       dec("6.2"),
		SocialSecurityCompany:        dec("6.2"),
		FederalUnemployment:          dec("0.6"),
		StateUnemployment:            dec("1.2"),
		FederalUnemploymentWageCap:   dec("7000"),
		SocialSecurityWageCap:        dec("10000"),
		WithholdingAdjustmentMarried: dec("12900"),
		WithholdingAdjustmentOther:   dec("8600"),
		FederalWithholding: models.FederalWithholdingTable{
			models.SectionMultipleJobsNotChecked: {
				models.FilingSingle: singleBrackets2024(),
			},
		},
	}
}

func entry(date time.Time, hours, rate string, payType models.PayType) *models.TimeEntry {
	return &models.TimeEntry{
		Employee: "Mary Poppins",
		Date:     date,
		TaxYear:  date.Year(),
		Hours:    dec(hours),
		PayRate:  dec(rate),
		PayType:  payType,
	}
}

// accumulatorWithGross строит аккумулятор с одной записью на заданную сумму
func accumulatorWithGross(rates *models.TaxRates, gross string) *Accumulator {
	e := &models.TimeEntry{TaxYear: rates.TaxYear, Hours: dec(gross), PayRate: dec("1")}
	if err := e.AttachTaxRates(rates); err != nil {
		panic(err)
	}
	acc := NewAccumulator()
	if err := acc.AddEntry(e); err != nil {
		panic(err)
	}
	return acc
}

type fakeProvider struct {
	rates   map[int]*models.TaxRates
	entries []*models.TimeEntry
	calls   int
}

func newFakeProvider(entries ...*models.TimeEntry) *fakeProvider {
	return &fakeProvider{
		rates:   map[int]*models.TaxRates{2023: testRates(2023), 2024: testRates(2024)},
		entries: entries,
	}
}

func (f *fakeProvider) TaxRates(year int) (*models.TaxRates, error) {
	return f.rates[year], nil
}

func (f *fakeProvider) TimeEntriesInRange(_ *models.Employee, start, end time.Time) ([]*models.TimeEntry, error) {
	f.calls++
	var result []*models.TimeEntry
	for _, e := range f.entries {
		if !e.Date.Before(start) && !e.Date.After(end) {
			result = append(result, e)
		}
	}
	return result, nil
}

// assertTotalsEqual сравнивает значения, а не внутреннее представление decimal
func assertTotalsEqual(t *testing.T, want, got Totals) {
	t.Helper()
	wv, gv := reflect.ValueOf(want), reflect.ValueOf(got)
	for i := 0; i < wv.NumField(); i++ {
		w := wv.Field(i).Interface().(decimal.Decimal)
		g := gv.Field(i).Interface().(decimal.Decimal)
		assert.True(t, w.Equal(g), "%s: want %s, got %s", wv.Type().Field(i).Name, w, g)
	}
}
