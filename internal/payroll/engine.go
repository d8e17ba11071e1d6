package payroll

import (
	"fmt"
	"sort"
	"time"

	"nanny-payroll-bot/internal/models"

	"github.com/shopspring/decimal"
)

// DataProvider - источник данных для расчета
type DataProvider interface {
	// TaxRates возвращает (nil, nil), если ставок за год нет
	TaxRates(year int) (*models.TaxRates, error)
	// TimeEntriesInRange возвращает записи с датой в [start, end] по возрастанию даты
	TimeEntriesInRange(employee *models.Employee, start, end time.Time) ([]*models.TimeEntry, error)
}

type Config struct {
	// YTDPadDays - на сколько дней раньше первого дня выплаты в году начинается год
	YTDPadDays int
	// Удержание считается только для периодов такой длины (end - start, в днях)
	MinWithholdingPeriodDays int
	MaxWithholdingPeriodDays int
}

func DefaultConfig() Config {
	return Config{
		YTDPadDays:               6,
		MinWithholdingPeriodDays: 4,
		MaxWithholdingPeriodDays: 6,
	}
}

type Engine struct {
	provider DataProvider
	cfg      Config
}

func NewEngine(provider DataProvider, cfg Config) *Engine {
	return &Engine{provider: provider, cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

type LeaveBalance struct {
	Allotted  decimal.Decimal `json:"allotted"`
	Used      decimal.Decimal `json:"used"`
	Available decimal.Decimal `json:"available"`
}

type LeaveBalances struct {
	Vacation LeaveBalance `json:"vacation"`
	Sick     LeaveBalance `json:"sick"`
	Holiday  LeaveBalance `json:"holiday"`
}

func newLeaveBalance(allotted, used decimal.Decimal) LeaveBalance {
	return LeaveBalance{Allotted: allotted, Used: used, Available: allotted.Sub(used)}
}

// Report - расчетный лист за период вместе с итогами с начала года
type Report struct {
	Employer *models.Employer
	Employee *models.Employee

	Start    time.Time
	End      time.Time
	YTDStart time.Time

	Entries    []*models.TimeEntry
	Current    *Accumulator
	YearToDate *Accumulator

	Caps                CapResult
	Withholding         decimal.Decimal
	Worksheet           *Worksheet
	WithholdingAttached bool
	Leave               LeaveBalances

	Warnings []Warning
}

func (r *Report) warn(code WarningCode, format string, args ...any) {
	r.Warnings = append(r.Warnings, NewWarning(code, format, args...))
}

// PeriodDays - длина периода в днях (end - start)
func (r *Report) PeriodDays() int {
	return daysBetween(r.Start, r.End)
}

// FirstPayrollDate - первый день выплаты в году
func FirstPayrollDate(year int, payrollDay time.Weekday) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(payrollDay) - int(jan1.Weekday()) + 7) % 7
	return jan1.AddDate(0, 0, offset)
}

// YearToDateStart - начало года для итогов: первый день выплаты минус padDays.
// Может приходиться на декабрь прошлого года.
func YearToDateStart(end time.Time, payrollDay time.Weekday, padDays int) time.Time {
	return FirstPayrollDate(end.Year(), payrollDay).AddDate(0, 0, -padDays)
}

// LastPayrollDate - последний день выплаты не позже date
func LastPayrollDate(date time.Time, payrollDay time.Weekday) time.Time {
	date = models.DateOnly(date)
	back := (int(date.Weekday()) - int(payrollDay) + 7) % 7
	return date.AddDate(0, 0, -back)
}

// PeriodStart возвращает начало периода, заканчивающегося в end
func PeriodStart(end time.Time, periodDays int) time.Time {
	return models.DateOnly(end).AddDate(0, 0, -periodDays)
}

// Timesheet считает период [start, end] и итоги с начала года.
// Если ни у одной записи периода нет удержания, оно сохраняется на последней записи
// периода, а сотрудник помечается как измененный.
func (e *Engine) Timesheet(employer *models.Employer, employee *models.Employee, start, end time.Time) (*Report, error) {
	start, end = models.DateOnly(start), models.DateOnly(end)

	// проверка окна
	if end.Weekday() != employer.PayrollDay {
		return nil, fmt.Errorf("%w: %s is a %s, payroll day is %s",
			ErrPayrollDayMismatch, end.Format(models.DateLayout), end.Weekday(), employer.PayrollDayName())
	}
	if start.After(end) {
		return nil, ErrInvalidWindow
	}

	report := &Report{
		Employer: employer,
		Employee: employee,
		Start:    start,
		End:      end,
		YTDStart: YearToDateStart(end, employer.PayrollDay, e.cfg.YTDPadDays),
	}

	rates, err := e.requireRates(end.Year())
	if err != nil {
		return nil, err
	}
	cache := map[int]*models.TaxRates{rates.TaxYear: rates}

	// итоги периода
	entries, err := e.loadEntries(employee, start, end, cache)
	if err != nil {
		return nil, err
	}
	report.Entries = entries
	if len(entries) == 0 {
		report.warn(WarnNoEntries, "no time entries for %s between %s and %s",
			employee.Name, start.Format(models.DateLayout), end.Format(models.DateLayout))
	}
	if report.Current, err = accumulate(entries); err != nil {
		return nil, err
	}

	// итоги с начала года
	ytdEntries, err := e.loadEntries(employee, report.YTDStart, end, cache)
	if err != nil {
		return nil, err
	}
	if report.YearToDate, err = accumulate(ytdEntries); err != nil {
		return nil, err
	}

	// лимиты
	report.Caps = NewCapAdjuster(rates).Apply(report.Current, report.YearToDate)

	// федеральное удержание
	if err := e.attachWithholding(report, rates); err != nil {
		return nil, err
	}
	report.Withholding = report.Current.FederalWithholding

	report.Leave = LeaveBalances{
		Vacation: newLeaveBalance(employee.PaidVacationHoursPerYear, report.YearToDate.PaidTimeOffHours),
		Sick:     newLeaveBalance(employee.PaidSickHoursPerYear, report.YearToDate.PaidSickHours),
		Holiday:  newLeaveBalance(employee.PaidHolidayHoursPerYear, report.YearToDate.PaidHolidayHours),
	}

	return report, nil
}

func (e *Engine) attachWithholding(report *Report, rates *models.TaxRates) error {
	profile, err := report.Employee.WithholdingProfile()
	if err != nil {
		report.warn(WarnInvalidProfile, "federal withholding disabled for %s: %v", report.Employee.Name, err)
		return nil
	}
	if profile == nil || len(report.Entries) == 0 {
		return nil
	}

	// удержание за период уже учтено в суммах, даже если после него
	// на ту же дату добавили еще одну запись
	for _, entry := range report.Entries {
		if entry.HasWithholding() {
			return nil
		}
	}
	last := report.Entries[len(report.Entries)-1]

	days := report.PeriodDays()
	if days < e.cfg.MinWithholdingPeriodDays || days > e.cfg.MaxWithholdingPeriodDays {
		report.warn(WarnWithholdingSkipped, "federal withholding is only computed for %d-%d day periods, got %d",
			e.cfg.MinWithholdingPeriodDays, e.cfg.MaxWithholdingPeriodDays, days)
		return nil
	}

	ws, err := ComputeWorksheet(report.Current.GrossPay, profile, rates)
	if err != nil {
		return err
	}

	last.SetWithholding(ws.Withholding)
	report.Employee.MarkDirty()
	report.Worksheet = &ws
	report.WithholdingAttached = true

	report.Current.FederalWithholding = report.Current.FederalWithholding.Add(ws.Withholding)
	report.YearToDate.FederalWithholding = report.YearToDate.FederalWithholding.Add(ws.Withholding)
	return nil
}

// PeriodSummary - свертка записей за календарный период (квартал или год)
type PeriodSummary struct {
	Employee *models.Employee
	Start    time.Time
	End      time.Time
	Totals   *Accumulator
	Caps     CapResult
}

// QuarterRange возвращает первый и последний день квартала
func QuarterRange(year, quarter int) (time.Time, time.Time, error) {
	if quarter < 1 || quarter > 4 {
		return time.Time{}, time.Time{}, ErrInvalidQuarter
	}
	start := time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 3, -1), nil
}

// Quarterly сворачивает записи за календарный квартал без лимитов и удержания
func (e *Engine) Quarterly(employee *models.Employee, year, quarter int) (*PeriodSummary, error) {
	start, end, err := QuarterRange(year, quarter)
	if err != nil {
		return nil, err
	}
	return e.summarize(employee, start, end, false)
}

// Annual сворачивает записи за календарный год с применением годовых лимитов
func (e *Engine) Annual(employee *models.Employee, year int) (*PeriodSummary, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return e.summarize(employee, start, end, true)
}

func (e *Engine) summarize(employee *models.Employee, start, end time.Time, applyCaps bool) (*PeriodSummary, error) {
	cache := map[int]*models.TaxRates{}
	entries, err := e.loadEntries(employee, start, end, cache)
	if err != nil {
		return nil, err
	}
	totals, err := accumulate(entries)
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{Employee: employee, Start: start, End: end, Totals: totals}
	if applyCaps && totals.Entries > 0 {
		rates, err := e.ratesFor(start.Year(), cache)
		if err != nil {
			return nil, err
		}
		summary.Caps = NewCapAdjuster(rates).Apply(totals, totals)
	}
	return summary, nil
}

func (e *Engine) loadEntries(employee *models.Employee, start, end time.Time, cache map[int]*models.TaxRates) ([]*models.TimeEntry, error) {
	entries, err := e.provider.TimeEntriesInRange(employee, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load time entries: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	for _, entry := range entries {
		if _, err := entry.Taxes(); err == nil {
			continue
		}
		rates, err := e.ratesFor(entry.TaxYear, cache)
		if err != nil {
			return nil, err
		}
		if err := entry.AttachTaxRates(rates); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (e *Engine) ratesFor(year int, cache map[int]*models.TaxRates) (*models.TaxRates, error) {
	if rates, ok := cache[year]; ok {
		return rates, nil
	}
	rates, err := e.requireRates(year)
	if err != nil {
		return nil, err
	}
	cache[year] = rates
	return rates, nil
}

func (e *Engine) requireRates(year int) (*models.TaxRates, error) {
	rates, err := e.provider.TaxRates(year)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax rates for %d: %w", year, err)
	}
	if rates == nil {
		return nil, fmt.Errorf("%w: %d", ErrTaxRatesMissing, year)
	}
	return rates, nil
}

func accumulate(entries []*models.TimeEntry) (*Accumulator, error) {
	acc := NewAccumulator()
	for _, entry := range entries {
		if err := acc.AddEntry(entry); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func daysBetween(start, end time.Time) int {
	return int(models.DateOnly(end).Sub(models.DateOnly(start)).Hours() / 24)
}
