package service

import (
	"fmt"
	"sort"
	"time"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"
	"nanny-payroll-bot/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// AddTimeRequest - данные новой записи. PayType == nil означает, что вид оплаты
// не указан явно и может быть выбран по календарю праздников.
type AddTimeRequest struct {
	Date          time.Time
	Hours         decimal.Decimal
	PayType       *models.PayType
	Reimbursement decimal.Decimal
	Note          string
}

type TimeEntryService struct {
	entries  repository.TimeEntryRepository
	rates    repository.TaxRatesRepository
	holidays repository.PaidHolidayRepository
	locks    *EmployeeLocks
	logger   *logrus.Logger
}

func NewTimeEntryService(
	entries repository.TimeEntryRepository,
	rates repository.TaxRatesRepository,
	holidays repository.PaidHolidayRepository,
	locks *EmployeeLocks,
) *TimeEntryService {
	return &TimeEntryService{
		entries:  entries,
		rates:    rates,
		holidays: holidays,
		locks:    locks,
		logger:   newLogger(),
	}
}

// AddWorkedTime создает запись для сотрудника и добавляет ее в загруженную коллекцию.
// Повтор даты и отсутствие ставок за год даты не мешают созданию, а возвращаются как предупреждения.
func (s *TimeEntryService) AddWorkedTime(employee *models.Employee, req AddTimeRequest) (*models.TimeEntry, []payroll.Warning, error) {
	if employee == nil {
		return nil, nil, ErrEmployeeNotFound
	}

	unlock := s.locks.Lock(employee.Name)
	defer unlock()

	date := models.DateOnly(req.Date)
	var warnings []payroll.Warning

	s.logger.WithFields(logrus.Fields{
		"employee": employee.Name,
		"date":     date.Format(models.DateLayout),
		"hours":    req.Hours.String(),
	}).Info("Adding worked time")

	payType := models.PayTypeRegular
	note := req.Note
	if req.PayType != nil {
		payType = *req.PayType
		if payType == models.PayTypeUnpaidTimeOff {
			return nil, nil, models.ErrUnpaidTimeOff
		}
	} else {
		holiday, err := s.holidays.GetByDate(date)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check paid holidays: %w", err)
		}
		if holiday != nil {
			payType = models.PayTypePaidHoliday
			if note == "" {
				note = holiday.Name
			}
		}
	}

	taxYear, warning, err := s.taxYearFor(date)
	if err != nil {
		return nil, nil, err
	}
	if warning != nil {
		warnings = append(warnings, *warning)
	}

	if existing := employee.EntriesInRange(date, date); len(existing) > 0 {
		warnings = append(warnings, payroll.NewWarning(payroll.WarnDuplicateDate,
			"%s already has %d time entr%s on %s", employee.Name, len(existing),
			plural(len(existing), "y", "ies"), date.Format(models.DateLayout)))
	}

	entry := &models.TimeEntry{
		EmployeeID:    employee.ID,
		Employee:      employee.Name,
		Date:          date,
		TaxYear:       taxYear,
		Hours:         req.Hours,
		PayRate:       employee.PayRate,
		PayType:       payType,
		Reimbursement: req.Reimbursement,
		Note:          note,
	}
	if err := entry.Validate(); err != nil {
		return nil, nil, err
	}

	if err := s.entries.Create(entry); err != nil {
		return nil, nil, fmt.Errorf("failed to save time entry: %w", err)
	}

	employee.TimeEntries = append(employee.TimeEntries, entry)
	sort.SliceStable(employee.TimeEntries, func(i, j int) bool {
		return employee.TimeEntries[i].Date.Before(employee.TimeEntries[j].Date)
	})

	for _, w := range warnings {
		s.logger.WithField("employee", employee.Name).Warn(w.String())
	}

	return entry, warnings, nil
}

// taxYearFor возвращает год даты, если для него есть ставки, иначе последний загруженный год
func (s *TimeEntryService) taxYearFor(date time.Time) (int, *payroll.Warning, error) {
	rates, err := s.rates.GetByYear(date.Year())
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load tax rates: %w", err)
	}
	if rates != nil {
		return rates.TaxYear, nil, nil
	}

	recent, err := s.rates.GetMostRecent()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load tax rates: %w", err)
	}
	if recent == nil {
		return 0, nil, ErrNoTaxRates
	}

	w := payroll.NewWarning(payroll.WarnFallbackTaxYear,
		"no tax rates for %d, entry tagged with tax year %d", date.Year(), recent.TaxYear)
	return recent.TaxYear, &w, nil
}

// DeleteEntry удаляет запись из базы и из загруженной коллекции
func (s *TimeEntryService) DeleteEntry(employee *models.Employee, entryID uint) error {
	unlock := s.locks.Lock(employee.Name)
	defer unlock()

	index := -1
	for i, entry := range employee.TimeEntries {
		if entry.ID == entryID {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("time entry %d not found for %s", entryID, employee.Name)
	}

	if err := s.entries.Delete(entryID); err != nil {
		return err
	}
	employee.TimeEntries = append(employee.TimeEntries[:index], employee.TimeEntries[index+1:]...)

	s.logger.WithFields(logrus.Fields{
		"employee": employee.Name,
		"entry_id": entryID,
	}).Info("Time entry deleted")
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
