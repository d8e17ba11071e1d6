package service

import (
	"fmt"
	"time"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"
	"nanny-payroll-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// dataProvider отдает движку ставки из базы и записи из загруженной коллекции сотрудника,
// поэтому рассчитанное удержание попадает в ту же коллекцию, что потом сохраняется.
type dataProvider struct {
	rates repository.TaxRatesRepository
}

func (p *dataProvider) TaxRates(year int) (*models.TaxRates, error) {
	return p.rates.GetByYear(year)
}

func (p *dataProvider) TimeEntriesInRange(employee *models.Employee, start, end time.Time) ([]*models.TimeEntry, error) {
	return employee.EntriesInRange(start, end), nil
}

type PayrollService struct {
	employers  *EmployerService
	employees  *EmployeeService
	engine     *payroll.Engine
	periodDays int
	logger     *logrus.Logger
}

func NewPayrollService(
	employers *EmployerService,
	employees *EmployeeService,
	rates repository.TaxRatesRepository,
	cfg payroll.Config,
	periodDays int,
) *PayrollService {
	return &PayrollService{
		employers:  employers,
		employees:  employees,
		engine:     payroll.NewEngine(&dataProvider{rates: rates}, cfg),
		periodDays: periodDays,
		logger:     newLogger(),
	}
}

// Employer возвращает настроенного работодателя
func (s *PayrollService) Employer() (*models.Employer, error) {
	return s.employers.Get()
}

// DefaultPeriod возвращает период по умолчанию, заканчивающийся в последний день выплаты не позже now
func (s *PayrollService) DefaultPeriod(now time.Time) (time.Time, time.Time, error) {
	employer, err := s.employers.Get()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := payroll.LastPayrollDate(now, employer.PayrollDay)
	return payroll.PeriodStart(end, s.periodDays), end, nil
}

// Timesheet строит расчетный лист за стандартный период, заканчивающийся в end
func (s *PayrollService) Timesheet(employeeName string, end time.Time) (*payroll.Report, error) {
	return s.TimesheetRange(employeeName, payroll.PeriodStart(end, s.periodDays), end)
}

// TimesheetRange строит расчетный лист за [start, end]. Если движок рассчитал
// федеральное удержание, записи сотрудника сохраняются. Загрузка, расчет и
// сохранение идут под мьютексом сотрудника.
func (s *PayrollService) TimesheetRange(employeeName string, start, end time.Time) (*payroll.Report, error) {
	unlock := s.employees.Locks().Lock(employeeName)
	defer unlock()

	employer, err := s.employers.Get()
	if err != nil {
		return nil, err
	}
	employee, err := s.employees.Get(employeeName)
	if err != nil {
		return nil, err
	}

	logger := s.logger.WithFields(logrus.Fields{
		"employee": employee.Name,
		"start":    start.Format(models.DateLayout),
		"end":      end.Format(models.DateLayout),
	})

	report, err := s.engine.Timesheet(employer, employee, start, end)
	if err != nil {
		logger.WithError(err).Error("Failed to build timesheet")
		return nil, err
	}

	for _, w := range report.Warnings {
		logger.WithField("code", w.Code).Warn(w.Message)
	}

	if report.WithholdingAttached {
		if _, err := s.employees.Save(employee); err != nil {
			logger.WithError(err).Error("Failed to save federal withholding")
			return nil, fmt.Errorf("failed to save federal withholding: %w", err)
		}
		logger.WithField("withholding", report.Withholding.StringFixed(2)).Info("Federal withholding attached")
	}

	logger.WithField("gross_pay", report.Current.GrossPay.StringFixed(2)).Info("Timesheet built")
	return report, nil
}

// Quarterly сворачивает квартал по всем сотрудникам, у которых были записи в квартале
func (s *PayrollService) Quarterly(year, quarter int) ([]*payroll.PeriodSummary, error) {
	return s.summarizeAll(func(e *models.Employee) (*payroll.PeriodSummary, error) {
		return s.engine.Quarterly(e, year, quarter)
	})
}

// Annual сворачивает год по всем сотрудникам с применением годовых лимитов
func (s *PayrollService) Annual(year int) ([]*payroll.PeriodSummary, error) {
	return s.summarizeAll(func(e *models.Employee) (*payroll.PeriodSummary, error) {
		return s.engine.Annual(e, year)
	})
}

// EmployeeAnnual сворачивает год по одному сотруднику
func (s *PayrollService) EmployeeAnnual(employeeName string, year int) (*payroll.PeriodSummary, error) {
	employee, err := s.employees.Get(employeeName)
	if err != nil {
		return nil, err
	}
	return s.engine.Annual(employee, year)
}

func (s *PayrollService) summarizeAll(fold func(e *models.Employee) (*payroll.PeriodSummary, error)) ([]*payroll.PeriodSummary, error) {
	employees, err := s.employees.ListWithEntries()
	if err != nil {
		return nil, err
	}

	var summaries []*payroll.PeriodSummary
	for _, employee := range employees {
		summary, err := fold(employee)
		if err != nil {
			s.logger.WithError(err).WithField("employee", employee.Name).Error("Failed to summarize period")
			return nil, fmt.Errorf("%s: %w", employee.Name, err)
		}
		if summary.Totals.Entries == 0 {
			continue
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
