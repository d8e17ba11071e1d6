package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"
	"nanny-payroll-bot/internal/report"
	"nanny-payroll-bot/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type employeeView struct {
	Name    string          `json:"name"`
	SSN     string          `json:"ssn"`
	PayRate decimal.Decimal `json:"pay_rate"`
	Address string          `json:"address"`
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.services.Employees.List()
	if err != nil {
		failErr(w, r, h.logger, err)
		return
	}

	views := make([]employeeView, 0, len(employees))
	for _, e := range employees {
		views = append(views, employeeView{
			Name:    e.Name,
			SSN:     report.MaskSSN(e.SSN),
			PayRate: e.PayRate,
			Address: e.Address(),
		})
	}
	success(w, r, views)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	name := employeeName(r)

	end, err := queryDate(r, "end")
	if err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if end.IsZero() {
		if _, end, err = h.services.Payroll.DefaultPeriod(h.now()); err != nil {
			failErr(w, r, h.logger, err)
			return
		}
	}

	start, err := queryDate(r, "start")
	if err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	var rep *payroll.Report
	if start.IsZero() {
		rep, err = h.services.Payroll.Timesheet(name, end)
	} else {
		rep, err = h.services.Payroll.TimesheetRange(name, start, end)
	}
	if err != nil {
		failErr(w, r, h.logger, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		success(w, r, report.NewPayslipView(rep))
	case "text":
		writeFile(w, "text/plain; charset=utf-8", "", []byte(report.PayslipText(rep)))
	case "pdf":
		doc, err := report.PayslipPDF(rep)
		if err != nil {
			failErr(w, r, h.logger, err)
			return
		}
		w.Header().Set("X-Document-Number", doc.Number)
		writeFile(w, doc.ContentType, doc.Name, doc.Data)
	default:
		fail(w, r, http.StatusBadRequest, "bad_request", "format must be json, text or pdf")
	}
}

// handleEntries без параметров отдает все записи в формате файла записей
func (h *Handler) handleEntries(w http.ResponseWriter, r *http.Request) {
	employee, err := h.services.Employees.Get(employeeName(r))
	if err != nil {
		failErr(w, r, h.logger, err)
		return
	}

	start, err := queryDate(r, "start")
	if err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if start.IsZero() && end.IsZero() {
		data, err := h.services.Employees.ExportEntries(employee)
		if err != nil {
			failErr(w, r, h.logger, err)
			return
		}
		writeFile(w, "application/json", employee.FileStem()+"_TimeEntries.json", data)
		return
	}

	if end.IsZero() {
		end = h.now()
	}
	entries := employee.EntriesInRange(start, end)

	views := make([]report.EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, report.NewEntryView(e))
	}
	success(w, r, views)
}

type addEntryRequest struct {
	Date          string          `json:"date"`
	Hours         decimal.Decimal `json:"hours"`
	PayType       string          `json:"pay_type"`
	Reimbursement decimal.Decimal `json:"reimbursement"`
	Note          string          `json:"note"`
}

type addEntryResponse struct {
	ID       uint              `json:"id"`
	Entry    report.EntryView  `json:"entry"`
	TaxYear  int               `json:"tax_year"`
	Warnings []payroll.Warning `json:"warnings"`
}

func (h *Handler) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var body addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", "invalid json body")
		return
	}

	date, err := time.Parse(models.DateLayout, body.Date)
	if err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
		return
	}

	req := service.AddTimeRequest{
		Date:          date,
		Hours:         body.Hours,
		Reimbursement: body.Reimbursement,
		Note:          body.Note,
	}
	if body.PayType != "" {
		payType, err := models.ParsePayType(body.PayType)
		if err != nil {
			fail(w, r, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		req.PayType = &payType
	}

	employee, err := h.services.Employees.Get(employeeName(r))
	if err != nil {
		failErr(w, r, h.logger, err)
		return
	}

	entry, warnings, err := h.services.Entries.AddWorkedTime(employee, req)
	if err != nil {
		failErr(w, r, h.logger, err)
		return
	}
	if warnings == nil {
		warnings = []payroll.Warning{}
	}

	created(w, r, addEntryResponse{
		ID:       entry.ID,
		Entry:    report.NewEntryView(entry),
		TaxYear:  entry.TaxYear,
		Warnings: warnings,
	})
}

func (h *Handler) handleQuarterly(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", h.now().Year())
	if err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	quarter, err := queryInt(r, "quarter", (int(h.now().Month())-1)/3+1)
	if err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	summaries, err := h.services.Payroll.Quarterly(year, quarter)
	if err != nil {
		failErr(w, r, h.logger, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		success(w, r, report.QuarterlyRows(summaries, h.occupationalCode))
		return
	}

	data, err := report.QuarterlyCSV(summaries, h.occupationalCode)
	if err != nil {
		failErr(w, r, h.logger, err)
		return
	}
	writeFile(w, "text/csv", report.QuarterlyFileName(year, quarter), data)
}

func (h *Handler) handleAnnual(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", h.now().Year())
	if err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	summaries, err := h.services.Payroll.Annual(year)
	if err != nil {
		failErr(w, r, h.logger, err)
		return
	}
	success(w, r, report.AnnualSummaries(summaries))
}

func (h *Handler) handleHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", h.now().Year())
	if err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	holidays, err := h.services.Holidays.GetForYear(year)
	if err != nil {
		failErr(w, r, h.logger, err)
		return
	}

	type holidayView struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}
	views := make([]holidayView, 0, len(holidays))
	for _, hd := range holidays {
		views = append(views, holidayView{Date: hd.Date.Format(models.DateLayout), Name: hd.Name})
	}
	success(w, r, views)
}

func employeeName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// queryDate возвращает нулевое время, если параметр не задан
func queryDate(r *http.Request, key string) (time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", key)
	}
	return t, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return n, nil
}
