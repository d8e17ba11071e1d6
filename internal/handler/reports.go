package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/payroll"
	"nanny-payroll-bot/internal/report"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const actionPayslipPDF = "payslip_pdf"

// showPayslip строит расчетный лист за период, заканчивающийся в день выплаты
func (h *Handler) showPayslip(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user, ok := h.currentUser(chatID)
	if !ok {
		return
	}

	name, rest := splitEmployee(args)
	parsed, err := parsePayslip(rest, h.now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error()+"\nUsage: /payslip [Name:] [end date] [text|pdf|json]")
		return
	}

	employee, err := h.resolveEmployee(user, name)
	if err != nil {
		h.replyError(chatID, "find employee", err)
		return
	}

	end := parsed.end
	if end.IsZero() {
		if _, end, err = h.services.Payroll.DefaultPeriod(h.now()); err != nil {
			h.replyError(chatID, "get pay period", err)
			return
		}
	}

	r, err := h.services.Payroll.Timesheet(employee.Name, end)
	if err != nil {
		h.replyError(chatID, "build payslip", err)
		return
	}

	switch parsed.format {
	case "pdf":
		h.sendPayslipDocument(chatID, r)
	case "json":
		data, err := json.MarshalIndent(report.NewPayslipView(r), "", "  ")
		if err != nil {
			h.replyError(chatID, "build payslip", err)
			return
		}
		h.sendDocument(chatID, fmt.Sprintf("Payroll_%s_%s.json", employee.FileStem(), end.Format(models.DateLayout)), data, "")
	default:
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📄 PDF",
					callbackData(actionPayslipPDF, strconv.FormatUint(uint64(employee.ID), 10), end.Format(models.DateLayout))),
			),
		)
		h.replyWithMarkup(chatID, report.PayslipText(r), keyboard)
	}
}

// sendPayslipPDF обрабатывает кнопку PDF под расчетным листом
func (h *Handler) sendPayslipPDF(chatID int64, parts []string) {
	user, ok := h.currentUser(chatID)
	if !ok {
		return
	}
	if len(parts) != 2 {
		h.logger.WithField("parts", parts).Warn("Malformed payslip callback")
		return
	}

	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		h.logger.WithField("id", parts[0]).Warn("Malformed payslip callback")
		return
	}
	end, err := time.Parse(models.DateLayout, parts[1])
	if err != nil {
		h.logger.WithField("end", parts[1]).Warn("Malformed payslip callback")
		return
	}

	employee, err := h.services.Employees.GetByID(uint(id))
	if err != nil || employee == nil {
		h.reply(chatID, "❌ Employee not found.")
		return
	}
	if !user.CanView(employee) {
		h.reply(chatID, "❌ Access denied.")
		return
	}

	r, err := h.services.Payroll.Timesheet(employee.Name, end)
	if err != nil {
		h.replyError(chatID, "build payslip", err)
		return
	}
	h.sendPayslipDocument(chatID, r)
}

func (h *Handler) sendPayslipDocument(chatID int64, r *payroll.Report) {
	doc, err := report.PayslipPDF(r)
	if err != nil {
		h.replyError(chatID, "render payslip", err)
		return
	}
	h.sendDocument(chatID, doc.Name, doc.Data, "Payslip No. "+doc.Number)
}

// showQuarterly отправляет квартальный отчет текстом и CSV
func (h *Handler) showQuarterly(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.requireAdmin(chatID); !ok {
		return
	}

	year, quarter, err := parseQuarter(args, h.now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error()+"\nUsage: /quarterly [year] [quarter]")
		return
	}

	summaries, err := h.services.Payroll.Quarterly(year, quarter)
	if err != nil {
		h.replyError(chatID, "build quarterly report", err)
		return
	}

	h.reply(chatID, report.QuarterlyText(year, quarter, summaries))
	if len(summaries) == 0 {
		return
	}

	data, err := report.QuarterlyCSV(summaries, h.config.OccupationalCode)
	if err != nil {
		h.replyError(chatID, "build quarterly report", err)
		return
	}
	h.sendDocument(chatID, report.QuarterlyFileName(year, quarter), data, "")
}

// showAnnual отправляет годовой свод по сотрудникам
func (h *Handler) showAnnual(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.requireAdmin(chatID); !ok {
		return
	}

	year, err := parseYear(args, h.now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error()+"\nUsage: /annual [year]")
		return
	}

	summaries, err := h.services.Payroll.Annual(year)
	if err != nil {
		h.replyError(chatID, "build annual report", err)
		return
	}

	rows := report.AnnualSummaries(summaries)
	h.reply(chatID, report.AnnualText(year, rows))
	if len(rows) == 0 {
		return
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		h.replyError(chatID, "build annual report", err)
		return
	}
	h.sendDocument(chatID, fmt.Sprintf("Annual_%d.json", year), data, "")
}

// showHolidays показывает праздники года
func (h *Handler) showHolidays(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.currentUser(chatID); !ok {
		return
	}

	year, err := parseYear(args, h.now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	holidays, err := h.services.Holidays.GetForYear(year)
	if err != nil {
		h.replyError(chatID, "list holidays", err)
		return
	}
	h.reply(chatID, report.HolidaysText(year, holidays))
}
