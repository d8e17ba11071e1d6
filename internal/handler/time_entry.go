package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/report"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// listEmployees показывает сотрудников, доступных пользователю
func (h *Handler) listEmployees(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user, ok := h.currentUser(chatID)
	if !ok {
		return
	}

	employees, err := h.services.Employees.List()
	if err != nil {
		h.replyError(chatID, "list employees", err)
		return
	}

	var lines []string
	for _, e := range employees {
		if !user.CanView(e) {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s, %s/h", e.Name, report.Money(e.PayRate)))
	}

	if len(lines) == 0 {
		h.reply(chatID, "📭 No employees available.")
		return
	}
	h.reply(chatID, "👥 Employees:\n\n"+strings.Join(lines, "\n"))
}

// addTime добавляет запись времени
func (h *Handler) addTime(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user, ok := h.currentUser(chatID)
	if !ok {
		return
	}

	name, rest := splitEmployee(args)
	req, err := parseAddTime(rest, h.now())
	if errors.Is(err, errNoArgs) {
		h.reply(chatID, `⏱ Usage: /addtime [Name:] <date> <hours> [type] [+reimbursement] [note]

Examples:
/addtime 2024-01-08 8
/addtime 01/09 8 sick
/addtime Mary Poppins: today 6 +12.50 museum tickets

Types: regular, pto, holiday, sick`)
		return
	}
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	employee, err := h.resolveEmployee(user, name)
	if err != nil {
		h.replyError(chatID, "find employee", err)
		return
	}

	entry, warnings, err := h.services.Entries.AddWorkedTime(employee, req)
	if errors.Is(err, models.ErrUnpaidTimeOff) {
		h.reply(chatID, "❌ Unpaid time off is not recorded. Simply skip the day.")
		return
	}
	if err != nil {
		h.replyError(chatID, "add time", err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Added #%d for %s\n📅 %s\n⏱ %s h %s × %s",
		entry.ID, employee.Name, entry.Date.Format("Mon 2006-01-02"), report.Hours(entry.Hours), entry.PayType, report.Money(entry.PayRate))
	if entry.Reimbursement.IsPositive() {
		fmt.Fprintf(&b, "\n💵 Reimbursement %s", report.Money(entry.Reimbursement))
	}
	if entry.Note != "" {
		fmt.Fprintf(&b, "\n📝 %s", entry.Note)
	}
	for _, w := range warnings {
		fmt.Fprintf(&b, "\n⚠️ %s", w.Message)
	}
	h.reply(chatID, b.String())
}

// showEntries показывает записи за период. По умолчанию - текущий период выплаты.
func (h *Handler) showEntries(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user, ok := h.currentUser(chatID)
	if !ok {
		return
	}

	name, rest := splitEmployee(args)
	start, end, err := parseRange(rest, h.now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	employee, err := h.resolveEmployee(user, name)
	if err != nil {
		h.replyError(chatID, "find employee", err)
		return
	}

	if end.IsZero() {
		// период, в который попадает сегодняшний день
		_, end, err = h.services.Payroll.DefaultPeriod(h.now().AddDate(0, 0, 6))
		if err != nil {
			h.replyError(chatID, "get pay period", err)
			return
		}
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -h.config.PayPeriodDays)
	}

	h.reply(chatID, fmt.Sprintf("%s\n\n📅 %s – %s",
		report.EntriesText(employee, employee.EntriesInRange(start, end)),
		start.Format(models.DateLayout), end.Format(models.DateLayout)))
}

// deleteEntry удаляет запись по ID
func (h *Handler) deleteEntry(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user, ok := h.currentUser(chatID)
	if !ok {
		return
	}

	name, rest := splitEmployee(args)
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(rest), "#"), 10, 64)
	if err != nil {
		h.reply(chatID, "❌ Usage: /deleteentry [Name:] <id>\nEntry IDs are shown by /entries.")
		return
	}

	employee, err := h.resolveEmployee(user, name)
	if err != nil {
		h.replyError(chatID, "find employee", err)
		return
	}

	if err := h.services.Entries.DeleteEntry(employee, uint(id)); err != nil {
		h.replyError(chatID, "delete entry", err)
		return
	}
	h.reply(chatID, fmt.Sprintf("🗑 Entry #%d deleted.", id))
}

// exportEntries отправляет все записи сотрудника файлом
func (h *Handler) exportEntries(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user, ok := h.currentUser(chatID)
	if !ok {
		return
	}

	employee, err := h.resolveEmployee(user, employeeArg(args))
	if err != nil {
		h.replyError(chatID, "find employee", err)
		return
	}

	data, err := h.services.Employees.ExportEntries(employee)
	if err != nil {
		h.replyError(chatID, "export entries", err)
		return
	}

	h.sendDocument(chatID, employee.FileStem()+"_TimeEntries.json", data,
		fmt.Sprintf("%d time entries of %s", len(employee.TimeEntries), employee.Name))
}
