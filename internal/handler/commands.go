package handler

import (
	"errors"
	"fmt"
	"strings"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)
	case "register":
		h.startRegistration(message)
	case "me":
		h.showProfile(message)

	// Сотрудники и время
	case "employees":
		h.listEmployees(message)
	case "addtime":
		h.addTime(message, args)
	case "entries":
		h.showEntries(message, args)
	case "deleteentry":
		h.deleteEntry(message, args)
	case "export":
		h.exportEntries(message, args)

	// Отчеты
	case "payslip":
		h.showPayslip(message, args)
	case "quarterly":
		h.showQuarterly(message, args)
	case "annual":
		h.showAnnual(message, args)
	case "holidays":
		h.showHolidays(message, args)

	// Команды администратора
	case "addholiday":
		h.addHoliday(message, args)
	case "link":
		h.linkEmployee(message, args)
	case "users":
		h.showAllUsers(message)
	case "promote":
		h.setRole(message, args, models.RoleAdmin)
	case "demote":
		h.setRole(message, args, models.RoleClient)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.reply(message.Chat.ID, "❌ Unknown command. Use /help to see the list of commands.")
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	user, err := h.services.Users.GetUser(chatID)
	if err != nil || user == nil {
		h.reply(chatID, `👋 Welcome to the household payroll bot!

It keeps track of worked hours and builds payslips, quarterly wage reports and year-end summaries.

Start with /register to create your profile, then ask the administrator to link it to an employee.
Use /help to see all commands.`)
		return
	}

	h.reply(chatID, fmt.Sprintf("👋 Welcome back, %s!\nUse /help to see all commands.", user.FirstName))
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📋 Commands:

👤 Profile:
/register - Create your profile
/me - Show your profile

⏱ Time:
/employees - List employees
/addtime [Name:] <date> <hours> [type] [+reimbursement] [note]
    Example: /addtime 2024-01-08 8
    Example: /addtime 01/09 8 sick
    Example: /addtime today 6 +12.50 museum tickets
    Types: regular, pto, holiday, sick
/entries [Name:] [start] [end] - Time entries (default: current pay period)
/deleteentry [Name:] <id> - Delete a time entry
/export [Name:] - Download all time entries as JSON

📊 Reports:
/payslip [Name:] [end date] [text|pdf|json] - Payslip for the pay period ending on the date
/quarterly [year] [quarter] - Quarterly wage report (CSV)
/annual [year] - Year-end W-2 summary
/holidays [year] - Paid holidays

Dates: YYYY-MM-DD, MM/DD/YYYY, MM/DD, today, yesterday.
The "Name:" prefix is only needed when you manage several employees.`

	isAdmin, _ := h.services.Users.IsAdmin(message.Chat.ID)
	if isAdmin {
		text += `

👑 Administrator:
/addholiday <date> <name> - Add a paid holiday
/link <chat_id> <employee name> - Link a user to an employee
/users - List users
/promote <chat_id> - Make a user an administrator
/demote <chat_id> - Make a user a client`
	}

	h.reply(message.Chat.ID, text)
}

// currentUser возвращает зарегистрированного пользователя или сообщает, что нужно зарегистрироваться
func (h *Handler) currentUser(chatID int64) (*models.User, bool) {
	user, err := h.services.Users.GetUser(chatID)
	if err != nil || user == nil {
		h.reply(chatID, "❌ Profile not found.\nUse /register to create one.")
		return nil, false
	}
	return user, true
}

// requireAdmin проверяет права администратора
func (h *Handler) requireAdmin(chatID int64) (*models.User, bool) {
	user, ok := h.currentUser(chatID)
	if !ok {
		return nil, false
	}
	if !user.IsAdmin() {
		h.reply(chatID, "❌ Access denied. This command is for administrators only.")
		return nil, false
	}
	return user, true
}

// resolveEmployee выбирает сотрудника по имени или по привязке пользователя.
// Клиент может работать только со своим сотрудником.
func (h *Handler) resolveEmployee(user *models.User, name string) (*models.Employee, error) {
	if name == "" {
		switch {
		case user.EmployeeID != nil:
			linked, err := h.services.Employees.GetByID(*user.EmployeeID)
			if err != nil {
				return nil, err
			}
			if linked == nil {
				return nil, service.ErrEmployeeNotFound
			}
			name = linked.Name
		case user.IsAdmin():
			employees, err := h.services.Employees.List()
			if err != nil {
				return nil, err
			}
			if len(employees) != 1 {
				return nil, errEmployeeRequired
			}
			name = employees[0].Name
		default:
			return nil, errNotLinked
		}
	}

	employee, err := h.services.Employees.Get(name)
	if err != nil {
		return nil, err
	}
	if !user.CanView(employee) {
		return nil, service.ErrAccessDenied
	}
	return employee, nil
}

var (
	errEmployeeRequired = errors.New("several employees exist, start the arguments with \"Name:\"")
	errNotLinked        = errors.New("your profile is not linked to an employee yet, ask the administrator to /link it")
)

// replyError переводит ошибку в сообщение пользователю
func (h *Handler) replyError(chatID int64, action string, err error) {
	switch {
	case errors.Is(err, service.ErrAccessDenied):
		h.reply(chatID, "❌ Access denied.")
	case errors.Is(err, errEmployeeRequired), errors.Is(err, errNotLinked):
		h.reply(chatID, "ℹ️ "+capitalize(err.Error())+".")
	default:
		h.logger.WithError(err).WithField("chat_id", chatID).Warn(action + " failed")
		h.reply(chatID, fmt.Sprintf("❌ Failed to %s: %s", action, err.Error()))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
