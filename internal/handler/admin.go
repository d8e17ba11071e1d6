package handler

import (
	"errors"
	"fmt"

	"nanny-payroll-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// showAllUsers показывает всех пользователей
func (h *Handler) showAllUsers(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if _, ok := h.requireAdmin(chatID); !ok {
		return
	}

	allUsers, err := h.services.Users.FormatAllUsers()
	if err != nil {
		h.replyError(chatID, "list users", err)
		return
	}

	h.reply(chatID, allUsers)
}

// setRole назначает или снимает администратора
func (h *Handler) setRole(message *tgbotapi.Message, args string, role models.Role) {
	chatID := message.Chat.ID
	if _, ok := h.requireAdmin(chatID); !ok {
		return
	}

	targetChatID, _, err := parseChatID(args)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("❌ Specify the user's chat ID.\nExample: /%s 123456789", message.Command()))
		return
	}

	// Не позволяем снять главного администратора из конфига
	if role == models.RoleClient && targetChatID == h.config.BaseAdminChatID && h.config.BaseAdminChatID != 0 {
		h.reply(chatID, "❌ The main administrator from the configuration cannot be demoted.")
		return
	}

	if err := h.services.Users.UpdateRole(chatID, targetChatID, role); err != nil {
		h.replyError(chatID, "change role", err)
		return
	}

	h.logger.WithFields(logrus.Fields{"admin": chatID, "target": targetChatID, "role": role}).Info("User role changed")
	h.reply(chatID, fmt.Sprintf("✅ User %d is now %s.", targetChatID, role))
}

// linkEmployee привязывает пользователя к сотруднику
func (h *Handler) linkEmployee(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.requireAdmin(chatID); !ok {
		return
	}

	targetChatID, name, err := parseChatID(args)
	if err != nil || name == "" {
		h.reply(chatID, "❌ Usage: /link <chat_id> <employee name>\nExample: /link 123456789 Mary Poppins")
		return
	}

	employee, err := h.services.Users.LinkEmployee(chatID, targetChatID, name)
	if err != nil {
		h.replyError(chatID, "link employee", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ User %d is linked to %s.", targetChatID, employee.Name))
}

// addHoliday добавляет оплачиваемый праздник
func (h *Handler) addHoliday(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.requireAdmin(chatID); !ok {
		return
	}

	date, name, err := parseHoliday(args, h.now())
	if errors.Is(err, errNoArgs) {
		h.reply(chatID, "❌ Usage: /addholiday <date> <name>\nExample: /addholiday 2024-07-04 Independence Day")
		return
	}
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	holiday, err := h.services.Holidays.Add(name, date)
	if err != nil {
		h.replyError(chatID, "add holiday", err)
		return
	}

	h.reply(chatID, fmt.Sprintf("🎉 Paid holiday added: %s, %s", holiday.Date.Format("Mon 2006-01-02"), holiday.Name))
}
