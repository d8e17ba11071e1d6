package handler

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// startRegistration начинает процесс создания профиля
func (h *Handler) startRegistration(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	// Проверяем, есть ли уже профиль
	user, err := h.services.Users.GetUser(chatID)
	if err == nil && user != nil {
		h.reply(chatID, "❌ You already have a profile!\nUse /me to see it.")
		return
	}

	h.userStates.Add(chatID, dialogState{step: stepAwaitingFirstName})

	h.reply(chatID, `👤 Registration

Step 1 of 2:
✏️ Please send your first name:`)
}

// handleRegistrationState обрабатывает шаги регистрации
func (h *Handler) handleRegistrationState(message *tgbotapi.Message, state dialogState) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	if text == "" {
		h.reply(chatID, "✏️ Please send text.")
		return
	}

	switch state.step {
	case stepAwaitingFirstName:
		h.userStates.Add(chatID, dialogState{step: stepAwaitingLastName, firstName: text})
		h.reply(chatID, fmt.Sprintf(`Step 2 of 2:
✅ First name saved: %s
✏️ Now send your last name (send "-" to skip):`, text))

	case stepAwaitingLastName:
		h.userStates.Remove(chatID)

		lastName := text
		if lastName == "-" {
			lastName = ""
		}

		username := ""
		if message.From != nil {
			username = message.From.UserName
		}

		user, err := h.services.Users.CreateUser(chatID, username, state.firstName, lastName)
		if err != nil {
			h.replyError(chatID, "create profile", err)
			return
		}

		h.reply(chatID, fmt.Sprintf(`🎉 Profile created!

%s

Ask the administrator to link your profile to an employee with /link %d <name>.`,
			h.services.Users.FormatUserInfo(user), chatID))

	default:
		h.userStates.Remove(chatID)
	}
}

// showProfile показывает профиль пользователя
func (h *Handler) showProfile(message *tgbotapi.Message) {
	user, ok := h.currentUser(message.Chat.ID)
	if !ok {
		return
	}
	h.reply(message.Chat.ID, h.services.Users.FormatUserInfo(user))
}
