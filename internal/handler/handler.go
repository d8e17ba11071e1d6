package handler

import (
	"time"

	"nanny-payroll-bot/internal/config"
	"nanny-payroll-bot/internal/service"
	"nanny-payroll-bot/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Services - зависимости обработчика
type Services struct {
	Users     *service.UserService
	Employees *service.EmployeeService
	Entries   *service.TimeEntryService
	Holidays  *service.PaidHolidayService
	Payroll   *service.PayrollService
}

// dialogState - шаг многошагового диалога регистрации
type dialogState struct {
	step      string
	firstName string
}

const (
	stepAwaitingFirstName = "awaiting_first_name"
	stepAwaitingLastName  = "awaiting_last_name"
)

type Handler struct {
	client   *telegram.Client
	services Services
	config   *config.BotConfig
	logger   *logrus.Logger

	userStates *lru.Cache[int64, dialogState]
	limiters   *lru.Cache[int64, *rate.Limiter]

	now func() time.Time
}

func NewHandler(client *telegram.Client, services Services, cfg *config.BotConfig) (*Handler, error) {
	states, err := lru.New[int64, dialogState](cfg.StateCacheSize)
	if err != nil {
		return nil, err
	}
	limiters, err := lru.New[int64, *rate.Limiter](cfg.StateCacheSize)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Handler{
		client:     client,
		services:   services,
		config:     cfg,
		logger:     logger,
		userStates: states,
		limiters:   limiters,
		now:        time.Now,
	}, nil
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		// Обработка callback query (для inline кнопок)
		if update.CallbackQuery != nil {
			h.handleCallbackQuery(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

// allow проверяет лимит сообщений для чата
func (h *Handler) allow(chatID int64) bool {
	limiter, ok := h.limiters.Get(chatID)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(h.config.ChatRateLimit), h.config.ChatRateBurst)
		h.limiters.Add(chatID, limiter)
	}
	return limiter.Allow()
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	// Отвечаем на callback (убираем "часики" у кнопки)
	defer h.client.Bot.Request(tgbotapi.NewCallback(callback.ID, ""))

	if !h.allow(chatID) {
		h.logger.WithField("chat_id", chatID).Warn("Callback rate limited")
		return
	}

	action, parts := parseCallbackData(callback.Data)
	switch action {
	case actionPayslipPDF:
		h.sendPayslipPDF(chatID, parts)
	default:
		h.logger.WithField("data", callback.Data).Warn("Unknown callback")
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	h.logger.WithFields(logrus.Fields{"chat_id": chatID, "user": username}).Info(message.Text)

	if !h.allow(chatID) {
		h.logger.WithField("chat_id", chatID).Warn("Message rate limited")
		return
	}

	// Проверяем, находится ли пользователь в процессе регистрации
	if state, exists := h.userStates.Get(chatID); exists && !message.IsCommand() {
		h.handleRegistrationState(message, state)
		return
	}

	if message.IsCommand() {
		h.userStates.Remove(chatID)
		h.handleCommand(message)
		return
	}

	h.reply(chatID, "🤔 I only understand commands. Use /help to see them.")
}

// reply отправляет текст и логирует ошибку отправки
func (h *Handler) reply(chatID int64, text string) {
	h.replyWithMarkup(chatID, text, nil)
}

func (h *Handler) replyWithMarkup(chatID int64, text string, markup any) {
	if err := h.client.SendText(chatID, text, markup); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

func (h *Handler) sendDocument(chatID int64, name string, data []byte, caption string) {
	if err := h.client.SendDocument(chatID, name, data, caption); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to send document")
		h.reply(chatID, "❌ Failed to send the file.")
	}
}
