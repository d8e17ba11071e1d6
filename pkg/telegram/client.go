package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Лимит длины текста одного сообщения Telegram
const MaxMessageLength = 4096

type Client struct {
	Bot          *tgbotapi.BotAPI
	UpdateConfig tgbotapi.UpdateConfig
}

func NewClient(token string, debug bool) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	bot.Debug = debug

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	return &Client{
		Bot:          bot,
		UpdateConfig: updateConfig,
	}, nil
}

// SendText отправляет текст, разбивая длинные сообщения по строкам
func (c *Client) SendText(chatID int64, text string, markup any) error {
	for i, part := range SplitMessage(text, MaxMessageLength) {
		msg := tgbotapi.NewMessage(chatID, part)
		if i == 0 && markup != nil {
			msg.ReplyMarkup = markup
		}
		if _, err := c.Bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
	}
	return nil
}

// SendDocument отправляет файл из памяти
func (c *Client) SendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	if _, err := c.Bot.Send(doc); err != nil {
		return fmt.Errorf("failed to send document %s: %w", name, err)
	}
	return nil
}

// SplitMessage делит текст на части не длиннее limit байт, по возможности по переводу строки
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	for len(text) > limit {
		cut := limit
		for i := limit; i > 0; i-- {
			if text[i-1] == '\n' {
				cut = i
				break
			}
		}
		if cut == limit {
			// не режем посреди символа UTF-8
			for cut > 0 && !isRuneStart(text[cut]) {
				cut--
			}
		}
		parts = append(parts, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
