// Package filters отсекает апдейты, которые бот не должен обрабатывать:
// сообщения других ботов, сервисные сообщения, каналы.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// MessageFilter проверяет, стоит ли обрабатывать сообщение.
type MessageFilter struct{}

func NewMessageFilter() *MessageFilter {
	return &MessageFilter{}
}

// Allow возвращает true для обычных сообщений живых пользователей.
func (f *MessageFilter) Allow(message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil {
		return false
	}
	if message.From == nil {
		// сервисное сообщение или пост канала
		log.WithFields(log.Fields{
			"component": "MessageFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Debug("Пропуск: нет отправителя")
		return false
	}
	if message.From.IsBot {
		return false
	}
	return true
}
