package tgbot

import (
	"strings"
	"time"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func robustExecute(n int, d time.Duration, f func() bool) bool {
	for i := 0; i < n; i++ {
		if f() {
			return true
		}
		time.Sleep(d)
	}

	return false
}

// SendMessage posts a new message to the chat. replyTo below zero means no
// reply threading.
func (b *TBot) SendMessage(cht int64, txt string, replyTo int, kbMarkup *tg.InlineKeyboardMarkup) error {
	m := tg.NewMessage(cht, txt)
	if replyTo >= 0 {
		m.ReplyToMessageID = replyTo
	}
	m.ParseMode = tg.ModeHTML
	m.DisableWebPagePreview = true
	if kbMarkup != nil {
		m.ReplyMarkup = kbMarkup
	}

	var err error
	robustExecute(b.RetryAttempts, b.RetryDelay, func() bool {
		_, err = b.Bot.Request(m)
		return err == nil
	})
	if err != nil {
		b.Logger.Errorw("failed sending message", "err", err)
	}

	return err
}

// ReplaceMessage edits a previously sent message in place, the way menu
// screens flip on a button press.
func (b *TBot) ReplaceMessage(cht int64, txt string, msgID int, kbMarkup *tg.InlineKeyboardMarkup) bool {
	updText := tg.EditMessageTextConfig{
		BaseEdit: tg.BaseEdit{
			ChatID:      cht,
			MessageID:   msgID,
			ReplyMarkup: kbMarkup,
		},
		DisableWebPagePreview: true,
		ParseMode:             tg.ModeHTML,
		Text:                  txt,
	}

	var err error
	ok := robustExecute(b.RetryAttempts, b.RetryDelay, func() bool {
		_, err = b.Bot.Request(updText)
		if err != nil && strings.HasPrefix(err.Error(), "Bad Request: message is not modified") {
			err = nil
		}
		return err == nil
	})
	if !ok {
		b.Logger.Errorw("failed updating message text", "err", err)
	}

	return ok
}

// NotifyChat delivers reminder text to a chat. Wired as the reminder
// manager's notify callback.
func (b *TBot) NotifyChat(cht int64, txt string) error {
	return b.SendMessage(cht, txt, -1, &mainKeyboard)
}
