package tgbot

import (
	"fmt"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cbqAdd        = "add"
	cbqStats      = "stats"
	cbqDelLast    = "del_last"
	cbqDelAll     = "del_all"
	cbqShare      = "share"
	cbqCancel     = "cancel"
	cbqMlPrefix   = "ml_"
	cbqMlCustom   = "ml_custom"
	cbqTimeCustom = "time_custom"
	cbqRemPrefix  = "rem_"
	cbqRemNone    = "rem_none"
)

var (
	mainKeyboard = tg.NewInlineKeyboardMarkup(
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData("➕ Add feeding", cbqAdd)),
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData("📊 Stats (24h)", cbqStats)),
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData("🗑 Delete last", cbqDelLast),
			tg.NewInlineKeyboardButtonData("🧹 Delete all", cbqDelAll)),
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData("🔗 Share (invite)", cbqShare)),
	)

	amountKeyboard = tg.NewInlineKeyboardMarkup(
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData("90 ml", cbqMlPrefix+"90"),
			tg.NewInlineKeyboardButtonData("120 ml", cbqMlPrefix+"120")),
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData("150 ml", cbqMlPrefix+"150"),
			tg.NewInlineKeyboardButtonData("180 ml", cbqMlPrefix+"180")),
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData("210 ml", cbqMlPrefix+"210"),
			tg.NewInlineKeyboardButtonData("✏️ Other", cbqMlCustom)),
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData("🕒 Specify time", cbqTimeCustom),
			tg.NewInlineKeyboardButtonData("↩️ Cancel", cbqCancel)),
	)

	reminderKeyboard = tg.NewInlineKeyboardMarkup(
		tg.NewInlineKeyboardRow(
			reminderButton(60), reminderButton(120)),
		tg.NewInlineKeyboardRow(
			reminderButton(180), reminderButton(240)),
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData("🔕 No reminder", cbqRemNone)),
	)
)

func reminderButton(min int) tg.InlineKeyboardButton {
	return tg.NewInlineKeyboardButtonData(
		fmt.Sprintf("⏰ in %dh", min/60),
		fmt.Sprintf("%s%d", cbqRemPrefix, min))
}
