package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gratefultolord/mc_forms_bot/internal/db"
)

// messageBudget keeps listings below Telegram's 4096 unit message limit.
const messageBudget = 4000

// callbackAnswerLimit is Telegram's limit for callback answer text.
const callbackAnswerLimit = 200

func MainMenu(hasForm bool) tgbotapi.ReplyKeyboardMarkup {
	var keyboard tgbotapi.ReplyKeyboardMarkup

	if hasForm {
		keyboard = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(ButtonMyForm),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(ButtonEditForm),
				tgbotapi.NewKeyboardButton(ButtonDeleteForm),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(ButtonContactAdmin),
			),
		)
	} else {
		keyboard = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(ButtonFillForm),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(ButtonContactAdmin),
			),
		)
	}

	keyboard.ResizeKeyboard = true

	return keyboard
}

func CancelMenu() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonCancel),
		),
	)
	keyboard.ResizeKeyboard = true

	return keyboard
}

// ModerationButtons are the four controls under a form in the moderation channel.
func ModerationButtons(userID, formID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Принять", Callback{Action: ActionAccept, UserID: userID, FormID: formID}.Data()),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отказать", Callback{Action: ActionReject, UserID: userID, FormID: formID}.Data()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Связаться", Callback{Action: ActionContact, UserID: userID}.Data()),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", Callback{Action: ActionDelete, UserID: userID, FormID: formID}.Data()),
		),
	)
}

func ReplyButton(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Ответить", Callback{Action: ActionContact, UserID: userID}.Data()),
		),
	)
}

func EditMenu() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(db.FormFieldOrder)+1)
	for _, field := range db.FormFieldOrder {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fieldCopy[field].Label, Callback{Action: ActionEdit, Field: field}.Data()),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(ButtonCancel, string(ActionCancelEdit)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func DeleteConfirmMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да, удалить", string(ActionConfirmDelete)),
			tgbotapi.NewInlineKeyboardButtonData(ButtonCancel, string(ActionCancelDelete)),
		),
	)
}

// textUnits counts UTF-16 code units, which is how Telegram measures length.
func textUnits(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}

	return n
}

// splitMessage packs entries after header into chunks of at most budget
// units, breaking only between entries. An entry larger than budget on its
// own is cut by runes.
func splitMessage(header string, entries []string, budget int) []string {
	var chunks []string
	current := header

	for _, entry := range entries {
		if textUnits(current)+textUnits(entry) <= budget {
			current += entry
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}

		if textUnits(entry) <= budget {
			current = entry
			continue
		}

		parts := cutByUnits(entry, budget)
		chunks = append(chunks, parts[:len(parts)-1]...)
		current = parts[len(parts)-1]
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

func cutByUnits(s string, budget int) []string {
	var (
		parts []string
		b     strings.Builder
		units int
	)

	for _, r := range s {
		w := 1
		if r >= 0x10000 {
			w = 2
		}

		if units+w > budget {
			parts = append(parts, b.String())
			b.Reset()
			units = 0
		}

		b.WriteRune(r)
		units += w
	}

	parts = append(parts, b.String())

	return parts
}

func truncateUnits(s string, limit int) string {
	if textUnits(s) <= limit {
		return s
	}

	return cutByUnits(s, limit-1)[0] + "…"
}
