package bot

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gratefultolord/mc_forms_bot/internal/db"
)

const editedMark = " ✏️ <i>(Отредактирована)</i>"

// RenderModerationMessage is the moderation channel view of a live form:
// fields, edited marker, status decoration and the four action controls.
func RenderModerationMessage(form *db.Form) (string, tgbotapi.InlineKeyboardMarkup) {
	text := moderationText(form)

	if decoration := statusDecoration(form.Status); decoration != "" {
		text += "\n\n" + decoration
	}

	return text, ModerationButtons(form.UserID, form.ID)
}

// RenderClosedModerationMessage is the final view of a form that no longer
// exists. It carries no controls.
func RenderClosedModerationMessage(form *db.Form, decoration string) string {
	return moderationText(form) + "\n\n" + decoration
}

func moderationText(form *db.Form) string {
	mark := ""
	if form.IsEdited {
		mark = editedMark
	}

	return fmt.Sprintf("📝 <b>Новая анкета!</b>%s\n\n"+
		"<b>🆔 ID анкеты:</b> %d\n"+
		"%s\n\n"+
		"<i>🔑 User ID:</i> <code>%d</code>",
		mark, form.ID, fieldLines(&form.FormFields), form.UserID)
}

func statusDecoration(status db.Status) string {
	switch status {
	case db.StatusAccepted:
		return decorationAccepted
	case db.StatusRejected:
		return decorationRejected
	}

	return ""
}

// RenderUserForm is what the owner sees under "my form".
func RenderUserForm(form *db.Form) string {
	mark := ""
	if form.IsEdited {
		mark = editedMark
	}

	caption, ok := userStatusCaptions[form.Status]
	if !ok {
		caption = html.EscapeString(string(form.Status))
	}

	return fmt.Sprintf("📋 <b>Ваша анкета:</b>%s\n\n%s\n\n<b>📊 Статус:</b> %s",
		mark, fieldLines(&form.FormFields), caption)
}

func fieldLines(f *db.FormFields) string {
	return fmt.Sprintf("<b>👤 Имя:</b> %s\n"+
		"<b>📱 Telegram:</b> @%s\n"+
		"<b>🎮 Minecraft:</b> %s\n"+
		"<b>💬 Обращение:</b> %s\n"+
		"<b>🎂 Возраст:</b> %s\n"+
		"<b>📝 Дополнительно:</b>\n%s",
		esc(f.Name),
		esc(strings.TrimPrefix(f.TGUsername, "@")),
		esc(f.MCNick),
		esc(f.CallAs),
		esc(f.Age),
		esc(f.Extra),
	)
}

// RenderFormsListing renders the /forms answer split into sendable chunks.
func RenderFormsListing(forms []db.Form) []string {
	entries := make([]string, 0, len(forms))

	for i := range forms {
		f := &forms[i]

		emoji, ok := listingStatusEmoji[f.Status]
		if !ok {
			emoji = "❓"
		}

		mark := ""
		if f.IsEdited {
			mark = " ✏️"
		}

		entries = append(entries, fmt.Sprintf("%s%s <b>ID анкеты:</b> %d\n"+
			"<b>👤 Имя:</b> %s\n"+
			"<b>📱 Telegram:</b> @%s\n"+
			"<b>🎮 Minecraft:</b> %s\n"+
			"<b>💬 Обращение:</b> %s\n"+
			"<b>🎂 Возраст:</b> %s\n"+
			"<b>📝 Дополнительно:</b> %s\n"+
			"<b>🔑 User ID:</b> <code>%d</code>\n"+
			"<b>📊 Статус:</b> %s\n"+
			"%s\n\n",
			emoji, mark, f.ID,
			esc(f.Name),
			esc(strings.TrimPrefix(f.TGUsername, "@")),
			esc(f.MCNick),
			esc(f.CallAs),
			esc(f.Age),
			esc(f.Extra),
			f.UserID,
			f.Status,
			strings.Repeat("-", 30),
		))
	}

	return splitMessage("📋 <b>Все полученные анкеты:</b>\n\n", entries, messageBudget)
}

// RenderContactMessage is a user's message as forwarded to moderators.
func RenderContactMessage(from *tgbotapi.User, text string) string {
	fullName := strings.TrimSpace(from.FirstName + " " + from.LastName)

	return fmt.Sprintf("📨 <b>Сообщение от пользователя</b>\n\n"+
		"<b>От:</b> %s\n"+
		"<b>Username:</b> @%s\n"+
		"<b>ID:</b> <code>%d</code>\n\n"+
		"<b>Текст:</b>\n%s",
		esc(fullName), esc(from.UserName), from.ID, esc(text))
}

func esc(s string) string {
	return html.EscapeString(s)
}
