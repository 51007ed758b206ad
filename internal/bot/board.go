package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gratefultolord/mc_forms_bot/internal/db"
)

var (
	ErrNoForm              = errors.New("user has no form")
	ErrNoModerationMessage = errors.New("form has no moderation message")
)

// ModerationBoard keeps the moderation channel message of each form in step
// with the stored form. A failed edit is reported to the caller and never
// undoes the store change that triggered it.
type ModerationBoard struct {
	botAPI Messenger
	forms  *db.FormRepository
	chatID int64
}

func NewModerationBoard(botAPI Messenger, forms *db.FormRepository, chatID int64) *ModerationBoard {
	return &ModerationBoard{
		botAPI: botAPI,
		forms:  forms,
		chatID: chatID,
	}
}

// Publish posts the user's current form and records the message id on it.
// Call once per new form.
func (m *ModerationBoard) Publish(ctx context.Context, userID int64) (int, error) {
	form, err := m.forms.GetLatestByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("ModerationBoard.Publish: %w", err)
	}

	if form == nil {
		return 0, fmt.Errorf("ModerationBoard.Publish: %w", ErrNoForm)
	}

	text, buttons := RenderModerationMessage(form)

	msg := tgbotapi.NewMessage(m.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = buttons

	sent, err := m.botAPI.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("ModerationBoard.Publish: send: %w", err)
	}

	if _, err := m.forms.AttachModerationMessage(ctx, userID, sent.MessageID); err != nil {
		return sent.MessageID, fmt.Errorf("ModerationBoard.Publish: %w", err)
	}

	return sent.MessageID, nil
}

// Refresh re-renders the user's current form in place.
func (m *ModerationBoard) Refresh(ctx context.Context, userID int64) error {
	form, err := m.forms.GetLatestByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ModerationBoard.Refresh: %w", err)
	}

	if form == nil {
		return fmt.Errorf("ModerationBoard.Refresh: %w", ErrNoForm)
	}

	if form.AdminMessageID == nil {
		return fmt.Errorf("ModerationBoard.Refresh: form %d: %w", form.ID, ErrNoModerationMessage)
	}

	text, buttons := RenderModerationMessage(form)

	edit := tgbotapi.NewEditMessageTextAndMarkup(m.chatID, *form.AdminMessageID, text, buttons)
	edit.ParseMode = tgbotapi.ModeHTML

	if _, err := m.botAPI.Send(edit); err != nil {
		return fmt.Errorf("ModerationBoard.Refresh: edit message %d: %w", *form.AdminMessageID, err)
	}

	return nil
}

// Close replaces the message of a removed form with its final rendering and
// drops the controls. form is the row as it was before deletion.
func (m *ModerationBoard) Close(form *db.Form, decoration string) error {
	if form.AdminMessageID == nil {
		return fmt.Errorf("ModerationBoard.Close: form %d: %w", form.ID, ErrNoModerationMessage)
	}

	edit := tgbotapi.NewEditMessageText(m.chatID, *form.AdminMessageID, RenderClosedModerationMessage(form, decoration))
	edit.ParseMode = tgbotapi.ModeHTML

	if _, err := m.botAPI.Send(edit); err != nil {
		return fmt.Errorf("ModerationBoard.Close: edit message %d: %w", *form.AdminMessageID, err)
	}

	return nil
}
