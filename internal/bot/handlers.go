package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gratefultolord/mc_forms_bot/internal/db"
)

func (b *BotService) handleStart(ctx context.Context, chatID, userID int64) {
	if b.rejectBanned(ctx, chatID, userID) {
		return
	}

	b.send(ctx, chatID, textWelcome, b.mainMenu(ctx, userID))
}

func (b *BotService) handleCancel(ctx context.Context, chatID, userID int64) {
	b.sessions.Clear(userID)
	b.send(ctx, chatID, textCancelled, b.mainMenu(ctx, userID))
}

// mainMenu offers fill-in to users without a form and view/edit/delete to the rest.
func (b *BotService) mainMenu(ctx context.Context, userID int64) tgbotapi.ReplyKeyboardMarkup {
	return MainMenu(b.hasForm(ctx, userID))
}

func (b *BotService) hasForm(ctx context.Context, userID int64) bool {
	form, err := b.formRepo.GetLatestByUserID(ctx, userID)
	if err != nil {
		b.logger(ctx).Errorw("hasForm", "user_id", userID, "error", err)
		return false
	}

	return form != nil
}

// rejectBanned tells a banned user so and reports true. Lookup failures let
// the user through.
func (b *BotService) rejectBanned(ctx context.Context, chatID, userID int64) bool {
	banned, err := b.banRepo.IsBanned(ctx, userID)
	if err != nil {
		b.logger(ctx).Errorw("ban lookup failed", "user_id", userID, "error", err)
		return false
	}

	if banned {
		b.send(ctx, chatID, textBanned, tgbotapi.NewRemoveKeyboard(true))
	}

	return banned
}

func (b *BotService) handleFillForm(ctx context.Context, chatID, userID int64) {
	if b.rejectBanned(ctx, chatID, userID) {
		return
	}

	if b.hasForm(ctx, userID) {
		b.send(ctx, chatID, textAlreadyHasForm, nil)
		return
	}

	flow := &NewSubmission{}
	b.sessions.Start(userID, flow)

	b.send(ctx, chatID, textFormStart+"\n\n"+fieldCopy[flow.Field()].Question, CancelMenu())
}

func (b *BotService) handleSubmissionAnswer(ctx context.Context, msg *tgbotapi.Message, flow *NewSubmission, text string) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if text == "" {
		b.send(ctx, chatID, textEmptyAnswer+"\n\n"+fieldCopy[flow.Field()].Question, nil)
		return
	}

	if done := flow.Answer(text); !done {
		b.send(ctx, chatID, fieldCopy[flow.Field()].Question, nil)
		return
	}

	b.sessions.Clear(userID)

	if b.hasForm(ctx, userID) {
		b.send(ctx, chatID, textAlreadyHasForm, b.mainMenu(ctx, userID))
		return
	}

	formID, err := b.formRepo.Create(ctx, userID, flow.Answers)
	if err != nil {
		b.logger(ctx).Errorw("failed to create form", "user_id", userID, "error", err)
		b.send(ctx, chatID, textFormSaveFailed, b.mainMenu(ctx, userID))
		return
	}

	log := b.logger(ctx).With("user_id", userID, "form_id", formID)
	log.Infow("form created")

	// The form stays without a moderation reference if publishing fails.
	if messageID, err := b.board.Publish(ctx, userID); err != nil {
		log.Errorw("failed to publish form to moderation channel", "error", err)
	} else {
		log.Infow("form published", "admin_message_id", messageID)
	}

	b.send(ctx, chatID, textFormSaved, b.mainMenu(ctx, userID))
}

func (b *BotService) handleMyForm(ctx context.Context, chatID, userID int64) {
	if b.rejectBanned(ctx, chatID, userID) {
		return
	}

	form, err := b.formRepo.GetLatestByUserID(ctx, userID)
	if err != nil {
		b.logger(ctx).Errorw("failed to load form", "user_id", userID, "error", err)
		b.send(ctx, chatID, textInternalError, nil)
		return
	}

	if form == nil {
		b.send(ctx, chatID, textNoForm, nil)
		return
	}

	b.send(ctx, chatID, RenderUserForm(form), nil)
}

func (b *BotService) handleEditMenu(ctx context.Context, chatID, userID int64) {
	if b.rejectBanned(ctx, chatID, userID) {
		return
	}

	if !b.hasForm(ctx, userID) {
		b.send(ctx, chatID, textNoFormToEdit, nil)
		return
	}

	b.send(ctx, chatID, textEditMenu, EditMenu())
}

func (b *BotService) handleEditField(ctx context.Context, query *tgbotapi.CallbackQuery, field db.FormField) {
	userID := query.From.ID

	banned, err := b.banRepo.IsBanned(ctx, userID)
	if err == nil && banned {
		b.answer(ctx, query, textBanned, true)
		return
	}

	if !b.hasForm(ctx, userID) {
		b.editText(ctx, query, textNoFormToEdit)
		b.answer(ctx, query, "", false)
		return
	}

	b.sessions.Start(userID, &FieldEdit{Field: field})

	b.editText(ctx, query, fieldCopy[field].Prompt)
	b.answer(ctx, query, "", false)
}

func (b *BotService) handleFieldEditAnswer(ctx context.Context, msg *tgbotapi.Message, flow *FieldEdit, text string) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if text == "" {
		b.send(ctx, chatID, textEmptyAnswer+"\n\n"+fieldCopy[flow.Field].Prompt, nil)
		return
	}

	b.sessions.Clear(userID)

	updated, err := b.formRepo.UpdateField(ctx, userID, flow.Field, text)
	if err != nil {
		b.logger(ctx).Errorw("failed to update form field", "user_id", userID, "field", flow.Field, "error", err)
		b.send(ctx, chatID, textInternalError, b.mainMenu(ctx, userID))
		return
	}

	if !updated {
		b.send(ctx, chatID, textNoFormToEdit, b.mainMenu(ctx, userID))
		return
	}

	if err := b.board.Refresh(ctx, userID); err != nil {
		b.logger(ctx).Warnw("moderation message not refreshed", "user_id", userID, "error", err)
	}

	b.send(ctx, chatID, fieldCopy[flow.Field].Updated, b.mainMenu(ctx, userID))
}

func (b *BotService) handleCancelEdit(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if flow, ok := b.sessions.Get(query.From.ID); ok {
		if _, editing := flow.(*FieldEdit); editing {
			b.sessions.Clear(query.From.ID)
		}
	}

	b.editText(ctx, query, textEditCancelled)
	b.answer(ctx, query, "", false)
}

func (b *BotService) handleDeleteMenu(ctx context.Context, chatID, userID int64) {
	if b.rejectBanned(ctx, chatID, userID) {
		return
	}

	if !b.hasForm(ctx, userID) {
		b.send(ctx, chatID, textNoFormToDelete, nil)
		return
	}

	b.send(ctx, chatID, textDeleteConfirm, DeleteConfirmMenu())
}

func (b *BotService) handleConfirmDelete(ctx context.Context, query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	log := b.logger(ctx).With("user_id", userID)

	form, err := b.formRepo.GetLatestByUserID(ctx, userID)
	if err != nil {
		log.Errorw("failed to load form", "error", err)
		b.answer(ctx, query, textInternalError, true)
		return
	}

	if form == nil {
		b.editText(ctx, query, textNoFormToDelete)
		b.answer(ctx, query, "", false)
		return
	}

	if _, err := b.formRepo.DeleteLatestByUserID(ctx, userID); err != nil {
		log.Errorw("failed to delete form", "error", err)
		b.answer(ctx, query, textInternalError, true)
		return
	}

	log.Infow("form deleted by owner", "form_id", form.ID)

	if err := b.board.Close(form, decorationDeletedByUser); err != nil && !errors.Is(err, ErrNoModerationMessage) {
		log.Warnw("moderation message not closed", "error", err)
	}

	b.editText(ctx, query, textDeleteDone)
	b.answer(ctx, query, "", false)

	if query.Message != nil && query.Message.Chat != nil {
		b.send(ctx, query.Message.Chat.ID, textDeleteNext, b.mainMenu(ctx, userID))
	}
}

func (b *BotService) handleCancelDelete(ctx context.Context, query *tgbotapi.CallbackQuery) {
	b.editText(ctx, query, textDeleteAborted)
	b.answer(ctx, query, "", false)
}

func (b *BotService) handleContactAdmin(ctx context.Context, chatID, userID int64) {
	if b.rejectBanned(ctx, chatID, userID) {
		return
	}

	b.sessions.Start(userID, &ContactAdmin{})

	b.send(ctx, chatID, textContactPrompt, CancelMenu())
}

func (b *BotService) handleContactAdminMessage(ctx context.Context, msg *tgbotapi.Message, text string) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if text == "" {
		b.send(ctx, chatID, textEmptyAnswer, nil)
		return
	}

	b.sessions.Clear(userID)

	err := b.deliver(b.cfg.ModerationChatID, RenderContactMessage(msg.From, text), ReplyButton(userID))
	if err != nil {
		b.logger(ctx).Errorw("failed to forward message to moderators", "user_id", userID, "error", err)
		b.send(ctx, chatID, textContactFailed, b.mainMenu(ctx, userID))
		return
	}

	b.send(ctx, chatID, textContactSent, b.mainMenu(ctx, userID))
}
