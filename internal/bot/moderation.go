package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlekSi/pointer"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gratefultolord/mc_forms_bot/internal/db"
	"github.com/gratefultolord/mc_forms_bot/internal/files"
)

// Moderation actions mutate the store first and notify second. A failed
// notification is reported to the moderator and never rolls back the change.

func (b *BotService) handleAccept(ctx context.Context, query *tgbotapi.CallbackQuery, cb Callback) {
	log := b.logger(ctx).With("user_id", cb.UserID, "form_id", cb.FormID, "moderator_id", query.From.ID)

	form, err := b.formRepo.GetLatestByUserID(ctx, cb.UserID)
	if err != nil {
		log.Errorw("failed to load form", "error", err)
		b.answer(ctx, query, textInternalError, true)
		return
	}

	if form == nil || form.ID != cb.FormID {
		b.answer(ctx, query, textFormNotFound, true)
		return
	}

	if _, err := b.formRepo.SetStatus(ctx, cb.UserID, db.StatusAccepted); err != nil {
		log.Errorw("failed to accept form", "error", err)
		b.answer(ctx, query, textInternalError, true)
		return
	}

	log.Infow("form accepted")

	if err := b.board.Refresh(ctx, cb.UserID); err != nil {
		log.Warnw("moderation message not refreshed", "error", err)
	}

	if err := b.deliver(cb.UserID, b.inviteText(), nil); err != nil {
		log.Warnw("invite not delivered", "error", err)
		b.answer(ctx, query, fmt.Sprintf("⚠️ Анкета принята, но приглашение не доставлено: %v", err), true)
		return
	}

	b.answer(ctx, query, "✅ Приглашение отправлено!", false)
}

func (b *BotService) inviteText() string {
	if b.cfg.InviteLink == "" {
		return textInvite
	}

	return textInvite + "\n\n👉 Присоединяйтесь по ссылке: " + esc(b.cfg.InviteLink)
}

func (b *BotService) handleReject(ctx context.Context, query *tgbotapi.CallbackQuery, cb Callback) {
	log := b.logger(ctx).With("user_id", cb.UserID, "form_id", cb.FormID, "moderator_id", query.From.ID)

	form, ok := b.loadFormForAction(ctx, query, cb)
	if !ok {
		return
	}

	if _, err := b.formRepo.Delete(ctx, form.ID); err != nil {
		log.Errorw("failed to delete rejected form", "error", err)
		b.answer(ctx, query, textInternalError, true)
		return
	}

	if err := b.banRepo.Ban(ctx, cb.UserID); err != nil {
		log.Errorw("failed to ban user", "error", err)
		b.answer(ctx, query, textInternalError, true)
		return
	}

	log.Infow("form rejected, user banned")

	b.closeModerationMessage(ctx, query, form, decorationRejected)

	if err := b.deliver(cb.UserID, textRejected, tgbotapi.NewRemoveKeyboard(true)); err != nil {
		log.Warnw("rejection not delivered", "error", err)
		b.answer(ctx, query, fmt.Sprintf("⚠️ Анкета отклонена, пользователь забанен, но уведомление не доставлено: %v", err), true)
		return
	}

	b.answer(ctx, query, "❌ Анкета отклонена, пользователь забанен!", false)
}

func (b *BotService) handleModeratorDelete(ctx context.Context, query *tgbotapi.CallbackQuery, cb Callback) {
	log := b.logger(ctx).With("user_id", cb.UserID, "form_id", cb.FormID, "moderator_id", query.From.ID)

	form, ok := b.loadFormForAction(ctx, query, cb)
	if !ok {
		return
	}

	if _, err := b.formRepo.Delete(ctx, form.ID); err != nil {
		log.Errorw("failed to delete form", "error", err)
		b.answer(ctx, query, textInternalError, true)
		return
	}

	log.Infow("form deleted by moderator")

	b.closeModerationMessage(ctx, query, form, decorationDeletedByMod)

	if err := b.deliver(cb.UserID, textDeletedByAdmin, b.mainMenu(ctx, cb.UserID)); err != nil {
		log.Warnw("deletion notice not delivered", "error", err)
		b.answer(ctx, query, fmt.Sprintf("🗑 Анкета удалена, но уведомление не доставлено: %v", err), true)
		return
	}

	b.answer(ctx, query, "🗑 Анкета удалена!", false)
}

// loadFormForAction resolves the form named by a button and answers the
// callback itself when there is nothing to act on.
func (b *BotService) loadFormForAction(ctx context.Context, query *tgbotapi.CallbackQuery, cb Callback) (*db.Form, bool) {
	form, err := b.formRepo.GetByID(ctx, cb.FormID)
	if err != nil {
		b.logger(ctx).Errorw("failed to load form", "form_id", cb.FormID, "error", err)
		b.answer(ctx, query, textInternalError, true)
		return nil, false
	}

	if form == nil || form.UserID != cb.UserID {
		b.answer(ctx, query, textFormNotFound, true)
		return nil, false
	}

	return form, true
}

// closeModerationMessage finalizes the message of a removed form. The pressed
// message stands in when the form never got a stored reference.
func (b *BotService) closeModerationMessage(ctx context.Context, query *tgbotapi.CallbackQuery, form *db.Form, decoration string) {
	if form.AdminMessageID == nil && query.Message != nil {
		form.AdminMessageID = pointer.To(query.Message.MessageID)
	}

	if err := b.board.Close(form, decoration); err != nil {
		b.logger(ctx).Warnw("moderation message not closed", "form_id", form.ID, "error", err)
	}
}

func (b *BotService) handleContactUser(ctx context.Context, query *tgbotapi.CallbackQuery, cb Callback) {
	b.sessions.Start(query.From.ID, &AdminReply{TargetUserID: cb.UserID})

	prompt := tgbotapi.NewMessage(query.Message.Chat.ID,
		fmt.Sprintf("✍️ Напишите сообщение для пользователя (ID: <code>%d</code>):", cb.UserID))
	prompt.ParseMode = tgbotapi.ModeHTML
	prompt.ReplyToMessageID = query.Message.MessageID

	if _, err := b.botAPI.Send(prompt); err != nil {
		b.logger(ctx).Errorw("reply prompt failed", "error", err)
	}

	b.answer(ctx, query, "", false)
}

func (b *BotService) handleAdminReplyMessage(ctx context.Context, msg *tgbotapi.Message, targetUserID int64) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		b.replyTo(ctx, msg, textEmptyAnswer)
		return
	}

	b.sessions.Clear(msg.From.ID)

	err := b.deliver(targetUserID, "💬 <b>Сообщение от администрации:</b>\n\n"+esc(text), nil)
	if err != nil {
		b.logger(ctx).Warnw("admin reply not delivered", "user_id", targetUserID, "moderator_id", msg.From.ID, "error", err)
		b.replyTo(ctx, msg, "❌ Ошибка при отправке: "+esc(err.Error()))
		return
	}

	b.replyTo(ctx, msg, textReplyDelivered)
}

func (b *BotService) handleUnban(ctx context.Context, msg *tgbotapi.Message) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		b.replyTo(ctx, msg, textNoRights)
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.replyTo(ctx, msg, esc(textUnbanUsage))
		return
	}

	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.replyTo(ctx, msg, esc(textUnbanUsage))
		return
	}

	removed, err := b.banRepo.Unban(ctx, userID)
	if err != nil {
		b.logger(ctx).Errorw("failed to unban", "user_id", userID, "error", err)
		b.replyTo(ctx, msg, textInternalError)
		return
	}

	if !removed {
		b.replyTo(ctx, msg, fmt.Sprintf("Пользователь <code>%d</code> не забанен.", userID))
		return
	}

	b.logger(ctx).Infow("user unbanned", "user_id", userID, "admin_id", msg.From.ID)

	if err := b.deliver(userID, textUnbanned, b.mainMenu(ctx, userID)); err != nil {
		b.replyTo(ctx, msg, fmt.Sprintf("✅ Разбанен <code>%d</code>, но не удалось отправить уведомление (возможно, он заблокировал бота).", userID))
		return
	}

	b.replyTo(ctx, msg, fmt.Sprintf("✅ Пользователь <code>%d</code> успешно разбанен и уведомлён.", userID))
}

func (b *BotService) handleForms(ctx context.Context, msg *tgbotapi.Message) {
	forms, err := b.formRepo.GetAll(ctx)
	if err != nil {
		b.logger(ctx).Errorw("failed to list forms", "error", err)
		b.replyTo(ctx, msg, textInternalError)
		return
	}

	if len(forms) == 0 {
		b.replyTo(ctx, msg, textNoForms)
		return
	}

	for _, chunk := range RenderFormsListing(forms) {
		b.replyTo(ctx, msg, chunk)
	}
}

func (b *BotService) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		b.replyTo(ctx, msg, textNoRights)
		return
	}

	name := fmt.Sprintf("forms_export_%s.csv", time.Now().Format("20060102_150405"))

	path, err := b.exporter.Export(ctx, name)
	if err != nil {
		if errors.Is(err, files.ErrNoForms) {
			b.replyTo(ctx, msg, textNothingToExport)
			return
		}

		b.logger(ctx).Errorw("export failed", "error", err)
		b.replyTo(ctx, msg, textInternalError)
		return
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FilePath(path))
	doc.ReplyToMessageID = msg.MessageID

	if _, err := b.botAPI.Send(doc); err != nil {
		b.logger(ctx).Errorw("failed to send export", "path", path, "error", err)
		b.replyTo(ctx, msg, textInternalError)
	}
}
