package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gratefultolord/mc_forms_bot/internal/config"
	"github.com/gratefultolord/mc_forms_bot/internal/db"
	"github.com/gratefultolord/mc_forms_bot/internal/files"
)

// Messenger is the subset of *tgbotapi.BotAPI the bot talks through.
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type BotService struct {
	botAPI   Messenger
	formRepo *db.FormRepository
	banRepo  *db.BanRepository
	exporter *files.ExportService
	board    *ModerationBoard
	sessions *Sessions
	cfg      config.BotConfig
	log      *zap.SugaredLogger
}

func New(
	botAPI Messenger,
	formRepo *db.FormRepository,
	banRepo *db.BanRepository,
	exporter *files.ExportService,
	cfg config.BotConfig,
	log *zap.SugaredLogger,
) *BotService {
	return &BotService{
		botAPI:   botAPI,
		formRepo: formRepo,
		banRepo:  banRepo,
		exporter: exporter,
		board:    NewModerationBoard(botAPI, formRepo, cfg.ModerationChatID),
		sessions: NewSessions(),
		cfg:      cfg,
		log:      log,
	}
}

// Start handles updates one at a time until ctx is done or the channel closes.
func (b *BotService) Start(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches a single update. It never panics: a failing handler
// is logged and the next update is processed normally.
func (b *BotService) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	log := b.log.With("update_id", update.UpdateID, "event_id", uuid.NewString())
	ctx = withLogger(ctx, log)

	defer func() {
		if r := recover(); r != nil {
			log.Errorw("handler panicked", "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *BotService) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	if msg.Chat.ID == b.cfg.ModerationChatID {
		b.handleModerationMessage(ctx, msg)
		return
	}

	if !msg.Chat.IsPrivate() {
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.sessions.Clear(userID)
			b.handleStart(ctx, chatID, userID)
		case "cancel":
			b.handleCancel(ctx, chatID, userID)
		}

		return
	}

	text := strings.TrimSpace(msg.Text)

	if text == ButtonCancel {
		b.handleCancel(ctx, chatID, userID)
		return
	}

	if b.continueFlow(ctx, msg, text) {
		return
	}

	switch text {
	case ButtonFillForm:
		b.handleFillForm(ctx, chatID, userID)
	case ButtonMyForm:
		b.handleMyForm(ctx, chatID, userID)
	case ButtonEditForm:
		b.handleEditMenu(ctx, chatID, userID)
	case ButtonDeleteForm:
		b.handleDeleteMenu(ctx, chatID, userID)
	case ButtonContactAdmin:
		b.handleContactAdmin(ctx, chatID, userID)
	}
}

// continueFlow feeds a private message to the user's open flow, if any.
func (b *BotService) continueFlow(ctx context.Context, msg *tgbotapi.Message, text string) bool {
	flow, ok := b.sessions.Get(msg.From.ID)
	if !ok {
		return false
	}

	switch f := flow.(type) {
	case *NewSubmission:
		b.handleSubmissionAnswer(ctx, msg, f, text)
	case *FieldEdit:
		b.handleFieldEditAnswer(ctx, msg, f, text)
	case *ContactAdmin:
		b.handleContactAdminMessage(ctx, msg, text)
	default:
		return false
	}

	return true
}

func (b *BotService) handleModerationMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "unban":
			b.handleUnban(ctx, msg)
		case "forms":
			b.handleForms(ctx, msg)
		case "export":
			b.handleExport(ctx, msg)
		case "cancel":
			if b.sessions.Clear(msg.From.ID) {
				b.replyTo(ctx, msg, textCancelled)
			}
		}

		return
	}

	flow, ok := b.sessions.Get(msg.From.ID)
	if !ok {
		return
	}

	if reply, isReply := flow.(*AdminReply); isReply {
		b.handleAdminReplyMessage(ctx, msg, reply.TargetUserID)
	}
}

func (b *BotService) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From == nil {
		return
	}

	cb, err := ParseCallback(query.Data)
	if err != nil {
		b.logger(ctx).Warnw("ignoring callback", "data", query.Data, "error", err)
		b.answer(ctx, query, "", false)
		return
	}

	if cb.IsModeration() {
		if query.Message == nil || query.Message.Chat == nil || query.Message.Chat.ID != b.cfg.ModerationChatID {
			b.answer(ctx, query, textModerationOnly, false)
			return
		}
	}

	switch cb.Action {
	case ActionAccept:
		b.handleAccept(ctx, query, cb)
	case ActionReject:
		b.handleReject(ctx, query, cb)
	case ActionDelete:
		b.handleModeratorDelete(ctx, query, cb)
	case ActionContact:
		b.handleContactUser(ctx, query, cb)
	case ActionEdit:
		b.handleEditField(ctx, query, cb.Field)
	case ActionCancelEdit:
		b.handleCancelEdit(ctx, query)
	case ActionConfirmDelete:
		b.handleConfirmDelete(ctx, query)
	case ActionCancelDelete:
		b.handleCancelDelete(ctx, query)
	}
}

// send posts an HTML message and logs a failure.
func (b *BotService) send(ctx context.Context, chatID int64, text string, markup interface{}) {
	if err := b.deliver(chatID, text, markup); err != nil {
		b.logger(ctx).Errorw("send message failed", "chat_id", chatID, "error", err)
	}
}

// deliver posts an HTML message and returns the failure to the caller.
func (b *BotService) deliver(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	_, err := b.botAPI.Send(msg)

	return err
}

func (b *BotService) replyTo(ctx context.Context, to *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(to.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyToMessageID = to.MessageID

	if _, err := b.botAPI.Send(msg); err != nil {
		b.logger(ctx).Errorw("reply failed", "chat_id", to.Chat.ID, "error", err)
	}
}

// editText rewrites the text of the message a button was attached to.
func (b *BotService) editText(ctx context.Context, query *tgbotapi.CallbackQuery, text string) {
	if query.Message == nil || query.Message.Chat == nil {
		return
	}

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML

	if _, err := b.botAPI.Send(edit); err != nil {
		b.logger(ctx).Warnw("edit message failed", "chat_id", query.Message.Chat.ID, "error", err)
	}
}

func (b *BotService) answer(ctx context.Context, query *tgbotapi.CallbackQuery, text string, alert bool) {
	text = truncateUnits(text, callbackAnswerLimit)

	cfg := tgbotapi.NewCallback(query.ID, text)
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(query.ID, text)
	}

	if _, err := b.botAPI.Request(cfg); err != nil {
		b.logger(ctx).Warnw("answer callback failed", "callback_id", query.ID, "error", err)
	}
}

type loggerKey struct{}

func withLogger(ctx context.Context, log *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

func (b *BotService) logger(ctx context.Context) *zap.SugaredLogger {
	if log, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return log
	}

	return b.log
}
