package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gratefultolord/mc_forms_bot/internal/config"
	"github.com/gratefultolord/mc_forms_bot/internal/db"
	"github.com/gratefultolord/mc_forms_bot/internal/db/dbtest"
	"github.com/gratefultolord/mc_forms_bot/internal/files"
)

const (
	moderationChatID = int64(-100777)
	adminID          = int64(500)
	moderatorID      = int64(600)
	inviteLink       = "https://t.me/+invite"
)

var (
	errBlocked    = errors.New("forbidden: bot was blocked by the user")
	errEditFailed = errors.New("bad request: message to edit not found")
)

// fakeMessenger records everything the bot sends.
type fakeMessenger struct {
	mu        sync.Mutex
	sent      []tgbotapi.Chattable
	requests  []tgbotapi.Chattable
	blocked   map[int64]bool
	failEdits bool
	nextID    int
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{blocked: make(map[int64]bool), nextID: 1000}
}

func (f *fakeMessenger) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		if f.blocked[m.ChatID] {
			return tgbotapi.Message{}, errBlocked
		}
	case tgbotapi.EditMessageTextConfig:
		if f.failEdits {
			return tgbotapi.Message{}, errEditFailed
		}
	}

	f.sent = append(f.sent, c)
	f.nextID++

	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeMessenger) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, c)

	return &tgbotapi.APIResponse{Ok: true}, nil
}

// messagesTo returns new messages sent to chatID, oldest first.
func (f *fakeMessenger) messagesTo(chatID int64) []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ChatID == chatID {
			out = append(out, m)
		}
	}

	return out
}

func (f *fakeMessenger) lastMessageTo(t *testing.T, chatID int64) tgbotapi.MessageConfig {
	t.Helper()

	msgs := f.messagesTo(chatID)
	require.NotEmpty(t, msgs, "no messages sent to %d", chatID)

	return msgs[len(msgs)-1]
}

func (f *fakeMessenger) edits() []tgbotapi.EditMessageTextConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []tgbotapi.EditMessageTextConfig
	for _, c := range f.sent {
		if e, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, e)
		}
	}

	return out
}

func (f *fakeMessenger) lastEdit(t *testing.T) tgbotapi.EditMessageTextConfig {
	t.Helper()

	edits := f.edits()
	require.NotEmpty(t, edits, "no edits sent")

	return edits[len(edits)-1]
}

func (f *fakeMessenger) documents() []tgbotapi.DocumentConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []tgbotapi.DocumentConfig
	for _, c := range f.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok {
			out = append(out, d)
		}
	}

	return out
}

func (f *fakeMessenger) lastAnswer(t *testing.T) tgbotapi.CallbackConfig {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.requests) - 1; i >= 0; i-- {
		if a, ok := f.requests[i].(tgbotapi.CallbackConfig); ok {
			return a
		}
	}

	require.Fail(t, "no callback answers sent")

	return tgbotapi.CallbackConfig{}
}

func (f *fakeMessenger) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

type harness struct {
	t      *testing.T
	ctx    context.Context
	api    *fakeMessenger
	forms  *db.FormRepository
	bans   *db.BanRepository
	bot    *BotService
	update int
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	database := dbtest.New(t)
	forms := db.NewFormRepository(database.Conn)
	bans := db.NewBanRepository(database.Conn)

	exporter, err := files.NewExportService(forms, t.TempDir())
	require.NoError(t, err)

	api := newFakeMessenger()
	cfg := config.BotConfig{
		ModerationChatID: moderationChatID,
		AdminIDs:         []int64{adminID},
		InviteLink:       inviteLink,
	}

	return &harness{
		t:     t,
		ctx:   context.Background(),
		api:   api,
		forms: forms,
		bans:  bans,
		bot:   New(api, forms, bans, exporter, cfg, zaptest.NewLogger(t).Sugar()),
	}
}

func (h *harness) dispatch(update tgbotapi.Update) {
	h.update++
	update.UpdateID = h.update
	h.bot.HandleUpdate(h.ctx, update)
}

func (h *harness) privateText(userID int64, text string) {
	h.dispatch(tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: h.update + 1,
		From:      &tgbotapi.User{ID: userID, FirstName: "Ann", UserName: "ann_tg"},
		Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
		Text:      text,
	}})
}

func (h *harness) command(chatID, fromID int64, text string) {
	chatType := "supergroup"
	if chatID == fromID {
		chatType = "private"
	}

	name := strings.SplitN(text, " ", 2)[0]

	h.dispatch(tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: h.update + 1,
		From:      &tgbotapi.User{ID: fromID},
		Chat:      &tgbotapi.Chat{ID: chatID, Type: chatType},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}})
}

func (h *harness) groupText(chatID, fromID int64, text string) {
	h.dispatch(tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: h.update + 1,
		From:      &tgbotapi.User{ID: fromID},
		Chat:      &tgbotapi.Chat{ID: chatID, Type: "supergroup"},
		Text:      text,
	}})
}

// press simulates a button press on messageID in chatID.
func (h *harness) press(chatID, fromID int64, messageID int, data string) {
	h.dispatch(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: fromID},
		Message: &tgbotapi.Message{
			MessageID: messageID,
			Chat:      &tgbotapi.Chat{ID: chatID, Type: "supergroup"},
		},
		Data: data,
	}})
}

var annAnswers = []string{"Ann", "@ann_tg", "Annie", "Ann", "17", "hi"}

// submit walks userID through the whole form and returns the stored form.
func (h *harness) submit(userID int64, answers ...string) *db.Form {
	h.t.Helper()

	if len(answers) == 0 {
		answers = annAnswers
	}

	h.privateText(userID, ButtonFillForm)
	for _, a := range answers {
		h.privateText(userID, a)
	}

	form, err := h.forms.GetLatestByUserID(h.ctx, userID)
	require.NoError(h.t, err)
	require.NotNil(h.t, form)

	return form
}

func (h *harness) latest(userID int64) *db.Form {
	h.t.Helper()

	form, err := h.forms.GetLatestByUserID(h.ctx, userID)
	require.NoError(h.t, err)

	return form
}

func (h *harness) isBanned(userID int64) bool {
	h.t.Helper()

	banned, err := h.bans.IsBanned(h.ctx, userID)
	require.NoError(h.t, err)

	return banned
}
