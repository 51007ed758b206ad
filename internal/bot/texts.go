package bot

import "github.com/gratefultolord/mc_forms_bot/internal/db"

// Main menu labels. Incoming text is matched against these verbatim.
const (
	ButtonFillForm     = "📋 Заполнить анкету"
	ButtonMyForm       = "📋 Моя анкета"
	ButtonEditForm     = "✏️ Редактировать анкету"
	ButtonDeleteForm   = "🗑 Удалить анкету"
	ButtonContactAdmin = "📨 Связь с админом"
	ButtonCancel       = "❌ Отмена"
)

const (
	textWelcome        = "👋 Привет! Я анкетолог.\n\nВыберите действие:"
	textBanned         = "🚫 Вы заблокированы в этом боте."
	textCancelled      = "Действие отменено."
	textInternalError  = "Произошла ошибка. Попробуйте позже."
	textEmptyAnswer    = "Пожалуйста, ответьте текстовым сообщением."
	textAlreadyHasForm = "❗️ У вас уже есть анкета! Используйте кнопки для редактирования или удаления."
	textFormStart      = "📝 Начинаем заполнение анкеты!"
	textFormSaved      = "✅ Анкета сохранена и отправлена на рассмотрение!"
	textFormSaveFailed = "Произошла ошибка при сохранении анкеты. Попробуйте позже."
	textNoForm         = "❌ У вас пока нет анкеты."
	textNoFormToEdit   = "❌ У вас пока нет анкеты для редактирования."
	textNoFormToDelete = "❌ У вас нет анкеты для удаления."
	textEditMenu       = "✏️ <b>Выберите, что хотите отредактировать:</b>"
	textEditCancelled  = "❌ Редактирование отменено."
	textDeleteConfirm  = "⚠️ Вы уверены, что хотите удалить свою анкету?"
	textDeleteDone     = "✅ Ваша анкета удалена."
	textDeleteNext     = "Вы можете заполнить новую анкету."
	textDeleteAborted  = "❌ Удаление отменено."
	textContactPrompt  = "✍️ <b>Напишите сообщение для администраторов:</b>"
	textContactSent    = "✅ <b>Сообщение отправлено администраторам!</b>"
	textContactFailed  = "Не удалось отправить сообщение. Попробуйте позже."

	textModerationOnly  = "Эта команда доступна только в админ-группе!"
	textNoRights        = "🚫 У вас нет прав на эту команду."
	textFormNotFound    = "Анкета не найдена: возможно, она уже удалена."
	textUnbanUsage      = "❌ Использование: /unban <user_id>\nПример: /unban 123456789"
	textNoForms         = "📭 Анкет пока нет."
	textNothingToExport = "Нет данных для экспорта."
	textReplyDelivered  = "✅ Сообщение доставлено!"

	textInvite = "🎉 <b>Поздравляем!</b> 🎉\n\n" +
		"Ваша анкета была одобрена! Добро пожаловать в наше сообщество!\n\n" +
		"🎮 Желаем вам приятной игры и отличного общения!\n" +
		"🤝 Если возникнут вопросы - всегда рады помочь!"
	textRejected = "❌ <b>К сожалению, ваша анкета была отклонена.</b>\n\n" +
		"Доступ к боту ограничен."
	textDeletedByAdmin = "📋 <b>Ваша анкета была удалена администратором.</b>\n\n" +
		"Вы можете заполнить новую анкету."
	textUnbanned = "✅ <b>Вы были разбанены!</b>\n\nТеперь вы снова можете пользоваться ботом."

	decorationAccepted      = "✅ <b>ПРИНЯТО</b>"
	decorationRejected      = "❌ <b>ОТКЛОНЕНО + БАН</b>"
	decorationDeletedByMod  = "🗑 <b>УДАЛЕНО АДМИНОМ</b>"
	decorationDeletedByUser = "🗑 <b>УДАЛЕНО ПОЛЬЗОВАТЕЛЕМ</b>"
)

type fieldTexts struct {
	Label    string
	Question string
	Prompt   string
	Updated  string
}

var fieldCopy = map[db.FormField]fieldTexts{
	db.FieldName: {
		Label:    "👤 Имя",
		Question: "❓ <b>Как тебя зовут?</b>",
		Prompt:   "✏️ <b>Введите новое имя:</b>",
		Updated:  "✅ <b>Имя обновлено!</b>",
	},
	db.FieldTGUsername: {
		Label:    "📱 Telegram username",
		Question: "❓ <b>Твой Telegram username?</b>",
		Prompt:   "✏️ <b>Введите новый Telegram username:</b>",
		Updated:  "✅ <b>Telegram username обновлён!</b>",
	},
	db.FieldMCNick: {
		Label:    "🎮 Minecraft ник",
		Question: "❓ <b>Твой ник в Minecraft?</b>",
		Prompt:   "✏️ <b>Введите новый Minecraft ник:</b>",
		Updated:  "✅ <b>Minecraft ник обновлён!</b>",
	},
	db.FieldCallAs: {
		Label:    "💬 Обращение",
		Question: "❓ <b>Как к тебе обращаться?</b>",
		Prompt:   "✏️ <b>Введите новое обращение:</b>",
		Updated:  "✅ <b>Обращение обновлено!</b>",
	},
	db.FieldAge: {
		Label:    "🎂 Возраст",
		Question: "❓ <b>Сколько тебе лет?</b>",
		Prompt:   "✏️ <b>Введите новый возраст:</b>",
		Updated:  "✅ <b>Возраст обновлён!</b>",
	},
	db.FieldExtra: {
		Label:    "📝 Дополнительно",
		Question: "❓ <b>Добавь что-то от себя (расскажи о себе):</b>",
		Prompt:   "✏️ <b>Введите новую дополнительную информацию:</b>",
		Updated:  "✅ <b>Дополнительная информация обновлена!</b>",
	},
}

var userStatusCaptions = map[db.Status]string{
	db.StatusPending:  "⏳ На рассмотрении",
	db.StatusAccepted: "✅ Одобрена",
	db.StatusRejected: "❌ Отклонена",
}

var listingStatusEmoji = map[db.Status]string{
	db.StatusPending:  "⏳",
	db.StatusAccepted: "✅",
	db.StatusRejected: "❌",
}
