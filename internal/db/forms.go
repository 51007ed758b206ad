package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// FormFields are the user-supplied answers. All values are opaque strings,
// age included.
type FormFields struct {
	Name       string `db:"name"`
	TGUsername string `db:"tg_username"`
	MCNick     string `db:"mc_nick"`
	CallAs     string `db:"call_as"`
	Age        string `db:"age"`
	Extra      string `db:"extra"`
}

type Form struct {
	ID     int64 `db:"id"`
	UserID int64 `db:"user_id"`
	FormFields
	Status         Status     `db:"status"`
	CreatedAt      time.Time  `db:"created_at"`
	EditedAt       *time.Time `db:"edited_at"`
	IsEdited       bool       `db:"is_edited"`
	AdminMessageID *int       `db:"admin_message_id"`
}

const formColumns = `id, user_id, name, tg_username, mc_nick, call_as, age, extra,
	status, created_at, edited_at, is_edited, admin_message_id`

// latestFormID selects the id of the user's current form: newest row wins.
const latestFormID = `(SELECT id FROM forms WHERE user_id = ? ORDER BY id DESC LIMIT 1)`

type FormRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewFormRepository(db *sqlx.DB) *FormRepository {
	return &FormRepository{
		db:  db,
		now: time.Now,
	}
}

// Create inserts a pending form without a moderation message reference.
func (r *FormRepository) Create(ctx context.Context, userID int64, fields FormFields) (int64, error) {
	var id int64

	err := r.db.GetContext(ctx, &id, r.db.Rebind(`
	    INSERT INTO forms
		(user_id, name, tg_username, mc_nick, call_as, age, extra, status, is_edited)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`),
		userID,
		fields.Name,
		fields.TGUsername,
		fields.MCNick,
		fields.CallAs,
		fields.Age,
		fields.Extra,
		StatusPending,
		false,
	)
	if err != nil {
		return 0, fmt.Errorf("FormRepository.Create: %w", err)
	}

	return id, nil
}

// GetLatestByUserID returns the user's current form or nil when there is none.
func (r *FormRepository) GetLatestByUserID(ctx context.Context, userID int64) (*Form, error) {
	var form Form

	err := r.db.GetContext(ctx, &form, r.db.Rebind(`
	    SELECT `+formColumns+` FROM forms
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT 1
	`), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("FormRepository.GetLatestByUserID: %w", err)
	}

	return &form, nil
}

func (r *FormRepository) GetByID(ctx context.Context, formID int64) (*Form, error) {
	var form Form

	err := r.db.GetContext(ctx, &form, r.db.Rebind(`
	    SELECT `+formColumns+` FROM forms
		WHERE id = ?
	`), formID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("FormRepository.GetByID: %w", err)
	}

	return &form, nil
}

// Все анкеты, новые первыми
func (r *FormRepository) GetAll(ctx context.Context) ([]Form, error) {
	var forms []Form

	err := r.db.SelectContext(ctx, &forms, `
	    SELECT `+formColumns+` FROM forms
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("FormRepository.GetAll: %w", err)
	}

	return forms, nil
}

// UpdateField rewrites one field of the user's current form and marks it
// edited. The edited flag is never cleared. Reports false when the user has no form.
func (r *FormRepository) UpdateField(ctx context.Context, userID int64, field FormField, value string) (bool, error) {
	query, ok := updateFieldQueries[field]
	if !ok {
		return false, fmt.Errorf("FormRepository.UpdateField: %w: %d", ErrUnknownField, field)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), value, r.now().UTC(), true, userID)
	if err != nil {
		return false, fmt.Errorf("FormRepository.UpdateField: %w", err)
	}

	return affected(res, "FormRepository.UpdateField")
}

// Обновить статус текущей анкеты
func (r *FormRepository) SetStatus(ctx context.Context, userID int64, status Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
	    UPDATE forms
		SET status = ?
		WHERE id = `+latestFormID,
	), status, userID)
	if err != nil {
		return false, fmt.Errorf("FormRepository.SetStatus: %w", err)
	}

	return affected(res, "FormRepository.SetStatus")
}

// AttachModerationMessage stores the moderation channel message id on the
// user's current form.
func (r *FormRepository) AttachModerationMessage(ctx context.Context, userID int64, messageID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
	    UPDATE forms
		SET admin_message_id = ?
		WHERE id = `+latestFormID,
	), messageID, userID)
	if err != nil {
		return false, fmt.Errorf("FormRepository.AttachModerationMessage: %w", err)
	}

	return affected(res, "FormRepository.AttachModerationMessage")
}

func (r *FormRepository) Delete(ctx context.Context, formID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM forms WHERE id = ?`), formID)
	if err != nil {
		return false, fmt.Errorf("FormRepository.Delete: %w", err)
	}

	return affected(res, "FormRepository.Delete")
}

func (r *FormRepository) DeleteLatestByUserID(ctx context.Context, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM forms WHERE id = `+latestFormID), userID)
	if err != nil {
		return false, fmt.Errorf("FormRepository.DeleteLatestByUserID: %w", err)
	}

	return affected(res, "FormRepository.DeleteLatestByUserID")
}

func affected(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: rows affected: %w", op, err)
	}

	return n > 0, nil
}
