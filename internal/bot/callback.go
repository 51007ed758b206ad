package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gratefultolord/mc_forms_bot/internal/db"
)

var ErrMalformedCallback = errors.New("malformed callback data")

type Action string

const (
	ActionAccept        Action = "accept"
	ActionReject        Action = "reject"
	ActionDelete        Action = "delete"
	ActionContact       Action = "contact"
	ActionEdit          Action = "edit"
	ActionCancelEdit    Action = "cancel_edit"
	ActionConfirmDelete Action = "confirm_delete_my_form"
	ActionCancelDelete  Action = "cancel_delete"
)

// Callback is the decoded data of an inline button press.
type Callback struct {
	Action Action
	UserID int64
	FormID int64
	Field  db.FormField
}

// IsModeration reports whether the action is only valid in the moderation channel.
func (c Callback) IsModeration() bool {
	switch c.Action {
	case ActionAccept, ActionReject, ActionDelete, ActionContact:
		return true
	}

	return false
}

// Data encodes the callback. The order of ids differs per action and is part
// of the wire format: delete carries form id first.
func (c Callback) Data() string {
	switch c.Action {
	case ActionAccept, ActionReject:
		return fmt.Sprintf("%s_%d_%d", c.Action, c.UserID, c.FormID)
	case ActionDelete:
		return fmt.Sprintf("%s_%d_%d", c.Action, c.FormID, c.UserID)
	case ActionContact:
		return fmt.Sprintf("%s_%d", c.Action, c.UserID)
	case ActionEdit:
		return string(ActionEdit) + "_" + c.Field.Key()
	default:
		return string(c.Action)
	}
}

func ParseCallback(data string) (Callback, error) {
	switch Action(data) {
	case ActionCancelEdit, ActionConfirmDelete, ActionCancelDelete:
		return Callback{Action: Action(data)}, nil
	}

	if key, ok := strings.CutPrefix(data, string(ActionEdit)+"_"); ok {
		field, ok := db.ParseFormField(key)
		if !ok {
			return Callback{}, fmt.Errorf("%w: unknown field %q", ErrMalformedCallback, key)
		}

		return Callback{Action: ActionEdit, Field: field}, nil
	}

	parts := strings.Split(data, "_")
	action := Action(parts[0])

	ids := make([]int64, 0, len(parts)-1)
	for _, p := range parts[1:] {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		ids = append(ids, id)
	}

	switch {
	case (action == ActionAccept || action == ActionReject) && len(ids) == 2:
		return Callback{Action: action, UserID: ids[0], FormID: ids[1]}, nil
	case action == ActionDelete && len(ids) == 2:
		return Callback{Action: action, FormID: ids[0], UserID: ids[1]}, nil
	case action == ActionContact && len(ids) == 1:
		return Callback{Action: action, UserID: ids[0]}, nil
	}

	return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
}
