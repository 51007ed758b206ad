package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gratefultolord/mc_forms_bot/internal/db"
)

func TestCallbackData(t *testing.T) {
	tests := []struct {
		cb   Callback
		data string
	}{
		{Callback{Action: ActionAccept, UserID: 10, FormID: 3}, "accept_10_3"},
		{Callback{Action: ActionReject, UserID: 10, FormID: 3}, "reject_10_3"},
		{Callback{Action: ActionDelete, UserID: 10, FormID: 3}, "delete_3_10"},
		{Callback{Action: ActionContact, UserID: 10}, "contact_10"},
		{Callback{Action: ActionEdit, Field: db.FieldTGUsername}, "edit_tg_username"},
		{Callback{Action: ActionEdit, Field: db.FieldCallAs}, "edit_call_as"},
		{Callback{Action: ActionCancelEdit}, "cancel_edit"},
		{Callback{Action: ActionConfirmDelete}, "confirm_delete_my_form"},
		{Callback{Action: ActionCancelDelete}, "cancel_delete"},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			assert.Equal(t, tt.data, tt.cb.Data())

			parsed, err := ParseCallback(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.cb, parsed)
		})
	}
}

func TestParseCallbackMalformed(t *testing.T) {
	for _, data := range []string{
		"",
		"accept",
		"accept_10",
		"accept_10_3_4",
		"accept_x_3",
		"reject_10_-3",
		"delete_0_10",
		"contact",
		"contact_10_3",
		"edit_status",
		"edit_",
		"approve_10_3",
	} {
		t.Run(data, func(t *testing.T) {
			_, err := ParseCallback(data)
			assert.ErrorIs(t, err, ErrMalformedCallback)
		})
	}
}

func TestCallbackIsModeration(t *testing.T) {
	assert.True(t, Callback{Action: ActionAccept}.IsModeration())
	assert.True(t, Callback{Action: ActionReject}.IsModeration())
	assert.True(t, Callback{Action: ActionDelete}.IsModeration())
	assert.True(t, Callback{Action: ActionContact}.IsModeration())

	assert.False(t, Callback{Action: ActionEdit}.IsModeration())
	assert.False(t, Callback{Action: ActionConfirmDelete}.IsModeration())
}
