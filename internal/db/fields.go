package db

import (
	"errors"
	"fmt"
)

var ErrUnknownField = errors.New("unknown form field")

// FormField is the closed set of user-editable form columns. The declaration
// order is also the order in which a new form is filled.
type FormField int

const (
	FieldName FormField = iota + 1
	FieldTGUsername
	FieldMCNick
	FieldCallAs
	FieldAge
	FieldExtra
)

// FormFieldOrder lists every field in questionnaire order.
var FormFieldOrder = []FormField{
	FieldName,
	FieldTGUsername,
	FieldMCNick,
	FieldCallAs,
	FieldAge,
	FieldExtra,
}

var formFieldKeys = map[FormField]string{
	FieldName:       "name",
	FieldTGUsername: "tg_username",
	FieldMCNick:     "mc_nick",
	FieldCallAs:     "call_as",
	FieldAge:        "age",
	FieldExtra:      "extra",
}

var updateFieldQueries = buildUpdateFieldQueries()

func buildUpdateFieldQueries() map[FormField]string {
	queries := make(map[FormField]string, len(formFieldKeys))
	for field, column := range formFieldKeys {
		queries[field] = fmt.Sprintf(`
		    UPDATE forms
			SET %s = ?, edited_at = ?, is_edited = ?
			WHERE id = %s`, column, latestFormID)
	}

	return queries
}

// Key is the column name, also used in edit_<key> callback data.
func (f FormField) Key() string {
	return formFieldKeys[f]
}

func (f FormField) String() string {
	if key, ok := formFieldKeys[f]; ok {
		return key
	}

	return fmt.Sprintf("FormField(%d)", int(f))
}

func ParseFormField(key string) (FormField, bool) {
	for field, k := range formFieldKeys {
		if k == key {
			return field, true
		}
	}

	return 0, false
}

func (f *FormFields) Get(field FormField) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldTGUsername:
		return f.TGUsername
	case FieldMCNick:
		return f.MCNick
	case FieldCallAs:
		return f.CallAs
	case FieldAge:
		return f.Age
	case FieldExtra:
		return f.Extra
	}

	return ""
}

func (f *FormFields) Set(field FormField, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldTGUsername:
		f.TGUsername = value
	case FieldMCNick:
		f.MCNick = value
	case FieldCallAs:
		f.CallAs = value
	case FieldAge:
		f.Age = value
	case FieldExtra:
		f.Extra = value
	}
}
