package core

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	_en := en.New()
	translator, ok := ut.New(_en, _en).GetTranslator("en")
	require.True(t, ok)
	validate := validator.New()
	InitValidators(validate, translator)
	return validate, translator
}

func TestCustomValidators(t *testing.T) {
	validate, translator := newTestValidator(t)

	type form struct {
		Pin   string `json:"pin_code" validate:"required,pincode"`
		Class string `json:"class" validate:"omitempty,classid"`
	}

	tests := []struct {
		name    string
		form    form
		wantErr map[string]string
	}{
		{name: "valid", form: form{Pin: "673001", Class: "3"}},
		{name: "no class", form: form{Pin: "673001"}},
		{name: "missing pin", form: form{}, wantErr: map[string]string{"pin_code": "this field is required"}},
		{name: "short pin", form: form{Pin: "67300"}, wantErr: map[string]string{"pin_code": pinCodeText}},
		{name: "alpha pin", form: form{Pin: "67300a"}, wantErr: map[string]string{"pin_code": pinCodeText}},
		{name: "class out of range", form: form{Pin: "673001", Class: "11"}, wantErr: map[string]string{"class": classIDText}},
		{name: "class not a number", form: form{Pin: "673001", Class: "three"}, wantErr: map[string]string{"class": classIDText}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "validate.Struct() error = %v", err)
			got := make(map[string]string, len(vErrs))
			for _, vErr := range vErrs {
				got[vErr.Field()] = vErr.Translate(translator)
			}
			assert.Equal(t, tt.wantErr, got)
		})
	}
}

func TestIsValidClass(t *testing.T) {
	for _, class := range []string{"1", "5", " 10 "} {
		assert.True(t, IsValidClass(class), class)
	}
	for _, class := range []string{"", "0", "11", "x", "-1"} {
		assert.False(t, IsValidClass(class), class)
	}
}
