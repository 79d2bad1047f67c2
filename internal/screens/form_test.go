package screens

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck_LoginForm(t *testing.T) {
	v := newValidator()
	tests := []struct {
		name string
		form loginForm
		want FieldErrors
	}{
		{
			name: "valid local number",
			form: loginForm{Phone: "03001234567", Password: "secret1"},
		},
		{
			name: "valid international number",
			form: loginForm{Phone: "+923001234567", Password: "secret1"},
		},
		{
			name: "empty fields",
			form: loginForm{},
			want: FieldErrors{
				FieldPhone:    "Phone number is required",
				FieldPassword: "Password is required",
			},
		},
		{
			name: "bad phone and short password",
			form: loginForm{Phone: "0400123456", Password: "12345"},
			want: FieldErrors{
				FieldPhone:    "Enter valid phone (03xx xxxxxxx)",
				FieldPassword: "Password must be at least 6 characters",
			},
		},
		{
			name: "too long",
			form: loginForm{Phone: "030012345678", Password: "secret1"},
			want: FieldErrors{FieldPhone: "Enter valid phone (03xx xxxxxxx)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, check(v, tt.form))
		})
	}
}

func TestCheck_SignupForm(t *testing.T) {
	v := newValidator()

	errs := check(v, signupForm{Phone: "03001234567", Password: "secret1"})
	assert.Equal(t, FieldErrors{
		FieldName:    "Full name is required",
		FieldConfirm: "Confirm password is required",
	}, errs)

	errs = check(v, signupForm{Name: "Ali", Phone: "03001234567", Password: "secret1", Confirm: "secret2"})
	assert.Equal(t, FieldErrors{FieldConfirm: "Passwords do not match"}, errs)

	assert.Nil(t, check(v, signupForm{Name: "Ali", Phone: "03001234567", Password: "secret1", Confirm: "secret1"}))
}

func TestFieldErrors_Error(t *testing.T) {
	errs := FieldErrors{FieldPhone: "b", FieldAmount: "a"}
	assert.Equal(t, "a, b", errs.Error())

	wrapped := errors.Join(errors.New("context"), errs)
	got, ok := AsFieldErrors(wrapped)
	assert.True(t, ok)
	assert.Equal(t, errs, got)
}
