package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	type form struct {
		Phone  string  `validate:"required"`
		Amount float64 `validate:"gt=0"`
		Method string  `validate:"oneof=cash bank"`
	}

	err := validator.New().Struct(form{Amount: -1, Method: "card"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, ResultError, resp.Result)
	assert.Equal(t, "field Phone is a required field, field Amount must be greater than 0, field Method must be one of: cash bank", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestSuccess(t *testing.T) {
	assert.Equal(t, Response{Result: ResultSuccess, Data: 1}, Success(1))
	assert.Equal(t, Response{Result: ResultSuccess, Message: "ok"}, Message("ok"))
	assert.Equal(t, Response{Result: ResultError, Message: "bad"}, Error("bad"))
}
