package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username        string `form:"username" binding:"required,min=3,max=40,username"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,pwd"`
	PasswordConfirm string `form:"passwordConfirm" binding:"required,eqfield=Password"`
	Date            string `form:"date" binding:"omitempty,isodate"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	Register(v)
	return v
}

func TestToListReportsFieldsInOrder(t *testing.T) {
	v := newValidate()
	err := v.Struct(signupForm{Username: "a b", Email: "nope", Password: "abc", PasswordConfirm: "abd", Date: "01/02/2025"})
	require.Error(t, err)

	list := ToList(err)
	fields := make([]string, 0, len(list))
	for _, e := range list {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"username", "email", "password", "passwordConfirm", "date"}, fields)
	assert.Equal(t, "must be at least 6 characters long", list[2].Message)
	assert.Equal(t, "must match Password", list[3].Message)
}

func TestUsernameRule(t *testing.T) {
	v := newValidate()
	ok := signupForm{Username: "ada.l-1_x", Email: "ada@example.com", Password: "abcdef", PasswordConfirm: "abcdef", Date: "2025-01-02"}
	assert.NoError(t, v.Struct(ok))

	bad := ok
	bad.Username = "ab"
	list := ToList(v.Struct(bad))
	require.Len(t, list, 1)
	assert.Equal(t, "username", list[0].Field)
	assert.Equal(t, "min", list[0].Tag)
}

func TestToListNonValidationError(t *testing.T) {
	list := ToList(assert.AnError)
	require.Len(t, list, 1)
	assert.Equal(t, "payload", list[0].Field)
	assert.Nil(t, ToList(nil))
}
