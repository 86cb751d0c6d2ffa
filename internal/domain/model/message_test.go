package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageRequestFieldsTrimsStrings(t *testing.T) {
	amount := " 5000 "
	hours := 0
	req := MessageRequest{
		Email:          "  ada@example.com\t",
		Name:           " Ada ",
		Code:           "482913\n",
		Amount:         &amount,
		HoursRemaining: &hours,
	}

	fields := req.Fields()

	assert.Equal(t, "ada@example.com", fields["email"])
	assert.Equal(t, "Ada", fields["name"])
	assert.Equal(t, "482913", fields["code"])
	assert.Equal(t, "5000", fields["amount"])
	assert.Equal(t, 0, fields["hoursRemaining"])
	assert.Equal(t, "", fields["subject"])
}

func TestMessageRequestFieldsOmitsAbsentOptionals(t *testing.T) {
	fields := (&MessageRequest{Email: "ada@example.com"}).Fields()

	assert.NotContains(t, fields, "amount")
	assert.NotContains(t, fields, "hoursRemaining")
}
