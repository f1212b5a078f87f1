package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorChecks(t *testing.T) {
	var v Validator
	assert.False(t, v.HasErrors())

	v.Check(true, "should not be recorded")
	v.CheckField(true, "email", "should not be recorded")
	assert.False(t, v.HasErrors())

	v.Check(false, "something went wrong")
	v.CheckField(false, "email", "cannot be blank")
	v.CheckField(false, "email", "second message is dropped")

	assert.True(t, v.HasErrors())
	assert.Equal(t, []string{"something went wrong"}, v.Errors)
	assert.Equal(t, map[string]string{"email": "cannot be blank"}, v.FieldErrors)
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"NotBlank value", NotBlank("fleet"), true},
		{"NotBlank spaces", NotBlank("   "), false},
		{"MaxRunes at limit", MaxRunes("abc", 3), true},
		{"MaxRunes over limit", MaxRunes("abcd", 3), false},
		{"IsEmail valid", IsEmail("amina@example.com"), true},
		{"IsEmail invalid", IsEmail("not-an-email"), false},
		{"In member", In("B", "A", "B", "C"), true},
		{"In non-member", In("E", "A", "B", "C"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
