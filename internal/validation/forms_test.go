package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRegisterForm() RegisterForm {
	return RegisterForm{
		Name:            "Ann Lee",
		Email:           "ann@x.com",
		Password:        "Abcd1!",
		ConfirmPassword: "Abcd1!",
	}
}

func TestCheck_RegisterForm_Name(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"missing", "", "Name is required."},
		{"too short", "A", "Please enter a valid name."},
		{"digits", "Ann123", "Please enter a valid name."},
		{"valid", "Ann Lee", ""},
		{"valid with surrounding spaces", "  Ann Lee  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegisterForm()
			form.Name = tt.value

			errs := Check(form)
			if tt.expected == "" {
				assert.NotContains(t, errs, "name")
			} else {
				assert.Equal(t, tt.expected, errs["name"])
			}
		})
	}
}

func TestCheck_RegisterForm_Email(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"missing", "", "Email is required."},
		{"contains space", "a b@x.com", "Email cannot contain spaces."},
		{"no at sign", "annx.com", "Please enter a valid email."},
		{"no tld", "ann@x", "Please enter a valid email."},
		{"one letter tld", "ann@x.c", "Please enter a valid email."},
		{"valid", "ann@x.com", ""},
		{"valid with plus", "ann+tag@mail.example.org", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegisterForm()
			form.Email = tt.value

			errs := Check(form)
			if tt.expected == "" {
				assert.NotContains(t, errs, "email")
			} else {
				assert.Equal(t, tt.expected, errs["email"])
			}
		})
	}
}

func TestCheck_RegisterForm_Password(t *testing.T) {
	strengthMsg := "Password must be at least 4 characters with uppercase, lowercase, number & symbol."

	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"missing", "", "Password is required."},
		{"contains space", "Ab 1!", "Password cannot contain spaces."},
		{"too short", "A1!", strengthMsg},
		{"no lowercase", "ABCD1!", strengthMsg},
		{"no uppercase", "abcd1!", strengthMsg},
		{"no digit", "Abcd!!", strengthMsg},
		{"no symbol", "Abcd12", strengthMsg},
		{"minimal valid", "Ab1!", ""},
		{"valid", "Abcd1!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegisterForm()
			form.Password = tt.value
			form.ConfirmPassword = tt.value

			errs := Check(form)
			if tt.expected == "" {
				assert.NotContains(t, errs, "password")
			} else {
				assert.Equal(t, tt.expected, errs["password"])
			}
		})
	}
}

func TestCheck_RegisterForm_ConfirmPassword(t *testing.T) {
	form := validRegisterForm()
	form.ConfirmPassword = ""
	assert.Equal(t, "Confirm Password is required.", Check(form)["confirmPassword"])

	form = validRegisterForm()
	form.ConfirmPassword = "Different1!"
	assert.Equal(t, "Passwords do not match.", Check(form)["confirmPassword"])

	assert.Empty(t, Check(validRegisterForm()))
}

func TestCheck_FirstFailingRuleWins(t *testing.T) {
	// A value that breaks both the whitespace and the format rule reports only
	// the earlier rule's message.
	form := validRegisterForm()
	form.Email = "not an email"
	assert.Equal(t, "Email cannot contain spaces.", Check(form)["email"])
}

func TestCheck_LoginForm(t *testing.T) {
	errs := Check(LoginForm{Email: "annx.com", Password: "Abcd1!"})
	assert.Equal(t, "Please enter a valid email address.", errs["email"])

	errs = Check(LoginForm{})
	assert.Equal(t, "Email is required.", errs["email"])
	assert.Equal(t, "Password is required.", errs["password"])

	assert.Empty(t, Check(LoginForm{Email: "ann@x.com", Password: "Abcd1!"}))
}

func TestCheck_EditUserForm_OptionalPassword(t *testing.T) {
	base := EditUserForm{Name: "Ann Lee", Email: "ann@x.com"}

	// Blank password is valid on edit.
	assert.Empty(t, Check(base))

	weak := base
	weak.Password = "abc"
	assert.Equal(t,
		"Password must be at least 4 characters with uppercase, lowercase, number & symbol.",
		Check(weak)["password"])

	strong := base
	strong.Password = "Abcd1!"
	assert.Empty(t, Check(strong))
}

func TestCheck_AddUserForm_PasswordRequired(t *testing.T) {
	errs := Check(AddUserForm{Name: "Ann Lee", Email: "ann@x.com"})
	assert.Equal(t, "Password is required.", errs["password"])
}
