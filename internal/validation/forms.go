package validation

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Form structs carry the submitted field values together with their rule
// chains. Tags are evaluated in order and validation of a field stops at the
// first failing tag, so rule precedence is the tag order.

// RegisterForm is submitted from the user registration page.
type RegisterForm struct {
	Name            string `form:"name" validate:"required,person_name"`
	Email           string `form:"email" validate:"required,no_whitespace,email_format"`
	Password        string `form:"password" validate:"required,no_whitespace,password_strength"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginForm is submitted from the user and admin login pages.
type LoginForm struct {
	Email    string `form:"email" validate:"required,no_whitespace,email_format"`
	Password string `form:"password" validate:"required,no_whitespace,password_strength"`
}

func (LoginForm) messageOverrides() map[string]string {
	return map[string]string{
		"email.email_format": "Please enter a valid email address.",
	}
}

// AddUserForm is submitted from the admin dashboard add-user form.
type AddUserForm struct {
	Name     string `form:"name" validate:"required,person_name"`
	Email    string `form:"email" validate:"required,no_whitespace,email_format"`
	Password string `form:"password" validate:"required,no_whitespace,password_strength"`
}

// EditUserForm is submitted from the admin dashboard edit form. The password
// is optional and only validated when non-empty.
type EditUserForm struct {
	Name     string `form:"name" validate:"required,person_name"`
	Email    string `form:"email" validate:"required,no_whitespace,email_format"`
	Password string `form:"password" validate:"omitempty,no_whitespace,password_strength"`
}

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z ]{2,}$`)
	spaceRe = regexp.MustCompile(`\s`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

const passwordSymbols = `@$!%*?&#^()_+-=[]{};'"\|,.<>/?`

// messages maps "field.tag" to the fixed user-facing string.
var messages = map[string]string{
	"name.required":              "Name is required.",
	"name.person_name":           "Please enter a valid name.",
	"email.required":             "Email is required.",
	"email.no_whitespace":        "Email cannot contain spaces.",
	"email.email_format":         "Please enter a valid email.",
	"password.required":          "Password is required.",
	"password.no_whitespace":     "Password cannot contain spaces.",
	"password.password_strength": "Password must be at least 4 characters with uppercase, lowercase, number & symbol.",
	"confirmPassword.required":   "Confirm Password is required.",
	"confirmPassword.eqfield":    "Passwords do not match.",
}

type messageOverrider interface {
	messageOverrides() map[string]string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their form name so error maps key straight into views.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "person_name", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "no_whitespace", func(fl validator.FieldLevel) bool {
		return !spaceRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "email_format", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "password_strength", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func strongPassword(s string) bool {
	if len([]rune(s)) < 4 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// Check validates a form and returns a field-keyed error map. An empty map
// means the form is valid. Each field carries at most one message, the one for
// its first failing rule.
func Check(form interface{}) map[string]string {
	errs := map[string]string{}

	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-validation errors mean the form struct itself is broken.
		panic(err)
	}

	var overrides map[string]string
	if o, ok := form.(messageOverrider); ok {
		overrides = o.messageOverrides()
	}

	for _, fe := range invalid {
		key := fe.Field() + "." + fe.Tag()
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		if msg, ok := overrides[key]; ok {
			errs[fe.Field()] = msg
			continue
		}
		if msg, ok := messages[key]; ok {
			errs[fe.Field()] = msg
			continue
		}
		errs[fe.Field()] = "Invalid value."
	}
	return errs
}
