package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "userportal/internal/errors"
	"userportal/internal/service"
	"userportal/internal/session"
	"userportal/internal/validation"
)

// UserHandler serves the user portal pages and flows.
type UserHandler struct {
	users    service.UserService
	sessions *session.Manager
}

// NewUserHandler creates a user handler.
func NewUserHandler(users service.UserService, sessions *session.Manager) *UserHandler {
	return &UserHandler{users: users, sessions: sessions}
}

type registerPage struct {
	Errors  map[string]string
	Old     validation.RegisterForm
	Flashes []session.Flash
}

type loginPage struct {
	Errors  map[string]string
	Old     validation.LoginForm
	Flashes []session.Flash
}

type homePage struct {
	Name    string
	Flashes []session.Flash
}

// LoadRegister renders the registration form.
func (h *UserHandler) LoadRegister(c echo.Context) error {
	return c.Render(http.StatusOK, "user_register.html", registerPage{
		Errors:  map[string]string{},
		Flashes: h.sessions.PopFlashes(c),
	})
}

// LoadLogin renders the login form.
func (h *UserHandler) LoadLogin(c echo.Context) error {
	return c.Render(http.StatusOK, "user_login.html", loginPage{
		Errors:  map[string]string{},
		Flashes: h.sessions.PopFlashes(c),
	})
}

// Register runs the registration flow: validate, insert, flash, redirect to
// login. Validation and conflict errors re-render the form with the submitted
// values.
func (h *UserHandler) Register(c echo.Context) error {
	var form validation.RegisterForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	if errs := validation.Check(form); len(errs) > 0 {
		return c.Render(http.StatusOK, "user_register.html", registerPage{Errors: errs, Old: form})
	}

	if _, err := h.users.Register(c.Request().Context(), form.Name, form.Email, form.Password); err != nil {
		if conflict, ok := apperrors.AsConflict(err); ok {
			return c.Render(http.StatusOK, "user_register.html", registerPage{
				Errors: map[string]string{conflict.Field: conflict.Message},
				Old:    form,
			})
		}
		c.Logger().Errorf("register: %v", err)
		return c.Render(http.StatusOK, "user_register.html", registerPage{
			Errors: map[string]string{"general": "Registration failed, please try again."},
			Old:    form,
		})
	}

	state := h.sessions.Begin(c)
	state.PushFlash("success", "Registration successful! Please login.")
	if err := h.sessions.Save(c.Request().Context(), state); err != nil {
		c.Logger().Errorf("save session: %v", err)
	}
	return c.Redirect(http.StatusFound, "/user/login")
}

// Login runs the login flow and populates the session's user slot.
func (h *UserHandler) Login(c echo.Context) error {
	var form validation.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	if errs := validation.Check(form); len(errs) > 0 {
		return c.Render(http.StatusOK, "user_login.html", loginPage{Errors: errs, Old: form})
	}

	user, err := h.users.Authenticate(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.Render(http.StatusOK, "user_login.html", loginPage{
				Errors: map[string]string{"email": "User not found"},
				Old:    form,
			})
		case errors.Is(err, service.ErrInvalidPassword):
			return c.Render(http.StatusOK, "user_login.html", loginPage{
				Errors: map[string]string{"password": "Invalid password"},
				Old:    form,
			})
		default:
			c.Logger().Errorf("login: %v", err)
			return c.Render(http.StatusOK, "user_login.html", loginPage{
				Errors: map[string]string{"general": "Login failed, please try again."},
				Old:    form,
			})
		}
	}

	state := h.sessions.Begin(c)
	state.User = &session.UserIdentity{ID: user.ID, Name: user.Name}
	if err := h.sessions.Save(c.Request().Context(), state); err != nil {
		c.Logger().Errorf("save session: %v", err)
		return c.Render(http.StatusOK, "user_login.html", loginPage{
			Errors: map[string]string{"general": "Login failed, please try again."},
			Old:    form,
		})
	}
	return c.Redirect(http.StatusFound, "/user/home")
}

// Home renders the authenticated landing page.
func (h *UserHandler) Home(c echo.Context) error {
	page := homePage{Flashes: h.sessions.PopFlashes(c)}
	if state := session.FromContext(c); state != nil && state.User != nil {
		page.Name = state.User.Name
	}
	return c.Render(http.StatusOK, "user_home.html", page)
}

// Logout clears the session's user slot and redirects to login.
func (h *UserHandler) Logout(c echo.Context) error {
	if state := session.FromContext(c); state != nil {
		state.User = nil
		state.PushFlash("success", "You have been logged out successfully.")
		if err := h.sessions.Save(c.Request().Context(), state); err != nil {
			c.Logger().Errorf("save session: %v", err)
		}
	}
	return c.Redirect(http.StatusFound, "/user/login")
}
