package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "userportal/internal/errors"
	"userportal/internal/model"
	"userportal/internal/service"
	"userportal/internal/session"
	"userportal/internal/validation"
)

// AdminHandler serves the admin portal pages and user management flows.
type AdminHandler struct {
	admin    service.AdminService
	sessions *session.Manager
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(admin service.AdminService, sessions *session.Manager) *AdminHandler {
	return &AdminHandler{admin: admin, sessions: sessions}
}

type adminLoginPage struct {
	Errors  map[string]string
	Old     validation.LoginForm
	Flashes []session.Flash
}

type editOld struct {
	ID    uint
	Name  string
	Email string
}

type dashboardPage struct {
	Users      []model.User
	Errors     map[string]string
	EditErrors map[string]string
	OldAdd     validation.AddUserForm
	OldEdit    editOld
	Query      string
	Flashes    []session.Flash
}

// DeleteResponse is the JSON body of the delete endpoint.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LoadLogin renders the admin login form.
func (h *AdminHandler) LoadLogin(c echo.Context) error {
	return c.Render(http.StatusOK, "admin_login.html", adminLoginPage{
		Errors:  map[string]string{},
		Flashes: h.sessions.PopFlashes(c),
	})
}

// Login runs the admin login flow and populates the session's admin slot.
func (h *AdminHandler) Login(c echo.Context) error {
	var form validation.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	if errs := validation.Check(form); len(errs) > 0 {
		return c.Render(http.StatusOK, "admin_login.html", adminLoginPage{Errors: errs, Old: form})
	}

	admin, err := h.admin.Authenticate(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminNotFound):
			return c.Render(http.StatusOK, "admin_login.html", adminLoginPage{
				Errors: map[string]string{"email": "Admin not found"},
				Old:    form,
			})
		case errors.Is(err, service.ErrInvalidPassword):
			return c.Render(http.StatusOK, "admin_login.html", adminLoginPage{
				Errors: map[string]string{"password": "Invalid password"},
				Old:    form,
			})
		default:
			c.Logger().Errorf("admin login: %v", err)
			return c.Render(http.StatusOK, "admin_login.html", adminLoginPage{
				Errors: map[string]string{"general": "Login failed, please try again."},
				Old:    form,
			})
		}
	}

	state := h.sessions.Begin(c)
	state.Admin = &session.AdminIdentity{ID: admin.ID, Email: admin.Email}
	if err := h.sessions.Save(c.Request().Context(), state); err != nil {
		c.Logger().Errorf("save session: %v", err)
		return c.Render(http.StatusOK, "admin_login.html", adminLoginPage{
			Errors: map[string]string{"general": "Login failed, please try again."},
			Old:    form,
		})
	}
	return c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Dashboard renders the user list with the add and edit forms.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	return h.renderDashboard(c, dashboardPage{})
}

// AddUser creates a user on behalf of the admin. Validation and conflict
// errors re-render the dashboard inline with the submitted values; success
// flashes and redirects.
func (h *AdminHandler) AddUser(c echo.Context) error {
	var form validation.AddUserForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	if errs := validation.Check(form); len(errs) > 0 {
		return h.renderDashboard(c, dashboardPage{Errors: errs, OldAdd: form})
	}

	if _, err := h.admin.AddUser(c.Request().Context(), form.Name, form.Email, form.Password); err != nil {
		if conflict, ok := apperrors.AsConflict(err); ok {
			return h.renderDashboard(c, dashboardPage{
				Errors: map[string]string{conflict.Field: conflict.Message},
				OldAdd: form,
			})
		}
		c.Logger().Errorf("add user: %v", err)
		return h.flashAndRedirect(c, "error", "Failed to add user, please try again.")
	}

	return h.flashAndRedirect(c, "success", "User added successfully.")
}

// EditUser updates a user record.
func (h *AdminHandler) EditUser(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return h.flashAndRedirect(c, "error", "User not found.")
	}

	var form validation.EditUserForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	old := editOld{ID: id, Name: form.Name, Email: form.Email}

	if errs := validation.Check(form); len(errs) > 0 {
		return h.renderDashboard(c, dashboardPage{EditErrors: errs, OldEdit: old})
	}

	if _, err := h.admin.EditUser(c.Request().Context(), id, form.Name, form.Email, form.Password); err != nil {
		if conflict, ok := apperrors.AsConflict(err); ok {
			return h.renderDashboard(c, dashboardPage{
				EditErrors: map[string]string{conflict.Field: conflict.Message},
				OldEdit:    old,
			})
		}
		if errors.Is(err, service.ErrUserNotFound) {
			return h.flashAndRedirect(c, "error", "User not found.")
		}
		c.Logger().Errorf("edit user: %v", err)
		return h.flashAndRedirect(c, "error", "Failed to update user, please try again.")
	}

	return h.flashAndRedirect(c, "success", "User updated successfully.")
}

// DeleteUser removes a user record and reports the outcome as JSON. A missing
// id yields success=false, not an error status.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, DeleteResponse{Success: false, Message: "Invalid user id"})
	}

	deleted, err := h.admin.DeleteUser(c.Request().Context(), id)
	if err != nil {
		c.Logger().Errorf("delete user: %v", err)
		return c.JSON(http.StatusInternalServerError, DeleteResponse{Success: false, Message: "Error deleting user"})
	}
	return c.JSON(http.StatusOK, DeleteResponse{Success: deleted})
}

// Search renders the dashboard filtered by a loose name match. A blank query
// falls back to the plain dashboard.
func (h *AdminHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")

	users, err := h.admin.SearchUsers(c.Request().Context(), q)
	if err != nil {
		c.Logger().Errorf("search users: %v", err)
		return c.Render(http.StatusOK, "admin_dashboard.html", dashboardPage{
			Users:      []model.User{},
			Errors:     map[string]string{"general": "Search failed, please try again."},
			EditErrors: map[string]string{},
			Query:      q,
		})
	}

	return c.Render(http.StatusOK, "admin_dashboard.html", dashboardPage{
		Users:      users,
		Errors:     map[string]string{},
		EditErrors: map[string]string{},
		Query:      q,
		Flashes:    h.sessions.PopFlashes(c),
	})
}

// Logout clears the session's admin slot and redirects to the admin login.
func (h *AdminHandler) Logout(c echo.Context) error {
	if state := session.FromContext(c); state != nil {
		state.Admin = nil
		if err := h.sessions.Save(c.Request().Context(), state); err != nil {
			c.Logger().Errorf("save session: %v", err)
		}
	}
	return c.Redirect(http.StatusFound, "/admin/login")
}

func (h *AdminHandler) renderDashboard(c echo.Context, page dashboardPage) error {
	if page.Users == nil {
		users, err := h.admin.ListUsers(c.Request().Context())
		if err != nil {
			c.Logger().Errorf("list users: %v", err)
			page.Users = []model.User{}
			if page.Errors == nil {
				page.Errors = map[string]string{}
			}
			page.Errors["general"] = "Failed to load dashboard, please try again."
		} else {
			page.Users = users
		}
	}
	if page.Errors == nil {
		page.Errors = map[string]string{}
	}
	if page.EditErrors == nil {
		page.EditErrors = map[string]string{}
	}
	if page.Flashes == nil {
		page.Flashes = h.sessions.PopFlashes(c)
	}
	return c.Render(http.StatusOK, "admin_dashboard.html", page)
}

func (h *AdminHandler) flashAndRedirect(c echo.Context, kind, message string) error {
	state := h.sessions.Begin(c)
	state.PushFlash(kind, message)
	if err := h.sessions.Save(c.Request().Context(), state); err != nil {
		c.Logger().Errorf("save session: %v", err)
	}
	return c.Redirect(http.StatusFound, "/admin/dashboard")
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
