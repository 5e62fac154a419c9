package session

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"userportal/internal/repository"
)

const stateKey = "session.state"

// FromContext returns the request's session state, or nil when the request is
// anonymous.
func FromContext(c echo.Context) *State {
	state, _ := c.Get(stateKey).(*State)
	return state
}

// Loader resolves the session cookie into a State stored on the echo context.
// Requests without a resolvable session proceed anonymously.
func (m *Manager) Loader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err == nil && cookie.Value != "" {
				state, err := m.Load(c.Request().Context(), cookie.Value)
				if err != nil {
					c.Logger().Errorf("session load: %v", err)
				}
				if state != nil {
					c.Set(stateKey, state)
				}
			}
			return next(c)
		}
	}
}

// Begin returns the request's session, creating a fresh one and setting its
// cookie when the request had none. The caller still saves the state.
func (m *Manager) Begin(c echo.Context) *State {
	if state := FromContext(c); state != nil {
		return state
	}
	state := m.NewState()
	c.Set(stateKey, state)
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    state.Token,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
	})
	return state
}

// PopFlashes drains the session's one-shot notices and persists the drained
// state, so each notice is shown exactly once.
func (m *Manager) PopFlashes(c echo.Context) []Flash {
	state := FromContext(c)
	if state == nil || len(state.Flashes) == 0 {
		return nil
	}
	flashes := state.Flashes
	state.Flashes = nil
	if err := m.Save(c.Request().Context(), state); err != nil {
		c.Logger().Errorf("clear flashes: %v", err)
	}
	return flashes
}

// Guard gates protected routes on session identity and re-validates that the
// referenced record still exists.
type Guard struct {
	manager *Manager
	users   repository.UserRepository
	admins  repository.AdminRepository
}

// NewGuard creates a guard backed by the session manager and the credential
// repositories.
func NewGuard(manager *Manager, users repository.UserRepository, admins repository.AdminRepository) *Guard {
	return &Guard{manager: manager, users: users, admins: admins}
}

// RequireUser admits only sessions holding a user identity whose record still
// exists. Stale identities are cleared and redirected to the login page with a
// one-shot notice.
func (g *Guard) RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := FromContext(c)
			if state == nil || state.User == nil {
				return c.Redirect(http.StatusFound, "/user/login")
			}

			_, err := g.users.FindByID(c.Request().Context(), state.User.ID)
			if err != nil {
				state.User = nil
				if repository.IsNotFound(err) {
					state.PushFlash("error", "Your account was deleted. Please register again.")
				} else {
					c.Logger().Errorf("auth check: %v", err)
					state.PushFlash("error", "Something went wrong, please login again.")
				}
				if err := g.manager.Save(c.Request().Context(), state); err != nil {
					c.Logger().Errorf("save session: %v", err)
				}
				return c.Redirect(http.StatusFound, "/user/login")
			}
			return next(c)
		}
	}
}

// RequireAdmin is the admin-surface counterpart of RequireUser.
func (g *Guard) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := FromContext(c)
			if state == nil || state.Admin == nil {
				return c.Redirect(http.StatusFound, "/admin/login")
			}

			_, err := g.admins.FindByID(c.Request().Context(), state.Admin.ID)
			if err != nil {
				state.Admin = nil
				if repository.IsNotFound(err) {
					state.PushFlash("error", "Your account was deleted. Please login again.")
				} else {
					c.Logger().Errorf("admin auth check: %v", err)
					state.PushFlash("error", "Something went wrong, please login again.")
				}
				if err := g.manager.Save(c.Request().Context(), state); err != nil {
					c.Logger().Errorf("save session: %v", err)
				}
				return c.Redirect(http.StatusFound, "/admin/login")
			}
			return next(c)
		}
	}
}

// RedirectIfUser sends an authenticated user away from the login and
// registration pages.
func (g *Guard) RedirectIfUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if state := FromContext(c); state != nil && state.User != nil {
				return c.Redirect(http.StatusFound, "/user/home")
			}
			return next(c)
		}
	}
}

// RedirectIfAdmin sends an authenticated admin away from the admin login page.
func (g *Guard) RedirectIfAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if state := FromContext(c); state != nil && state.Admin != nil {
				return c.Redirect(http.StatusFound, "/admin/dashboard")
			}
			return next(c)
		}
	}
}
