package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"userportal/internal/handler"
	"userportal/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	sessions *session.Manager,
	guard *session.Guard,
	userHandler *handler.UserHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(noCache())
	e.Use(sessions.Loader())

	e.Static("/static", "public")

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/user/login")
	})

	user := e.Group("/user")
	user.GET("/login", userHandler.LoadLogin, guard.RedirectIfUser())
	user.GET("/register", userHandler.LoadRegister, guard.RedirectIfUser())
	user.POST("/register", userHandler.Register)
	user.POST("/login", userHandler.Login)
	user.GET("/home", userHandler.Home, guard.RequireUser())
	user.GET("/logout", userHandler.Logout)

	admin := e.Group("/admin")
	admin.GET("/login", adminHandler.LoadLogin, guard.RedirectIfAdmin())
	admin.POST("/login", adminHandler.Login)
	admin.GET("/dashboard", adminHandler.Dashboard, guard.RequireAdmin())
	admin.POST("/dashboard", adminHandler.AddUser, guard.RequireAdmin())
	admin.GET("/add", adminHandler.Dashboard, guard.RequireAdmin())
	admin.GET("/edit/:id", adminHandler.Dashboard, guard.RequireAdmin())
	admin.POST("/edit/:id", adminHandler.EditUser, guard.RequireAdmin())
	admin.DELETE("/delete/:id", adminHandler.DeleteUser, guard.RequireAdmin())
	admin.GET("/search", adminHandler.Search, guard.RequireAdmin())
	admin.GET("/logout", adminHandler.Logout, guard.RequireAdmin())
}

// noCache disables response caching so back-navigation after logout cannot
// replay an authenticated page.
func noCache() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
			h.Set("Surrogate-Control", "no-store")
			return next(c)
		}
	}
}
