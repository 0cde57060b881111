// Package controller provides the HTTP handlers of the cadastral registry:
// login and registration, the owner dashboard and the parcel API.
package controller

import (
	"net/http"

	"github.com/otedola/cadastral/web/locale"
	"github.com/otedola/cadastral/web/service"
	"github.com/otedola/cadastral/web/session"

	"github.com/gin-gonic/gin"
)

const loginParcelKey = "login_parcel"

// BaseController provides the session guard shared by the controllers.
type BaseController struct {
	authService *service.AuthService
}

// checkLogin lets the request through only with a signed-in parcel owner.
// AJAX callers get a 401, browsers are sent back to the login page.
func (a *BaseController) checkLogin(c *gin.Context) {
	pid, err := a.authService.RequireSession(session.Default(c))
	if err != nil {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "login.loginAgain"))
		} else {
			c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		}
		c.Abort()
		return
	}
	c.Set(loginParcelKey, pid)
	c.Next()
}

// I18nWeb localises a message for the request's language.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.I18n(c, name, params...)
}
