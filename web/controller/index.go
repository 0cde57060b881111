package controller

import (
	"errors"
	"net/http"
	"text/template"

	"github.com/otedola/cadastral/logger"
	"github.com/otedola/cadastral/util/metrics"
	"github.com/otedola/cadastral/web/entity"
	"github.com/otedola/cadastral/web/service"
	"github.com/otedola/cadastral/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	ParcelId string `json:"parcelId" form:"parcelId"`
	Password string `json:"password" form:"password"`
}

// RegisterForm represents the registration request structure.
type RegisterForm struct {
	Name     string `json:"name" form:"name"`
	ParcelId string `json:"parcelId" form:"parcelId"`
	Password string `json:"password" form:"password"`
}

// IndexController handles the login, registration and logout routes.
type IndexController struct {
	BaseController

	userService   *service.UserService
	sessionMaxAge int
}

// NewIndexController creates a new IndexController and initializes its routes.
// Credential endpoints run behind limit.
func NewIndexController(g *gin.RouterGroup, auth *service.AuthService, users *service.UserService, sessionMaxAge int, limit gin.HandlerFunc) *IndexController {
	a := &IndexController{
		BaseController: BaseController{authService: auth},
		userService:    users,
		sessionMaxAge:  sessionMaxAge,
	}
	a.initRouter(g, limit)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup, limit gin.HandlerFunc) {
	g.GET("/", a.index)
	g.GET("/logout", a.logout)

	g.POST("/login", limit, a.login)
	g.POST("/register", limit, a.register)
}

// index sends a signed-in owner to the dashboard and tells anyone else to log in.
func (a *IndexController) index(c *gin.Context) {
	if a.authService.CurrentParcelId(session.Default(c)) != "" {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path")+"panel/")
		return
	}
	pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "login.loginAgain"))
}

func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "login.emptyFields"))
		return
	}

	session.SetMaxAge(c, a.sessionMaxAge*60)
	_, err := a.authService.Login(session.Default(c), form.ParcelId, form.Password)
	safeParcel := template.HTMLEscapeString(form.ParcelId)
	switch {
	case err == nil:
		jsonMsgObj(c, I18nWeb(c, "login.success"), entity.Redirect{Redirect: "panel/"}, nil)
	case errors.Is(err, service.ErrValidation):
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "login.emptyFields"))
	case errors.Is(err, service.ErrNotFound):
		logger.Warningf("login for unknown parcel %q, IP: %q", safeParcel, getRemoteIp(c))
		metrics.FailedLoginAttempts.WithLabelValues("not_found").Inc()
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "login.notFound"))
	case errors.Is(err, service.ErrInvalidCredentials):
		logger.Warningf("wrong password for parcel %q, IP: %q", safeParcel, getRemoteIp(c))
		metrics.FailedLoginAttempts.WithLabelValues("wrong_password").Inc()
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "login.wrongPassword"))
	default:
		jsonMsg(c, "", err)
	}
}

func (a *IndexController) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "register.emptyFields"))
		return
	}

	_, err := a.userService.Register(form.Name, form.ParcelId, form.Password)
	switch {
	case err == nil:
		metrics.Registrations.Inc()
		jsonMsgObj(c, I18nWeb(c, "register.success"), entity.Redirect{Redirect: c.GetString("base_path")}, nil)
	case errors.Is(err, service.ErrValidation):
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "register.emptyFields"))
	case errors.Is(err, service.ErrUnknownParcel):
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "register.unknownParcel"))
	case errors.Is(err, service.ErrDuplicateParcel):
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "register.duplicateParcel"))
	default:
		jsonMsg(c, "", err)
	}
}

// logout clears the session and returns to the login page.
func (a *IndexController) logout(c *gin.Context) {
	session.ExpireCookie(c)
	if err := a.authService.Logout(session.Default(c)); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
}
