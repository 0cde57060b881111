package controller

import (
	"errors"
	"net/http"

	"github.com/otedola/cadastral/database/model"
	"github.com/otedola/cadastral/util/common"
	"github.com/otedola/cadastral/web/entity"
	"github.com/otedola/cadastral/web/service"

	"github.com/gin-gonic/gin"
)

// PanelController serves the signed-in owner's dashboard.
type PanelController struct {
	BaseController

	userService *service.UserService
}

func NewPanelController(g *gin.RouterGroup, auth *service.AuthService, users *service.UserService) *PanelController {
	a := &PanelController{
		BaseController: BaseController{authService: auth},
		userService:    users,
	}
	a.initRouter(g)
	return a
}

func (a *PanelController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/panel")
	g.Use(a.checkLogin)

	g.GET("/", a.index)
}

func (a *PanelController) index(c *gin.Context) {
	pid := c.GetString(loginParcelKey)
	profile, err := a.userService.GetProfile(pid)
	if errors.Is(err, service.ErrNotFound) {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "parcel.notFound", "ParcelID=="+pid))
		return
	}
	if err != nil {
		jsonMsg(c, "", err)
		return
	}
	parcel := profile.Parcel
	jsonObj(c, entity.Dashboard{
		Name:       profile.User.Name,
		ParcelID:   parcel.ParcelID,
		LandUse:    parcel.LandUse,
		Area:       common.FormatArea(parcel.Prop(model.PropArea)),
		Occupier:   model.PropString(parcel.Prop(model.PropOccupier)),
		Properties: parcel.Properties,
	}, nil)
}
