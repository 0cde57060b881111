package controller

import (
	"github.com/otedola/cadastral/web/service"

	"github.com/gin-gonic/gin"
)

// APIController groups the JSON API under /panel/api.
type APIController struct {
	BaseController

	parcelController *ParcelController
}

func NewAPIController(g *gin.RouterGroup, auth *service.AuthService, parcels *service.ParcelService) *APIController {
	a := &APIController{BaseController: BaseController{authService: auth}}
	a.initRouter(g, parcels)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup, parcels *service.ParcelService) {
	api := g.Group("/panel/api")

	a.parcelController = NewParcelController(api.Group("/parcels"), &a.BaseController, parcels)
}
