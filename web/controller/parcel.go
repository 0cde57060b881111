package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/otedola/cadastral/logger"
	"github.com/otedola/cadastral/util/metrics"
	"github.com/otedola/cadastral/web/service"

	"github.com/gin-gonic/gin"
)

// ParcelController exposes browsing, search, edits and exports of the parcel layer.
// Reads are public; edits need a signed-in owner.
type ParcelController struct {
	parcelService *service.ParcelService
}

func NewParcelController(g *gin.RouterGroup, base *BaseController, parcels *service.ParcelService) *ParcelController {
	a := &ParcelController{parcelService: parcels}
	a.initRouter(g, base)
	return a
}

func (a *ParcelController) initRouter(g *gin.RouterGroup, base *BaseController) {
	g.GET("/list", a.list)
	g.GET("/search", a.search)
	g.GET("/get/:id", a.get)
	g.GET("/landUses", a.landUses)
	g.GET("/export/csv", a.exportCSV)
	g.GET("/export/geojson", a.exportGeoJSON)

	g.POST("/update/:id", base.checkLogin, a.update)
}

// list returns the parcels of one land-use category, or all of them.
func (a *ParcelController) list(c *gin.Context) {
	category := c.DefaultQuery("landUse", service.AllLandUses)
	parcels, err := a.parcelService.FilterByLandUse(category)
	if err != nil {
		jsonMsg(c, "", err)
		return
	}
	jsonObj(c, service.FeatureCollection(parcels), nil)
}

func (a *ParcelController) search(c *gin.Context) {
	pid := strings.TrimSpace(c.Query("parcelId"))
	parcel, err := a.parcelService.SearchByParcelId(pid)
	switch {
	case err == nil:
		jsonObj(c, parcel.Feature(), nil)
	case errors.Is(err, service.ErrEmptyInput):
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "parcel.emptyInput"))
	case errors.Is(err, service.ErrNotFound):
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "parcel.notFound", "ParcelID=="+pid))
	default:
		jsonMsg(c, "", err)
	}
}

func (a *ParcelController) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "parcel.invalidId"))
		return
	}
	parcel, err := a.parcelService.GetParcel(id)
	if errors.Is(err, service.ErrNotFound) {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "parcel.notFound", "ParcelID=="+c.Param("id")))
		return
	}
	if err != nil {
		jsonMsg(c, "", err)
		return
	}
	jsonObj(c, parcel.Feature(), nil)
}

func (a *ParcelController) landUses(c *gin.Context) {
	uses, err := a.parcelService.LandUses()
	jsonObj(c, append([]string{service.AllLandUses}, uses...), err)
}

// update sets one attribute of a parcel from the field/value form pair.
func (a *ParcelController) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "parcel.invalidId"))
		return
	}
	field := c.PostForm("field")
	err = a.parcelService.ApplyEdit(id, field, c.PostForm("value"))
	switch {
	case err == nil:
		logger.Infof("parcel %d edited by %s", id, c.GetString(loginParcelKey))
		metrics.ParcelEdits.Inc()
		parcel, err := a.parcelService.GetParcel(id)
		if err != nil {
			jsonMsg(c, "", err)
			return
		}
		jsonMsgObj(c, I18nWeb(c, "parcel.updated", "Id=="+c.Param("id"), "Field=="+field), parcel.Feature(), nil)
	case errors.Is(err, service.ErrValidation):
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "parcel.missingField"))
	case errors.Is(err, service.ErrNotFound):
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "parcel.notFound", "ParcelID=="+c.Param("id")))
	default:
		jsonMsg(c, "", err)
	}
}

func (a *ParcelController) exportCSV(c *gin.Context) {
	parcels, err := a.parcelService.Snapshot()
	if err != nil {
		jsonMsg(c, "", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="parcels.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := service.ExportCSV(c.Writer, parcels); err != nil {
		logger.Warning("csv export failed:", err)
	}
}

func (a *ParcelController) exportGeoJSON(c *gin.Context) {
	parcels, err := a.parcelService.Snapshot()
	if err != nil {
		jsonMsg(c, "", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="parcels.geojson"`)
	c.Header("Content-Type", "application/geo+json")
	c.Status(http.StatusOK)
	if err := service.ExportGeoJSON(c.Writer, parcels); err != nil {
		logger.Warning("geojson export failed:", err)
	}
}
