package controller

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/otedola/cadastral/database"
	"github.com/otedola/cadastral/database/model"
	"github.com/otedola/cadastral/util/crypto"
	"github.com/otedola/cadastral/web/entity"
	"github.com/otedola/cadastral/web/locale"
	"github.com/otedola/cadastral/web/service"
	"github.com/otedola/cadastral/web/session"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	engine  *gin.Engine
	parcels *service.ParcelService
	cookies map[string]*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenDB(filepath.Join(t.TempDir(), "cadastral.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	parcels := service.NewParcelService(db)
	users := service.NewUserService(db, parcels, crypto.Bcrypt{Cost: bcrypt.MinCost})
	auth := service.NewAuthService(users)
	_, err = parcels.SeedIfEmpty([]*model.Parcel{
		testParcel("A1", "Residential", 120),
		testParcel("B2", "Commercial", 300.5),
	})
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", "/")
	})
	engine.Use(session.Middleware([]byte("controller-test-secret")))
	engine.Use(locale.LocalizerMiddleware())

	g := engine.Group("/")
	NewIndexController(g, auth, users, 0, func(c *gin.Context) { c.Next() })
	NewPanelController(g, auth, users)
	NewAPIController(g, auth, parcels)

	return &testServer{
		engine:  engine,
		parcels: parcels,
		cookies: map[string]*http.Cookie{},
	}
}

func testParcel(pid, landUse string, area float64) *model.Parcel {
	return model.NewParcel(map[string]any{
		"ParcelID":   pid,
		"Land_Use":   landUse,
		"Area":       area,
		"OccupierID": "OCC-" + pid,
	}, []byte(`{"type":"Polygon","coordinates":[[[3.37,6.63],[3.38,6.63],[3.38,6.64],[3.37,6.63]]]}`))
}

// do sends a request carrying the cookies collected so far, like a browser tab.
func (s *testServer) do(method, target string, form url.Values, ajax bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(s.cookies, c.Name)
		} else {
			s.cookies[c.Name] = c
		}
	}
	return rec
}

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) entity.Msg {
	t.Helper()
	var m entity.Msg
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func (s *testServer) register(t *testing.T, name, pid, password string) entity.Msg {
	t.Helper()
	rec := s.do(http.MethodPost, "/register", url.Values{"name": {name}, "parcelId": {pid}, "password": {password}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeMsg(t, rec)
}

func (s *testServer) login(t *testing.T, pid, password string) entity.Msg {
	t.Helper()
	rec := s.do(http.MethodPost, "/login", url.Values{"parcelId": {pid}, "password": {password}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeMsg(t, rec)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
