// Package session keeps the tab-scoped login state: which parcel's owner is
// signed in. Callers pass a Store handle explicitly so every flow can be
// exercised against an in-memory session in tests.
package session

import (
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	CookieName  = "cadastral"
	loginParcel = "LOGIN_PARCEL"
)

// Store is the subset of sessions.Session the login flows need.
type Store interface {
	Get(key any) any
	Set(key any, val any)
	Delete(key any)
	Clear()
	Save() error
}

// Middleware installs a signed cookie session on the engine.
func Middleware(secret []byte) gin.HandlerFunc {
	return MiddlewareWithStore(cookie.NewStore(secret))
}

// MiddlewareWithStore installs sessions kept in store.
func MiddlewareWithStore(store sessions.Store) gin.HandlerFunc {
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
	})
	return sessions.Sessions(CookieName, store)
}

// Default returns the request's session.
func Default(c *gin.Context) Store {
	return sessions.Default(c)
}

func SetLoginParcel(s Store, parcelId string) error {
	s.Set(loginParcel, parcelId)
	return s.Save()
}

// GetLoginParcel returns the signed-in parcel id, or "" when nobody is signed in.
func GetLoginParcel(s Store) string {
	if obj := s.Get(loginParcel); obj != nil {
		if pid, ok := obj.(string); ok {
			return pid
		}
	}
	return ""
}

func IsLogin(s Store) bool {
	return GetLoginParcel(s) != ""
}

// ClearSession drops all session values. Clearing an empty session is not an error.
func ClearSession(s Store) error {
	s.Clear()
	return s.Save()
}

// SetMaxAge sets the cookie lifetime in seconds. Zero keeps a browser-session cookie.
func SetMaxAge(c *gin.Context, maxAge int) {
	sessions.Default(c).Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
}

// ExpireCookie tells the browser to drop the session cookie.
func ExpireCookie(c *gin.Context) {
	sessions.Default(c).Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
}

// Memory is a Store held in process memory, one per browsing tab.
type Memory struct {
	mu     sync.Mutex
	values map[any]any
	saves  int
}

func NewMemory() *Memory {
	return &Memory{values: map[any]any{}}
}

func (m *Memory) Get(key any) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

func (m *Memory) Set(key any, val any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = val
}

func (m *Memory) Delete(key any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = map[any]any{}
}

func (m *Memory) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	return nil
}

// Saves reports how many times Save was called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
