package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionLifecycle(t *testing.T) {
	client, closeRedis, err := OpenRedis(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeRedis() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MiddlewareWithStore(NewRedisStore(client, []byte("redis-session-secret"))))
	r.GET("/login", func(c *gin.Context) {
		_ = SetLoginParcel(Default(c), "A1")
		c.Status(http.StatusOK)
	})
	r.GET("/who", func(c *gin.Context) {
		c.String(http.StatusOK, GetLoginParcel(Default(c)))
	})
	r.GET("/logout", func(c *gin.Context) {
		ExpireCookie(c)
		_ = ClearSession(Default(c))
		c.Status(http.StatusOK)
	})

	send := func(target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send("/login", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	keys, err := client.Keys(context.Background(), redisKeyPrefix+"*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	assert.Equal(t, "A1", send("/who", cookies).Body.String())
	assert.Equal(t, "", send("/who", nil).Body.String())

	forged := []*http.Cookie{{Name: CookieName, Value: "forged"}}
	assert.Equal(t, "", send("/who", forged).Body.String())

	w = send("/logout", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	keys, err = client.Keys(context.Background(), redisKeyPrefix+"*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, "", send("/who", cookies).Body.String())
}
