package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RedirectMiddleware maps the page names of the static viewer onto the
// service routes.
func RedirectMiddleware(basePath string) gin.HandlerFunc {
	redirects := map[string]string{
		"login.html":     "",
		"register.html":  "",
		"index.html":     "",
		"dashboard.html": "panel/",
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for from, to := range redirects {
			from, to = basePath+from, basePath+to
			if path == from || strings.HasPrefix(path, from+"?") {
				c.Redirect(http.StatusMovedPermanently, to)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
