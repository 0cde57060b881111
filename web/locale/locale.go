// Package locale localises the user-facing messages of the web surface.
package locale

import (
	"embed"
	"io/fs"
	"strings"

	"github.com/otedola/cadastral/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed translation/*
var i18nFS embed.FS

const localizerKey = "localizer"

var i18nBundle *i18n.Bundle

// InitLocalizer parses the embedded translations. English is the fallback.
func InitLocalizer() error {
	bundle := i18n.NewBundle(language.MustParse("en"))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	if err := parseTranslationFiles(i18nFS, bundle); err != nil {
		return err
	}
	i18nBundle = bundle
	return nil
}

// createTemplateData turns "Key==value" params into template data.
func createTemplateData(params []string) map[string]any {
	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, "==", 2)
		if len(parts) == 2 {
			templateData[parts[0]] = parts[1]
		}
	}
	return templateData
}

// Localize renders key for localizer, falling back to the key itself.
func Localize(localizer *i18n.Localizer, key string, params ...string) string {
	if localizer == nil {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Warningf("failed to localize %q: %v", key, err)
		return key
	}
	return msg
}

// NewLocalizer picks the best translation for the given language preferences.
func NewLocalizer(langs ...string) *i18n.Localizer {
	if i18nBundle == nil {
		if err := InitLocalizer(); err != nil {
			logger.Error("i18n init failed:", err)
			return nil
		}
	}
	return i18n.NewLocalizer(i18nBundle, langs...)
}

// LocalizerMiddleware chooses a localizer per request from the lang cookie or
// the Accept-Language header.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}
		c.Set(localizerKey, NewLocalizer(lang))
		c.Next()
	}
}

// I18n localises key for the current request.
func I18n(c *gin.Context, key string, params ...string) string {
	if v, ok := c.Get(localizerKey); ok {
		if l, ok := v.(*i18n.Localizer); ok {
			return Localize(l, key, params...)
		}
	}
	return Localize(NewLocalizer(), key, params...)
}

func parseTranslationFiles(fsys embed.FS, bundle *i18n.Bundle) error {
	return fs.WalkDir(fsys, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fsys.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = bundle.ParseMessageFileBytes(data, path)
		return err
	})
}
