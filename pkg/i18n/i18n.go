// Package i18n localizes user-facing error messages. Bundled locales are
// embedded; extra files can be layered on with Load.
package i18n

import (
	"embed"
	"encoding/json"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var (
	mu          sync.RWMutex
	bundle      *i18n.Bundle
	defaultLang = language.English
)

// Init builds the bundle with the embedded en and id message files.
func Init() {
	mu.Lock()
	defer mu.Unlock()

	b := i18n.NewBundle(defaultLang)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, name := range []string{"locales/active.en.json", "locales/active.id.json"} {
		if _, err := b.LoadMessageFileFS(locales, name); err != nil {
			panic(err)
		}
	}
	bundle = b
}

// SetDefault changes the fallback language used when no tag matches.
func SetDefault(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return err
	}
	mu.Lock()
	defaultLang = tag
	mu.Unlock()
	return nil
}

// Load adds a message file from disk, overriding bundled translations.
func Load(path string) error {
	b := ensure()
	mu.Lock()
	defer mu.Unlock()
	_, err := b.LoadMessageFile(path)
	return err
}

// Localize renders messageID in the best match for langs (e.g. an Accept-Language
// header). Unknown ids fall back to the id itself.
func Localize(messageID string, data map[string]interface{}, langs ...string) string {
	b := ensure()

	mu.RLock()
	defer mu.RUnlock()

	langs = append(langs, defaultLang.String())
	msg, err := i18n.NewLocalizer(b, langs...).Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

func ensure() *i18n.Bundle {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		Init()
		mu.RLock()
		b = bundle
		mu.RUnlock()
	}
	return b
}
