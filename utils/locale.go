package utils

import (
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// Datetime layouts per language, matching what the mail templates expect.
// German renders "1. Mai 2020 22:00", English "May 1, 2020 22:00".
var datetimeLayouts = map[string]string{
	"en": "January 2, 2006 15:04",
	"de": "2. January 2006 15:04",
	"fr": "2 January 2006 15:04",
	"es": "2 January 2006 15:04",
}

var mondayLocales = map[string]monday.Locale{
	"en": monday.LocaleEnUS,
	"de": monday.LocaleDeDE,
	"fr": monday.LocaleFrFR,
	"es": monday.LocaleEsES,
}

var translations = map[string]map[string]string{
	"en": {
		"start_in_past": "Has to be in the future",
	},
	"de": {
		"start_in_past": "Muss in der Zukunft liegen",
	},
}

// FormatDateTime renders t in the given language's datetime format with
// localized month names. The caller converts t to the display timezone first.
func FormatDateTime(t time.Time, lang string) string {
	layout, ok := datetimeLayouts[lang]
	if !ok {
		layout = datetimeLayouts["en"]
	}
	locale, ok := mondayLocales[lang]
	if !ok {
		locale = monday.LocaleEnUS
	}
	return monday.Format(t, layout, locale)
}

// NormalizeLanguage matches a submitted language code ("de", "de-AT", ...)
// against the supported set and returns the canonical supported code, or the
// fallback when nothing matches.
func NormalizeLanguage(code string, supported []string, fallback string) string {
	tags := make([]language.Tag, 0, len(supported))
	codes := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, s)
	}
	if len(tags) == 0 {
		return fallback
	}

	requested, err := language.Parse(code)
	if err != nil {
		return fallback
	}
	_, index, confidence := language.NewMatcher(tags).Match(requested)
	if confidence == language.No {
		return fallback
	}
	return codes[index]
}

// Translate returns the message for key in the given language, falling back
// to English.
func Translate(lang, key string) string {
	if messages, ok := translations[lang]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	return translations["en"][key]
}
