package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Supported tags, parallel to supportedCodes. Order matters: the matcher
// prefers earlier entries on ties, so English stays the default.
var supportedTags = []language.Tag{
	language.English,
	language.German,
	language.Dutch,
	language.French,
	language.Spanish,
	language.Danish,
	language.Norwegian,
	language.Czech,
	language.Polish,
	language.Swedish,
}

var supportedCodes = []string{"en", "de", "nl", "fr", "es", "da", "no", "cs", "pl", "sv"}

var matcher = language.NewMatcher(supportedTags)

// DetectLanguage picks the best supported language for an Accept-Language
// header value. Empty or unparseable headers yield English.
func DetectLanguage(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return defaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return defaultLanguage
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return defaultLanguage
	}
	return supportedCodes[idx]
}
