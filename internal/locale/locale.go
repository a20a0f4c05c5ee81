// Package locale negotiates the applicant language and holds the
// localized strings shown by the wizard and the confirmation worker.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

var (
	supported = []language.Tag{language.English, language.Arabic}
	matcher   = language.NewMatcher(supported)
)

// Parse negotiates a Language from a BCP 47 tag or an Accept-Language
// style list ("ar-AE,en;q=0.8"). Anything unrecognized yields English.
func Parse(s string) Language {
	s = strings.TrimSpace(s)
	if s == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	if supported[idx] == language.Arabic {
		return Arabic
	}
	return English
}

// Valid reports whether l is one of the supported languages exactly.
func (l Language) Valid() bool {
	return l == English || l == Arabic
}

// Dir is the text direction used by the applicant UI.
func (l Language) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

func (l Language) String() string { return string(l) }
