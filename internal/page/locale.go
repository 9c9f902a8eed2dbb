package page

import (
	"time"

	"golang.org/x/text/language"
)

// supportedLocales pairs each matchable language with its short date layout.
// The first entry is the fallback.
var supportedLocales = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "1/2/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.German, "2.1.2006"},
	{language.French, "02/01/2006"},
	{language.Spanish, "2/1/2006"},
	{language.Italian, "2/1/2006"},
	{language.Dutch, "2-1-2006"},
	{language.Portuguese, "02/01/2006"},
	{language.Japanese, "2006/1/2"},
	{language.Chinese, "2006/1/2"},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(supportedLocales))
	for _, l := range supportedLocales {
		tags = append(tags, l.tag)
	}
	return language.NewMatcher(tags)
}()

// Localizer formats instants as locale date strings.
type Localizer struct {
	tag    language.Tag
	layout string
	zone   *time.Location
}

// NewLocalizer picks the best supported locale for an Accept-Language header value.
// A nil zone means UTC.
func NewLocalizer(acceptLanguage string, zone *time.Location) Localizer {
	if zone == nil {
		zone = time.UTC
	}
	idx := 0
	if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
		_, idx, _ = localeMatcher.Match(tags...)
	}
	l := supportedLocales[idx]
	return Localizer{tag: l.tag, layout: l.layout, zone: zone}
}

// Locale returns the BCP 47 tag in use.
func (l Localizer) Locale() string { return l.tag.String() }

// Date renders t as a short date in the localizer's zone. The zero time renders empty.
func (l Localizer) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	layout := l.layout
	if layout == "" {
		layout = supportedLocales[0].layout
	}
	zone := l.zone
	if zone == nil {
		zone = time.UTC
	}
	return t.In(zone).Format(layout)
}
