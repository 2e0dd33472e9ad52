// Package i18n selects the request locale and translates interface strings.
package i18n

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// ContextKeyLocale is the gin context key holding the selected locale.
const ContextKeyLocale = "locale"

// LocaleParam is the query parameter that switches the locale.
const LocaleParam = "ln"

var ErrNoLanguages = errors.New("no languages configured")

// Negotiator picks one of the supported locales for a request.
type Negotiator struct {
	supported []language.Tag
	byCode    map[string]language.Tag
	matcher   language.Matcher
}

// NewNegotiator builds a negotiator whose fallback is defaultLocale. The
// default is added to languages when missing.
func NewNegotiator(defaultLocale string, languages []string) (*Negotiator, error) {
	codes := make([]string, 0, len(languages)+1)
	if defaultLocale != "" {
		codes = append(codes, defaultLocale)
	}
	codes = append(codes, languages...)
	if len(codes) == 0 {
		return nil, ErrNoLanguages
	}

	n := &Negotiator{byCode: make(map[string]language.Tag)}
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", code, err)
		}
		key := tag.String()
		if _, seen := n.byCode[key]; seen {
			continue
		}
		n.byCode[key] = tag
		n.supported = append(n.supported, tag)
	}
	n.matcher = language.NewMatcher(n.supported)
	return n, nil
}

// Default returns the fallback locale.
func (n *Negotiator) Default() string {
	return n.supported[0].String()
}

// Languages returns the supported locales, default first.
func (n *Negotiator) Languages() []string {
	out := make([]string, len(n.supported))
	for i, tag := range n.supported {
		out[i] = tag.String()
	}
	return out
}

// Supported returns the canonical form of code when it is a supported locale.
func (n *Negotiator) Supported(code string) (string, bool) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", false
	}
	if _, ok := n.byCode[tag.String()]; ok {
		return tag.String(), true
	}
	return "", false
}

// Match picks the best supported locale for an Accept-Language header.
// Headers with no acceptable match yield the default.
func (n *Negotiator) Match(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return n.Default()
	}
	_, index, confidence := n.matcher.Match(parseAccept(acceptLanguage)...)
	if confidence == language.No {
		return n.Default()
	}
	return n.supported[index].String()
}

func parseAccept(header string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	return tags
}

// Middleware resolves the locale in order: ?ln= (remembered in the session),
// the session, Accept-Language and finally the default. sm may be nil.
func (n *Negotiator) Middleware(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyLocale, n.resolve(c, sm))
		c.Next()
	}
}

func (n *Negotiator) resolve(c *gin.Context, sm *SessionManager) string {
	if requested := c.Query(LocaleParam); requested != "" {
		if locale, ok := n.Supported(requested); ok {
			if sm != nil {
				sm.SetLocale(c.Request, locale)
			}
			return locale
		}
	}

	if sm != nil {
		if stored, ok := n.Supported(sm.GetLocale(c.Request)); ok {
			return stored
		}
	}

	return n.Match(c.GetHeader("Accept-Language"))
}

// Locale returns the locale chosen by the middleware, or an empty string.
func Locale(c *gin.Context) string {
	return c.GetString(ContextKeyLocale)
}
