package session

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultCSRFCookie   = "maxrep_csrf"
	DefaultAccessCookie = "maxrep_access"
	CSRFHeader          = "x-csrf-token"
)

// TokenSource yields the forgery-protection token for the next mutating call.
type TokenSource interface {
	CSRFToken() (string, bool)
}

// CookieStore reads named cookies for the API origin out of a cookie jar.
// It keeps no state of its own; every call consults the jar.
type CookieStore struct {
	Jar        http.CookieJar
	BaseURL    *url.URL
	CSRFCookie string
}

func NewCookieStore(jar http.CookieJar, baseURL *url.URL) *CookieStore {
	return &CookieStore{Jar: jar, BaseURL: baseURL, CSRFCookie: DefaultCSRFCookie}
}

func (s *CookieStore) CSRFToken() (string, bool) {
	name := s.CSRFCookie
	if name == "" {
		name = DefaultCSRFCookie
	}
	return s.Cookie(name)
}

// Cookie returns the decoded value of the named cookie, if the jar holds one
// for the API origin.
func (s *CookieStore) Cookie(name string) (string, bool) {
	if s == nil || s.Jar == nil || s.BaseURL == nil {
		return "", false
	}
	for _, c := range s.Jar.Cookies(s.BaseURL) {
		if c.Name != name {
			continue
		}
		value := strings.TrimSpace(c.Value)
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		if value == "" {
			return "", false
		}
		return value, true
	}
	return "", false
}
