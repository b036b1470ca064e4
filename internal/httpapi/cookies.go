package httpapi

import (
	"net/http"
	"time"
)

// Cookie names match what browser clients already store.
const (
	cookieAccessToken  = "accessToken"
	cookieRefreshToken = "refreshToken"
)

// CookiePolicy carries the attributes shared by both auth cookies. Both
// are HttpOnly and scoped to /; lifetimes follow the token lifetimes.
type CookiePolicy struct {
	Secure     bool
	SameSite   http.SameSite
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (p CookiePolicy) sameSite() http.SameSite {
	if p.SameSite == 0 {
		return http.SameSiteLaxMode
	}
	return p.SameSite
}

func (p CookiePolicy) set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.sameSite(),
	})
}

// clear expires a cookie immediately. MaxAge -1 plus an epoch Expires
// covers clients that honor only one of the two.
func (p CookiePolicy) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.sameSite(),
	})
}

func (p CookiePolicy) setAccess(w http.ResponseWriter, token string) {
	p.set(w, cookieAccessToken, token, p.AccessTTL)
}

func (p CookiePolicy) setRefresh(w http.ResponseWriter, token string) {
	p.set(w, cookieRefreshToken, token, p.RefreshTTL)
}

func (p CookiePolicy) clearAccess(w http.ResponseWriter)  { p.clear(w, cookieAccessToken) }
func (p CookiePolicy) clearRefresh(w http.ResponseWriter) { p.clear(w, cookieRefreshToken) }
