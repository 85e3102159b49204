package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	authCookie = "auth"
	signCookie = "sign"
)

// Cookies stores a JWT as two cookies: the readable header and payload in
// "auth" and the HttpOnly signature in "sign".
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

func NewCookies(j *JWT) (*Cookies, error) {
	domain, ok := os.LookupEnv("COOKIES_DOMAIN")
	if !ok {
		return nil, fmt.Errorf("COOKIES_DOMAIN env variable is not set")
	}

	secureStr, ok := os.LookupEnv("COOKIES_SECURE")
	if !ok {
		return nil, fmt.Errorf("COOKIES_SECURE env variable is not set")
	}

	sameSiteStr, ok := os.LookupEnv("COOKIES_SAMESITE")
	if !ok {
		return nil, fmt.Errorf("COOKIES_SAMESITE env variable is not set")
	}

	return NewCookiesWith(domain, secureStr != "0", parseSameSite(sameSiteStr), j), nil
}

func NewCookiesWith(domain string, secure bool, sameSite http.SameSite, j *JWT) *Cookies {
	return &Cookies{
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		jwt:      j,
	}
}

func (c *Cookies) cookie(name, value string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		HttpOnly: httpOnly,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{authCookie, signCookie} {
		cookie := c.cookie(name, "delete", name == signCookie)
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	expires := time.Now().Add(c.jwt.tokenLifetime)

	auth := c.cookie(authCookie, parts[0]+"."+parts[1], false)
	auth.Expires = expires
	http.SetCookie(w, auth)

	sign := c.cookie(signCookie, parts[2], true)
	sign.Expires = expires
	http.SetCookie(w, sign)

	return nil
}

func (c *Cookies) ParsePlayerClaims(r *http.Request) (*PlayerClaims, error) {
	auth, err := r.Cookie(authCookie)
	if err != nil {
		return nil, err
	}
	sign, err := r.Cookie(signCookie)
	if err != nil {
		return nil, err
	}
	token, err := c.jwt.ParseWithClaims(
		auth.Value+"."+sign.Value, &PlayerClaims{},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*PlayerClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
