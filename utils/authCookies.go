package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names shared with the session guard middleware and the auth
// handlers; nothing else hardcodes them.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// SetAuthCookies writes both session cookies with lifetimes matching the
// token expiries.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	writeCookie(c, AccessTokenCookie, accessToken, AccessTokenExpiry)
	writeCookie(c, RefreshTokenCookie, refreshToken, RefreshTokenExpiry)
}

// ClearAuthCookies expires both session cookies.
func ClearAuthCookies(c *gin.Context) {
	writeCookie(c, AccessTokenCookie, "", 0)
	writeCookie(c, RefreshTokenCookie, "", 0)
}

func writeCookie(c *gin.Context, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if value == "" {
		maxAge = -1
	}
	// Secure is relaxed in debug mode so local dev works over plain HTTP.
	secure := gin.Mode() != gin.DebugMode
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}
