package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that bypass authentication: infrastructure
// endpoints and the patient self-booking surface, which has no login.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
}

// publicPrefixes covers whole route groups that bypass authentication.
var publicPrefixes = []string{
	"/public/v1/",
}

// AuthSkipper reports whether a request should skip authentication.
func AuthSkipper(c echo.Context) bool {
	return IsPublicPath(c.Path())
}

// IsPublicPath reports whether the given path bypasses auth.
func IsPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
