package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// BearerExpiry inspects tok's claims (when it parses as a JWT) and reports
// its expiry time. Tokens that are not JWTs (opaque bearer tokens) or that
// carry no "exp" claim report ok=false, meaning "unknown expiry" rather
// than an error, since Bearer tokens are not required to be JWTs.
//
// This is informational only: the token's signature is not verified, and
// the engine does not call it when installing credentials on a client.
func BearerExpiry(tok string) (exp time.Time, ok bool) {
	parser := &jwt.Parser{SkipClaimsValidation: true}
	claims := jwt.MapClaims{}
	_, _, err := parser.ParseUnverified(tok, claims)
	if err != nil {
		return time.Time{}, false
	}
	expFloat, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(expFloat), 0), true
}

// BearerExpired reports whether tok's "exp" claim, if present, is in the
// past. Tokens with no readable expiry are treated as not expired.
func BearerExpired(tok string) bool {
	exp, ok := BearerExpiry(tok)
	if !ok {
		return false
	}
	return time.Now().After(exp)
}

var errNotJWT = errors.New("security: token is not a parseable JWT")
