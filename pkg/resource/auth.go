package resource

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/getdecider/decider/pkg/walk"
)

// bearerToken extracts the token from an Authorization: Bearer header,
// or "" when the scheme is absent or different.
func bearerToken(c walk.Context) string {
	auth := c.Req.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// BearerAuthorizer returns an IsAuthorized hook that accepts exactly the
// given static bearer token. Failures carry a Bearer challenge for the
// realm.
func BearerAuthorizer(token, realm string) Hook[Auth] {
	challenge := fmt.Sprintf("Bearer realm=%q", realm)
	return func(c walk.Context) (walk.Result[Auth], walk.Context) {
		got := bearerToken(c)
		if got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1 {
			return walk.Value(Authorized()), c
		}
		return walk.Value(Unauthorized(challenge)), c
	}
}

// JWTAuthorizer returns an IsAuthorized hook that validates an HMAC-signed
// bearer JWT. A non-empty issuer is enforced against the token's iss claim.
// Expiry and not-before are always enforced.
func JWTAuthorizer(key []byte, issuer, realm string) Hook[Auth] {
	challenge := fmt.Sprintf("Bearer realm=%q", realm)
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)
	return func(c walk.Context) (walk.Result[Auth], walk.Context) {
		raw := bearerToken(c)
		if raw == "" {
			return walk.Value(Unauthorized(challenge)), c
		}
		_, err := parser.Parse(raw, func(*jwt.Token) (any, error) { return key, nil })
		if err != nil {
			return walk.Value(Unauthorized(challenge)), c
		}
		return walk.Value(Authorized()), c
	}
}
