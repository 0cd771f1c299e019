package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sharehope/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

type accessClaims struct {
	userID int64
	role   types.UserRole
}

func (c accessClaims) isAdmin() bool {
	return c.role == types.UserRoleAdmin
}

// accessToken reads the bearer header first, then the session cookie.
func (s *Service) accessToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", false
		}
		return strings.TrimSpace(token), true
	}

	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return "", false
	}

	var token string
	if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &token); err != nil {
		s.logger.WithError(err).Debug("failed to decode session cookie")
		return "", false
	}

	return token, token != ""
}

func (s *Service) verifyAccessToken(raw string) (accessClaims, error) {
	if len(s.accessSecret) == 0 {
		return accessClaims{}, fmt.Errorf("access secret is not configured")
	}

	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), s.accessSecret),
		jwt.WithValidate(true),
	)
	if err != nil {
		return accessClaims{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return accessClaims{}, fmt.Errorf("access token has no subject")
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return accessClaims{}, fmt.Errorf("access token subject %q is not a user id", subject)
	}

	var role string
	if err := token.Get("role", &role); err != nil {
		return accessClaims{}, fmt.Errorf("failed to read role claim: %w", err)
	}

	return accessClaims{userID: userID, role: types.UserRole(role)}, nil
}
