// Package auth implements GitHub OAuth2 login and JWT session cookies for
// the relay.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the name of the cookie carrying the signed session JWT.
const SessionCookieName = "session"

// sessionTTL is the lifetime of a freshly issued session.
const sessionTTL = 24 * time.Hour

// ErrInvalidSession is returned when a session cookie's JWT fails to parse
// or verify.
var ErrInvalidSession = errors.New("auth: invalid session")

// SessionClaims are the JWT claims carried by the session cookie. They never
// touch the client-side cryptographic core; they only gate write access to
// the relay.
type SessionClaims struct {
	PrimaryEmail string   `json:"primaryEmail"`
	Emails       []string `json:"emails"`
	jwt.RegisteredClaims
}

// JWTService issues and validates signed session tokens.
type JWTService struct {
	secret []byte
}

// NewJWTService builds a JWTService signing with the given HMAC secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// IssueSession returns a signed JWT for the given GitHub identity.
func (s *JWTService) IssueSession(primaryEmail string, emails []string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		PrimaryEmail: primaryEmail,
		Emails:       emails,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateSession parses and verifies a session token, returning its claims.
func (s *JWTService) ValidateSession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// SetSessionCookie attaches a signed session cookie to the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
