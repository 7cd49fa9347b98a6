// Package auth handles sign-in (Google OAuth and admin password) and
// cookie-backed JWT sessions.
package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "pointage_session"

// Claims identifies a signed-in user. EmployeeID is empty for the admin
// fallback account, which has no employee record.
type Claims struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates HS256 session tokens.
type SessionManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewSessionManager(secret, issuer string, ttl time.Duration) *SessionManager {
	if issuer == "" {
		issuer = "pointage"
	}
	return &SessionManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// Issue signs a session token for the given user.
func (sm *SessionManager) Issue(email, name, employeeID string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("email required")
	}
	now := time.Now()
	claims := Claims{
		Email:      email,
		Name:       name,
		EmployeeID: employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.ttl)),
			Issuer:    sm.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sm.secret)
}

// Validate parses and verifies a session token.
func (sm *SessionManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// SetSessionCookie writes the session token as an HTTP-only cookie.
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sm.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
