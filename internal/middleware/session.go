package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionIDKey is the key under which the session ID lives in the request
// context. The session ID scopes all per-session storage keys (preferred
// currency, auto-detect flag).
const sessionIDKey = contextKey("sessionID")

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "csid"

const sessionTokenLifetime = 365 * 24 * time.Hour

// SessionMiddleware ensures every request carries a stable session ID. The
// ID travels in a signed JWT cookie; a missing or invalid cookie mints a
// fresh session rather than rejecting the request, since an anonymous
// visitor is still entitled to a resolved currency.
func SessionMiddleware(sessionSecret string, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		sessionID := ""
		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
			sessionID = parseSessionToken(cookie, sessionSecret)
			if sessionID == "" {
				logger.Warn("Invalid session cookie, minting a new session")
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			token, err := mintSessionToken(sessionID, sessionSecret)
			if err != nil {
				logger.Error("Failed to mint session token", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish session"})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, token, int(sessionTokenLifetime.Seconds()), "/", "", secureCookies, true)
		}

		enrichedLogger := logger.With(slog.String("session_id", sessionID))
		ctx := context.WithValue(c.Request.Context(), sessionIDKey, sessionID)
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// mintSessionToken signs a JWT whose subject is the session ID.
func mintSessionToken(sessionID, secret string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenLifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseSessionToken validates the cookie and extracts the session ID.
// Returns "" for anything invalid or expired.
func parseSessionToken(tokenString, secret string) string {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return ""
	}
	return claims.Subject
}

// GetSessionIDFromContext retrieves the session ID from a standard context.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	return sessionID, ok && sessionID != ""
}
