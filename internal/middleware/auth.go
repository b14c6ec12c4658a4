package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TreasuryClaims are the JWT claims issued by the identity provider. Caps holds
// the actor's capability names (CREATOR, VERIFIER, APPROVER, TREASURER, AUDITOR).
type TreasuryClaims struct {
	Caps []string `json:"caps"`
	jwt.RegisteredClaims
}

// AuthConfig configures token validation.
type AuthConfig struct {
	Secret string
	Issuer string // optional; checked when set
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and stores the resulting domain.Actor in the request context.
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name, jwt.SigningMethodHS384.Name, jwt.SigningMethodHS512.Name})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &TreasuryClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.Secret), nil
		})
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		if !token.Valid || claims.Subject == "" {
			logger.Warn("Invalid token claims or token is not valid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		actor := domain.NewActor(claims.Subject)
		for _, raw := range claims.Caps {
			capability, ok := domain.ParseCapability(raw)
			if !ok {
				logger.Debug("Ignoring unknown capability", slog.String("capability", raw))
				continue
			}
			actor.Capabilities = append(actor.Capabilities, capability)
		}

		enrichedLogger := logger.With(slog.String("user_id", actor.ID))
		c.Set(string(actorKey), actor)
		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		SetLogger(c, enrichedLogger)

		c.Next()
	}
}

// IssueToken signs a token for actor. It is used by tests and by operators
// bootstrapping a deployment without an external identity provider.
func IssueToken(cfg AuthConfig, actor domain.Actor, ttl time.Duration) (string, error) {
	caps := make([]string, len(actor.Capabilities))
	for i, c := range actor.Capabilities {
		caps[i] = string(c)
	}
	now := time.Now()
	claims := TreasuryClaims{
		Caps: caps,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}
