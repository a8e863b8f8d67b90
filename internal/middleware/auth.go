package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/agenda-engine/internal/config"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
)

const ContextActor = "actor"

var errNoToken = errors.New("missing authorization header")

// OptionalAuth resolves the caller when a bearer token is present and lets
// anonymous requests through. A token that is present but invalid is
// rejected.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := actorFromRequest(c, cfg.JWTSecret)
		switch {
		case errors.Is(err, errNoToken):
			c.Set(ContextActor, booking.Anonymous())
		case err != nil:
			httperr.Unauthorized(c, "invalid_token", "Sessão inválida.")
			c.Abort()
			return
		default:
			c.Set(ContextActor, actor)
		}

		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := actorFromRequest(c, cfg.JWTSecret)
		if errors.Is(err, errNoToken) {
			httperr.Unauthorized(c, "missing_authorization_header", "Autenticação necessária.")
			c.Abort()
			return
		}
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Sessão inválida.")
			c.Abort()
			return
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// RequireStaff must run after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).IsStaff() {
			httperr.Forbidden(c, "forbidden", httperr.MessageFor("forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFrom returns the anonymous actor when no auth middleware ran.
func ActorFrom(c *gin.Context) booking.Actor {
	if v, ok := c.Get(ContextActor); ok {
		if actor, ok := v.(booking.Actor); ok {
			return actor
		}
	}
	return booking.Anonymous()
}

func actorFromRequest(c *gin.Context, secret string) (booking.Actor, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return booking.Actor{}, errNoToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return booking.Actor{}, errors.New("invalid authorization header")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return booking.Actor{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return booking.Actor{}, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return booking.Actor{}, errors.New("invalid token subject")
	}

	role := booking.Role(strings.ToLower(claimString(claims, "role")))
	switch role {
	case booking.RoleCustomer, booking.RoleStaff, booking.RoleAdmin:
	case booking.RoleAnonymous:
		role = booking.RoleCustomer
	default:
		return booking.Actor{}, errors.New("invalid token role")
	}

	userID := uint(sub)
	return booking.Actor{UserID: &userID, Role: role}, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
